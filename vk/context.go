package vk

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/forge"
)

// View is a typed window into a context built on this backend, for draw
// loops that need the raw Vulkan objects.
type View struct {
	Instance  *Instance
	Window    *Window
	Events    *EventSource
	Surface   *Surface
	Device    *Device
	Queues    *QueueGroup
	Pool      *CommandPool
	Pass      *RenderPass
	Pipeline  *Pipeline
	Swapchain *Swapchain

	FrameSemaphore *Semaphore
	FrameFence     *Fence
}

// Unwrap type-asserts the context's objects back to their vk types. It
// panics if the context was built on a different backend.
func Unwrap(ctx *forge.Context) View {
	return View{
		Instance:  ctx.Instance.(*Instance),
		Window:    ctx.Window.(*Window),
		Events:    ctx.Events.(*EventSource),
		Surface:   ctx.Surface.(*Surface),
		Device:    ctx.Device.(*Device),
		Queues:    ctx.Queues.(*QueueGroup),
		Pool:      ctx.CommandPool.(*CommandPool),
		Pass:      ctx.RenderPass.(*RenderPass),
		Pipeline:  ctx.Pipeline.(*Pipeline),
		Swapchain: ctx.Swapchain.(*Swapchain),

		FrameSemaphore: ctx.FrameSemaphore.(*Semaphore),
		FrameFence:     ctx.FrameFence.(*Fence),
	}
}

// Framebuffers returns the raw framebuffer handles of a context built on
// this backend, in swapchain image order.
func Framebuffers(ctx *forge.Context) []core1_0.Framebuffer {
	handles := make([]core1_0.Framebuffer, 0, len(ctx.Framebuffers))
	for _, framebuffer := range ctx.Framebuffers {
		handles = append(handles, framebuffer.(*Framebuffer).Handle)
	}
	return handles
}
