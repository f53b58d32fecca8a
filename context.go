package forge

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// Context is the finished, fully-initialized bundle of GPU and window
// resources, produced exactly once by Builder.Build. Every handle field is
// populated on a successful build; none are replaced in place afterwards.
// Resizing or reconfiguring means destroying the context and building a new
// one.
//
// The handles are opaque to forge. Code that needs the underlying driver
// objects goes through the backend package that produced them, such as
// vk.Unwrap.
type Context struct {
	Instance       Instance
	Window         Window
	Events         EventSource
	Surface        Surface
	Adapter        Adapter
	Device         Device
	Queues         QueueGroup
	CommandPool    CommandPool
	RenderPass     RenderPass
	PipelineLayout PipelineLayout
	Pipeline       Pipeline
	Swapchain      Swapchain

	// ImageViews holds one 2D color view per backbuffer image. It is empty
	// when the backend supplied prebuilt framebuffers, in which case
	// Framebuffers holds at least one entry.
	ImageViews   []ImageView
	Framebuffers []Framebuffer

	// FrameSemaphore and FrameFence gate a single in-flight frame: the
	// semaphore is signaled on image acquisition, the fence on submission
	// completion. Both start unsignaled.
	FrameSemaphore Semaphore
	FrameFence     Fence

	// Format and Extent record the negotiated surface format and swapchain
	// extent for draw-loop and rebuild code.
	Format core1_0.Format
	Extent core1_0.Extent2D

	resources releaseStack
	destroyed bool
}

// Destroy releases every resource the context owns, in reverse order of
// acquisition, ending with the instance. The context must not be used
// afterwards. Destroy is idempotent; the caller is responsible for draining
// any device work that still references these resources first.
func (c *Context) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.resources.unwind()
}

// releaseStack records acquired resources in construction order. The same
// stack serves both exit paths: a failed build unwinds it immediately, a
// successful build hands it to the Context for Destroy.
type releaseStack struct {
	owned []Destroyer
}

func (s *releaseStack) push(d Destroyer) {
	s.owned = append(s.owned, d)
}

// unwind destroys everything on the stack, last acquired first.
func (s *releaseStack) unwind() {
	for i := len(s.owned) - 1; i >= 0; i-- {
		s.owned[i].Destroy()
	}
	s.owned = nil
}
