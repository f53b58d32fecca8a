package forge

import (
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// Destroyer is the interface that wraps the Destroy method. Backend resources
// may hold memory or driver objects that are not managed by GC, so Destroy
// must be called explicitly to release them. Destroying a resource more than
// once is a backend-defined error; forge itself destroys each resource
// exactly once.
type Destroyer interface {
	Destroy()
}

// Instance is the root backend object. It owns every other resource created
// through the Backend that produced it and must be destroyed last.
type Instance interface {
	Destroyer
}

// Window is an OS window capable of presentation.
type Window interface {
	Destroyer
}

// EventSource is the handle used to poll OS events for a Window. It is
// created together with the window and destroyed after it.
type EventSource interface {
	Destroyer
}

// Surface is the presentable drawing target bound to a window.
type Surface interface {
	Destroyer
}

// Adapter is a physical graphics device. Adapters are enumerated, not
// created, and have no Destroy.
type Adapter interface {
	// QueueFamilies returns the adapter's queue families in the order the
	// driver reports them.
	QueueFamilies() []QueueFamily
}

// QueueFamily describes one queue family of an Adapter.
type QueueFamily interface {
	Index() int
	SupportsGraphics() bool
	SupportsPresent(surface Surface) (bool, error)
}

// Device is a logical device opened on an Adapter.
type Device interface {
	Destroyer
}

// QueueGroup holds the queues opened with a Device, all from one family.
type QueueGroup interface {
	FamilyIndex() int
}

// CommandPool allocates command buffers for the queue family it was created
// on. Capacity reports the fixed number of buffers the pool was sized for.
type CommandPool interface {
	Destroyer
	Capacity() int
}

// RenderPass describes attachments and subpasses used during drawing.
type RenderPass interface {
	Destroyer
}

// PipelineLayout describes the descriptor and push-constant interface of a
// pipeline.
type PipelineLayout interface {
	Destroyer
}

// ShaderModule is compiled shader bytecode registered with a device.
type ShaderModule interface {
	Destroyer
}

// Pipeline is a complete graphics pipeline.
type Pipeline interface {
	Destroyer
}

// Swapchain is the set of rotating presentable images backing a surface.
type Swapchain interface {
	Destroyer
}

// Image is a swapchain backbuffer image. Images are owned by their swapchain
// and are not individually destroyable.
type Image interface{}

// ImageView is a typed view over an Image.
type ImageView interface {
	Destroyer
}

// Framebuffer binds image views to a render pass's attachments.
type Framebuffer interface {
	Destroyer
}

// Semaphore is a device-side synchronization primitive.
type Semaphore interface {
	Destroyer
}

// Fence is a host-visible synchronization primitive.
type Fence interface {
	Destroyer
}

// PipelineConfig carries everything a backend needs to build the one fixed
// graphics pipeline. The fixed-function choices are made by the builder; a
// backend submits them to the driver unmodified.
type PipelineConfig struct {
	VertexShader   ShaderModule
	FragmentShader ShaderModule
	Layout         PipelineLayout
	Pass           RenderPass
	Subpass        int

	Topology    core1_0.PrimitiveTopology
	PolygonMode core1_0.PolygonMode
	CullMode    core1_0.CullModeFlags
	FrontFace   core1_0.FrontFace
	Blend       core1_0.PipelineColorBlendAttachmentState

	// Extent sizes the static viewport and scissor.
	Extent core1_0.Extent2D
}

// SwapchainConfig is the swapchain description derived from surface
// capabilities. See SwapchainConfigFromCaps.
type SwapchainConfig struct {
	MinImageCount int

	Format     core1_0.Format
	ColorSpace khr_surface.ColorSpace
	Extent     core1_0.Extent2D

	Transform      khr_surface.SurfaceTransformFlags
	CompositeAlpha khr_surface.CompositeAlphaFlags
	PresentMode    khr_surface.PresentMode
}

// Backend creates the driver resources the builder assembles into a Context.
// The production implementation lives in the vk package; tests substitute
// their own.
//
// Descriptions are passed as vkngwrapper value types so that the construction
// logic, not the backend, owns every semantic choice. Handles returned by one
// Backend must only be passed back to the same Backend.
type Backend interface {
	// CreateInstance creates the root backend object, tagged with the
	// application name and version.
	CreateInstance(appName string, appVersion common.Version) (Instance, error)

	// CreateWindow creates the event source and an OS window with the given
	// title and client size. The event source is created first and outlives
	// the window.
	CreateWindow(title string, width, height int) (Window, EventSource, error)

	// CreateSurface binds a presentable surface to the window.
	CreateSurface(instance Instance, window Window) (Surface, error)

	// EnumerateAdapters lists the physical devices available to the instance
	// in driver order.
	EnumerateAdapters(instance Instance) ([]Adapter, error)

	// OpenDevice opens a logical device on the adapter with exactly one
	// queue from the given family.
	OpenDevice(adapter Adapter, family QueueFamily) (Device, QueueGroup, error)

	// SurfaceCapabilities queries the surface capabilities of the adapter.
	SurfaceCapabilities(adapter Adapter, surface Surface) (*khr_surface.SurfaceCapabilities, error)

	// SurfaceFormats returns the surface formats the adapter can present. A
	// nil or empty slice means the surface reports no enumerable format
	// list.
	SurfaceFormats(adapter Adapter, surface Surface) ([]khr_surface.SurfaceFormat, error)

	// CreateCommandPool creates a command pool on the queue group's family,
	// sized for capacity buffers, with no creation flags.
	CreateCommandPool(device Device, queues QueueGroup, capacity int) (CommandPool, error)

	// CreateRenderPass creates a render pass from the full description.
	CreateRenderPass(device Device, info core1_0.RenderPassCreateInfo) (RenderPass, error)

	// CreatePipelineLayout creates a pipeline layout with no descriptor set
	// layouts and no push-constant ranges.
	CreatePipelineLayout(device Device) (PipelineLayout, error)

	// CreateShaderModule registers raw SPIR-V bytecode with the device. The
	// bytecode is opaque to forge; empty or malformed code fails here.
	CreateShaderModule(device Device, code []byte) (ShaderModule, error)

	// CreatePipeline builds the graphics pipeline described by config.
	CreatePipeline(device Device, config PipelineConfig) (Pipeline, error)

	// CreateSwapchain creates the presentation chain and reports its
	// backbuffer: either raw images, or framebuffers the backend prebuilt.
	CreateSwapchain(device Device, surface Surface, config SwapchainConfig) (Swapchain, Backbuffer, error)

	// CreateImageView creates a 2D color view covering the full image.
	CreateImageView(device Device, image Image, format core1_0.Format) (ImageView, error)

	// CreateFramebuffer binds one view to the render pass at the given
	// extent with a single layer.
	CreateFramebuffer(device Device, pass RenderPass, view ImageView, extent core1_0.Extent2D) (Framebuffer, error)

	// CreateSemaphore creates a semaphore.
	CreateSemaphore(device Device) (Semaphore, error)

	// CreateFence creates a fence, signaled or not.
	CreateFence(device Device, signaled bool) (Fence, error)
}
