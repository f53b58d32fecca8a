// Package forge builds rendering contexts: it opens a presentation window,
// selects a graphics-capable device, negotiates a presentable surface format,
// and assembles the command pool, render pass, graphics pipeline, swapchain,
// framebuffers, and frame-synchronization primitives needed before any
// drawing can occur. The result is one immutable Context that owns every
// resource and releases all of them in reverse order on Destroy.
//
// Construction runs through a Builder against a Backend. The production
// Vulkan backend lives in the vk package; tests supply their own.
package forge

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Default window dimensions, used when WithDimensions is never called.
const (
	DefaultWidth  = 720
	DefaultHeight = 480
)

// CommandPoolCapacity is the fixed number of command buffers every context's
// pool is sized for.
const CommandPoolCapacity = 16

var (
	// ErrNoAdapter is returned by Build when the backend reports no physical
	// graphics device.
	ErrNoAdapter = errors.New("no graphics adapter available")

	// ErrNoQueueFamily is returned by Build when no queue family on the
	// chosen adapter supports both graphics work and presentation to the
	// surface.
	ErrNoQueueFamily = errors.New("no queue family supports graphics and presentation")

	// ErrBuilderConsumed is returned by a second call to Build.
	ErrBuilderConsumed = errors.New("builder already consumed by Build")
)

// Builder accumulates configuration and produces one Context. Configuration
// setters may be called in any order before Build; each one overwrites the
// previous value. The zero title and empty shader bytecode are accepted here;
// empty bytecode fails later, at shader-module creation.
type Builder struct {
	backend Backend

	title          string
	width, height  int
	vertexShader   []byte
	fragmentShader []byte

	built bool
}

// New returns a builder with default configuration: empty title, 720x480
// window, no shader bytecode.
func New(backend Backend) *Builder {
	return &Builder{
		backend: backend,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
}

// WithTitle sets the window and application title.
func (b *Builder) WithTitle(title string) *Builder {
	b.title = title
	return b
}

// WithDimensions sets the window client size.
func (b *Builder) WithDimensions(width, height int) *Builder {
	b.width = width
	b.height = height
	return b
}

// WithVertexShader sets the raw SPIR-V bytecode for the vertex stage.
func (b *Builder) WithVertexShader(code []byte) *Builder {
	b.vertexShader = code
	return b
}

// WithFragmentShader sets the raw SPIR-V bytecode for the fragment stage.
func (b *Builder) WithFragmentShader(code []byte) *Builder {
	b.fragmentShader = code
	return b
}

// Build runs every construction stage in fixed order and returns the
// finished context. The first failing resource creation aborts the build,
// releases everything acquired so far in reverse order, and returns a
// wrapped error; no partial context is ever returned. Build consumes the
// builder: a second call returns ErrBuilderConsumed.
func (b *Builder) Build() (*Context, error) {
	if b.built {
		return nil, ErrBuilderConsumed
	}
	b.built = true

	start := hrtime.Now()
	var resources releaseStack
	ctx, err := b.build(&resources)
	if err != nil {
		resources.unwind()
		return nil, err
	}

	Logger().Debug("rendering context ready", "elapsed", hrtime.Since(start))
	return ctx, nil
}

// The state types below thread stage results through the build. Each one
// embeds its predecessor, so a stage can only read fields some prior stage
// produced; reading an unset field does not compile.
type instanceState struct {
	instance Instance
}

type windowState struct {
	instanceState
	window Window
	events EventSource
}

type deviceState struct {
	windowState
	surface    Surface
	adapter    Adapter
	device     Device
	queues     QueueGroup
	caps       *khr_surface.SurfaceCapabilities
	format     core1_0.Format
	colorSpace khr_surface.ColorSpace
}

type poolState struct {
	deviceState
	pool CommandPool
}

type passState struct {
	poolState
	pass RenderPass
}

func (b *Builder) build(resources *releaseStack) (*Context, error) {
	inst, err := b.buildInstance(resources)
	if err != nil {
		return nil, err
	}

	win, err := b.buildWindow(resources, inst)
	if err != nil {
		return nil, err
	}

	dev, err := b.buildDevice(resources, win)
	if err != nil {
		return nil, err
	}

	pool, err := b.buildCommandPool(resources, dev)
	if err != nil {
		return nil, err
	}

	pass, err := b.buildRenderPass(resources, pool)
	if err != nil {
		return nil, err
	}

	return b.finish(resources, pass)
}

func (b *Builder) buildInstance(resources *releaseStack) (instanceState, error) {
	start := hrtime.Now()
	instance, err := b.backend.CreateInstance(b.title, common.CreateVersion(1, 0, 0))
	if err != nil {
		return instanceState{}, errors.Wrap(err, "creating instance")
	}
	resources.push(instance)

	Logger().Debug("instance created", "title", b.title, "elapsed", hrtime.Since(start))
	return instanceState{instance: instance}, nil
}

func (b *Builder) buildWindow(resources *releaseStack, st instanceState) (windowState, error) {
	start := hrtime.Now()
	window, events, err := b.backend.CreateWindow(b.title, b.width, b.height)
	if err != nil {
		return windowState{}, errors.Wrap(err, "creating window")
	}

	// The event source outlives the window: pushed first, destroyed last.
	resources.push(events)
	resources.push(window)

	Logger().Debug("window created", "width", b.width, "height", b.height, "elapsed", hrtime.Since(start))
	return windowState{instanceState: st, window: window, events: events}, nil
}

func (b *Builder) buildDevice(resources *releaseStack, st windowState) (deviceState, error) {
	start := hrtime.Now()
	surface, err := b.backend.CreateSurface(st.instance, st.window)
	if err != nil {
		return deviceState{}, errors.Wrap(err, "creating surface")
	}
	resources.push(surface)

	adapters, err := b.backend.EnumerateAdapters(st.instance)
	if err != nil {
		return deviceState{}, errors.Wrap(err, "enumerating adapters")
	}
	if len(adapters) == 0 {
		return deviceState{}, ErrNoAdapter
	}
	adapter := adapters[0]

	family, err := findPresentableFamily(adapter, surface)
	if err != nil {
		return deviceState{}, err
	}

	device, queues, err := b.backend.OpenDevice(adapter, family)
	if err != nil {
		return deviceState{}, errors.Wrap(err, "opening device")
	}
	resources.push(device)

	caps, err := b.backend.SurfaceCapabilities(adapter, surface)
	if err != nil {
		return deviceState{}, errors.Wrap(err, "querying surface capabilities")
	}

	formats, err := b.backend.SurfaceFormats(adapter, surface)
	if err != nil {
		return deviceState{}, errors.Wrap(err, "querying surface formats")
	}
	format, colorSpace := ChooseSurfaceFormat(formats)

	Logger().Debug("device opened",
		"queueFamily", family.Index(),
		"format", format,
		"elapsed", hrtime.Since(start))
	return deviceState{
		windowState: st,
		surface:     surface,
		adapter:     adapter,
		device:      device,
		queues:      queues,
		caps:        caps,
		format:      format,
		colorSpace:  colorSpace,
	}, nil
}

// findPresentableFamily returns the first queue family able to run graphics
// work and present to the surface. Families are considered in driver order;
// adapters are not scored.
func findPresentableFamily(adapter Adapter, surface Surface) (QueueFamily, error) {
	for _, family := range adapter.QueueFamilies() {
		if !family.SupportsGraphics() {
			continue
		}

		supported, err := family.SupportsPresent(surface)
		if err != nil {
			return nil, errors.Wrap(err, "querying presentation support")
		}
		if supported {
			return family, nil
		}
	}
	return nil, ErrNoQueueFamily
}

func (b *Builder) buildCommandPool(resources *releaseStack, st deviceState) (poolState, error) {
	pool, err := b.backend.CreateCommandPool(st.device, st.queues, CommandPoolCapacity)
	if err != nil {
		return poolState{}, errors.Wrap(err, "creating command pool")
	}
	resources.push(pool)

	Logger().Debug("command pool created", "capacity", pool.Capacity())
	return poolState{deviceState: st, pool: pool}, nil
}

func (b *Builder) buildRenderPass(resources *releaseStack, st poolState) (passState, error) {
	pass, err := b.backend.CreateRenderPass(st.device, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         st.format,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask: core1_0.PipelineStageColorAttachmentOutput,
				DstStageMask: core1_0.PipelineStageColorAttachmentOutput,

				SrcAccessMask: 0,
				DstAccessMask: core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	if err != nil {
		return passState{}, errors.Wrap(err, "creating render pass")
	}
	resources.push(pass)

	return passState{poolState: st, pass: pass}, nil
}

// finish assembles everything that depends on the render pass: pipeline
// layout, shader modules, the graphics pipeline, the swapchain and its
// backbuffer resources, and the frame synchronization pair.
func (b *Builder) finish(resources *releaseStack, st passState) (*Context, error) {
	start := hrtime.Now()
	layout, err := b.backend.CreatePipelineLayout(st.device)
	if err != nil {
		return nil, errors.Wrap(err, "creating pipeline layout")
	}
	resources.push(layout)

	// The swapchain description is derived up front; its extent sizes the
	// pipeline's static viewport.
	config := SwapchainConfigFromCaps(st.caps, st.format, st.colorSpace, b.width, b.height)

	pipeline, err := b.buildPipeline(st, layout, config.Extent)
	if err != nil {
		return nil, err
	}
	resources.push(pipeline)

	swapchain, backbuffer, err := b.backend.CreateSwapchain(st.device, st.surface, config)
	if err != nil {
		return nil, errors.Wrap(err, "creating swapchain")
	}
	resources.push(swapchain)
	Logger().Debug("swapchain created",
		"width", config.Extent.Width,
		"height", config.Extent.Height,
		"minImages", config.MinImageCount)

	views, framebuffers, err := b.buildFramebuffers(resources, st, backbuffer, config.Extent)
	if err != nil {
		return nil, err
	}

	semaphore, err := b.backend.CreateSemaphore(st.device)
	if err != nil {
		return nil, errors.Wrap(err, "creating frame semaphore")
	}
	resources.push(semaphore)

	fence, err := b.backend.CreateFence(st.device, false)
	if err != nil {
		return nil, errors.Wrap(err, "creating frame fence")
	}
	resources.push(fence)

	Logger().Debug("context finalized", "framebuffers", len(framebuffers), "elapsed", hrtime.Since(start))
	return &Context{
		Instance:       st.instance,
		Window:         st.window,
		Events:         st.events,
		Surface:        st.surface,
		Adapter:        st.adapter,
		Device:         st.device,
		Queues:         st.queues,
		CommandPool:    st.pool,
		RenderPass:     st.pass,
		PipelineLayout: layout,
		Pipeline:       pipeline,
		Swapchain:      swapchain,
		ImageViews:     views,
		Framebuffers:   framebuffers,
		FrameSemaphore: semaphore,
		FrameFence:     fence,
		Format:         st.format,
		Extent:         config.Extent,
		resources:      *resources,
	}, nil
}

// buildPipeline compiles both shader modules and assembles the one fixed
// graphics pipeline. The modules are only needed until the pipeline exists;
// they are destroyed on the way out of this function, on failure paths too.
func (b *Builder) buildPipeline(st passState, layout PipelineLayout, extent core1_0.Extent2D) (Pipeline, error) {
	vert, err := b.backend.CreateShaderModule(st.device, b.vertexShader)
	if err != nil {
		return nil, errors.Wrap(err, "creating vertex shader module")
	}
	defer vert.Destroy()

	frag, err := b.backend.CreateShaderModule(st.device, b.fragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "creating fragment shader module")
	}
	defer frag.Destroy()

	pipeline, err := b.backend.CreatePipeline(st.device, PipelineConfig{
		VertexShader:   vert,
		FragmentShader: frag,
		Layout:         layout,
		Pass:           st.pass,
		Subpass:        0,

		Topology:    core1_0.PrimitiveTopologyTriangleList,
		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeNone,
		FrontFace:   core1_0.FrontFaceCounterClockwise,
		Blend: core1_0.PipelineColorBlendAttachmentState{
			BlendEnabled: true,

			SrcColorBlendFactor: core1_0.BlendFactorSrcAlpha,
			DstColorBlendFactor: core1_0.BlendFactorOneMinusSrcAlpha,
			ColorBlendOp:        core1_0.BlendOpAdd,

			SrcAlphaBlendFactor: core1_0.BlendFactorOne,
			DstAlphaBlendFactor: core1_0.BlendFactorZero,
			AlphaBlendOp:        core1_0.BlendOpAdd,

			ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen |
				core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
		},
		Extent: extent,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating graphics pipeline")
	}
	return pipeline, nil
}

// buildFramebuffers branches on the backbuffer variant: raw images get one
// 2D color view and one framebuffer each; prebuilt framebuffers are adopted
// as-is with no views.
func (b *Builder) buildFramebuffers(resources *releaseStack, st passState, backbuffer Backbuffer, extent core1_0.Extent2D) ([]ImageView, []Framebuffer, error) {
	if prebuilt, ok := backbuffer.Framebuffers(); ok {
		for _, framebuffer := range prebuilt {
			resources.push(framebuffer)
		}
		return nil, prebuilt, nil
	}

	images, _ := backbuffer.Images()
	views := make([]ImageView, 0, len(images))
	for _, image := range images {
		view, err := b.backend.CreateImageView(st.device, image, st.format)
		if err != nil {
			return nil, nil, errors.Wrap(err, "creating image view")
		}
		resources.push(view)
		views = append(views, view)
	}

	framebuffers := make([]Framebuffer, 0, len(views))
	for _, view := range views {
		framebuffer, err := b.backend.CreateFramebuffer(st.device, st.pass, view, extent)
		if err != nil {
			return nil, nil, errors.Wrap(err, "creating framebuffer")
		}
		resources.push(framebuffer)
		framebuffers = append(framebuffers, framebuffer)
	}

	return views, framebuffers, nil
}
