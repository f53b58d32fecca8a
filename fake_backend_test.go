package forge

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// fakeBackend produces inert handles and records every creation call and
// every destruction in order. Knobs fail individual stages or change what
// the fake driver reports.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	destroyed []string

	failAt     string // creation call that should fail
	noAdapters bool
	families   []fakeFamily
	caps       khr_surface.SurfaceCapabilities
	formats    []khr_surface.SurfaceFormat
	imageCount int
	prebuilt   int // when > 0, the swapchain reports prebuilt framebuffers

	capturedTitle     string
	capturedWidth     int
	capturedHeight    int
	capturedFamily    int
	capturedCapacity  int
	capturedPass      core1_0.RenderPassCreateInfo
	capturedShaders   [][]byte
	capturedPipeline  PipelineConfig
	capturedSwapchain SwapchainConfig
	capturedSignaled  []bool

	viewCount int
	fbCount   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		families: []fakeFamily{{index: 0, graphics: true, present: true}},
		caps: khr_surface.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  core1_0.Extent2D{Width: 720, Height: 480},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},

			CurrentTransform: khr_surface.TransformIdentity,
		},
		formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		imageCount: 3,
	}
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)
	if f.failAt == name {
		return errors.Errorf("%s creation failed", name)
	}
	return nil
}

func (f *fakeBackend) handle(name string) *fakeHandle {
	return &fakeHandle{backend: f, name: name}
}

type fakeHandle struct {
	backend *fakeBackend
	name    string
}

func (h *fakeHandle) Destroy() {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.backend.destroyed = append(h.backend.destroyed, h.name)
}

type fakeAdapter struct {
	backend *fakeBackend
}

func (a *fakeAdapter) QueueFamilies() []QueueFamily {
	families := make([]QueueFamily, 0, len(a.backend.families))
	for i := range a.backend.families {
		families = append(families, &a.backend.families[i])
	}
	return families
}

type fakeFamily struct {
	index    int
	graphics bool
	present  bool
}

func (f *fakeFamily) Index() int {
	return f.index
}

func (f *fakeFamily) SupportsGraphics() bool {
	return f.graphics
}

func (f *fakeFamily) SupportsPresent(surface Surface) (bool, error) {
	return f.present, nil
}

type fakeQueueGroup struct {
	family int
}

func (g *fakeQueueGroup) FamilyIndex() int {
	return g.family
}

type fakePool struct {
	*fakeHandle
	capacity int
}

func (p *fakePool) Capacity() int {
	return p.capacity
}

type fakeImage struct {
	index int
}

func (f *fakeBackend) CreateInstance(appName string, appVersion common.Version) (Instance, error) {
	f.capturedTitle = appName
	if err := f.record("instance"); err != nil {
		return nil, err
	}
	return f.handle("instance"), nil
}

func (f *fakeBackend) CreateWindow(title string, width, height int) (Window, EventSource, error) {
	f.capturedWidth = width
	f.capturedHeight = height
	if err := f.record("window"); err != nil {
		return nil, nil, err
	}
	return f.handle("window"), f.handle("events"), nil
}

func (f *fakeBackend) CreateSurface(instance Instance, window Window) (Surface, error) {
	if err := f.record("surface"); err != nil {
		return nil, err
	}
	return f.handle("surface"), nil
}

func (f *fakeBackend) EnumerateAdapters(instance Instance) ([]Adapter, error) {
	if err := f.record("adapters"); err != nil {
		return nil, err
	}
	if f.noAdapters {
		return nil, nil
	}
	return []Adapter{&fakeAdapter{backend: f}}, nil
}

func (f *fakeBackend) OpenDevice(adapter Adapter, family QueueFamily) (Device, QueueGroup, error) {
	f.capturedFamily = family.Index()
	if err := f.record("device"); err != nil {
		return nil, nil, err
	}
	return f.handle("device"), &fakeQueueGroup{family: family.Index()}, nil
}

func (f *fakeBackend) SurfaceCapabilities(adapter Adapter, surface Surface) (*khr_surface.SurfaceCapabilities, error) {
	if err := f.record("capabilities"); err != nil {
		return nil, err
	}
	caps := f.caps
	return &caps, nil
}

func (f *fakeBackend) SurfaceFormats(adapter Adapter, surface Surface) ([]khr_surface.SurfaceFormat, error) {
	if err := f.record("formats"); err != nil {
		return nil, err
	}
	return f.formats, nil
}

func (f *fakeBackend) CreateCommandPool(device Device, queues QueueGroup, capacity int) (CommandPool, error) {
	f.capturedCapacity = capacity
	if err := f.record("commandPool"); err != nil {
		return nil, err
	}
	return &fakePool{fakeHandle: f.handle("commandPool"), capacity: capacity}, nil
}

func (f *fakeBackend) CreateRenderPass(device Device, info core1_0.RenderPassCreateInfo) (RenderPass, error) {
	f.capturedPass = info
	if err := f.record("renderPass"); err != nil {
		return nil, err
	}
	return f.handle("renderPass"), nil
}

func (f *fakeBackend) CreatePipelineLayout(device Device) (PipelineLayout, error) {
	if err := f.record("pipelineLayout"); err != nil {
		return nil, err
	}
	return f.handle("pipelineLayout"), nil
}

func (f *fakeBackend) CreateShaderModule(device Device, code []byte) (ShaderModule, error) {
	f.capturedShaders = append(f.capturedShaders, code)

	// First module requested is always the vertex stage.
	name := "vertexShader"
	if len(f.capturedShaders) > 1 {
		name = "fragmentShader"
	}
	if err := f.record(name); err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, errors.New("empty shader bytecode")
	}
	return f.handle(name), nil
}

func (f *fakeBackend) CreatePipeline(device Device, config PipelineConfig) (Pipeline, error) {
	f.capturedPipeline = config
	if err := f.record("pipeline"); err != nil {
		return nil, err
	}
	return f.handle("pipeline"), nil
}

func (f *fakeBackend) CreateSwapchain(device Device, surface Surface, config SwapchainConfig) (Swapchain, Backbuffer, error) {
	f.capturedSwapchain = config
	if err := f.record("swapchain"); err != nil {
		return nil, Backbuffer{}, err
	}

	if f.prebuilt > 0 {
		framebuffers := make([]Framebuffer, 0, f.prebuilt)
		for i := 0; i < f.prebuilt; i++ {
			framebuffers = append(framebuffers, f.handle(fmt.Sprintf("prebuiltFramebuffer%d", i)))
		}
		return f.handle("swapchain"), BackbufferFramebuffers(framebuffers), nil
	}

	images := make([]Image, 0, f.imageCount)
	for i := 0; i < f.imageCount; i++ {
		images = append(images, fakeImage{index: i})
	}
	return f.handle("swapchain"), BackbufferImages(images), nil
}

func (f *fakeBackend) CreateImageView(device Device, image Image, format core1_0.Format) (ImageView, error) {
	if err := f.record("imageView"); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("imageView%d", f.viewCount)
	f.viewCount++
	return f.handle(name), nil
}

func (f *fakeBackend) CreateFramebuffer(device Device, pass RenderPass, view ImageView, extent core1_0.Extent2D) (Framebuffer, error) {
	if err := f.record("framebuffer"); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("framebuffer%d", f.fbCount)
	f.fbCount++
	return f.handle(name), nil
}

func (f *fakeBackend) CreateSemaphore(device Device) (Semaphore, error) {
	if err := f.record("semaphore"); err != nil {
		return nil, err
	}
	return f.handle("semaphore"), nil
}

func (f *fakeBackend) CreateFence(device Device, signaled bool) (Fence, error) {
	f.capturedSignaled = append(f.capturedSignaled, signaled)
	if err := f.record("fence"); err != nil {
		return nil, err
	}
	return f.handle("fence"), nil
}
