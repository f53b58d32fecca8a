package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/forge"
	"github.com/vkngwrapper/forge/vk"
)

var (
	title      = flag.String("title", "forge triangle", "window title")
	width      = flag.Int("width", forge.DefaultWidth, "window width in pixels")
	height     = flag.Int("height", forge.DefaultHeight, "window height in pixels")
	vertPath   = flag.String("vert", "shaders/triangle.vert.spv", "compiled vertex shader")
	fragPath   = flag.String("frag", "shaders/triangle.frag.spv", "compiled fragment shader")
	cachePath  = flag.String("pipeline-cache", "", "prime the pipeline cache from this file")
	validation = flag.Bool("validation", false, "enable the Khronos validation layer")
	verbose    = flag.Bool("verbose", false, "log construction stages")
)

func main() {
	runtime.LockOSThread()
	flag.Parse()

	if *verbose {
		forge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	vertCode, err := os.ReadFile(*vertPath)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	fragCode, err := os.ReadFile(*fragPath)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	var cacheData []byte
	if *cachePath != "" {
		cacheData, err = os.ReadFile(*cachePath)
		if err != nil {
			log.Fatalf("%+v\n", err)
		}
	}

	backend := vk.NewBackend(vk.Options{
		Validation:        *validation,
		PipelineCacheData: cacheData,
	})

	ctx, err := forge.New(backend).
		WithTitle(*title).
		WithDimensions(*width, *height).
		WithVertexShader(vertCode).
		WithFragmentShader(fragCode).
		Build()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	defer ctx.Destroy()

	view := vk.Unwrap(ctx)

	buffers, err := recordCommandBuffers(view, ctx)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	frames := 0
	rendering := true
	start := hrtime.Now()

appLoop:
	for {
		for event := view.Events.Poll(); event != nil; event = view.Events.Poll() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			case *sdl.WindowEvent:
				switch e.Event {
				case sdl.WINDOWEVENT_MINIMIZED:
					rendering = false
				case sdl.WINDOWEVENT_RESTORED:
					rendering = true
				}
			}
		}

		if !rendering {
			continue
		}

		ok, err := drawFrame(view, buffers)
		if err != nil {
			log.Fatalf("%+v\n", err)
		}
		if !ok {
			// The surface changed underneath the swapchain. The context is
			// fixed at build time, so stop cleanly instead of rebuilding.
			log.Println("swapchain out of date, exiting")
			break
		}
		frames++
	}

	elapsed := hrtime.Since(start)
	if frames > 0 {
		log.Printf("rendered %d frames in %s (%.1f fps)", frames, elapsed, float64(frames)/elapsed.Seconds())
	}

	_, err = view.Device.Driver.DeviceWaitIdle()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	view.Pool.Free(buffers...)
}

// recordCommandBuffers records one primary buffer per framebuffer, each
// clearing to a slightly different shade so swapchain image rotation is
// visible, then drawing the triangle.
func recordCommandBuffers(view vk.View, ctx *forge.Context) ([]core1_0.CommandBuffer, error) {
	framebuffers := vk.Framebuffers(ctx)

	buffers, err := view.Pool.Allocate(len(framebuffers))
	if err != nil {
		return nil, err
	}

	base := mgl32.Vec3{0.01, 0.01, 0.03}
	accent := mgl32.Vec3{0, 0.25, 0.45}

	for i, buffer := range buffers {
		blend := float32(0)
		if len(buffers) > 1 {
			blend = float32(i) / float32(len(buffers)-1)
		}
		clear := base.Mul(1 - blend).Add(accent.Mul(blend))

		_, err = view.Device.Driver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{})
		if err != nil {
			return nil, err
		}

		err = view.Device.Driver.CmdBeginRenderPass(buffer, core1_0.SubpassContentsInline,
			core1_0.RenderPassBeginInfo{
				RenderPass:  view.Pass.Handle,
				Framebuffer: framebuffers[i],
				RenderArea: core1_0.Rect2D{
					Offset: core1_0.Offset2D{X: 0, Y: 0},
					Extent: ctx.Extent,
				},
				ClearValues: []core1_0.ClearValue{
					core1_0.ClearValueFloat{clear.X(), clear.Y(), clear.Z(), 1},
				},
			})
		if err != nil {
			return nil, err
		}

		view.Device.Driver.CmdBindPipeline(buffer, core1_0.PipelineBindPointGraphics, view.Pipeline.Handle)
		view.Device.Driver.CmdDraw(buffer, 3, 1, 0, 0)
		view.Device.Driver.CmdEndRenderPass(buffer)

		_, err = view.Device.Driver.EndCommandBuffer(buffer)
		if err != nil {
			return nil, err
		}
	}

	return buffers, nil
}

// drawFrame runs one frame with a single submission in flight: acquire
// signals the frame semaphore, the submit waits on it and signals the frame
// fence, and presentation is queued only after the fence proves the work
// finished. The second return is false when the swapchain is out of date.
func drawFrame(view vk.View, buffers []core1_0.CommandBuffer) (bool, error) {
	queue := view.Queues.Queues[0]

	imageIndex, res, err := view.Device.Swapchains.AcquireNextImage(
		view.Swapchain.Handle, common.NoTimeout, &view.FrameSemaphore.Handle, nil)
	if res == khr_swapchain.VKErrorOutOfDate {
		return false, nil
	} else if err != nil {
		return false, err
	}

	_, err = view.Device.Driver.QueueSubmit(queue, &view.FrameFence.Handle,
		core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{view.FrameSemaphore.Handle},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{buffers[imageIndex]},
		},
	)
	if err != nil {
		return false, err
	}

	_, err = view.Device.Driver.WaitForFences(true, common.NoTimeout, view.FrameFence.Handle)
	if err != nil {
		return false, err
	}
	_, err = view.Device.Driver.ResetFences(view.FrameFence.Handle)
	if err != nil {
		return false, err
	}

	res, err = view.Device.Swapchains.QueuePresent(queue, khr_swapchain.PresentInfo{
		Swapchains:   []khr_swapchain.Swapchain{view.Swapchain.Handle},
		ImageIndices: []int{imageIndex},
	})
	if res == khr_swapchain.VKErrorOutOfDate || res == khr_swapchain.VKSuboptimal {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}
