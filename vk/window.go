package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/forge"
)

// Window owns one SDL window.
type Window struct {
	Handle *sdl.Window
}

// EventSource drains the SDL event queue. Destroying it shuts down the SDL
// video subsystem, so it is released after the window it serves.
type EventSource struct{}

// CreateWindow initializes SDL video and opens a resizable Vulkan-capable
// window. Callers must stay on the thread that created the window when
// polling events; main loops should lock the OS thread first.
func (b *Backend) CreateWindow(title string, width, height int) (forge.Window, forge.EventSource, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, nil, errors.Wrap(err, "initializing sdl video")
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, nil, errors.Wrap(err, "creating sdl window")
	}

	return &Window{Handle: window}, &EventSource{}, nil
}

// DrawableSize returns the window's current drawable size in pixels.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.Handle.VulkanGetDrawableSize()
	return int(width), int(height)
}

// Minimized reports whether the window is currently minimized.
func (w *Window) Minimized() bool {
	return w.Handle.GetFlags()&sdl.WINDOW_MINIMIZED != 0
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
}

// Poll returns the next pending event, or nil when the queue is empty.
func (e *EventSource) Poll() sdl.Event {
	return sdl.PollEvent()
}

func (e *EventSource) Destroy() {
	sdl.Quit()
}
