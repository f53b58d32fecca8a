package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/forge"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
)

// Surface pairs the surface handle with the extension driver that queries
// and destroys it.
type Surface struct {
	Handle khr_surface.Surface
	ext    khr_surface.ExtensionDriver
}

func (b *Backend) CreateSurface(instance forge.Instance, window forge.Window) (forge.Surface, error) {
	inst := instance.(*Instance)
	win := window.(*Window)

	surface, err := vkng_sdl2.CreateSurface(inst.Driver.Instance(), inst.Surfaces, win.Handle)
	if err != nil {
		return nil, errors.Wrap(err, "creating window surface")
	}

	return &Surface{Handle: surface, ext: inst.Surfaces}, nil
}

func (s *Surface) Destroy() {
	s.ext.DestroySurface(s.Handle, nil)
}

func (b *Backend) SurfaceCapabilities(adapter forge.Adapter, surface forge.Surface) (*khr_surface.SurfaceCapabilities, error) {
	ad := adapter.(*Adapter)
	surf := surface.(*Surface)

	caps, _, err := surf.ext.GetPhysicalDeviceSurfaceCapabilities(surf.Handle, ad.Handle)
	if err != nil {
		return nil, errors.Wrap(err, "querying surface capabilities")
	}
	return caps, nil
}

func (b *Backend) SurfaceFormats(adapter forge.Adapter, surface forge.Surface) ([]khr_surface.SurfaceFormat, error) {
	ad := adapter.(*Adapter)
	surf := surface.(*Surface)

	formats, _, err := surf.ext.GetPhysicalDeviceSurfaceFormats(surf.Handle, ad.Handle)
	if err != nil {
		return nil, errors.Wrap(err, "querying surface formats")
	}
	return formats, nil
}
