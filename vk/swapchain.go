package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/forge"
)

// Swapchain owns the swapchain handle. Its images belong to the handle and
// are never destroyed individually.
type Swapchain struct {
	Handle khr_swapchain.Swapchain
	ext    khr_swapchain.ExtensionDriver
}

func (s *Swapchain) Destroy() {
	s.ext.DestroySwapchain(s.Handle, nil)
}

// Image is one swapchain image.
type Image struct {
	Handle core1_0.Image
}

type ImageView struct {
	Handle core1_0.ImageView
	driver core1_0.CoreDeviceDriver
}

func (v *ImageView) Destroy() {
	v.driver.DestroyImageView(v.Handle, nil)
}

type Framebuffer struct {
	Handle core1_0.Framebuffer
	driver core1_0.CoreDeviceDriver
}

func (f *Framebuffer) Destroy() {
	f.driver.DestroyFramebuffer(f.Handle, nil)
}

// CreateSwapchain creates the swapchain and reports its images as the
// backbuffer; views and framebuffers over them are the caller's to build.
func (b *Backend) CreateSwapchain(device forge.Device, surface forge.Surface, config forge.SwapchainConfig) (forge.Swapchain, forge.Backbuffer, error) {
	dev := device.(*Device)
	surf := surface.(*Surface)

	swapchain, _, err := dev.Swapchains.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: surf.Handle,

		MinImageCount:    config.MinImageCount,
		ImageFormat:      config.Format,
		ImageColorSpace:  config.ColorSpace,
		ImageExtent:      config.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode: core1_0.SharingModeExclusive,

		PreTransform:   config.Transform,
		CompositeAlpha: config.CompositeAlpha,
		PresentMode:    config.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, forge.Backbuffer{}, errors.Wrap(err, "creating swapchain")
	}

	images, _, err := dev.Swapchains.GetSwapchainImages(swapchain)
	if err != nil {
		dev.Swapchains.DestroySwapchain(swapchain, nil)
		return nil, forge.Backbuffer{}, errors.Wrap(err, "querying swapchain images")
	}

	backbuffer := make([]forge.Image, 0, len(images))
	for _, image := range images {
		backbuffer = append(backbuffer, Image{Handle: image})
	}

	return &Swapchain{Handle: swapchain, ext: dev.Swapchains}, forge.BackbufferImages(backbuffer), nil
}

// CreateImageView creates a 2D color view over the image's base mip and
// layer.
func (b *Backend) CreateImageView(device forge.Device, image forge.Image, format core1_0.Format) (forge.ImageView, error) {
	dev := device.(*Device)
	img := image.(Image)

	view, _, err := dev.Driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    img.Handle,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating image view")
	}
	return &ImageView{Handle: view, driver: dev.Driver}, nil
}

func (b *Backend) CreateFramebuffer(device forge.Device, pass forge.RenderPass, view forge.ImageView, extent core1_0.Extent2D) (forge.Framebuffer, error) {
	dev := device.(*Device)
	rp := pass.(*RenderPass)
	iv := view.(*ImageView)

	framebuffer, _, err := dev.Driver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  rp.Handle,
		Attachments: []core1_0.ImageView{iv.Handle},
		Width:       extent.Width,
		Height:      extent.Height,
		Layers:      1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating framebuffer")
	}
	return &Framebuffer{Handle: framebuffer, driver: dev.Driver}, nil
}
