package forge

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// SwapchainConfigFromCaps derives the swapchain description from the surface
// capabilities and the negotiated format. The image count asks for one more
// than the supported minimum, clamped to the maximum when the surface bounds
// it. The extent is the surface's current extent when the window system
// defines one; otherwise the requested dimensions clamped to the supported
// range. Present mode is FIFO, the one mode every implementation supports.
func SwapchainConfigFromCaps(caps *khr_surface.SurfaceCapabilities, format core1_0.Format, colorSpace khr_surface.ColorSpace, width, height int) SwapchainConfig {
	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	extent := caps.CurrentExtent
	if extent.Width == -1 {
		if width < caps.MinImageExtent.Width {
			width = caps.MinImageExtent.Width
		}
		if width > caps.MaxImageExtent.Width {
			width = caps.MaxImageExtent.Width
		}
		if height < caps.MinImageExtent.Height {
			height = caps.MinImageExtent.Height
		}
		if height > caps.MaxImageExtent.Height {
			height = caps.MaxImageExtent.Height
		}
		extent = core1_0.Extent2D{Width: width, Height: height}
	}

	return SwapchainConfig{
		MinImageCount:  imageCount,
		Format:         format,
		ColorSpace:     colorSpace,
		Extent:         extent,
		Transform:      caps.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentModeFIFO,
	}
}
