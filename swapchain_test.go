package forge

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

func swapchainCaps() *khr_surface.SurfaceCapabilities {
	return &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  8,
		CurrentExtent:  core1_0.Extent2D{Width: 640, Height: 480},
		MinImageExtent: core1_0.Extent2D{Width: 200, Height: 200},
		MaxImageExtent: core1_0.Extent2D{Width: 400, Height: 400},

		CurrentTransform: khr_surface.TransformIdentity,
	}
}

func TestSwapchainConfigUsesCurrentExtent(t *testing.T) {
	config := SwapchainConfigFromCaps(swapchainCaps(), DefaultFormat, DefaultColorSpace, 1000, 1000)

	// A fixed current extent wins over the requested window size.
	require.Equal(t, core1_0.Extent2D{Width: 640, Height: 480}, config.Extent)
}

func TestSwapchainConfigClampsRequestedExtent(t *testing.T) {
	caps := swapchainCaps()
	caps.CurrentExtent = core1_0.Extent2D{Width: -1, Height: -1}

	config := SwapchainConfigFromCaps(caps, DefaultFormat, DefaultColorSpace, 1000, 100)
	require.Equal(t, core1_0.Extent2D{Width: 400, Height: 200}, config.Extent)
}

func TestSwapchainConfigImageCount(t *testing.T) {
	caps := swapchainCaps()
	config := SwapchainConfigFromCaps(caps, DefaultFormat, DefaultColorSpace, 640, 480)
	require.Equal(t, 3, config.MinImageCount)

	caps.MaxImageCount = 2
	config = SwapchainConfigFromCaps(caps, DefaultFormat, DefaultColorSpace, 640, 480)
	require.Equal(t, 2, config.MinImageCount)

	// Zero means the driver imposes no maximum.
	caps.MaxImageCount = 0
	config = SwapchainConfigFromCaps(caps, DefaultFormat, DefaultColorSpace, 640, 480)
	require.Equal(t, 3, config.MinImageCount)
}

func TestSwapchainConfigFixedPolicies(t *testing.T) {
	config := SwapchainConfigFromCaps(swapchainCaps(), DefaultFormat, DefaultColorSpace, 640, 480)

	require.Equal(t, DefaultFormat, config.Format)
	require.Equal(t, DefaultColorSpace, config.ColorSpace)
	require.Equal(t, khr_surface.TransformIdentity, config.Transform)
	require.Equal(t, khr_surface.CompositeAlphaOpaque, config.CompositeAlpha)
	require.Equal(t, khr_surface.PresentModeFIFO, config.PresentMode)
}
