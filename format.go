package forge

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// DefaultFormat and DefaultColorSpace are used when the surface reports no
// enumerable format list, or a list with no sRGB entry.
const (
	DefaultFormat     = core1_0.FormatR8G8B8A8SRGB
	DefaultColorSpace = khr_surface.ColorSpaceSRGBNonlinear
)

// isSRGB reports whether the format's channel encoding is sRGB.
func isSRGB(format core1_0.Format) bool {
	switch format {
	case core1_0.FormatR8SRGB,
		core1_0.FormatR8G8SRGB,
		core1_0.FormatR8G8B8SRGB,
		core1_0.FormatB8G8R8SRGB,
		core1_0.FormatR8G8B8A8SRGB,
		core1_0.FormatB8G8R8A8SRGB:
		return true
	}
	return false
}

// ChooseSurfaceFormat picks the presentation format: the first reported
// format with sRGB channel encoding, or DefaultFormat with DefaultColorSpace
// when the surface reports no formats or none of them are sRGB.
func ChooseSurfaceFormat(formats []khr_surface.SurfaceFormat) (core1_0.Format, khr_surface.ColorSpace) {
	for _, format := range formats {
		if isSRGB(format.Format) {
			return format.Format, format.ColorSpace
		}
	}

	return DefaultFormat, DefaultColorSpace
}
