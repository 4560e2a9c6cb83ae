// Package imgsize defines the fixed set of output sizes an image
// request can resolve to, and the dimension arithmetic used to derive
// concrete pixel dimensions from them.
package imgsize

import "math"

// SizeSlug names one tier of the fixed output-size table.
type SizeSlug int

const (
	// Original is the source resolution, unscaled.
	Original SizeSlug = iota
	// Medium scales the source resolution by 0.5.
	Medium
	// Small scales the source resolution by 0.3.
	Small
	// Thumbnail scales the source resolution by 0.15.
	Thumbnail
)

// scale is the multiplier applied to the original (uncropped or
// cropped) dimensions to get a slug's dimensions.
func (s SizeSlug) scale() float64 {
	switch s {
	case Original:
		return 1
	case Medium:
		return 0.5
	case Small:
		return 0.3
	case Thumbnail:
		return 0.15
	default:
		return 1
	}
}

// Code is the short filename-suffix for this slug: empty for Original,
// otherwise a single lowercase letter.
func (s SizeSlug) Code() string {
	switch s {
	case Original:
		return ""
	case Medium:
		return "m"
	case Small:
		return "s"
	case Thumbnail:
		return "t"
	default:
		return ""
	}
}

func (s SizeSlug) String() string {
	switch s {
	case Original:
		return "original"
	case Medium:
		return "medium"
	case Small:
		return "small"
	case Thumbnail:
		return "thumbnail"
	default:
		return "unknown"
	}
}

// originalUncropped and originalCropped are the base dimensions every
// other tier is scaled from: the full printed card and the art-only
// crop region, respectively.
var (
	originalUncropped = [2]int{745, 1040}
	originalCropped   = [2]int{560, 435}
)

// Dimensions returns the pixel (width, height) for the given slug and
// crop flag. Scaling truncates rather than rounds, matching the
// original tool's int(dimension * scale) arithmetic: this
// is why Small+crop on a (560,435) base yields (168,130), not (168,131).
func Dimensions(slug SizeSlug, cropped bool) (width, height int) {
	base := originalUncropped
	if cropped {
		base = originalCropped
	}
	scale := slug.scale()
	return truncScale(base[0], scale), truncScale(base[1], scale)
}

func truncScale(dim int, scale float64) int {
	return int(math.Trunc(float64(dim) * scale))
}
