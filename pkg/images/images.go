// Package images provides the raster primitives the pipeline stages
// compose: crop to a rectangle, rotate with canvas expansion, and
// Lanczos resampling, generalized from simple EXIF-orientation rotation
// to the arbitrary crop-geometry rotations this pipeline's layouts need
// (aftermath crops rotate their second face 90 degrees before
// compositing; split, room, saga, class and battle crops rotate -90
// degrees).
package images

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Crop returns a new NRGBA image containing exactly the pixels of img
// within rect, translated so the result's origin is (0,0).
func Crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// Paste draws src onto dst with src's origin placed at pt. Unlike
// Crop, it does not allocate: dst is mutated in place, and anything
// pasted outside the canvas bounds is silently clipped.
func Paste(dst draw.Image, src image.Image, pt image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(pt)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

// NewCanvas returns a new fully transparent NRGBA canvas of the given
// size, the starting point for every layout's crop composition.
func NewCanvas(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// RotateExpand rotates img by the given number of degrees (90, -90, or
// 180) counterclockwise, expanding the canvas for the 90/-90 cases so
// no pixels are cropped, matching PIL's Image.rotate(angle, expand=1).
func RotateExpand(img image.Image, degrees int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch degrees {
	case 90, -90:
		dst := image.NewNRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.At(b.Min.X+x, b.Min.Y+y)
				var dx, dy int
				if degrees == 90 {
					dx, dy = y, w-1-x
				} else {
					dx, dy = h-1-y, x
				}
				dst.Set(dx, dy, c)
			}
		}
		return dst
	case 180, -180:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.At(b.Min.X+x, b.Min.Y+y)
				dst.Set(w-1-x, h-1-y, c)
			}
		}
		return dst
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
}

// lanczos3 is a windowed-sinc Lanczos kernel with a=3, matching the
// resampling filter every resize in this pipeline uses.
func lanczos3(t float64) float64 {
	const a = 3.0
	if t == 0 {
		return 1
	}
	if t < -a || t > a {
		return 0
	}
	piT := math.Pi * t
	return a * math.Sin(piT) * math.Sin(piT/a) / (piT * piT)
}

// lanczosKernel is the draw.Kernel built from lanczos3, reused across
// every resample this package performs.
var lanczosKernel = draw.Kernel{Support: 3, At: lanczos3}

// ResizeLanczos resamples img to exactly (w, h) using a Lanczos-3
// filter.
func ResizeLanczos(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	lanczosKernel.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
