package images

import (
	"image"
	"image/color"
	"testing"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestCrop(t *testing.T) {
	src := checkerboard(10, 10)
	got := Crop(src, image.Rect(2, 3, 6, 7))
	if got.Bounds().Dx() != 4 || got.Bounds().Dy() != 4 {
		t.Fatalf("Crop() bounds = %v, want 4x4", got.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got.At(x, y) != src.At(2+x, 3+y) {
				t.Errorf("pixel (%d,%d) mismatch", x, y)
			}
		}
	}
}

func TestPasteClipsAtCanvasBounds(t *testing.T) {
	dst := NewCanvas(4, 4)
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	Paste(dst, src, image.Pt(2, 2))
	if dst.At(3, 3) == (color.NRGBA{}) {
		t.Error("pixel inside clipped paste region should be drawn")
	}
}

func TestRotateExpand90SwapsDimensions(t *testing.T) {
	src := checkerboard(10, 6)
	got := RotateExpand(src, 90)
	if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 10 {
		t.Fatalf("RotateExpand(90) bounds = %v, want 6x10", got.Bounds())
	}
}

func TestRotateExpandNeg90SwapsDimensions(t *testing.T) {
	src := checkerboard(10, 6)
	got := RotateExpand(src, -90)
	if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 10 {
		t.Fatalf("RotateExpand(-90) bounds = %v, want 6x10", got.Bounds())
	}
}

func TestRotateExpand180PreservesDimensions(t *testing.T) {
	src := checkerboard(10, 6)
	got := RotateExpand(src, 180)
	if got.Bounds().Dx() != 10 || got.Bounds().Dy() != 6 {
		t.Fatalf("RotateExpand(180) bounds = %v, want 10x6", got.Bounds())
	}
	// Rotating 180 twice should restore the original pixel at every corner.
	twice := RotateExpand(got, 180)
	if twice.At(0, 0) != src.At(0, 0) {
		t.Error("double 180 rotation should return to the original image")
	}
}

func TestResizeLanczosProducesExactDimensions(t *testing.T) {
	src := checkerboard(100, 80)
	got := ResizeLanczos(src, 40, 32)
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 32 {
		t.Fatalf("ResizeLanczos() bounds = %v, want 40x32", got.Bounds())
	}
}
