// Package imgtransform implements the pipeline's two transform stages,
// Cropper and Resizer, plus the layout-aware crop geometry Cropper
// applies to extract the art-only crop region.
package imgtransform

import (
	"image"
	"strings"

	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/images"
)

// cropWidth and cropHeight are the standardized crop output dimensions
// every layout's recipe below must land on.
const (
	cropWidth  = 560
	cropHeight = 435
)

// Layout-specific crop boxes, taken directly off the original card
// image's pixel geometry; see cropByLayout for which layout uses which.
var (
	standardRect     = image.Rect(92, 120, 652, 555)
	splitBox1        = image.Rect(96, 82, 345, 454)
	splitBox2        = image.Rect(96, 582, 345, 954)
	roomRect         = image.Rect(105, 60, 390, 936)
	aftermathTopRect = image.Rect(92, 120, 652, 332)
	aftermathBotRect = image.Rect(408, 590, 620, 950)
	flipRect         = image.Rect(141, 325, 604, 685)
	sagaRect         = image.Rect(373, 115, 686, 872)
	classRect        = image.Rect(58, 115, 371, 872)
	battleRect       = image.Rect(103, 115, 416, 872)

	// postCropRect is the common final trim applied after the
	// rotate+resize step shared by SAGA, CLASS, ROOM, and BATTLE.
	postCropRect = image.Rect(246, 0, 806, 435)
)

const (
	layoutSplit     = "split"
	layoutFlip      = "flip"
	layoutSaga      = "saga"
	layoutAftermath = "aftermath"
	layoutClass     = "class"
)

const (
	tagRoom   = "room"
	tagBattle = "battle"
)

func hasTag(p *imgreq.Printing, tag string) bool {
	if p == nil {
		return false
	}
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func layoutIs(p *imgreq.Printing, layout string) bool {
	return p != nil && strings.EqualFold(p.Layout, layout)
}

func typeLineHas(p *imgreq.Printing, word string) bool {
	return p != nil && strings.Contains(strings.ToLower(p.TypeLine), strings.ToLower(word))
}

// cropByLayout dispatches to the layout-specific crop function. The
// branch order matters: a printing can satisfy more than one predicate
// (e.g. a split card that also carries the "battle" tag), and only the
// first match applies.
func cropByLayout(img image.Image, req imgreq.Request) *image.NRGBA {
	p := req.Subject.Printing

	switch {
	case (hasTag(p, tagBattle) || typeLineHas(p, tagBattle)) && !req.Back:
		return cropBattle(img)
	case layoutIs(p, layoutSaga) || typeLineHas(p, layoutSaga):
		return cropSaga(img)
	case layoutIs(p, layoutSplit) && p.FrontFaceCount == 2:
		if hasTag(p, tagRoom) || typeLineHas(p, tagRoom) {
			return cropRoom(img)
		}
		return cropSplit(img)
	case layoutIs(p, layoutFlip):
		return cropFlip(img)
	case layoutIs(p, layoutAftermath) && p.FrontFaceCount == 2:
		return cropAftermath(img)
	case layoutIs(p, layoutClass):
		return cropClass(img)
	default:
		return cropStandard(img)
	}
}

func cropStandard(img image.Image) *image.NRGBA {
	return images.Crop(img, standardRect)
}

// rotateResizeTrim is the shared post-processing recipe for SAGA,
// CLASS, ROOM, and BATTLE: rotate the narrow crop upright, resize to a
// wide intermediate canvas, then trim to the standardized crop size.
func rotateResizeTrim(region image.Image) *image.NRGBA {
	rotated := images.RotateExpand(region, -90)
	resized := images.ResizeLanczos(rotated, 1052, cropHeight)
	return images.Crop(resized, postCropRect)
}

func cropSaga(img image.Image) *image.NRGBA {
	return rotateResizeTrim(images.Crop(img, sagaRect))
}

func cropClass(img image.Image) *image.NRGBA {
	return rotateResizeTrim(images.Crop(img, classRect))
}

func cropBattle(img image.Image) *image.NRGBA {
	return rotateResizeTrim(images.Crop(img, battleRect))
}

func cropRoom(img image.Image) *image.NRGBA {
	return rotateResizeTrim(images.Crop(img, roomRect))
}

// cropFlip handles Kamigawa-style flip cards: the art window sits at a
// single fixed position on the card regardless of which face (front or
// upside-down back) is requested, since face selection already happened
// upstream, in the Fetcher or Imageable render step.
func cropFlip(img image.Image) *image.NRGBA {
	return images.ResizeLanczos(images.Crop(img, flipRect), cropWidth, cropHeight)
}

// cropSplit composites the two faces of a split card side by side: each
// face's own crop box is cropped out, rotated upright, and resized to a
// shared height, then the two are pasted into one canvas at half-width
// offsets.
func cropSplit(img image.Image) *image.NRGBA {
	return splitHorizontal(
		images.ResizeLanczos(images.RotateExpand(images.Crop(img, splitBox1), -90), 650, cropHeight),
		images.ResizeLanczos(images.RotateExpand(images.Crop(img, splitBox2), -90), 650, cropHeight),
	)
}

// splitHorizontal pastes each of the given faces, first sliced down to
// its canvas-width share, side by side into one (cropWidth, cropHeight)
// transparent canvas.
func splitHorizontal(faces ...image.Image) *image.NRGBA {
	offset := cropWidth / len(faces)
	canvas := images.NewCanvas(cropWidth, cropHeight)
	for i, face := range faces {
		slice := images.Crop(face, image.Rect(0, 0, offset, cropHeight))
		images.Paste(canvas, slice, image.Pt(i*offset, 0))
	}
	return canvas
}

// cropAftermath composites an aftermath card's second face, rotated 90
// degrees, onto the right half of the first face's crop, then resizes
// the combined canvas and trims it to the standardized crop size.
func cropAftermath(img image.Image) *image.NRGBA {
	top := images.Crop(img, aftermathTopRect)
	bot := images.Crop(img, aftermathBotRect)
	images.Paste(top, images.RotateExpand(bot, 90), image.Pt(top.Bounds().Dx()/2, 0))

	resized := images.ResizeLanczos(top, 1149, cropHeight)
	return images.Crop(resized, image.Rect(294, 0, 854, cropHeight))
}
