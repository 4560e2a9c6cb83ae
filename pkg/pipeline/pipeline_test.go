package pipeline

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/imgsize"
	"github.com/guldfisk/scryimg/pkg/imgsource"
	"github.com/guldfisk/scryimg/pkg/imgtransform"
)

type fakeImageable struct{ calls int }

func (f *fakeImageable) Render(ctx context.Context, size imgsize.SizeSlug, loader imgreq.Loader, back, crop bool) (image.Image, error) {
	f.calls++
	img := image.NewNRGBA(image.Rect(0, 0, 745, 1040))
	img.Set(0, 0, color.NRGBA{R: 1, A: 255})
	return img, nil
}
func (f *fakeImageable) ImageName() string    { return "emblem" }
func (f *fakeImageable) ImageDirName() string { return "emblems" }
func (f *fakeImageable) HasBack() bool        { return false }

func TestBuildForImageableUsesImageableProcessor(t *testing.T) {
	var s Stages
	dir := t.TempDir()
	imgable := &fakeImageable{}
	req := imgreq.New(imgreq.Subject{Imageable: imgable}, imgreq.WithImagesRoot(dir))

	chain := s.Build(req)
	if _, ok := chain.(*imgsource.ImageableProcessor); !ok {
		t.Fatalf("Build() for an Imageable subject produced %T, want *imgsource.ImageableProcessor", chain)
	}
}

func TestBuildWrapsCropAndResizeAndCacheOnly(t *testing.T) {
	var s Stages
	dir := t.TempDir()
	req := imgreq.New(imgreq.Subject{Printing: &imgreq.Printing{ID: "1"}},
		imgreq.WithImagesRoot(dir), imgreq.WithCrop(true), imgreq.WithSize(imgsize.Small), imgreq.WithCacheOnly(true))

	chain := s.Build(req)
	cacheOnly, ok := chain.(*imgsource.CacheOnly)
	if !ok {
		t.Fatalf("Build() outermost stage = %T, want *imgsource.CacheOnly", chain)
	}
	resizer, ok := cacheOnly.Inner.(*imgtransform.Resizer)
	if !ok {
		t.Fatalf("CacheOnly wraps %T, want *imgtransform.Resizer", cacheOnly.Inner)
	}
	cropper, ok := resizer.Inner.(*imgtransform.Cropper)
	if !ok {
		t.Fatalf("Resizer wraps %T, want *imgtransform.Cropper", resizer.Inner)
	}
	if _, ok := cropper.Inner.(*imgsource.Fetcher); !ok {
		t.Fatalf("Cropper wraps %T, want *imgsource.Fetcher", cropper.Inner)
	}
}

func TestBuildSharesCoalescingAcrossCalls(t *testing.T) {
	var s Stages
	dir := t.TempDir()
	imgable := &fakeImageable{}
	req := imgreq.New(imgreq.Subject{Imageable: imgable}, imgreq.WithImagesRoot(dir), imgreq.WithCrop(true))

	chain1 := s.Build(req)
	chain2 := s.Build(req)

	results := make(chan error, 2)
	go func() { _, err := chain1.GetImage(context.Background(), req); results <- err }()
	go func() { _, err := chain2.GetImage(context.Background(), req); results <- err }()
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			t.Fatalf("GetImage() error = %v", err)
		}
	}
	if imgable.calls != 1 {
		t.Errorf("expected coalescing/disk-cache to allow exactly 1 render, got %d renders", imgable.calls)
	}
}
