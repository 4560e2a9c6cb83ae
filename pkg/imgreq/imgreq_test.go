package imgreq

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/guldfisk/scryimg/pkg/imgsize"
)

type fakeImageable struct {
	name, dir string
	back      bool
}

func (f fakeImageable) Render(ctx context.Context, size imgsize.SizeSlug, loader Loader, back, crop bool) (image.Image, error) {
	return nil, nil
}
func (f fakeImageable) ImageName() string    { return f.name }
func (f fakeImageable) ImageDirName() string { return f.dir }
func (f fakeImageable) HasBack() bool        { return f.back }

func TestPathForPrinting(t *testing.T) {
	r := New(Subject{Printing: &Printing{ID: "12345"}}, WithImagesRoot("/data/images"))
	if got, want := r.Path(), "/data/images/12345.png"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestPathEncodesBackCropSize(t *testing.T) {
	r := New(Subject{Printing: &Printing{ID: "12345"}},
		WithImagesRoot("/data/images"), WithBack(true), WithCrop(true), WithSize(imgsize.Small))
	if got, want := r.Name(), "12345_b_crop_s"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestPathForImageable(t *testing.T) {
	sub := Subject{Imageable: fakeImageable{name: "emblem-vampire", dir: "emblems"}}
	r := New(sub, WithImagesRoot("/data/images"))
	if got, want := r.DirPath(), "/data/images/_emblems"; got != want {
		t.Errorf("DirPath() = %q, want %q", got, want)
	}
}

func TestPathForNamedLookupHasNoSubfolder(t *testing.T) {
	r := New(Subject{TypeTag: "token"}, WithImagesRoot("/data/images"), WithPictureName("some-token"))
	if got, want := r.DirPath(), "/data/images"; got != want {
		t.Errorf("DirPath() = %q, want %q", got, want)
	}
	if got, want := r.Name(), "some-token"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestDirPathForBareSubjectIsCardbackCacheDir(t *testing.T) {
	r := New(Subject{TypeTag: "token"}, WithImagesRoot("/data/images"))
	if got, want := r.DirPath(), "/data/images"; got == want {
		t.Errorf("DirPath() = %q, a bare subject with no picture name must not resolve inside the images root", got)
	}
	if got, want := r.identifier(), "cardback"; got != want {
		t.Errorf("identifier() = %q, want %q", got, want)
	}
}

func TestHasImage(t *testing.T) {
	withPrinting := New(Subject{Printing: &Printing{ID: "1"}})
	if !withPrinting.HasImage() {
		t.Error("request with Printing should HasImage()")
	}
	bare := New(Subject{TypeTag: "token"}, WithPictureName("some-token"))
	if bare.HasImage() {
		t.Error("request with neither Printing nor Imageable should not HasImage()")
	}
}

func TestHasImageForImageableDependsOnBackAndHasBack(t *testing.T) {
	withBack := New(Subject{Imageable: fakeImageable{name: "a", dir: "d", back: true}}, WithBack(true))
	if !withBack.HasImage() {
		t.Error("imageable with HasBack()=true and Back requested should HasImage()")
	}
	withoutBack := New(Subject{Imageable: fakeImageable{name: "a", dir: "d", back: false}}, WithBack(true))
	if withoutBack.HasImage() {
		t.Error("imageable with HasBack()=false and Back requested should not HasImage()")
	}
	front := New(Subject{Imageable: fakeImageable{name: "a", dir: "d", back: false}})
	if !front.HasImage() {
		t.Error("imageable with no back face should still HasImage() for the front face")
	}
}

func TestSpawnOverridesWithoutMutatingOriginal(t *testing.T) {
	original := New(Subject{Printing: &Printing{ID: "1"}}, WithCrop(true), WithSize(imgsize.Small))
	spawned := original.Spawn(WithCrop(false))
	if !original.Crop {
		t.Error("Spawn must not mutate the receiver")
	}
	if spawned.Crop {
		t.Error("spawned request should have Crop=false")
	}
	if spawned.Size != imgsize.Small {
		t.Error("Spawn should preserve fields not explicitly overridden")
	}
}

func TestKeyDistinguishesCachePolicy(t *testing.T) {
	base := New(Subject{Printing: &Printing{ID: "1"}})
	cacheOnly := base.Spawn(WithCacheOnly(true))
	if base.Key() == cacheOnly.Key() {
		t.Error("Key() must distinguish requests differing only in CacheOnly")
	}
	noDiskCache := base.Spawn(WithAllowDiskCached(false))
	if base.Key() == noDiskCache.Key() {
		t.Error("Key() must distinguish requests differing only in AllowDiskCached")
	}
}

func TestRemoteCardURI(t *testing.T) {
	r := New(Subject{Printing: &Printing{ID: "409574"}})
	if got, want := r.RemoteCardURI(), "https://api.scryfall.com/cards/multiverse/409574"; got != want {
		t.Errorf("RemoteCardURI() = %q, want %q", got, want)
	}
}

func TestNameNoSuffixesAtDefaults(t *testing.T) {
	r := New(Subject{Printing: &Printing{ID: "1"}})
	if strings.ContainsAny(r.Name(), "_") {
		t.Errorf("Name() = %q, want no suffixes at default back=false/crop=false/size=Original", r.Name())
	}
}
