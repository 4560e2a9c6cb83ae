// Package cardback supplies the default card-back image served when a
// printing has no image of its own: the bundled full-resolution
// asset, plus the smaller size tiers generated from it on first
// request and cached to disk under the app-data directory, since the
// compiled-in asset itself is read-only and can't host generated
// tiers next to it.
package cardback

import (
	"bytes"
	_ "embed"
	"image"
	"image/png"
	"path/filepath"
	"sync"

	"github.com/guldfisk/scryimg/pkg/diskcache"
	"github.com/guldfisk/scryimg/pkg/images"
	"github.com/guldfisk/scryimg/pkg/imgsize"
	"github.com/guldfisk/scryimg/pkg/osutil"
)

//go:embed assets/cardback.png
var originalPNG []byte

var (
	originalOnce sync.Once
	original     image.Image
	originalErr  error
)

// Original returns the bundled full-resolution card-back image.
func Original() (image.Image, error) {
	originalOnce.Do(func() {
		original, originalErr = png.Decode(bytes.NewReader(originalPNG))
	})
	return original, originalErr
}

// tierPath is the on-disk path a given (size, crop) tier's generated
// card-back is cached under.
func tierPath(slug imgsize.SizeSlug, crop bool) string {
	name := "cardback"
	if crop {
		name += "_crop"
	}
	if code := slug.Code(); code != "" {
		name += "_" + code
	}
	return filepath.Join(osutil.CardbackCacheDir(), name+".png")
}

// Get returns the card-back image for the given size tier and crop
// flag, generating and caching it on first request if it isn't the
// bundled original.
func Get(slug imgsize.SizeSlug, crop bool) (image.Image, error) {
	if slug == imgsize.Original && !crop {
		return Original()
	}

	path := tierPath(slug, crop)
	if img, err := diskcache.Load(path); err == nil {
		return img, nil
	}

	base, err := Original()
	if err != nil {
		return nil, err
	}

	w, h := imgsize.Dimensions(slug, crop)
	tier := images.ResizeLanczos(base, w, h)
	if err := diskcache.Save(path, tier); err != nil {
		return nil, err
	}
	return tier, nil
}
