// Package diskcache reads and writes resolved images to the on-disk
// cache tree laid out by
// load_image_from_disk / save-to-path behavior.
package diskcache

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/guldfisk/scryimg/pkg/imgerr"
)

// Load decodes the PNG at path. A missing file, unreadable file, or
// corrupt PNG is reported as an *imgerr.ImageFetchError so callers can
// distinguish "nothing cached" from other failures uniformly.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, imgerr.MissingLocalFileErr(path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, imgerr.DecodeErr(path, err)
	}
	return img, nil
}

// Save writes img to path as a PNG, creating parent directories as
// needed. It writes to a temporary file in the same directory first and
// renames it into place, so a concurrent Load never observes a
// partially written file.
func Save(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Exists reports whether an image is already cached at path, without
// decoding it. Used by cache_only requests that only need to know
// whether production can be skipped.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
