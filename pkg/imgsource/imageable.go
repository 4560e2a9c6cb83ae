package imgsource

import (
	"context"
	"image"
	"os"

	"github.com/guldfisk/scryimg/pkg/awaiter"
	"github.com/guldfisk/scryimg/pkg/diskcache"
	"github.com/guldfisk/scryimg/pkg/images"
	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/imgsize"
)

// ImageableProcessor resolves a request whose subject is an Imageable:
// something that renders its own image directly instead of being
// fetched from the remote catalog. It is the pipeline's root stage for
// such requests, and the pipeline builder wraps it in Cropper and
// Resizer exactly as it wraps Fetcher (see pkg/pipeline). Whatever
// Render returns is resampled to its own request's size and crop
// dimensions.
type ImageableProcessor struct {
	// Loader is passed through to every Imageable.Render call so a
	// rendering implementation may recursively demand sub-images of
	// its own. Set by the owning Loader at construction time.
	Loader imgreq.Loader

	awaiter awaiter.TaskAwaiter[image.Image]
}

// GetImage implements Source.
func (p *ImageableProcessor) GetImage(ctx context.Context, req imgreq.Request) (image.Image, error) {
	path := req.Path()

	if req.AllowDiskCached {
		if req.CacheOnly {
			if diskcache.Exists(path) {
				return nil, nil
			}
		} else if img, err := diskcache.Load(path); err == nil {
			return img, nil
		}
	}
	// When AllowDiskCached is false, production always proceeds,
	// whether or not CacheOnly is set.

	return p.awaiter.Do(req.Key(), func() (image.Image, error) {
		return p.produce(ctx, req, path)
	})
}

func (p *ImageableProcessor) produce(ctx context.Context, req imgreq.Request, path string) (image.Image, error) {
	imgable := req.Subject.Imageable
	img, err := imgable.Render(ctx, req.Size, p.Loader, req.Back, req.Crop)
	if err != nil {
		return nil, err
	}

	w, h := imgsize.Dimensions(req.Size, req.Crop)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		img = images.ResizeLanczos(img, w, h)
	}

	if req.Save {
		if err := os.MkdirAll(req.DirPath(), 0755); err != nil {
			return nil, err
		}
		if err := diskcache.Save(path, img); err != nil {
			return nil, err
		}
	}

	if req.CacheOnly {
		return nil, nil
	}
	return img, nil
}
