package imgtransform

import (
	"context"
	"image"

	"github.com/guldfisk/scryimg/pkg/awaiter"
	"github.com/guldfisk/scryimg/pkg/diskcache"
	"github.com/guldfisk/scryimg/pkg/images"
	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/imgsize"
	"github.com/guldfisk/scryimg/pkg/imgsource"
)

// runTransform is the shared shape of Cropper and Resizer: consult disk
// first, then single-flight the upstream fetch plus local processing,
// saving the result if requested. awaiter is shared across every
// Cropper (or every Resizer) the pipeline builder constructs for a
// given set of long-lived Stages, so a fresh Cropper/Resizer value
// built per request still coalesces through the same in-flight map.
func runTransform(
	ctx context.Context,
	req imgreq.Request,
	inner imgsource.Source,
	a *awaiter.TaskAwaiter[image.Image],
	spawn func(imgreq.Request) imgreq.Request,
	process func(image.Image, imgreq.Request) *image.NRGBA,
) (image.Image, error) {
	path := req.Path()
	if req.AllowDiskCached {
		if img, err := diskcache.Load(path); err == nil {
			return img, nil
		}
	}

	return a.Do(req.Key(), func() (image.Image, error) {
		upstream := spawn(req)
		source, err := inner.GetImage(ctx, upstream)
		if err != nil {
			return nil, err
		}
		processed := process(source, req)
		if req.Save {
			if err := diskcache.Save(path, processed); err != nil {
				return nil, err
			}
		}
		return processed, nil
	})
}

// Cropper extracts the layout-appropriate art-only region from its
// upstream source's full-card image.
type Cropper struct {
	// Inner is the upstream source, normally a Fetcher or an
	// ImageableProcessor.
	Inner imgsource.Source
	// Awaiter coalesces concurrent crop requests for the same key. It
	// must be shared across every Cropper value built for the same
	// long-lived stage set; see runTransform.
	Awaiter *awaiter.TaskAwaiter[image.Image]
}

// GetImage implements imgsource.Source.
func (c *Cropper) GetImage(ctx context.Context, req imgreq.Request) (image.Image, error) {
	return runTransform(ctx, req, c.Inner, c.Awaiter,
		func(r imgreq.Request) imgreq.Request { return r.Spawn(imgreq.WithCrop(false)) },
		func(src image.Image, r imgreq.Request) *image.NRGBA { return cropByLayout(src, r) },
	)
}

// Resizer resamples its upstream source's image to the dimensions its
// request's size slug calls for.
type Resizer struct {
	// Inner is the upstream source, normally a Fetcher, an
	// ImageableProcessor, or a Cropper.
	Inner imgsource.Source
	// Awaiter coalesces concurrent resize requests for the same key;
	// see Cropper.Awaiter.
	Awaiter *awaiter.TaskAwaiter[image.Image]
}

// GetImage implements imgsource.Source.
func (r *Resizer) GetImage(ctx context.Context, req imgreq.Request) (image.Image, error) {
	return runTransform(ctx, req, r.Inner, r.Awaiter,
		func(req imgreq.Request) imgreq.Request { return req.Spawn(imgreq.WithSize(imgsize.Original)) },
		func(src image.Image, req imgreq.Request) *image.NRGBA {
			w, h := imgsize.Dimensions(req.Size, req.Crop)
			return images.ResizeLanczos(src, w, h)
		},
	)
}
