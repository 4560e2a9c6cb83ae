// Package imgsource implements the pipeline's two root stages —
// Fetcher, which resolves a printing's image from the remote catalog,
// and ImageableProcessor, which renders an Imageable directly — plus
// CacheOnly, the wrapper that suppresses a produced image's return
// value while still writing it to disk.
package imgsource

import (
	"context"
	"image"

	"github.com/guldfisk/scryimg/pkg/imgreq"
)

// Source is a pipeline stage: given a request, it produces the image
// that request describes, consulting (and populating) the disk cache
// and coalescing concurrent identical requests along the way.
type Source interface {
	GetImage(ctx context.Context, req imgreq.Request) (image.Image, error)
}
