package imgsource

import (
	"context"
	"image"

	"github.com/guldfisk/scryimg/pkg/imgreq"
)

// CacheOnly wraps a Source so the image it produces is still computed
// (and, via the inner stage's own Save handling, still written to
// disk) but never returned to the caller — used to pre-warm the cache
// without holding a decoded image in memory for the caller.
type CacheOnly struct {
	Inner Source
}

// GetImage implements Source. It always returns (nil, nil) on success,
// regardless of what the inner stage produced.
func (c *CacheOnly) GetImage(ctx context.Context, req imgreq.Request) (image.Image, error) {
	if _, err := c.Inner.GetImage(ctx, req); err != nil {
		return nil, err
	}
	return nil, nil
}
