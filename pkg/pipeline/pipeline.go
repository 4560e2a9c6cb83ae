// Package pipeline builds the chain of imgsource.Source stages an
// ImageRequest should be resolved through.
package pipeline

import (
	"image"

	"github.com/guldfisk/scryimg/pkg/awaiter"
	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/imgsize"
	"github.com/guldfisk/scryimg/pkg/imgsource"
	"github.com/guldfisk/scryimg/pkg/imgtransform"
)

// Stages holds one long-lived instance of every stage type, and the
// coalescing awaiters every per-request Cropper/Resizer value shares,
// so single-flight coalescing and disk-cache gating are scoped
// correctly across calls rather than reset on every Build.
type Stages struct {
	Fetcher            imgsource.Fetcher
	ImageableProcessor imgsource.ImageableProcessor

	cropAwaiter   awaiter.TaskAwaiter[image.Image]
	resizeAwaiter awaiter.TaskAwaiter[image.Image]
}

// Build assembles the stage chain for req: the root stage is an
// ImageableProcessor when the subject renders itself, otherwise a
// Fetcher; Cropper and Resizer wrap whichever root applies whenever
// the request asks for a crop or a non-original size, and CacheOnly
// wraps the whole chain last when the request is cache-only.
// ImageableProcessor is wrapped the same way Fetcher is, rather than
// bypassing Cropper/Resizer and handling its own resampling inline.
// Since every stage resamples to its own request's target dimensions
// regardless of what wraps it, wrapping ImageableProcessor the same
// way Fetcher is wrapped is a safe generalization: the inner stage
// ends up producing an original-size image (because the outer
// Resizer's spawned request forces Size=Original upstream), which the
// outer stage then resamples to the real target, rather than
// resampling directly to the final target itself.
func (s *Stages) Build(req imgreq.Request) imgsource.Source {
	var root imgsource.Source
	if req.Subject.Imageable != nil {
		root = &s.ImageableProcessor
	} else {
		root = &s.Fetcher
	}

	var chain imgsource.Source = root
	if req.Crop {
		chain = &imgtransform.Cropper{Inner: chain, Awaiter: &s.cropAwaiter}
	}
	if req.Size != imgsize.Original {
		chain = &imgtransform.Resizer{Inner: chain, Awaiter: &s.resizeAwaiter}
	}
	if req.CacheOnly {
		chain = &imgsource.CacheOnly{Inner: chain}
	}
	return chain
}
