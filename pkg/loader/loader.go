// Package loader is the public facade over the resolution pipeline: it
// owns the bounded worker pools, the facade cache in front of disk, and
// dispatches every request to the right long-lived pipeline stage set.
package loader

import (
	"context"
	"image"
	"sync"

	"go4.org/jsonconfig"
	"go4.org/syncutil"

	"github.com/guldfisk/scryimg/pkg/cardback"
	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/imgsize"
	"github.com/guldfisk/scryimg/pkg/lru"
	"github.com/guldfisk/scryimg/pkg/osutil"
	"github.com/guldfisk/scryimg/pkg/pipeline"
)

// Config configures a Loader. New replaces a zero ImagesRoot or pool
// size with its default; a zero CacheSize is kept (see CacheSize).
type Config struct {
	// ImagesRoot is the directory resolved images are read from and
	// written to. Defaults to osutil.ImagesRoot().
	ImagesRoot string
	// PrintingPoolSize bounds concurrent remote-catalog work.
	PrintingPoolSize int
	// ImageablePoolSize bounds concurrent local rendering work.
	ImageablePoolSize int
	// CacheSize bounds the in-memory facade cache held in front of
	// disk. Zero means unbounded.
	CacheSize int
}

// ConfigFromJSONConfig builds a Config from a jsonconfig object, the
// same configuration idiom perkeep's handler constructors use
// throughout pkg/server.
func ConfigFromJSONConfig(conf jsonconfig.Obj) (Config, error) {
	cfg := Config{
		ImagesRoot:        conf.OptionalString("imagesRoot", ""),
		PrintingPoolSize:  conf.OptionalInt("printingPoolSize", 8),
		ImageablePoolSize: conf.OptionalInt("imageablePoolSize", 4),
		CacheSize:         conf.OptionalInt("cacheSize", 512),
	}
	return cfg, conf.Validate()
}

// Loader is the public entry point for resolving images.
type Loader struct {
	stages pipeline.Stages

	printingGate  *syncutil.Gate
	imageableGate *syncutil.Gate

	cache      *lru.Cache[string, image.Image]
	imagesRoot string

	wg sync.WaitGroup
}

// New builds a Loader from cfg, applying defaults for any zero-valued
// field.
func New(cfg Config) *Loader {
	imagesRoot := cfg.ImagesRoot
	if imagesRoot == "" {
		imagesRoot = osutil.ImagesRoot()
	}
	printingPool := cfg.PrintingPoolSize
	if printingPool <= 0 {
		printingPool = 8
	}
	imageablePool := cfg.ImageablePoolSize
	if imageablePool <= 0 {
		imageablePool = 4
	}

	l := &Loader{
		printingGate:  syncutil.NewGate(printingPool),
		imageableGate: syncutil.NewGate(imageablePool),
		cache:         lru.New[string, image.Image](cfg.CacheSize),
		imagesRoot:    imagesRoot,
	}
	l.stages.ImageableProcessor.Loader = l
	return l
}

// Resolve synchronously resolves req, implementing imgreq.Loader so a
// rendering Imageable may recursively demand sub-images of its own.
// Unlike GetImage, it does not route through the worker pools: a
// recursive call already runs on a pool goroutine, and routing it back
// through the same bounded gate risks deadlock if the pool is saturated
// by outer calls waiting on it.
func (l *Loader) Resolve(ctx context.Context, req imgreq.Request) (image.Image, error) {
	req = req.Spawn(imgreq.WithImagesRoot(l.imagesRoot))
	if cached, ok := l.cache.Get(req.Key()); ok {
		return cached, nil
	}
	chain := l.stages.Build(req)
	img, err := chain.GetImage(ctx, req)
	if err != nil {
		return nil, err
	}
	if img != nil {
		l.cache.Add(req.Key(), img)
	}
	return img, nil
}

// Future is a handle to a single GetImage call, in flight or complete.
type Future struct {
	done chan struct{}
	img  image.Image
	err  error
}

// Wait blocks until the underlying call completes and returns its
// result, or returns early if ctx is done first.
func (f *Future) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetImage resolves req asynchronously, returning a Future the caller
// can Wait on. Work is gated by a pool sized for printings or
// imageables depending on the request's subject, so a burst of one
// kind of request can't starve the other.
func (l *Loader) GetImage(ctx context.Context, req imgreq.Request) *Future {
	req = req.Spawn(imgreq.WithImagesRoot(l.imagesRoot))
	fut := &Future{done: make(chan struct{})}

	gate := l.printingGate
	if req.Subject.Imageable != nil {
		gate = l.imageableGate
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(fut.done)

		gate.Start()
		defer gate.Done()

		key := req.Key()
		if cached, ok := l.cache.Get(key); ok {
			fut.img = cached
			return
		}

		chain := l.stages.Build(req)
		img, err := chain.GetImage(ctx, req)
		if err != nil {
			fut.err = err
			return
		}
		if img != nil {
			l.cache.Add(key, img)
		}
		fut.img = img
	}()

	return fut
}

// GetDefaultImage returns the bundled card-back image at the given
// size tier, generating and caching smaller tiers on first request.
func (l *Loader) GetDefaultImage(slug imgsize.SizeSlug, crop bool) (image.Image, error) {
	return cardback.Get(slug, crop)
}

// Stop waits for every in-flight GetImage call to finish. It does not
// cancel them; callers that need cancellation should do so via the
// context passed to GetImage before calling Stop.
func (l *Loader) Stop() {
	l.wg.Wait()
}
