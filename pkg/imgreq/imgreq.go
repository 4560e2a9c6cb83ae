// Package imgreq defines ImageRequest, the immutable, hashable value
// object that describes exactly one resolvable image: what it pictures,
// at what size, cropped or not, and under what cache/disk policy.
package imgreq

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/guldfisk/scryimg/pkg/imgsize"
	"github.com/guldfisk/scryimg/pkg/osutil"
)

// Loader is the capability a rendering Imageable needs to recursively
// demand sub-images of its own (e.g. an emblem composed of other
// printings' art). loader.Loader implements this; it is declared here,
// rather than imported from pkg/loader, to avoid a import cycle
// (pkg/loader necessarily depends on pkg/imgreq for Request itself).
type Loader interface {
	// Resolve synchronously resolves req, the same work a top-level
	// Loader.GetImage call eventually does, so a nested Render call can
	// block on it directly instead of juggling its own future.
	Resolve(ctx context.Context, req Request) (image.Image, error)
}

// Imageable is anything that can render its own image directly,
// bypassing the remote catalog entirely (e.g. a generated token or
// emblem). Implementations must be safe for concurrent use.
type Imageable interface {
	// Render produces this subject's image at the requested size,
	// face, and crop. loader is passed back in so a rendering
	// implementation may recursively demand sub-images of its own.
	Render(ctx context.Context, size imgsize.SizeSlug, loader Loader, back, crop bool) (image.Image, error)
	// ImageName is the filename stem (no extension, no size/back/crop
	// suffixes) this subject's images are stored under.
	ImageName() string
	// ImageDirName is the subdirectory, under the images root, this
	// subject's images are stored under.
	ImageDirName() string
	// HasBack reports whether this subject has a distinct back face.
	HasBack() bool
}

// Printing is the minimal slice of a card printing's domain model this
// package needs: enough to address the remote catalog and to dispatch
// crop geometry, without depending on any particular domain model.
type Printing struct {
	// ID is the remote catalog identifier (e.g. a multiverse id),
	// used verbatim in RemoteCardURI.
	ID string
	// Layout is the printing's layout tag (e.g. "split", "saga",
	// "transform"), taken from the domain model rather than parsed
	// from catalog JSON.
	Layout string
	// TypeLine is the printing's rules type line, consulted by crop
	// dispatch for "Battle", "Saga" and "Room", which key off the type
	// line instead of (or in addition to) the layout tag or Tags.
	TypeLine string
	// BackName is the name of this printing's back face, if any; used
	// to resolve MELD back-face lookups against a fetched card's
	// all_parts list.
	BackName string
	// FrontFaceCount is the number of faces this printing's front side
	// is composed of, used to disambiguate split/aftermath layouts
	// (which always have exactly two) from other multi-face layouts.
	FrontFaceCount int
	// Tags are caller-supplied domain tags (e.g. "room", "battle")
	// that the layout string alone doesn't capture, consulted by crop
	// dispatch directly rather than parsed from catalog JSON.
	Tags []string
}

// Subject is the tagged union of what an ImageRequest pictures: either
// a Printing or an Imageable, never both. TypeTag is preserved
// independent of which variant is set, since callers may need it even
// when Printing/Imageable is nil (e.g. a purely named local lookup).
type Subject struct {
	Printing  *Printing
	Imageable Imageable
	TypeTag   string
}

// Request is the immutable description of one resolvable image.
type Request struct {
	Subject         Subject
	PictureName     string
	Back            bool
	Crop            bool
	Size            imgsize.SizeSlug
	Save            bool
	CacheOnly       bool
	AllowDiskCached bool

	imagesRoot string
}

// Option mutates a Request under construction.
type Option func(*Request)

// WithPictureName sets a named local-only lookup: when set, a disk-cache
// miss for this request is a NoLocalImage error rather than falling
// through to production.
func WithPictureName(name string) Option { return func(r *Request) { r.PictureName = name } }

// WithBack requests the subject's back face.
func WithBack(back bool) Option { return func(r *Request) { r.Back = back } }

// WithCrop requests the art-only crop region instead of the full card.
func WithCrop(crop bool) Option { return func(r *Request) { r.Crop = crop } }

// WithSize selects an output size tier.
func WithSize(size imgsize.SizeSlug) Option { return func(r *Request) { r.Size = size } }

// WithSave controls whether a produced image is written to disk.
func WithSave(save bool) Option { return func(r *Request) { r.Save = save } }

// WithCacheOnly requests that the image be produced and cached without
// ever being returned to the caller.
func WithCacheOnly(cacheOnly bool) Option { return func(r *Request) { r.CacheOnly = cacheOnly } }

// WithAllowDiskCached controls whether a disk-cache read is consulted
// before production.
func WithAllowDiskCached(allow bool) Option {
	return func(r *Request) { r.AllowDiskCached = allow }
}

// WithImagesRoot overrides the root directory image paths are derived
// under; callers normally leave this unset and let the loader supply it.
func WithImagesRoot(root string) Option { return func(r *Request) { r.imagesRoot = root } }

// New builds a Request for the given subject, defaulting to: save the
// result, serve from disk when possible, never crop, and never
// suppress the return value.
func New(subject Subject, opts ...Option) Request {
	r := Request{
		Subject:         subject,
		Size:            imgsize.Original,
		Save:            true,
		AllowDiskCached: true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Spawn returns a copy of r with opts applied on top, used by
// transformer stages to derive the upstream request they delegate to
// (e.g. a Resizer always spawns size=Original for its inner request).
func (r Request) Spawn(opts ...Option) Request {
	spawned := r
	for _, opt := range opts {
		opt(&spawned)
	}
	return spawned
}

// HasImage reports whether this request's subject can ever produce an
// image at all, independent of cache state: a bare pictured_name lookup
// with no Printing or Imageable backing it cannot, and an Imageable
// with no back face cannot when Back is requested.
func (r Request) HasImage() bool {
	switch {
	case r.Subject.Printing != nil:
		return true
	case r.Subject.Imageable != nil:
		return !r.Back || r.Subject.Imageable.HasBack()
	default:
		return false
	}
}

// Extension is the on-disk file extension every resolved image uses.
func (r Request) Extension() string { return ".png" }

// identifier is the stable identity component of the filename: the
// printing's catalog id, the imageable's name, or the bare picture
// name for a purely named lookup.
func (r Request) identifier() string {
	switch {
	case r.Subject.Printing != nil:
		return r.Subject.Printing.ID
	case r.Subject.Imageable != nil:
		return r.Subject.Imageable.ImageName()
	case r.PictureName != "":
		return r.PictureName
	default:
		return "cardback"
	}
}

// Name is the filename stem (no extension) this request resolves to,
// encoding back/crop/size so that distinct requests for the same
// subject never collide on disk.
func (r Request) Name() string {
	name := r.identifier()
	if r.Back {
		name += "_b"
	}
	if r.Crop {
		name += "_crop"
	}
	if code := r.Size.Code(); code != "" {
		name += "_" + code
	}
	return name
}

// DirPath is the directory this request's image lives in: the images
// root directly for printings and named lookups, a `_`-prefixed
// subfolder per imageable type, or the bundled card-back cache
// directory when no image is expected at all.
func (r Request) DirPath() string {
	switch {
	case r.Subject.Imageable != nil:
		return filepath.Join(r.imagesRoot, "_"+r.Subject.Imageable.ImageDirName())
	case r.Subject.Printing != nil, r.PictureName != "":
		return r.imagesRoot
	default:
		return osutil.CardbackCacheDir()
	}
}

// Path is the full on-disk path this request's image is read from and
// written to.
func (r Request) Path() string {
	return filepath.Join(r.DirPath(), r.Name()+r.Extension())
}

// RemoteCardURI is the remote catalog URL this request's printing is
// fetched from. It panics if Subject.Printing is nil; callers must only
// call it on requests that will reach the Fetcher stage.
func (r Request) RemoteCardURI() string {
	return fmt.Sprintf("https://api.scryfall.com/cards/multiverse/%s", r.Subject.Printing.ID)
}

// Key is a canonical string encoding every field that distinguishes one
// resolvable image from another, suitable as a single-flight and
// facade-cache key. It covers every field that Path/Name do plus the
// policy flags that don't affect the path but do affect behavior
// (cache_only, allow_disk_cached), since two requests for the same
// path under different policy must not be coalesced into one slot.
func (r Request) Key() string {
	dir := r.imagesRoot
	if r.Subject.Imageable != nil {
		dir = filepath.Join(dir, "_"+r.Subject.Imageable.ImageDirName())
	}
	return fmt.Sprintf("%s|dir=%s|tag=%s|name=%s|back=%t|crop=%t|size=%d|save=%t|cacheonly=%t|diskcached=%t",
		r.identifier(), dir, r.Subject.TypeTag, r.PictureName, r.Back, r.Crop, r.Size, r.Save, r.CacheOnly, r.AllowDiskCached)
}
