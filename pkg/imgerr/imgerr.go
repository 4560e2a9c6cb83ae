// Package imgerr defines the error taxonomy returned by every stage of
// the image resolution pipeline.
package imgerr

import "fmt"

// Kind classifies why an image could not be resolved.
type Kind int

const (
	// Transport covers network failures reaching the remote catalog.
	Transport Kind = iota
	// RemoteStatus covers a non-2xx response from the remote catalog.
	RemoteStatus
	// DecodeError covers a file or response body that failed to decode
	// as an image.
	DecodeError
	// MissingLocalFile covers a disk-cache read that failed because the
	// file wasn't there or wasn't readable.
	MissingLocalFile
	// NoLocalImage covers a request for a named local image (pictured_name)
	// that allows disk cache but finds nothing on disk.
	NoLocalImage
	// MissingDefault covers a subject with no image and no fallback
	// default to serve instead.
	MissingDefault
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case RemoteStatus:
		return "remote status"
	case DecodeError:
		return "decode error"
	case MissingLocalFile:
		return "missing local file"
	case NoLocalImage:
		return "no local image"
	case MissingDefault:
		return "missing default"
	default:
		return "unknown"
	}
}

// ImageFetchError is the single error type returned across the image
// resolution pipeline. Callers that need to branch on failure mode
// should inspect Kind via errors.As, not the message text.
type ImageFetchError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ImageFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ImageFetchError) Unwrap() error { return e.Err }

// New constructs an ImageFetchError with no wrapped cause.
func New(kind Kind, msg string) *ImageFetchError {
	return &ImageFetchError{Kind: kind, Msg: msg}
}

// Wrap constructs an ImageFetchError wrapping an underlying cause.
func Wrap(kind Kind, msg string, err error) *ImageFetchError {
	return &ImageFetchError{Kind: kind, Msg: msg, Err: err}
}

// TransportErr reports a network-level failure reaching the remote catalog.
func TransportErr(err error) *ImageFetchError {
	return Wrap(Transport, "request to remote catalog failed", err)
}

// RemoteStatusErr reports a non-2xx response from the remote catalog.
func RemoteStatusErr(status string) *ImageFetchError {
	return New(RemoteStatus, "remote catalog returned "+status)
}

// DecodeErr reports an image that failed to decode.
func DecodeErr(source string, err error) *ImageFetchError {
	return Wrap(DecodeError, "could not decode image from "+source, err)
}

// MissingLocalFileErr reports a disk-cache miss.
func MissingLocalFileErr(path string, err error) *ImageFetchError {
	return Wrap(MissingLocalFile, "no readable file at "+path, err)
}

// NoLocalImageErr reports a named local image absent from disk.
func NoLocalImageErr() *ImageFetchError {
	return New(NoLocalImage, "no local image with that name")
}

// MissingDefaultErr reports a subject with neither an image nor a
// usable default.
func MissingDefaultErr() *ImageFetchError {
	return New(MissingDefault, "missing default image")
}
