package traitgen

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientAssets = errors.New("traitgen: amount exceeds combinatorial capacity")
	ErrLayerNotFound      = errors.New("traitgen: layer directory not found")
	ErrEmptyLayer         = errors.New("traitgen: layer has no assets")
	ErrDuplicateValue     = errors.New("traitgen: two assets in a layer share a value")
	ErrNoLayers           = errors.New("traitgen: no layers given")
	ErrInvalidAmount      = errors.New("traitgen: amount must be positive")
	ErrDuplicateLayer     = errors.New("traitgen: duplicate layer name")
	// ErrSamplingExhausted is returned by rejection sampling when a token
	// could not find an unused combination within the attempt limit.
	ErrSamplingExhausted = errors.New("traitgen: sampling attempts exhausted")
)

// InsufficientAssetsError reports a request that can never be satisfied
// with unique combinations. It is raised before any output is written.
type InsufficientAssetsError struct {
	Amount   int
	Capacity uint64
}

func (e *InsufficientAssetsError) Error() string {
	return fmt.Sprintf("traitgen: requested %d tokens but only %d unique combinations exist", e.Amount, e.Capacity)
}

func (e *InsufficientAssetsError) Unwrap() error { return ErrInsufficientAssets }

// CatalogError wraps a failure to list or read a layer's storage.
type CatalogError struct {
	Layer string
	Err   error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("traitgen: layer %q: %v", e.Layer, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// DecodeError wraps a failure to open or decode an asset file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("traitgen: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError wraps a failure to serialize a token's image or metadata.
type EncodeError struct {
	ID  int
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("traitgen: encode token %d: %v", e.ID, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// WriteError wraps a failure to persist an output file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("traitgen: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsInsufficientAssets reports whether err is a capacity rejection.
func IsInsufficientAssets(err error) bool { return errors.Is(err, ErrInsufficientAssets) }
