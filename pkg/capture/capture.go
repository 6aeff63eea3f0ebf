// Package capture defines the source adapter contract and the registry
// that resolves a feed's configured decoder name to an implementation.
package capture

import (
	"context"
	"errors"
	"image"
)

// decoder resolution and registration errors
var (
	// ErrAdapterNotFound is returned when a feed references an unregistered decoder
	ErrAdapterNotFound = errors.New("adapter not found")
	// ErrDuplicateCapability is returned when two decoders claim the same name
	ErrDuplicateCapability = errors.New("duplicate capability name")
)

// Decoder turns a feed's source descriptor into a single raster image.
// Decode is all-or-nothing: on any failure it returns an error and no image,
// never a partial frame. Implementations must honor the context deadline.
type Decoder interface {
	Name() string
	Decode(ctx context.Context, descriptor string) (image.Image, error)
	Describe(descriptor string) map[string]string
}

// DefaultDescription is the trivial Describe result for decoders that
// don't report anything useful without performing a full capture.
func DefaultDescription() map[string]string {
	return map[string]string{
		"status": "ok",
		"note":   "no metadata provided by this decoder",
	}
}
