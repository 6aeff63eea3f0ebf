package capture

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-pkgz/lgr"
)

// Registry maps decoder names to implementations. Constructed once at
// startup and injected into the executor and the HTTP layer; registration
// after population is rejected so the set is effectively read-only.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder

	popMu     sync.Mutex // serializes Populate, separate from mu which Register takes
	populated bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{decoders: map[string]Decoder{}}
}

// Register associates a decoder with its name. A name collision fails with
// ErrDuplicateCapability instead of silently overwriting the earlier decoder.
func (r *Registry) Register(d Decoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name()
	if name == "" {
		return fmt.Errorf("decoder has empty name")
	}
	if _, ok := r.decoders[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCapability, name)
	}

	r.decoders[name] = d
	lgr.Printf("[INFO] registered decoder: %s", name)
	return nil
}

// Resolve returns the decoder registered under name
func (r *Registry) Resolve(name string) (Decoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, name)
	}
	return d, nil
}

// Names returns the sorted list of registered decoder names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Populate runs the registration function exactly once per registry, even
// when called concurrently. A later call is a no-op, not a re-scan, so
// startup paths that run more than once don't duplicate registrations.
func (r *Registry) Populate(register func(*Registry) error) error {
	r.popMu.Lock()
	defer r.popMu.Unlock()

	if r.populated {
		lgr.Printf("[DEBUG] registry already populated, skipping")
		return nil
	}

	if err := register(r); err != nil {
		return fmt.Errorf("populate registry: %w", err)
	}

	r.populated = true
	return nil
}
