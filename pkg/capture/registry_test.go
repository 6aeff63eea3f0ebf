package capture

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDecoder struct{ name string }

func (s *stubDecoder) Name() string { return s.name }
func (s *stubDecoder) Decode(_ context.Context, _ string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}
func (s *stubDecoder) Describe(_ string) map[string]string { return DefaultDescription() }

func TestRegistry_RegisterResolve(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&stubDecoder{name: "single_frame"}))
	require.NoError(t, reg.Register(&stubDecoder{name: "mjpeg"}))

	d, err := reg.Resolve("single_frame")
	require.NoError(t, err)
	assert.Equal(t, "single_frame", d.Name())

	assert.Equal(t, []string{"mjpeg", "single_frame"}, reg.Names())
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubDecoder{name: "single_frame"}))

	err := reg.Register(&stubDecoder{name: "single_frame"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateCapability)
}

func TestRegistry_EmptyName(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, reg.Register(&stubDecoder{name: ""}))
}

func TestRegistry_ResolveNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAdapterNotFound)
}

func TestRegistry_PopulateOnce(t *testing.T) {
	reg := NewRegistry()
	calls := 0

	register := func(r *Registry) error {
		calls++
		return r.Register(&stubDecoder{name: "single_frame"})
	}

	require.NoError(t, reg.Populate(register))
	require.NoError(t, reg.Populate(register), "second populate is a no-op")
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"single_frame"}, reg.Names())
}

func TestRegistry_PopulateConcurrent(t *testing.T) {
	reg := NewRegistry()
	var calls int32

	register := func(r *Registry) error {
		atomic.AddInt32(&calls, 1)
		return r.Register(&stubDecoder{name: "single_frame"})
	}

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.Populate(register)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"single_frame"}, reg.Names())
}

func TestRegistry_PopulateError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")

	err := reg.Populate(func(*Registry) error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// a failed populate doesn't mark the registry populated
	require.NoError(t, reg.Populate(func(r *Registry) error {
		return r.Register(&stubDecoder{name: "single_frame"})
	}))
	assert.Equal(t, []string{"single_frame"}, reg.Names())
}

func TestDefaultDescription(t *testing.T) {
	desc := DefaultDescription()
	assert.Equal(t, "ok", desc["status"])
}
