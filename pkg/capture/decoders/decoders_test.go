package decoders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedalor/pkg/capture"
)

func TestRegister(t *testing.T) {
	reg := capture.NewRegistry()
	require.NoError(t, Register(reg, Config{CacheDir: t.TempDir()}))

	assert.Equal(t, []string{"iss_map", "mjpeg", "route", "single_frame", "webpage", "youtube"}, reg.Names())

	d, err := reg.Resolve("single_frame")
	require.NoError(t, err)
	assert.Equal(t, "single_frame", d.Name())
}

func TestRegister_ViaPopulateTwice(t *testing.T) {
	reg := capture.NewRegistry()
	cfg := Config{CacheDir: t.TempDir()}

	require.NoError(t, reg.Populate(func(r *capture.Registry) error { return Register(r, cfg) }))
	require.NoError(t, reg.Populate(func(r *capture.Registry) error { return Register(r, cfg) }))

	assert.Len(t, reg.Names(), 6)
}
