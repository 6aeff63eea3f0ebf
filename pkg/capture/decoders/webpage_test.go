package decoders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebpage_Describe(t *testing.T) {
	d := NewWebpage(30 * time.Second)
	assert.Equal(t, "webpage", d.Name())

	desc := d.Describe("https://example.com/dashboard?x=1")
	assert.Equal(t, "ok", desc["status"])
	assert.Equal(t, "example.com", desc["host"])
	assert.Equal(t, "1920x1080", desc["viewport"])

	desc = d.Describe("not a url")
	assert.Equal(t, "error", desc["status"])
}

func TestWebpage_DecodeInvalidURL(t *testing.T) {
	d := NewWebpage(time.Second)
	_, err := d.Decode(context.Background(), "::bogus::")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page url")
}
