package decoders

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYouTube_Describe(t *testing.T) {
	d := NewYouTube(http.DefaultClient)
	assert.Equal(t, "youtube", d.Name())

	desc := d.Describe("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Equal(t, "ok", desc["status"])
	assert.Equal(t, "dQw4w9WgXcQ", desc["video_id"])

	desc = d.Describe("https://example.com/not-a-video")
	assert.Equal(t, "error", desc["status"])
}
