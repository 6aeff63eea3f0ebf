package decoders

import (
	"context"
	"fmt"
	"image"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/umputun/feedalor/pkg/capture"
)

// maxFrameSize caps a single MJPEG part, a frame bigger than this is
// treated as a stream error rather than a legitimate capture
const maxFrameSize = 32 << 20 // 32MB

// MJPEG grabs a single frame from a network MJPEG stream
// (multipart/x-mixed-replace). The descriptor is the stream URL.
// Plain image responses are accepted too, some cameras serve either
// depending on the path.
type MJPEG struct {
	client    *http.Client
	userAgent string
}

// NewMJPEG creates the stream-frame decoder
func NewMJPEG(client *http.Client, userAgent string) *MJPEG {
	return &MJPEG{client: client, userAgent: userAgent}
}

// Name returns the decoder name
func (d *MJPEG) Name() string { return "mjpeg" }

// Decode connects to the stream and decodes the first complete frame
func (d *MJPEG) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, descriptor, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", descriptor, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	addBrowserHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect to stream %s: %w", descriptor, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stream %s: unexpected status %d", descriptor, resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("stream %s: parse content type: %w", descriptor, err)
	}

	// some cameras answer with a plain still on the stream URL
	if strings.HasPrefix(mediaType, "image/") {
		img, err := imaging.Decode(io.LimitReader(resp.Body, maxFrameSize))
		if err != nil {
			return nil, fmt.Errorf("decode still from %s: %w", descriptor, err)
		}
		return img, nil
	}

	if mediaType != "multipart/x-mixed-replace" {
		return nil, fmt.Errorf("stream %s: unsupported content type %s", descriptor, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("stream %s: missing multipart boundary", descriptor)
	}

	mr := multipart.NewReader(resp.Body, boundary)
	part, err := mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("stream %s: read frame part: %w", descriptor, err)
	}
	defer part.Close()

	img, err := imaging.Decode(io.LimitReader(part, maxFrameSize))
	if err != nil {
		return nil, fmt.Errorf("decode frame from %s: %w", descriptor, err)
	}
	return img, nil
}

// Describe returns the trivial status, probing a stream costs a connection
func (d *MJPEG) Describe(_ string) map[string]string {
	return capture.DefaultDescription()
}

var _ capture.Decoder = (*MJPEG)(nil)
