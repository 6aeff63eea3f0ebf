package decoders

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/umputun/feedalor/pkg/capture"
)

// SingleFrame fetches a still image over HTTP. The descriptor is the image URL.
type SingleFrame struct {
	client    *http.Client
	userAgent string
}

// NewSingleFrame creates the still-image decoder
func NewSingleFrame(client *http.Client, userAgent string) *SingleFrame {
	return &SingleFrame{client: client, userAgent: userAgent}
}

// Name returns the decoder name
func (d *SingleFrame) Name() string { return "single_frame" }

// Decode fetches the URL and decodes the response body as an image
func (d *SingleFrame) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, descriptor, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", descriptor, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	addBrowserHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", descriptor, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", descriptor, resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image from %s: %w", descriptor, err)
	}
	return img, nil
}

// Describe probes the URL with a HEAD request and reports format info
// without downloading the image.
func (d *SingleFrame) Describe(descriptor string) map[string]string {
	req, err := http.NewRequest(http.MethodHead, descriptor, http.NoBody)
	if err != nil {
		return map[string]string{"status": "error", "error": err.Error()}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return map[string]string{"status": "error", "error": err.Error()}
	}
	defer resp.Body.Close()

	res := map[string]string{
		"status":       "ok",
		"http_status":  strconv.Itoa(resp.StatusCode),
		"content_type": resp.Header.Get("Content-Type"),
	}
	if resp.ContentLength >= 0 {
		res["content_length"] = strconv.FormatInt(resp.ContentLength, 10)
	}
	return res
}

// ensure interface compliance
var _ capture.Decoder = (*SingleFrame)(nil)
