package decoders

import (
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	yt "github.com/kkdai/youtube/v2"

	"github.com/umputun/feedalor/pkg/capture"
)

// YouTube extracts a single frame from a hosted video by resolving the
// video's metadata and fetching its highest-resolution poster image.
// The descriptor is the video URL or ID.
type YouTube struct {
	client *http.Client
}

// NewYouTube creates the hosted-video decoder
func NewYouTube(client *http.Client) *YouTube {
	return &YouTube{client: client}
}

// Name returns the decoder name
func (d *YouTube) Name() string { return "youtube" }

// Decode resolves the video and fetches its best thumbnail as the frame
func (d *YouTube) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	client := yt.Client{HTTPClient: d.client}

	video, err := client.GetVideoContext(ctx, descriptor)
	if err != nil {
		return nil, fmt.Errorf("youtube: resolve video %q: %w", descriptor, err)
	}

	if len(video.Thumbnails) == 0 {
		return nil, fmt.Errorf("youtube: video %q has no poster images", descriptor)
	}

	best := video.Thumbnails[0]
	for _, t := range video.Thumbnails[1:] {
		if t.Width > best.Width {
			best = t
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, best.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("youtube: build poster request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube: fetch poster: unexpected status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("youtube: decode poster: %w", err)
	}
	return img, nil
}

// Describe validates the descriptor and reports the extracted video ID
// without touching the network
func (d *YouTube) Describe(descriptor string) map[string]string {
	id, err := yt.ExtractVideoID(descriptor)
	if err != nil {
		return map[string]string{"status": "error", "error": fmt.Sprintf("invalid video descriptor %q: %v", descriptor, err)}
	}
	return map[string]string{"status": "ok", "video_id": id}
}

var _ capture.Decoder = (*YouTube)(nil)
