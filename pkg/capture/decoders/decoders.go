// Package decoders implements the built-in source adapters: direct still
// fetches, MJPEG stream grabs, webpage screenshots, composite map images
// and hosted-video frames.
package decoders

import (
	"fmt"
	"net/http"
	"time"

	"github.com/umputun/feedalor/pkg/capture"
)

// Config holds settings shared by the built-in decoders
type Config struct {
	Client           *http.Client // shared client for adapter HTTP fetches
	UserAgent        string
	GoogleMapsAPIKey string
	CacheDir         string // adapter-local caches and counters live here
	BrowserTimeout   time.Duration
}

// Register adds the full built-in decoder set to the registry.
// Meant to be called from Registry.Populate at process start.
func Register(reg *capture.Registry, cfg Config) error {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Feedalor/1.0"
	}
	if cfg.BrowserTimeout == 0 {
		cfg.BrowserTimeout = 30 * time.Second
	}

	all := []capture.Decoder{
		NewSingleFrame(cfg.Client, cfg.UserAgent),
		NewMJPEG(cfg.Client, cfg.UserAgent),
		NewWebpage(cfg.BrowserTimeout),
		NewISSMap(cfg.Client, cfg.GoogleMapsAPIKey),
		NewRoute(cfg.Client, cfg.GoogleMapsAPIKey, cfg.CacheDir),
		NewYouTube(cfg.Client),
	}

	for _, d := range all {
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("register %s: %w", d.Name(), err)
		}
	}
	return nil
}
