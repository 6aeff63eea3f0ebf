package decoders

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/go-pkgz/lgr"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/umputun/feedalor/pkg/capture"
)

// default endpoints, overridable in tests
const (
	defaultISSPositionURL = "http://api.open-notify.org/iss-now.json"
	defaultStaticMapURL   = "https://maps.googleapis.com/maps/api/staticmap"
)

// ISSMap produces a world-map image with the current ISS position marked.
// Descriptor micro-syntax: "ISS" or
// "ISS:zoom=3,map_style=hybrid,show_latlon=false,size=640x400,font_size=18,font_color=white".
type ISSMap struct {
	client       *http.Client
	apiKey       string
	positionURL  string
	staticMapURL string
}

// issOptions holds parsed descriptor parameters
type issOptions struct {
	zoom       int
	mapStyle   string
	showLatLon bool
	width      int
	height     int
	fontSize   float64
	fontColor  string
}

// NewISSMap creates the ISS map decoder
func NewISSMap(client *http.Client, apiKey string) *ISSMap {
	return &ISSMap{
		client:       client,
		apiKey:       apiKey,
		positionURL:  defaultISSPositionURL,
		staticMapURL: defaultStaticMapURL,
	}
}

// Name returns the decoder name
func (d *ISSMap) Name() string { return "iss_map" }

// Decode fetches the ISS position, renders a map centered on it and
// overlays a position marker and optional coordinates label
func (d *ISSMap) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	opts, err := parseISSDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	if d.apiKey == "" {
		return nil, fmt.Errorf("iss_map: google maps api key not configured")
	}

	lat, lon, err := d.fetchPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("iss_map: fetch position: %w", err)
	}

	mapImg, err := d.fetchStaticMap(ctx, lat, lon, opts)
	if err != nil {
		return nil, fmt.Errorf("iss_map: fetch map: %w", err)
	}

	dc := gg.NewContextForImage(mapImg)

	// map is centered on the ISS, so the marker lands at the center pixel
	x, y := latLonToPixel(lat, lon, lat, lon, opts.zoom, dc.Width(), dc.Height())
	dc.SetColor(colorByName(opts.fontColor))
	dc.DrawCircle(float64(x), float64(y), 6)
	dc.Fill()

	if opts.showLatLon {
		if err := d.drawLabel(dc, fmt.Sprintf("Lat: %.2f, Lon: %.2f", lat, lon), opts); err != nil {
			lgr.Printf("[WARN] iss_map: label drawing failed: %v", err)
		}
	}

	return dc.Image(), nil
}

// Describe reports the parsed descriptor options without any network calls
func (d *ISSMap) Describe(descriptor string) map[string]string {
	opts, err := parseISSDescriptor(descriptor)
	if err != nil {
		return map[string]string{"status": "error", "error": err.Error()}
	}
	return map[string]string{
		"status":      "ok",
		"zoom":        strconv.Itoa(opts.zoom),
		"map_style":   opts.mapStyle,
		"show_latlon": strconv.FormatBool(opts.showLatLon),
		"size":        fmt.Sprintf("%dx%d", opts.width, opts.height),
	}
}

// fetchPosition gets the current ISS coordinates from the position API.
// The API reports coordinates as strings.
func (d *ISSMap) fetchPosition(ctx context.Context) (lat, lon float64, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.positionURL, http.NoBody)
	if err != nil {
		return 0, 0, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var data struct {
		ISSPosition struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"iss_position"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, 0, fmt.Errorf("parse position response: %w", err)
	}

	if lat, err = strconv.ParseFloat(data.ISSPosition.Latitude, 64); err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}
	if lon, err = strconv.ParseFloat(data.ISSPosition.Longitude, 64); err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}
	return lat, lon, nil
}

// fetchStaticMap retrieves the base map image centered on the given position
func (d *ISSMap) fetchStaticMap(ctx context.Context, lat, lon float64, opts issOptions) (image.Image, error) {
	q := url.Values{}
	q.Set("center", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("zoom", strconv.Itoa(opts.zoom))
	q.Set("size", fmt.Sprintf("%dx%d", opts.width, opts.height))
	q.Set("maptype", opts.mapStyle)
	q.Set("key", d.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.staticMapURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode map image: %w", err)
	}
	return img, nil
}

// drawLabel renders the coordinates label in the top-left corner
func (d *ISSMap) drawLabel(dc *gg.Context, label string, opts issOptions) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: opts.fontSize}))
	dc.SetColor(colorByName(opts.fontColor))
	dc.DrawString(label, 10, 10+opts.fontSize)
	return nil
}

// parseISSDescriptor parses the ISS micro-syntax with defaults
func parseISSDescriptor(descriptor string) (issOptions, error) {
	opts := issOptions{
		zoom:       2,
		mapStyle:   "roadmap",
		showLatLon: true,
		width:      800,
		height:     400,
		fontSize:   16,
		fontColor:  "red",
	}

	if !strings.HasPrefix(descriptor, "ISS") {
		return opts, fmt.Errorf("iss_map descriptor must begin with ISS, got %q", descriptor)
	}
	rest := strings.TrimPrefix(descriptor, "ISS")
	if rest == "" {
		return opts, nil
	}
	if !strings.HasPrefix(rest, ":") {
		return opts, fmt.Errorf("iss_map descriptor parameters must follow ISS:, got %q", descriptor)
	}

	for _, kv := range strings.Split(rest[1:], ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok {
			return opts, fmt.Errorf("iss_map parameter %q is not key=value", kv)
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)

		var err error
		switch key {
		case "zoom":
			opts.zoom, err = strconv.Atoi(val)
		case "map_style":
			opts.mapStyle = val
		case "show_latlon":
			opts.showLatLon, err = strconv.ParseBool(val)
		case "size":
			w, h, okSize := strings.Cut(val, "x")
			if !okSize {
				return opts, fmt.Errorf("iss_map size must be WxH, got %q", val)
			}
			if opts.width, err = strconv.Atoi(w); err == nil {
				opts.height, err = strconv.Atoi(h)
			}
		case "font_size":
			opts.fontSize, err = strconv.ParseFloat(val, 64)
		case "font_color":
			opts.fontColor = val
		default:
			return opts, fmt.Errorf("iss_map unknown parameter %q", key)
		}
		if err != nil {
			return opts, fmt.Errorf("iss_map parameter %s: %w", key, err)
		}
	}
	return opts, nil
}

// latLonToPixel projects a coordinate to image pixels with the Web Mercator
// projection, relative to a map centered at centerLat/centerLon
func latLonToPixel(lat, lon, centerLat, centerLon float64, zoom, width, height int) (x, y int) {
	const tileSize = 256
	scale := math.Exp2(float64(zoom))

	lonToX := func(lon float64) float64 {
		return (lon + 180) / 360 * scale * tileSize
	}
	latToY := func(lat float64) float64 {
		latRad := lat * math.Pi / 180
		return (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * scale * tileSize
	}

	dx := lonToX(lon) - lonToX(centerLon)
	dy := latToY(lat) - latToY(centerLat)

	return width/2 + int(dx), height/2 + int(dy)
}

// colorByName maps a small set of color names to colors, defaulting to red
func colorByName(name string) color.Color {
	colors := map[string]color.Color{
		"red":    color.RGBA{R: 255, A: 255},
		"green":  color.RGBA{G: 128, A: 255},
		"blue":   color.RGBA{B: 255, A: 255},
		"black":  color.RGBA{A: 255},
		"white":  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		"yellow": color.RGBA{R: 255, G: 255, A: 255},
	}
	if c, ok := colors[strings.ToLower(name)]; ok {
		return c
	}
	return colors["red"]
}

var _ capture.Decoder = (*ISSMap)(nil)
