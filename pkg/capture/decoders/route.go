package decoders

import (
	"context"
	"crypto/md5" //nolint:gosec // cache key, not security
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/go-pkgz/lgr"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/umputun/feedalor/pkg/capture"
)

// route adapter constants
const (
	defaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"
	routeImageWidth      = 800
	routeImageHeight     = 600
	routeMapType         = "roadmap"
	routeFontSize        = 25.0
	maxCacheAge          = 7 * 24 * time.Hour
)

// Route renders a traffic-aware driving route between two places on a map.
// Descriptor micro-syntax: "ROUTE:ORIGIN->DESTINATION[;threshold=MINUTES]".
// When travel time exceeds the threshold the route and label turn red.
// Base map images are cached by content hash with a 7-day eviction, and a
// monthly tally of external API calls is persisted across restarts.
type Route struct {
	client        *http.Client
	apiKey        string
	cacheDir      string
	tallyFile     string
	directionsURL string
	staticMapURL  string

	tallyMu sync.Mutex
}

// routeSpec holds the parsed descriptor
type routeSpec struct {
	origin      string
	destination string
	threshold   int // minutes, 0 means no threshold
}

// NewRoute creates the route decoder. Cache and tally files live under
// cacheDir/route, private to this adapter.
func NewRoute(client *http.Client, apiKey, cacheDir string) *Route {
	base := filepath.Join(cacheDir, "route")
	return &Route{
		client:        client,
		apiKey:        apiKey,
		cacheDir:      filepath.Join(base, "map_cache"),
		tallyFile:     filepath.Join(base, "api_tally.txt"),
		directionsURL: defaultDirectionsURL,
		staticMapURL:  defaultStaticMapURL,
	}
}

// Name returns the decoder name
func (d *Route) Name() string { return "route" }

// Decode fetches directions, renders the route map and overlays the
// origin/destination and current travel time
func (d *Route) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	d.pruneCache()

	spec, err := parseRouteDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	if d.apiKey == "" {
		return nil, fmt.Errorf("route: google maps api key not configured")
	}

	directions, err := d.fetchDirections(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("route: fetch directions: %w", err)
	}

	pathColor, textColor := "0x0000ffff", "black"
	if spec.threshold > 0 && directions.durationMinutes > spec.threshold {
		pathColor, textColor = "0xff0000ff", "red"
	}

	mapImg, err := d.routeMap(ctx, spec, directions.polyline, pathColor)
	if err != nil {
		return nil, fmt.Errorf("route: fetch map: %w", err)
	}

	img, err := d.overlay(mapImg, spec, directions.durationText, textColor)
	if err != nil {
		return nil, fmt.Errorf("route: draw overlay: %w", err)
	}
	return img, nil
}

// Describe reports the parsed route without any network calls
func (d *Route) Describe(descriptor string) map[string]string {
	spec, err := parseRouteDescriptor(descriptor)
	if err != nil {
		return map[string]string{"status": "error", "error": err.Error()}
	}
	res := map[string]string{
		"status":      "ok",
		"origin":      spec.origin,
		"destination": spec.destination,
	}
	if spec.threshold > 0 {
		res["threshold_minutes"] = strconv.Itoa(spec.threshold)
	}
	return res
}

// directionsResult is the subset of the directions response the adapter uses
type directionsResult struct {
	polyline        string
	durationText    string
	durationMinutes int
}

// fetchDirections queries the directions API with live traffic
func (d *Route) fetchDirections(ctx context.Context, spec routeSpec) (*directionsResult, error) {
	q := url.Values{}
	q.Set("origin", spec.origin)
	q.Set("destination", spec.destination)
	q.Set("departure_time", "now")
	q.Set("traffic_model", "best_guess")
	q.Set("key", d.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.directionsURL+"?"+q.Encode(), http.NoBody)
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
	d.bumpTally()

	var data struct {
		Routes []struct {
			OverviewPolyline struct {
				Points string `json:"points"`
			} `json:"overview_polyline"`
			Legs []struct {
				Duration          *durationField `json:"duration"`
				DurationInTraffic *durationField `json:"duration_in_traffic"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse directions response: %w", err)
	}

	if len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		return nil, fmt.Errorf("no route found between %s and %s", spec.origin, spec.destination)
	}

	leg := data.Routes[0].Legs[0]
	dur := leg.DurationInTraffic
	if dur == nil {
		dur = leg.Duration
	}
	if dur == nil {
		return nil, fmt.Errorf("directions response missing duration")
	}

	return &directionsResult{
		polyline:        data.Routes[0].OverviewPolyline.Points,
		durationText:    dur.Text,
		durationMinutes: dur.Value / 60,
	}, nil
}

// durationField mirrors the {text, value} duration objects in the response
type durationField struct {
	Text  string `json:"text"`
	Value int    `json:"value"` // seconds
}

// routeMap returns the base map with the route drawn, from cache when the
// same polyline and color were rendered within the cache age
func (d *Route) routeMap(ctx context.Context, spec routeSpec, polyline, pathColor string) (image.Image, error) {
	if err := os.MkdirAll(d.cacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	hash := md5.Sum([]byte(polyline + pathColor)) //nolint:gosec // cache key, not security
	cachePath := filepath.Join(d.cacheDir, hex.EncodeToString(hash[:])+".jpg")

	if img, err := imaging.Open(cachePath); err == nil {
		return img, nil
	}

	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", routeImageWidth, routeImageHeight))
	q.Set("maptype", routeMapType)
	q.Set("path", fmt.Sprintf("color:%s|weight:5|enc:%s", pathColor, polyline))
	q.Add("markers", "color:green|label:A|"+spec.origin)
	q.Add("markers", "color:red|label:B|"+spec.destination)
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
	d.bumpTally()

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode map image: %w", err)
	}

	if err := imaging.Save(img, cachePath); err != nil {
		lgr.Printf("[WARN] route: cache write failed: %v", err)
	}
	return img, nil
}

// overlay draws the origin/destination and travel time in a text box
func (d *Route) overlay(mapImg image.Image, spec routeSpec, durationText, textColor string) (image.Image, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	dc := gg.NewContextForImage(mapImg)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: routeFontSize}))

	lines := []string{
		fmt.Sprintf("%s -> %s", spec.origin, spec.destination),
		"Time: " + durationText,
	}

	const pad = 10.0
	maxWidth := 0.0
	for _, line := range lines {
		if w, _ := dc.MeasureString(line); w > maxWidth {
			maxWidth = w
		}
	}
	boxHeight := (routeFontSize+10)*float64(len(lines)) + 2*pad

	dc.SetRGBA(1, 1, 1, 0.9)
	dc.DrawRectangle(10, 10, maxWidth+2*pad, boxHeight)
	dc.Fill()

	dc.SetColor(colorByName(textColor))
	for i, line := range lines {
		y := 10 + pad + float64(i)*(routeFontSize+10) + routeFontSize
		dc.DrawString(line, 10+pad, y)
	}

	return dc.Image(), nil
}

// pruneCache removes cached maps older than the cache age
func (d *Route) pruneCache() {
	entries, err := os.ReadDir(d.cacheDir)
	if err != nil {
		return // nothing cached yet
	}

	cutoff := time.Now().Add(-maxCacheAge)
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(d.cacheDir, e.Name())); err != nil {
				lgr.Printf("[WARN] route: cache prune failed for %s: %v", e.Name(), err)
			}
		}
	}
}

// bumpTally increments the persisted per-month count of external API calls
func (d *Route) bumpTally() {
	d.tallyMu.Lock()
	defer d.tallyMu.Unlock()

	tally, err := readTally(d.tallyFile)
	if err != nil {
		lgr.Printf("[WARN] route: read tally: %v", err)
		tally = map[string]int{}
	}

	tally[time.Now().UTC().Format("2006-01")]++

	if err := writeTally(d.tallyFile, tally); err != nil {
		lgr.Printf("[WARN] route: write tally: %v", err)
	}
}

// readTally parses "YYYY-MM:count" lines
func readTally(path string) (map[string]int, error) {
	tally := map[string]int{}

	data, err := os.ReadFile(path) //nolint:gosec // adapter-private file
	if err != nil {
		if os.IsNotExist(err) {
			return tally, nil
		}
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		month, count, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(count)
		if err != nil {
			continue
		}
		tally[month] = n
	}
	return tally, nil
}

// writeTally rewrites the tally file with sorted months
func writeTally(path string, tally map[string]int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	months := make([]string, 0, len(tally))
	for m := range tally {
		months = append(months, m)
	}
	sort.Strings(months)

	var sb strings.Builder
	for _, m := range months {
		fmt.Fprintf(&sb, "%s:%d\n", m, tally[m])
	}
	return os.WriteFile(path, []byte(sb.String()), 0o600)
}

// parseRouteDescriptor parses "ROUTE:ORIGIN->DESTINATION[;threshold=MINUTES]"
func parseRouteDescriptor(descriptor string) (routeSpec, error) {
	var spec routeSpec

	if !strings.HasPrefix(descriptor, "ROUTE:") {
		return spec, fmt.Errorf("route descriptor must begin with ROUTE:, got %q", descriptor)
	}

	body, params, _ := strings.Cut(strings.TrimPrefix(descriptor, "ROUTE:"), ";")
	origin, destination, ok := strings.Cut(body, "->")
	if !ok {
		return spec, fmt.Errorf("route descriptor must be ROUTE:ORIGIN->DESTINATION, got %q", descriptor)
	}

	spec.origin = strings.TrimSpace(origin)
	spec.destination = strings.TrimSpace(destination)
	if spec.origin == "" || spec.destination == "" {
		return spec, fmt.Errorf("route descriptor has empty origin or destination")
	}

	if params != "" {
		for _, p := range strings.Split(params, ";") {
			key, val, okParam := strings.Cut(strings.TrimSpace(p), "=")
			if !okParam || key != "threshold" {
				return spec, fmt.Errorf("route unknown parameter %q", p)
			}
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return spec, fmt.Errorf("route threshold must be a positive integer, got %q", val)
			}
			spec.threshold = n
		}
	}

	return spec, nil
}

var _ capture.Decoder = (*Route)(nil)
