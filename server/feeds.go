package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedalor/pkg/domain"
	"github.com/umputun/feedalor/pkg/scheduler"
)

// feedRequest is the create/update payload
type feedRequest struct {
	Title         string    `json:"title"`
	Source        string    `json:"source"`
	Decoder       string    `json:"decoder"`
	DispatchMode  string    `json:"dispatch_mode"`
	IntervalSecs  int       `json:"interval_secs,omitempty"`
	CaptureTimes  []string  `json:"capture_times,omitempty"`
	HistoryLength int       `json:"history_length,omitempty"`
	Crop          *cropJSON `json:"crop,omitempty"`
	GPS           *gpsJSON  `json:"gps,omitempty"`
}

// feedResponse is the API rendering of a feed
type feedResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Source        string     `json:"source"`
	Decoder       string     `json:"decoder"`
	DispatchMode  string     `json:"dispatch_mode"`
	IntervalSecs  int        `json:"interval_secs,omitempty"`
	CaptureTimes  []string   `json:"capture_times,omitempty"`
	HistoryLength int        `json:"history_length"`
	Crop          *cropJSON  `json:"crop,omitempty"`
	GPS           *gpsJSON   `json:"gps,omitempty"`
	LastCaptureAt *time.Time `json:"last_capture_at,omitempty"`
	LastFailedAt  *time.Time `json:"last_failed_at,omitempty"`
	InFlight      bool       `json:"in_flight"`
	CreatedAt     time.Time  `json:"created_at"`
}

type cropJSON struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type gpsJSON struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Direction *float64 `json:"direction,omitempty"`
}

// defaultHistoryLength applies when a request leaves history_length unset
const defaultHistoryLength = 10

// toFeed validates the request and builds the domain feed. Capture times are
// normalized to sorted unique HH:MM:SS strings.
func (req *feedRequest) toFeed() (*domain.Feed, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.Source == "" {
		return nil, fmt.Errorf("source is required")
	}
	if req.Decoder == "" {
		return nil, fmt.Errorf("decoder is required")
	}

	mode := domain.DispatchMode(req.DispatchMode)
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid dispatch mode %q", req.DispatchMode)
	}
	if mode == domain.DispatchInterval && req.IntervalSecs <= 0 {
		return nil, fmt.Errorf("interval mode needs interval_secs > 0")
	}
	if mode == domain.DispatchSchedule && len(req.CaptureTimes) == 0 {
		return nil, fmt.Errorf("schedule mode needs capture_times")
	}

	if req.HistoryLength == 0 {
		req.HistoryLength = defaultHistoryLength
	}
	if req.HistoryLength < 1 {
		return nil, fmt.Errorf("history_length must be at least 1")
	}

	times, err := domain.NormalizeCaptureTimes(req.CaptureTimes)
	if err != nil {
		return nil, fmt.Errorf("invalid capture times: %w", err)
	}

	feed := &domain.Feed{
		Title:         req.Title,
		Source:        req.Source,
		Decoder:       req.Decoder,
		DispatchMode:  mode,
		IntervalSecs:  req.IntervalSecs,
		CaptureTimes:  times,
		HistoryLength: req.HistoryLength,
	}
	if req.Crop != nil {
		if req.Crop.Width <= 0 || req.Crop.Height <= 0 {
			return nil, fmt.Errorf("crop needs positive width and height")
		}
		feed.Crop = &domain.CropRect{X: req.Crop.X, Y: req.Crop.Y, Width: req.Crop.Width, Height: req.Crop.Height}
	}
	if req.GPS != nil {
		feed.GPS = &domain.GPSInfo{Latitude: req.GPS.Latitude, Longitude: req.GPS.Longitude, Direction: req.GPS.Direction}
	}
	return feed, nil
}

func toFeedResponse(f *domain.Feed) feedResponse {
	resp := feedResponse{
		ID:            f.ID,
		Title:         f.Title,
		Source:        f.Source,
		Decoder:       f.Decoder,
		DispatchMode:  string(f.DispatchMode),
		IntervalSecs:  f.IntervalSecs,
		CaptureTimes:  f.CaptureTimes,
		HistoryLength: f.HistoryLength,
		LastCaptureAt: f.LastCaptureAt,
		LastFailedAt:  f.LastFailedAt,
		InFlight:      f.InFlight,
		CreatedAt:     f.CreatedAt,
	}
	if f.Crop != nil {
		resp.Crop = &cropJSON{X: f.Crop.X, Y: f.Crop.Y, Width: f.Crop.Width, Height: f.Crop.Height}
	}
	if f.GPS != nil {
		resp.GPS = &gpsJSON{Latitude: f.GPS.Latitude, Longitude: f.GPS.Longitude, Direction: f.GPS.Direction}
	}
	return resp
}

// listFeedsHandler returns all configured feeds
func (s *Server) listFeedsHandler(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.store.GetFeeds(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to list feeds: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	resp := make([]feedResponse, 0, len(feeds))
	for _, f := range feeds {
		resp = append(resp, toFeedResponse(f))
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// createFeedHandler registers a new feed
func (s *Server) createFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	feed, err := req.toFeed()
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	if _, err := s.registry.Resolve(feed.Decoder); err != nil {
		renderError(w, r, fmt.Errorf("unknown decoder %q", feed.Decoder), http.StatusBadRequest)
		return
	}

	if err := s.store.CreateFeed(r.Context(), feed); err != nil {
		lgr.Printf("[ERROR] failed to create feed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	lgr.Printf("[INFO] created feed %s (%s)", feed.ID, feed.Title)
	renderJSON(w, r, http.StatusCreated, toFeedResponse(feed))
}

// getFeedHandler returns one feed
func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := s.store.GetFeed(r.Context(), r.PathValue("id"))
	if err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, toFeedResponse(feed))
}

// updateFeedHandler replaces a feed's configuration
func (s *Server) updateFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	feed, err := req.toFeed()
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	feed.ID = r.PathValue("id")

	if _, err := s.registry.Resolve(feed.Decoder); err != nil {
		renderError(w, r, fmt.Errorf("unknown decoder %q", feed.Decoder), http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateFeed(r.Context(), feed); err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}

	updated, err := s.store.GetFeed(r.Context(), feed.ID)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, toFeedResponse(updated))
}

// deleteFeedHandler removes a feed
func (s *Server) deleteFeedHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteFeed(r.Context(), id); err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}
	lgr.Printf("[INFO] deleted feed %s", id)
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// captureNowHandler triggers an immediate capture for a feed
func (s *Server) captureNowHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.dispatcher.CaptureNow(r.Context(), id); err != nil {
		if errors.Is(err, scheduler.ErrInFlight) {
			renderError(w, r, err, http.StatusConflict)
			return
		}
		renderError(w, r, err, http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusAccepted, map[string]string{"status": "dispatched", "id": id})
}

// describeFeedHandler runs the feed's decoder Describe, the validation flow
// for a configured source
func (s *Server) describeFeedHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := s.store.GetFeed(r.Context(), r.PathValue("id"))
	if err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}

	decoder, err := s.registry.Resolve(feed.Decoder)
	if err != nil {
		renderError(w, r, fmt.Errorf("unknown decoder %q", feed.Decoder), http.StatusBadRequest)
		return
	}

	renderJSON(w, r, http.StatusOK, decoder.Describe(feed.Source))
}
