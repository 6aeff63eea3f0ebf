package domain

import (
	"errors"
	"time"
)

// ErrFeedNotFound is returned by feed stores when the requested feed
// does not exist
var ErrFeedNotFound = errors.New("feed not found")

// DispatchMode controls how the scheduler decides when a feed is due
type DispatchMode string

// supported dispatch modes
const (
	DispatchInterval DispatchMode = "interval" // capture every IntervalSecs seconds
	DispatchSchedule DispatchMode = "schedule" // capture at fixed wall-clock times
	DispatchDisabled DispatchMode = "disabled" // never capture
)

// Valid reports whether the mode is one of the supported dispatch modes
func (m DispatchMode) Valid() bool {
	switch m {
	case DispatchInterval, DispatchSchedule, DispatchDisabled:
		return true
	}
	return false
}

// CropRect is an optional crop applied to every captured frame
type CropRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// GPSInfo holds the position embedded into frame metadata.
// Direction, when set, is the camera heading in degrees relative to true north.
type GPSInfo struct {
	Latitude  float64
	Longitude float64
	Direction *float64
}

// Feed represents a configured external image source and its capture policy
type Feed struct {
	ID            string // opaque unique token, uuid assigned on create
	Title         string
	Source        string // adapter-specific descriptor, may encode parameters
	Decoder       string // adapter name resolved via the capture registry
	DispatchMode  DispatchMode
	IntervalSecs  int      // capture period, used when mode is interval
	CaptureTimes  []string // sorted unique "HH:MM:SS" triggers, used when mode is schedule
	HistoryLength int      // max retained frame files, >= 1
	Crop          *CropRect
	GPS           *GPSInfo
	LastCaptureAt *time.Time
	LastFailedAt  *time.Time
	InFlight      bool // capture job dispatched and not yet completed
	CreatedAt     time.Time
}
