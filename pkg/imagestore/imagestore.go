// Package imagestore persists captured frames on disk and applies the
// per-feed retention policy.
package imagestore

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedalor/pkg/domain"
)

// ageWiggleFactor pads the age cutoff so a slightly late capture doesn't
// evict the frame before it
const ageWiggleFactor = 1.5

// Frame describes one stored history frame
type Frame struct {
	Name  string    `json:"name"`
	Size  int64     `json:"size"`
	Taken time.Time `json:"taken"`
}

// Store keeps frames as <dir>/<feedID>/<feedID>_<timestamp>.jpg history files
// plus a <dir>/<feedID>.jpg latest copy.
type Store struct {
	dir string
}

// NewStore creates the store rooted at dir, creating it if missing
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create image dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save encodes the frame to a temp file, applies the embed hook and atomically
// renames it into the feed's history, then refreshes the latest copy. A
// failing embed hook is logged and ignored, the frame is kept without
// metadata. Once the history rename succeeded the save is durable, a failed
// latest refresh is logged and ignored too. Returns the history file path.
func (s *Store) Save(feedID string, img image.Image, now time.Time, embed func(path string) error) (string, error) {
	feedDir := filepath.Join(s.dir, feedID)
	if err := os.MkdirAll(feedDir, 0o750); err != nil {
		return "", fmt.Errorf("create feed dir: %w", err)
	}

	tmp, err := os.CreateTemp(feedDir, ".frame-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp frame: %w", err)
	}
	tmpPath := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.JPEG); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("encode frame for %s: %w", feedID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp frame: %w", err)
	}

	if embed != nil {
		if err := embed(tmpPath); err != nil {
			lgr.Printf("[WARN] metadata embed failed for %s, frame kept without it: %v", feedID, err)
		}
	}

	historyPath := filepath.Join(feedDir, fmt.Sprintf("%s_%s.jpg", feedID, now.Format("20060102_150405")))
	if err := os.Rename(tmpPath, historyPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("store frame for %s: %w", feedID, err)
	}

	if err := s.refreshLatest(feedID, historyPath); err != nil {
		lgr.Printf("[WARN] latest frame refresh failed for %s, history frame kept: %v", feedID, err)
	}
	return historyPath, nil
}

// refreshLatest copies the new history frame over the latest file, atomically
// via a temp name next to it
func (s *Store) refreshLatest(feedID, historyPath string) error {
	src, err := os.Open(historyPath) //nolint:gosec // path built from our own layout
	if err != nil {
		return fmt.Errorf("open stored frame: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(s.dir, ".latest-*.jpg")
	if err != nil {
		return fmt.Errorf("create latest temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("copy latest frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close latest temp: %w", err)
	}
	if err := os.Rename(tmpPath, s.LatestPath(feedID)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace latest frame: %w", err)
	}
	return nil
}

// LatestPath returns the path of the feed's latest frame, whether it exists
// or not
func (s *Store) LatestPath(feedID string) string {
	return filepath.Join(s.dir, feedID+".jpg")
}

// Latest returns the path of the feed's latest frame, or an error when the
// feed has no stored frame yet
func (s *Store) Latest(feedID string) (string, error) {
	path := s.LatestPath(feedID)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no frame for feed %s: %w", feedID, err)
	}
	return path, nil
}

// History lists the feed's stored frames, newest first
func (s *Store) History(feedID string) ([]Frame, error) {
	frames, err := s.historyFiles(feedID)
	if err != nil {
		return nil, err
	}
	res := make([]Frame, 0, len(frames))
	for _, f := range frames {
		res = append(res, Frame{Name: f.name, Size: f.size, Taken: f.mtime})
	}
	return res, nil
}

// Prune applies the retention policy to one feed's history directory. Age
// eviction is skipped for schedule mode, its captures are sparse and would
// all age out between runs. Count eviction always keeps the historyLength
// most recent frames.
func (s *Store) Prune(feedID string, mode domain.DispatchMode, intervalSecs, historyLength int) error {
	frames, err := s.historyFiles(feedID)
	if err != nil {
		return err
	}

	removed := map[string]bool{}
	if mode != domain.DispatchSchedule && intervalSecs > 0 && historyLength > 0 {
		cutoff := time.Now().Add(-time.Duration(ageWiggleFactor*float64(historyLength*intervalSecs)) * time.Second)
		for _, f := range frames {
			if f.mtime.Before(cutoff) {
				if err := os.Remove(f.path); err != nil {
					return fmt.Errorf("evict aged frame %s: %w", f.name, err)
				}
				removed[f.name] = true
				lgr.Printf("[DEBUG] evicted aged frame %s for feed %s", f.name, feedID)
			}
		}
	}

	if historyLength > 0 {
		kept := 0
		for _, f := range frames { // newest first
			if removed[f.name] {
				continue
			}
			kept++
			if kept <= historyLength {
				continue
			}
			if err := os.Remove(f.path); err != nil {
				return fmt.Errorf("evict surplus frame %s: %w", f.name, err)
			}
			lgr.Printf("[DEBUG] evicted surplus frame %s for feed %s", f.name, feedID)
		}
	}
	return nil
}

type frameFile struct {
	name  string
	path  string
	size  int64
	mtime time.Time
}

// historyFiles lists the feed's history frames sorted newest first. A missing
// feed directory is an empty history, not an error.
func (s *Store) historyFiles(feedID string) ([]frameFile, error) {
	feedDir := filepath.Join(s.dir, feedID)
	entries, err := os.ReadDir(feedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read feed dir %s: %w", feedDir, err)
	}

	var res []frameFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), feedID+"_") || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat frame %s: %w", e.Name(), err)
		}
		res = append(res, frameFile{name: e.Name(), path: filepath.Join(feedDir, e.Name()), size: info.Size(), mtime: info.ModTime()})
	}

	sort.Slice(res, func(i, j int) bool { return res[i].mtime.After(res[j].mtime) })
	return res, nil
}
