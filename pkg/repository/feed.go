package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedalor/pkg/domain"
)

// FeedRepository handles feed-related database operations
type FeedRepository struct {
	db *sqlx.DB
}

// feedSQL represents a feed for SQL operations
type feedSQL struct {
	ID            string     `db:"id"`
	Title         string     `db:"title"`
	Source        string     `db:"source"`
	Decoder       string     `db:"decoder"`
	DispatchMode  string     `db:"dispatch_mode"`
	IntervalSecs  int        `db:"interval_secs"`
	CaptureTimes  string     `db:"capture_times"` // JSON array of "HH:MM:SS" strings
	HistoryLength int        `db:"history_length"`
	CropX         *int       `db:"crop_x"`
	CropY         *int       `db:"crop_y"`
	CropWidth     *int       `db:"crop_width"`
	CropHeight    *int       `db:"crop_height"`
	GPSLatitude   *float64   `db:"gps_latitude"`
	GPSLongitude  *float64   `db:"gps_longitude"`
	GPSDirection  *float64   `db:"gps_direction"`
	LastCaptureAt *time.Time `db:"last_capture_at"`
	LastFailedAt  *time.Time `db:"last_failed_at"`
	InFlight      bool       `db:"in_flight"`
	CreatedAt     time.Time  `db:"created_at"`
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(database *sqlx.DB) *FeedRepository {
	return &FeedRepository{db: database}
}

// CreateFeed inserts a new feed, assigning a uuid when the ID is empty
func (r *FeedRepository) CreateFeed(ctx context.Context, feed *domain.Feed) error {
	if feed.ID == "" {
		feed.ID = uuid.NewString()
	}

	sqlFeed, err := toSQLFeed(feed)
	if err != nil {
		return fmt.Errorf("convert feed: %w", err)
	}

	query := `
		INSERT INTO feeds (id, title, source, decoder, dispatch_mode, interval_secs,
		                   capture_times, history_length, crop_x, crop_y, crop_width, crop_height,
		                   gps_latitude, gps_longitude, gps_direction)
		VALUES (:id, :title, :source, :decoder, :dispatch_mode, :interval_secs,
		        :capture_times, :history_length, :crop_x, :crop_y, :crop_width, :crop_height,
		        :gps_latitude, :gps_longitude, :gps_direction)
	`
	if _, err := r.db.NamedExecContext(ctx, query, sqlFeed); err != nil {
		return fmt.Errorf("create feed: %w", err)
	}
	return nil
}

// GetFeed retrieves a feed by ID. A missing feed is reported as
// domain.ErrFeedNotFound so callers can tell it apart from store failures.
func (r *FeedRepository) GetFeed(ctx context.Context, id string) (*domain.Feed, error) {
	var sqlFeed feedSQL
	err := r.db.GetContext(ctx, &sqlFeed, "SELECT * FROM feeds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feed %s: %w", id, domain.ErrFeedNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return toDomainFeed(&sqlFeed)
}

// GetFeeds retrieves all feeds ordered by title
func (r *FeedRepository) GetFeeds(ctx context.Context) ([]*domain.Feed, error) {
	var sqlFeeds []feedSQL
	err := r.db.SelectContext(ctx, &sqlFeeds, "SELECT * FROM feeds ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("get feeds: %w", err)
	}

	feeds := make([]*domain.Feed, len(sqlFeeds))
	for i, f := range sqlFeeds {
		feed, err := toDomainFeed(&f)
		if err != nil {
			return nil, fmt.Errorf("convert feed %s: %w", f.ID, err)
		}
		feeds[i] = feed
	}
	return feeds, nil
}

// UpdateFeed replaces the mutable configuration of a feed. Capture state
// fields (timestamps, in-flight) are owned by the scheduler and executor
// and left untouched.
func (r *FeedRepository) UpdateFeed(ctx context.Context, feed *domain.Feed) error {
	sqlFeed, err := toSQLFeed(feed)
	if err != nil {
		return fmt.Errorf("convert feed: %w", err)
	}

	query := `
		UPDATE feeds
		SET title = :title, source = :source, decoder = :decoder,
		    dispatch_mode = :dispatch_mode, interval_secs = :interval_secs,
		    capture_times = :capture_times, history_length = :history_length,
		    crop_x = :crop_x, crop_y = :crop_y, crop_width = :crop_width, crop_height = :crop_height,
		    gps_latitude = :gps_latitude, gps_longitude = :gps_longitude, gps_direction = :gps_direction
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, sqlFeed)
	if err != nil {
		return fmt.Errorf("update feed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update feed: feed %s not found", feed.ID)
	}
	return nil
}

// DeleteFeed removes a feed record
func (r *FeedRepository) DeleteFeed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM feeds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	return nil
}

// SetInFlight sets or clears the in-flight flag. The scheduler is the only
// caller setting it, the executor the only one clearing it.
func (r *FeedRepository) SetInFlight(ctx context.Context, id string, inFlight bool) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, "UPDATE feeds SET in_flight = ? WHERE id = ?", inFlight, id)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("set in-flight: %w", err)}
		}
		return nil
	})
}

// UpdateCaptured records a successful capture: sets last_capture_at,
// clears last_failed_at and the in-flight flag.
func (r *FeedRepository) UpdateCaptured(ctx context.Context, id string, capturedAt time.Time) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			UPDATE feeds
			SET last_capture_at = ?, last_failed_at = NULL, in_flight = 0
			WHERE id = ?
		`
		_, err := r.db.ExecContext(ctx, query, capturedAt, id)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("update captured: %w", err)}
		}
		return nil
	})
}

// UpdateFailed records a failed capture: sets last_failed_at and clears the
// in-flight flag, last_capture_at stays as it was.
func (r *FeedRepository) UpdateFailed(ctx context.Context, id string, failedAt time.Time) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			UPDATE feeds
			SET last_failed_at = ?, in_flight = 0
			WHERE id = ?
		`
		_, err := r.db.ExecContext(ctx, query, failedAt, id)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("update failed: %w", err)}
		}
		return nil
	})
}

// ResetInFlight clears in-flight flags left behind by a crashed process.
// Called once at startup before the scheduler begins polling.
func (r *FeedRepository) ResetInFlight(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE feeds SET in_flight = 0 WHERE in_flight = 1")
	if err != nil {
		return 0, fmt.Errorf("reset in-flight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset in-flight rows: %w", err)
	}
	return n, nil
}

// toSQLFeed converts domain.Feed to its SQL representation
func toSQLFeed(feed *domain.Feed) (*feedSQL, error) {
	times := feed.CaptureTimes
	if times == nil {
		times = []string{}
	}
	timesJSON, err := json.Marshal(times)
	if err != nil {
		return nil, fmt.Errorf("marshal capture times: %w", err)
	}

	sqlFeed := &feedSQL{
		ID:            feed.ID,
		Title:         feed.Title,
		Source:        feed.Source,
		Decoder:       feed.Decoder,
		DispatchMode:  string(feed.DispatchMode),
		IntervalSecs:  feed.IntervalSecs,
		CaptureTimes:  string(timesJSON),
		HistoryLength: feed.HistoryLength,
		LastCaptureAt: feed.LastCaptureAt,
		LastFailedAt:  feed.LastFailedAt,
		InFlight:      feed.InFlight,
		CreatedAt:     feed.CreatedAt,
	}

	if feed.Crop != nil {
		sqlFeed.CropX = &feed.Crop.X
		sqlFeed.CropY = &feed.Crop.Y
		sqlFeed.CropWidth = &feed.Crop.Width
		sqlFeed.CropHeight = &feed.Crop.Height
	}
	if feed.GPS != nil {
		sqlFeed.GPSLatitude = &feed.GPS.Latitude
		sqlFeed.GPSLongitude = &feed.GPS.Longitude
		sqlFeed.GPSDirection = feed.GPS.Direction
	}

	return sqlFeed, nil
}

// toDomainFeed converts feedSQL to domain.Feed
func toDomainFeed(sqlFeed *feedSQL) (*domain.Feed, error) {
	var times []string
	if err := json.Unmarshal([]byte(sqlFeed.CaptureTimes), &times); err != nil {
		return nil, fmt.Errorf("unmarshal capture times: %w", err)
	}

	feed := &domain.Feed{
		ID:            sqlFeed.ID,
		Title:         sqlFeed.Title,
		Source:        sqlFeed.Source,
		Decoder:       sqlFeed.Decoder,
		DispatchMode:  domain.DispatchMode(sqlFeed.DispatchMode),
		IntervalSecs:  sqlFeed.IntervalSecs,
		CaptureTimes:  times,
		HistoryLength: sqlFeed.HistoryLength,
		LastCaptureAt: sqlFeed.LastCaptureAt,
		LastFailedAt:  sqlFeed.LastFailedAt,
		InFlight:      sqlFeed.InFlight,
		CreatedAt:     sqlFeed.CreatedAt,
	}

	if sqlFeed.CropX != nil && sqlFeed.CropY != nil && sqlFeed.CropWidth != nil && sqlFeed.CropHeight != nil {
		feed.Crop = &domain.CropRect{
			X:      *sqlFeed.CropX,
			Y:      *sqlFeed.CropY,
			Width:  *sqlFeed.CropWidth,
			Height: *sqlFeed.CropHeight,
		}
	}
	if sqlFeed.GPSLatitude != nil && sqlFeed.GPSLongitude != nil {
		feed.GPS = &domain.GPSInfo{
			Latitude:  *sqlFeed.GPSLatitude,
			Longitude: *sqlFeed.GPSLongitude,
			Direction: sqlFeed.GPSDirection,
		}
	}

	return feed, nil
}
