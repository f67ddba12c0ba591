package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
	Delete(id string) error                    // Delete removes a model from the database by its ID
}

// ChartEntry is one ranked (title, artist) pair from a chart listing.
//
// Rank is 1-based chart position. Title and Artist are trimmed of
// surrounding whitespace at extraction time.
type ChartEntry struct {
	Rank   int    `json:"rank"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Playlist represents a playlist on the target service.
type Playlist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Public bool   `json:"public"`
}

// PublishRecord is one row of the publish history ledger: a playlist
// created for a chart date, with resolution counts for that run.
//
// The ledger is informational only. It performs no dedup-by-date check, so
// two runs for the same date produce two records and two playlists.
type PublishRecord struct {
	recordID     string
	ChartDate    string
	PlaylistID   string
	PlaylistName string
	PlaylistURL  string
	ChartSize    int
	TrackCount   int
	created      time.Time
	updated      time.Time
}

// NewPublishRecord creates an unsaved PublishRecord for the given run.
func NewPublishRecord(chartDate string, playlist Playlist, chartSize, trackCount int) *PublishRecord {
	now := time.Now()
	return &PublishRecord{
		ChartDate:    chartDate,
		PlaylistID:   playlist.ID,
		PlaylistName: playlist.Name,
		PlaylistURL:  playlist.URL,
		ChartSize:    chartSize,
		TrackCount:   trackCount,
		created:      now,
		updated:      now,
	}
}

func (r *PublishRecord) ID() string           { return r.recordID }
func (r *PublishRecord) CreatedAt() time.Time { return r.created }
func (r *PublishRecord) UpdatedAt() time.Time { return r.updated }

// SetID assigns the record's identifier (used by the repository on insert).
func (r *PublishRecord) SetID(id string) { r.recordID = id }

// SetTimestamps restores persisted timestamps when loading from the database.
func (r *PublishRecord) SetTimestamps(created, updated time.Time) {
	r.created = created
	r.updated = updated
}

// Validate checks the record's data before persistence.
func (r *PublishRecord) Validate() error {
	if r.ChartDate == "" {
		return fmt.Errorf("publish record missing chart date")
	}
	if r.PlaylistID == "" {
		return fmt.Errorf("publish record missing playlist id")
	}
	if r.TrackCount < 0 || r.ChartSize < 0 {
		return fmt.Errorf("publish record has negative counts")
	}
	if r.TrackCount > r.ChartSize {
		return fmt.Errorf("publish record track count %d exceeds chart size %d", r.TrackCount, r.ChartSize)
	}
	return nil
}
