package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/shared"
)

// HistoryRepository implements [models.Repository] for [models.PublishRecord] persistence.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new publish record with a generated ID.
func (r *HistoryRepository) Create(record *models.PublishRecord) error {
	record.SetID(shared.GenerateID())

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO publish_history (
			id, chart_date, playlist_id, playlist_name, playlist_url,
			chart_size, track_count, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID(),
		record.ChartDate,
		record.PlaylistID,
		record.PlaylistName,
		record.PlaylistURL,
		record.ChartSize,
		record.TrackCount,
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert publish record: %w", err)
	}

	return nil
}

// Get retrieves a publish record by ID.
func (r *HistoryRepository) Get(id string) (*models.PublishRecord, error) {
	query := `
		SELECT id, chart_date, playlist_id, playlist_name, playlist_url,
		       chart_size, track_count, created_at, updated_at
		FROM publish_history
		WHERE id = ?
	`
	record, err := scanRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("publish record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query publish record: %w", err)
	}
	return record, nil
}

// List retrieves publish records, newest first.
//
// Supported criteria: "chart_date" (exact match) and "limit".
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.PublishRecord, error) {
	query := `
		SELECT id, chart_date, playlist_id, playlist_name, playlist_url,
		       chart_size, track_count, created_at, updated_at
		FROM publish_history
	`
	args := []any{}

	if date, ok := criteria["chart_date"].(string); ok && date != "" {
		query += " WHERE chart_date = ?"
		args = append(args, date)
	}

	query += " ORDER BY created_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query publish history: %w", err)
	}
	defer rows.Close()

	var records []*models.PublishRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publish record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate publish history: %w", err)
	}

	return records, nil
}

// Delete removes a publish record by ID.
func (r *HistoryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM publish_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete publish record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("publish record not found: %s", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.PublishRecord, error) {
	var (
		id           string
		chartDate    string
		playlistID   string
		playlistName string
		playlistURL  sql.NullString
		chartSize    int
		trackCount   int
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&id, &chartDate, &playlistID, &playlistName, &playlistURL,
		&chartSize, &trackCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record := models.NewPublishRecord(chartDate, models.Playlist{
		ID:   playlistID,
		Name: playlistName,
		URL:  playlistURL.String,
	}, chartSize, trackCount)
	record.SetID(id)
	record.SetTimestamps(createdAt, updatedAt)

	return record, nil
}
