package main

import (
	"context"
	"fmt"

	"github.com/timewarpfm/timewarp/internal/repositories"
	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists past publishes from the local ledger, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to prepare history database: %w", err)
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if date := cmd.String("date"); date != "" {
		if criteria["chart_date"], err = shared.ParseChartDate(date); err != nil {
			return err
		}
	}

	records, err := repositories.NewHistoryRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return r.writePlain("No published playlists recorded\n")
	}

	if cmd.Bool("json") {
		rows := make([]map[string]any, 0, len(records))
		for _, record := range records {
			rows = append(rows, map[string]any{
				"id":            record.ID(),
				"chart_date":    record.ChartDate,
				"playlist_id":   record.PlaylistID,
				"playlist_name": record.PlaylistName,
				"playlist_url":  record.PlaylistURL,
				"chart_size":    record.ChartSize,
				"track_count":   record.TrackCount,
				"created_at":    record.CreatedAt(),
			})
		}
		return r.writeJSON(rows, true)
	}

	r.writePlain("Found %d published playlists:\n\n", len(records))
	for i, record := range records {
		r.writePlain("%d. %s\n", i+1, record.PlaylistName)
		r.writePlain("   Chart date: %s\n", record.ChartDate)
		r.writePlain("   Tracks: %d of %d chart entries\n", record.TrackCount, record.ChartSize)
		if record.PlaylistURL != "" {
			r.writePlain("   URL: %s\n", record.PlaylistURL)
		}
		r.writePlain("   Published: %s\n\n", record.CreatedAt().Format("2006-01-02 15:04"))
	}

	return nil
}
