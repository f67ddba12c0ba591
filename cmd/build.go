package main

import (
	"context"
	"sync"

	"github.com/timewarpfm/timewarp/internal/formatter"
	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/pipeline"
	"github.com/timewarpfm/timewarp/internal/repositories"
	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
)

// Build runs the full pipeline: date → chart → resolution → playlist.
//
// Resolution runs on the app-only token; the delegated session is only
// established afterwards, right before publishing, so a user who declines
// consent still gets the resolution report.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	date, err := r.resolveDate(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	useJSON := cmd.Bool("json")

	progress := make(chan pipeline.ProgressUpdate, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, runErr := r.engine.Run(ctx, progress, date)

	var pubErr error
	if runErr == nil && !dryRun {
		if pubErr = r.ensureSession(ctx); pubErr == nil {
			pubErr = r.engine.Publish(ctx, progress, result)
		}
	}

	close(progress)
	wg.Wait()

	if runErr != nil {
		return runErr
	}

	if useJSON {
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
	} else {
		r.writePlain("%s", formatter.ReportToText(result))
	}

	if result.Playlist != nil {
		r.writePlainln("✓ Playlist created: %s", result.Playlist.Name)
		if result.Playlist.URL != "" {
			r.writePlain("  %s\n", result.Playlist.URL)
		}
		if !result.TracksAdded && len(result.URIs) > 0 {
			r.writePlain("⚠ Playlist was created but tracks were not added\n")
		}
	}

	if pubErr != nil {
		return pubErr
	}

	if !dryRun {
		r.recordHistory(result)
	}

	return nil
}

// resolveDate takes the --date flag when present, otherwise prompts.
func (r *Runner) resolveDate(cmd *cli.Command) (string, error) {
	if date := cmd.String("date"); date != "" {
		return shared.ParseChartDate(date)
	}
	return shared.PromptDate(r.input, r.output)
}

// recordHistory appends the run to the local publish ledger. Best effort: a
// ledger failure never fails a run that already published.
func (r *Runner) recordHistory(result *pipeline.RunResult) {
	if result.Playlist == nil {
		return
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warnf("history not recorded: %v", err)
		return
	}
	defer db.Close()
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warnf("history not recorded: %v", err)
		return
	}

	trackCount := 0
	if result.TracksAdded {
		trackCount = result.MatchedCount
	}

	record := models.NewPublishRecord(result.Date, *result.Playlist, result.TotalEntries, trackCount)
	if err := repositories.NewHistoryRepository(db).Create(record); err != nil {
		r.logger.Warnf("history not recorded: %v", err)
		return
	}

	r.logger.Info("run recorded", "record", record.ID(), "date", result.Date)
}
