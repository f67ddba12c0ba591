package pipeline

import (
	"fmt"

	"github.com/timewarpfm/timewarp/internal/models"
)

// Phase identifies a pipeline stage for progress reporting.
type Phase string

const (
	PhaseFetchChart     Phase = "fetch_chart"
	PhaseToken          Phase = "token"
	PhaseSearch         Phase = "search"
	PhaseCreatePlaylist Phase = "create_playlist"
	PhaseAddTracks      Phase = "add_tracks"
	PhaseDone           Phase = "done"
)

// ProgressUpdate is a non-blocking status message emitted while the pipeline runs.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

func fetchChartUpdate(date string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseFetchChart,
		Message: fmt.Sprintf("Fetching chart for %s", date),
	}
}

func tokenUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseToken,
		Message: "Requesting search token",
	}
}

func searchUpdate(step, total int, entry models.ChartEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseSearch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching %s - %s", entry.Artist, entry.Title),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseCreatePlaylist,
		Message: fmt.Sprintf("Creating playlist %q", name),
	}
}

func addTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseAddTracks,
		Message: fmt.Sprintf("Adding %d tracks", count),
	}
}

func doneUpdate(matched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseDone,
		Step:    matched,
		Total:   total,
		Message: fmt.Sprintf("Resolved %d of %d entries", matched, total),
	}
}
