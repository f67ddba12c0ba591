package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/shared"
	"golang.org/x/time/rate"
)

// ChartSource fetches the ordered chart entries for a date.
type ChartSource interface {
	Fetch(ctx context.Context, date string) ([]models.ChartEntry, error)
}

// TokenSource exchanges client credentials for a search bearer token.
type TokenSource interface {
	ClientToken(ctx context.Context) (string, error)
}

// Resolver resolves one (title, artist) pair to a track URI.
type Resolver interface {
	SearchTrack(ctx context.Context, token, title, artist string) (string, error)
}

// Publisher creates a playlist on behalf of the authenticated user and
// appends tracks to it.
type Publisher interface {
	CurrentUserID(ctx context.Context) (string, error)
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
}

// EntryResult records the resolution outcome for one chart entry.
type EntryResult struct {
	Entry   models.ChartEntry `json:"entry"`
	URI     string            `json:"uri,omitempty"`
	Matched bool              `json:"matched"`
}

// RunResult contains all data from one pipeline run.
type RunResult struct {
	Date            string             `json:"date"`
	Chart           []models.ChartEntry `json:"chart"`
	Matches         []EntryResult      `json:"matches"`
	URIs            []string           `json:"uris"`
	MatchedCount    int                `json:"matched_count"`
	MissedCount     int                `json:"missed_count"`
	TotalEntries    int                `json:"total_entries"`
	MatchPercentage float64            `json:"match_percentage"`
	Playlist        *models.Playlist   `json:"playlist,omitempty"`
	TracksAdded     bool               `json:"tracks_added"`
}

// Engine wires the pipeline stages together.
type Engine struct {
	chart     ChartSource
	tokens    TokenSource
	resolver  Resolver
	publisher Publisher
	limiter   *rate.Limiter
	logger    *log.Logger
}

// EngineOpts contains dependencies and settings for creating an Engine.
type EngineOpts struct {
	Chart     ChartSource
	Tokens    TokenSource
	Resolver  Resolver
	Publisher Publisher
	RateLimit float64 // search requests per second (default: 5)
	Logger    *log.Logger
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(opts EngineOpts) *Engine {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Engine{
		chart:     opts.Chart,
		tokens:    opts.Tokens,
		resolver:  opts.Resolver,
		publisher: opts.Publisher,
		limiter:   rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:    opts.Logger,
	}
}

// PlaylistName derives the playlist name for a chart date.
func PlaylistName(date string) string {
	return "Billboard Hot 100: " + date
}

// sendProgress sends a progress update without blocking; a full or nil
// channel drops the update rather than stalling the pipeline.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ResolveAll resolves chart entries to track URIs in order.
//
// Exactly one search token is acquired for the whole pass and shared
// read-only across every lookup. Entries with no match are recorded and
// skipped; the returned URI list keeps the relative order of the matched
// entries and is never longer than the chart. Any other per-entry failure
// (transport, HTTP status) aborts the pass: there is no per-item retry.
func (e *Engine) ResolveAll(ctx context.Context, progress chan<- ProgressUpdate, entries []models.ChartEntry) ([]EntryResult, []string, error) {
	if e.tokens == nil || e.resolver == nil {
		return nil, nil, fmt.Errorf("%w: resolver not initialized", shared.ErrAPIRequest)
	}

	e.sendProgress(progress, tokenUpdate())

	token, err := e.tokens.ClientToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	total := len(entries)
	results := make([]EntryResult, 0, total)
	uris := make([]string, 0, total)

	for i, entry := range entries {
		e.sendProgress(progress, searchUpdate(i+1, total, entry))

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		uri, err := e.resolver.SearchTrack(ctx, token, entry.Title, entry.Artist)
		if err != nil {
			if errors.Is(err, shared.ErrNoMatch) {
				e.logger.Warn("skipping unmatched entry", "rank", entry.Rank, "title", entry.Title, "artist", entry.Artist)
				results = append(results, EntryResult{Entry: entry})
				continue
			}
			return nil, nil, fmt.Errorf("search failed at rank %d (%s - %s): %w", entry.Rank, entry.Artist, entry.Title, err)
		}

		results = append(results, EntryResult{Entry: entry, URI: uri, Matched: true})
		uris = append(uris, uri)
	}

	return results, uris, nil
}

// Run fetches the chart for a date and resolves every entry.
//
// Publishing is a separate step ([Engine.Publish]) because it requires a
// delegated user session the resolution pass does not.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate, date string) (*RunResult, error) {
	if e.chart == nil {
		return nil, fmt.Errorf("%w: chart source not initialized", shared.ErrChartFetch)
	}

	e.sendProgress(progress, fetchChartUpdate(date))

	entries, err := e.chart.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	matches, uris, err := e.ResolveAll(ctx, progress, entries)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Date:         date,
		Chart:        entries,
		Matches:      matches,
		URIs:         uris,
		MatchedCount: len(uris),
		MissedCount:  len(entries) - len(uris),
		TotalEntries: len(entries),
	}
	if result.TotalEntries > 0 {
		result.MatchPercentage = float64(result.MatchedCount) / float64(result.TotalEntries) * 100
	}

	e.sendProgress(progress, doneUpdate(result.MatchedCount, result.TotalEntries))

	return result, nil
}

// Publish creates the playlist for the run and appends the resolved URIs in
// a single bulk call.
//
// There is no transactional guarantee across creation and population: if the
// bulk add fails after creation succeeded, the created playlist is left in
// place and reported through result.Playlist so the caller can surface (or
// manually delete) it. No rollback is attempted.
func (e *Engine) Publish(ctx context.Context, progress chan<- ProgressUpdate, result *RunResult) error {
	if e.publisher == nil {
		return fmt.Errorf("%w: publisher not initialized", shared.ErrPublishFailed)
	}

	userID, err := e.publisher.CurrentUserID(ctx)
	if err != nil {
		return fmt.Errorf("%w: current user: %v", shared.ErrPublishFailed, err)
	}

	name := PlaylistName(result.Date)
	e.sendProgress(progress, createPlaylistUpdate(name))

	playlist, err := e.publisher.CreatePlaylist(ctx, userID, name, true)
	if err != nil {
		return err
	}
	result.Playlist = playlist

	if len(result.URIs) == 0 {
		e.logger.Warn("no resolved tracks; playlist left empty", "playlist", playlist.ID)
		return nil
	}

	e.sendProgress(progress, addTracksUpdate(len(result.URIs)))

	if err := e.publisher.AddTracks(ctx, playlist.ID, result.URIs); err != nil {
		return fmt.Errorf("playlist %s created but tracks not added: %w", playlist.ID, err)
	}
	result.TracksAdded = true

	return nil
}
