package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/shared"
	tu "github.com/timewarpfm/timewarp/internal/testing"
)

func sampleChart() []models.ChartEntry {
	return []models.ChartEntry{
		{Rank: 1, Title: "Shape of You", Artist: "Ed Sheeran"},
		{Rank: 2, Title: "Despacito", Artist: "Luis Fonsi"},
		{Rank: 3, Title: "Unknown Song 9999", Artist: "Nonexistent Artist"},
		{Rank: 4, Title: "Humble", Artist: "Kendrick Lamar"},
	}
}

func sampleResolver() *tu.MockResolver {
	return &tu.MockResolver{
		URIs: map[string]string{
			"Shape of You": "spotify:track:1",
			"Despacito":    "spotify:track:2",
			"Humble":       "spotify:track:4",
		},
		MissErr: shared.ErrNoMatch,
	}
}

func TestResolveAll(t *testing.T) {
	t.Run("Preserves Chart Order", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		results, uris, err := engine.ResolveAll(context.Background(), nil, sampleChart())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(results) != 4 {
			t.Fatalf("expected a result per entry, got %d", len(results))
		}
		want := []string{"spotify:track:1", "spotify:track:2", "spotify:track:4"}
		if len(uris) != len(want) {
			t.Fatalf("expected %d uris, got %d", len(want), len(uris))
		}
		for i, uri := range want {
			if uris[i] != uri {
				t.Errorf("expected %q at position %d, got %q", uri, i, uris[i])
			}
		}
	})

	t.Run("URI List Never Longer Than Chart", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		chart := sampleChart()
		_, uris, err := engine.ResolveAll(context.Background(), nil, chart)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(uris) > len(chart) {
			t.Errorf("uri list (%d) longer than chart (%d)", len(uris), len(chart))
		}
	})

	t.Run("Acquires Exactly One Token", func(t *testing.T) {
		tokens := &tu.MockTokenSource{Token: "tok"}
		engine := NewEngine(EngineOpts{
			Tokens:    tokens,
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		if _, _, err := engine.ResolveAll(context.Background(), nil, sampleChart()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tokens.Calls != 1 {
			t.Errorf("expected exactly one token request, got %d", tokens.Calls)
		}
	})

	t.Run("Misses Are Recorded And Skipped", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		results, _, err := engine.ResolveAll(context.Background(), nil, sampleChart())
		if err != nil {
			t.Fatalf("expected miss to be absorbed, got %v", err)
		}

		miss := results[2]
		if miss.Matched || miss.URI != "" {
			t.Errorf("expected unmatched result for rank 3, got %+v", miss)
		}
		if miss.Entry.Title != "Unknown Song 9999" {
			t.Errorf("expected miss to keep its chart entry, got %+v", miss.Entry)
		}
	})

	t.Run("Queries Combine Title And Artist", func(t *testing.T) {
		resolver := sampleResolver()
		engine := NewEngine(EngineOpts{
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  resolver,
			RateLimit: 1000,
		})

		if _, _, err := engine.ResolveAll(context.Background(), nil, sampleChart()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolver.Queries[0] != "Shape of You Ed Sheeran" {
			t.Errorf("unexpected first query %q", resolver.Queries[0])
		}
	})

	t.Run("Token Failure Aborts The Pass", func(t *testing.T) {
		tokenErr := errors.New("accounts service down")
		resolver := sampleResolver()
		engine := NewEngine(EngineOpts{
			Tokens:    &tu.MockTokenSource{Err: tokenErr},
			Resolver:  resolver,
			RateLimit: 1000,
		})

		if _, _, err := engine.ResolveAll(context.Background(), nil, sampleChart()); !errors.Is(err, tokenErr) {
			t.Errorf("expected token error, got %v", err)
		}
		if len(resolver.Queries) != 0 {
			t.Errorf("expected no searches after token failure, got %d", len(resolver.Queries))
		}
	})

	t.Run("Search Failure Aborts With Rank Context", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  &tu.MockResolver{Err: shared.ErrAPIRequest},
			RateLimit: 1000,
		})

		_, _, err := engine.ResolveAll(context.Background(), nil, sampleChart())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "rank 1") {
			t.Errorf("expected error to name the failing rank, got %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("Fetches And Resolves", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Chart:     &tu.MockChartSource{Entries: sampleChart()},
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		result, err := engine.Run(context.Background(), nil, "2017-03-04")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Date != "2017-03-04" {
			t.Errorf("unexpected date %q", result.Date)
		}
		if result.TotalEntries != 4 || result.MatchedCount != 3 || result.MissedCount != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if result.MatchPercentage != 75 {
			t.Errorf("expected 75%% match rate, got %v", result.MatchPercentage)
		}
	})

	t.Run("Empty Chart Produces Empty Result", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Chart:     &tu.MockChartSource{},
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		result, err := engine.Run(context.Background(), nil, "1800-01-01")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.TotalEntries != 0 || len(result.URIs) != 0 || result.MatchPercentage != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("Chart Failure Propagates", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Chart:     &tu.MockChartSource{Err: shared.ErrChartFetch},
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		if _, err := engine.Run(context.Background(), nil, "2017-03-04"); !errors.Is(err, shared.ErrChartFetch) {
			t.Errorf("expected ErrChartFetch, got %v", err)
		}
	})

	t.Run("Reports Progress Phases", func(t *testing.T) {
		engine := NewEngine(EngineOpts{
			Chart:     &tu.MockChartSource{Entries: sampleChart()},
			Tokens:    &tu.MockTokenSource{Token: "tok"},
			Resolver:  sampleResolver(),
			RateLimit: 1000,
		})

		progress := make(chan ProgressUpdate, 64)
		if _, err := engine.Run(context.Background(), progress, "2017-03-04"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		seen := map[Phase]bool{}
		for update := range progress {
			seen[update.Phase] = true
		}
		for _, phase := range []Phase{PhaseFetchChart, PhaseToken, PhaseSearch, PhaseDone} {
			if !seen[phase] {
				t.Errorf("expected a %s update", phase)
			}
		}
	})
}

func TestPublish(t *testing.T) {
	runResult := func() *RunResult {
		return &RunResult{
			Date:         "2017-03-04",
			URIs:         []string{"spotify:track:1", "spotify:track:2"},
			MatchedCount: 2,
			TotalEntries: 2,
		}
	}

	t.Run("Creates Playlist And Adds Tracks", func(t *testing.T) {
		publisher := &tu.MockPublisher{UserID: "user42"}
		engine := NewEngine(EngineOpts{Publisher: publisher})

		result := runResult()
		if err := engine.Publish(context.Background(), nil, result); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(publisher.Created) != 1 {
			t.Fatalf("expected one playlist, got %d", len(publisher.Created))
		}
		if publisher.Created[0].Name != "Billboard Hot 100: 2017-03-04" {
			t.Errorf("unexpected playlist name %q", publisher.Created[0].Name)
		}
		if !publisher.Created[0].Public {
			t.Error("expected a public playlist")
		}
		if len(publisher.AddedURIs) != 1 || len(publisher.AddedURIs[0]) != 2 {
			t.Fatalf("expected one bulk add with 2 uris, got %+v", publisher.AddedURIs)
		}
		if !result.TracksAdded || result.Playlist == nil {
			t.Errorf("expected result to record the publish, got %+v", result)
		}
	})

	t.Run("Repeat Runs Create Distinct Playlists", func(t *testing.T) {
		publisher := &tu.MockPublisher{UserID: "user42"}
		engine := NewEngine(EngineOpts{Publisher: publisher})

		first, second := runResult(), runResult()
		if err := engine.Publish(context.Background(), nil, first); err != nil {
			t.Fatalf("first publish failed: %v", err)
		}
		if err := engine.Publish(context.Background(), nil, second); err != nil {
			t.Fatalf("second publish failed: %v", err)
		}

		if len(publisher.Created) != 2 {
			t.Fatalf("expected two playlists, got %d", len(publisher.Created))
		}
		if first.Playlist.ID == second.Playlist.ID {
			t.Errorf("expected distinct playlist IDs, both were %q", first.Playlist.ID)
		}
	})

	t.Run("Add Failure Leaves Playlist In Place", func(t *testing.T) {
		addErr := errors.New("server error")
		publisher := &tu.MockPublisher{UserID: "user42", AddErr: addErr}
		engine := NewEngine(EngineOpts{Publisher: publisher})

		result := runResult()
		err := engine.Publish(context.Background(), nil, result)
		if !errors.Is(err, addErr) {
			t.Fatalf("expected add error, got %v", err)
		}

		if result.Playlist == nil {
			t.Fatal("expected the created playlist to be reported despite the failure")
		}
		if result.TracksAdded {
			t.Error("expected TracksAdded to stay false")
		}
		if !strings.Contains(err.Error(), result.Playlist.ID) {
			t.Errorf("expected error to name the orphaned playlist, got %v", err)
		}
	})

	t.Run("No Resolved Tracks Skips Bulk Add", func(t *testing.T) {
		publisher := &tu.MockPublisher{UserID: "user42"}
		engine := NewEngine(EngineOpts{Publisher: publisher})

		result := &RunResult{Date: "1800-01-01"}
		if err := engine.Publish(context.Background(), nil, result); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(publisher.Created) != 1 {
			t.Errorf("expected the empty playlist to still be created, got %d", len(publisher.Created))
		}
		if len(publisher.AddedURIs) != 0 {
			t.Errorf("expected no bulk add for an empty run, got %+v", publisher.AddedURIs)
		}
	})

	t.Run("Create Failure Propagates", func(t *testing.T) {
		publisher := &tu.MockPublisher{UserID: "user42", CreateErr: shared.ErrPublishFailed}
		engine := NewEngine(EngineOpts{Publisher: publisher})

		result := runResult()
		if err := engine.Publish(context.Background(), nil, result); !errors.Is(err, shared.ErrPublishFailed) {
			t.Errorf("expected ErrPublishFailed, got %v", err)
		}
		if result.Playlist != nil {
			t.Errorf("expected no playlist on create failure, got %+v", result.Playlist)
		}
	})

	t.Run("Missing User Session", func(t *testing.T) {
		engine := NewEngine(EngineOpts{Publisher: &tu.MockPublisher{}})

		if err := engine.Publish(context.Background(), nil, runResult()); !errors.Is(err, shared.ErrPublishFailed) {
			t.Errorf("expected ErrPublishFailed, got %v", err)
		}
	})
}

func TestEndToEnd(t *testing.T) {
	chart := &tu.MockChartSource{Entries: []models.ChartEntry{
		{Rank: 1, Title: "Shape of You", Artist: "Ed Sheeran"},
		{Rank: 2, Title: "Unknown Song 9999", Artist: "Nonexistent Artist"},
	}}
	publisher := &tu.MockPublisher{UserID: "user42"}
	engine := NewEngine(EngineOpts{
		Chart:     chart,
		Tokens:    &tu.MockTokenSource{Token: "tok"},
		Resolver:  sampleResolver(),
		Publisher: publisher,
		RateLimit: 1000,
	})

	result, err := engine.Run(context.Background(), nil, "2017-03-04")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if err := engine.Publish(context.Background(), nil, result); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(publisher.AddedURIs) != 1 {
		t.Fatalf("expected one bulk add, got %d", len(publisher.AddedURIs))
	}
	added := publisher.AddedURIs[0]
	if len(added) != 1 || added[0] != "spotify:track:1" {
		t.Errorf("expected only the matched track published, got %v", added)
	}
	if result.MissedCount != 1 {
		t.Errorf("expected one miss recorded, got %d", result.MissedCount)
	}
}
