package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/timewarpfm/timewarp/internal/chart"
	"github.com/timewarpfm/timewarp/internal/shared"
	tu "github.com/timewarpfm/timewarp/internal/testing"
)

func newChartRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tu.ChartHTML(
			[]string{"Shape of You", "Despacito"},
			[]string{"Ed Sheeran", "Luis Fonsi"},
		)))
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	runner := NewRunner(RunnerOpts{
		Extractor: chart.NewExtractor(srv.URL, time.Second, nil),
		Output:    &out,
	})
	return runner, &out
}

func TestChartCommand(t *testing.T) {
	run := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		runner, out := newChartRunner(t)
		err := chartCommand(runner).Run(context.Background(), append([]string{"chart"}, args...))
		return out.String(), err
	}

	t.Run("Text Format", func(t *testing.T) {
		out, err := run(t, "--date", "2017-03-04")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "1. Ed Sheeran - Shape of You") {
			t.Errorf("expected numbered listing, got:\n%s", out)
		}
	})

	t.Run("CSV Format", func(t *testing.T) {
		out, err := run(t, "--date", "2017-03-04", "--format", "csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Rank,Title,Artist") {
			t.Errorf("expected CSV header, got:\n%s", out)
		}
	})

	t.Run("Markdown Format", func(t *testing.T) {
		out, err := run(t, "--date", "2017-03-04", "--format", "markdown")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "| Rank | Title | Artist |") {
			t.Errorf("expected Markdown table header, got:\n%s", out)
		}
		if !strings.Contains(out, "| 2 | Despacito | Luis Fonsi |") {
			t.Errorf("expected Markdown row, got:\n%s", out)
		}
	})

	t.Run("JSON Format", func(t *testing.T) {
		out, err := run(t, "--date", "2017-03-04", "--format", "json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, `"title": "Shape of You"`) {
			t.Errorf("expected JSON entries, got:\n%s", out)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := run(t, "--date", "2017-03-04", "--format", "yaml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Invalid Date", func(t *testing.T) {
		_, err := run(t, "--date", "03/04/2017")
		if !errors.Is(err, shared.ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate, got %v", err)
		}
	})
}
