package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/shared"
)

const defaultBaseURL = "https://www.billboard.com/charts/hot-100"

// Extractor fetches chart documents over HTTP and parses them into ordered
// chart entries.
type Extractor struct {
	client  *resty.Client
	baseURL string
	logger  *log.Logger
}

// NewExtractor creates an Extractor for the given chart base URL.
//
// An empty baseURL falls back to the Billboard Hot 100 chart. A timeout of
// zero leaves the HTTP client's default in place.
func NewExtractor(baseURL string, timeout time.Duration, logger *log.Logger) *Extractor {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Extractor{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Fetch retrieves the chart for a YYYY-MM-DD date and returns its entries in
// chart order.
//
// Transport failures and non-2xx statuses return an error wrapping
// [shared.ErrChartFetch]. A reachable document that yields no entries is not
// an error; the caller receives an empty slice.
func (e *Extractor) Fetch(ctx context.Context, date string) ([]models.ChartEntry, error) {
	chartURL := fmt.Sprintf("%s/%s", e.baseURL, date)
	e.logger.Debug("fetching chart", "url", chartURL)

	resp, err := e.client.R().SetContext(ctx).Get(chartURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrChartFetch, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d for %s", shared.ErrChartFetch, resp.StatusCode(), chartURL)
	}

	entries := Parse(resp.Body())
	if len(entries) == 0 {
		e.logger.Warn("chart document yielded no entries", "date", date)
	} else {
		e.logger.Info("chart fetched", "date", date, "entries", len(entries))
	}

	return entries, nil
}
