// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/timewarpfm/timewarp/internal/models"
)

// MockChartSource is a test double for [pipeline.ChartSource]
type MockChartSource struct {
	Entries []models.ChartEntry
	Err     error
}

func (m *MockChartSource) Fetch(ctx context.Context, date string) ([]models.ChartEntry, error) {
	return m.Entries, m.Err
}

// MockTokenSource counts how often a token is requested.
type MockTokenSource struct {
	Token string
	Err   error
	Calls int
}

func (m *MockTokenSource) ClientToken(ctx context.Context) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Token, nil
}

// MockResolver resolves from a fixed title→URI table; unknown titles return
// the configured miss error.
type MockResolver struct {
	URIs    map[string]string
	MissErr error
	Err     error
	Queries []string
}

func (m *MockResolver) SearchTrack(ctx context.Context, token, title, artist string) (string, error) {
	m.Queries = append(m.Queries, title+" "+artist)
	if m.Err != nil {
		return "", m.Err
	}
	if uri, ok := m.URIs[title]; ok {
		return uri, nil
	}
	return "", fmt.Errorf("%w: %q by %q", m.MissErr, title, artist)
}

// MockPublisher records playlist creation and track additions.
type MockPublisher struct {
	UserID     string
	CreateErr  error
	AddErr     error
	Created    []models.Playlist
	AddedURIs  [][]string
	nextSerial int
}

func (m *MockPublisher) CurrentUserID(ctx context.Context) (string, error) {
	if m.UserID == "" {
		return "", errors.New("no user")
	}
	return m.UserID, nil
}

func (m *MockPublisher) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.nextSerial++
	playlist := models.Playlist{
		ID:     fmt.Sprintf("playlist-%d", m.nextSerial),
		Name:   name,
		Public: public,
	}
	m.Created = append(m.Created, playlist)
	return &playlist, nil
}

func (m *MockPublisher) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.AddedURIs = append(m.AddedURIs, uris)
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// ChartHTML builds a minimal chart document with the given titles and
// artists marked up the way the extractor's selector passes expect.
func ChartHTML(titles, artists []string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><div class=\"chart-results\">")
	for _, title := range titles {
		sb.WriteString(`<h3 id="title-of-a-story" class="c-title a-no-trucate">`)
		sb.WriteString("\n\t" + title + "\n")
		sb.WriteString("</h3>")
	}
	for _, artist := range artists {
		sb.WriteString(`<span class="c-label a-no-trucate">`)
		sb.WriteString("\n\t" + artist + "\n")
		sb.WriteString("</span>")
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}
