// Spotify Web API client.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents an artist in search responses.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a track in search responses.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

// SpotifyPlaylist represents a playlist resource.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Public       bool         `json:"public"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

type searchTracks struct {
	Items []SpotifyTrack `json:"items"`
}

type searchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

type clientTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SpotifyService talks to the Spotify Web API.
//
// Catalog search uses an app-only bearer token from [SpotifyService.ClientToken];
// playlist mutation requires a delegated user session established with
// [SpotifyService.Authenticate].
type SpotifyService struct {
	config *oauth2.Config
	token  *oauth2.Token
	logger *log.Logger

	// httpClient carries no credentials; ClientToken and SearchTrack attach
	// their own Authorization headers. userClient is the oauth2-wrapped
	// client installed by Authenticate for delegated calls.
	httpClient *http.Client
	userClient *http.Client

	// Overridable in tests.
	accountsURL string
	baseURL     string
}

// NewSpotifyService creates a Spotify client from OAuth2 credentials.
//
// Requires client_id and client_secret; redirect_uri falls back to a local
// loopback callback.
func NewSpotifyService(credentials map[string]string, logger *log.Logger) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:8888/callback"
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		logger:      logger,
		accountsURL: spotifyTokenURL,
		baseURL:     spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// GetOAuthConfig exposes the OAuth2 config for the callback exchange.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// Authenticate installs a delegated user token for playlist mutation.
//
// The underlying [oauth2] client transparently refreshes the token when a
// refresh token is present.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty user token", shared.ErrNotAuthenticated)
	}
	s.token = token
	s.userClient = s.config.Client(ctx, token)
	return nil
}

// ClientToken exchanges the client credentials for an app-only bearer token.
//
// Sends base64("{id}:{secret}") as a Basic auth header with a
// client_credentials grant. The three failure modes stay distinct: transport
// failure, non-200 status, and a 200 body with no access_token field. No
// retry; the caller fails fast.
func (s *SpotifyService) ClientToken(ctx context.Context) (string, error) {
	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.accountsURL, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenRequest, err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(s.config.ClientID + ":" + s.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d from token endpoint", shared.ErrTokenRequest, resp.StatusCode)
	}

	var tokenResp clientTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %v", shared.ErrTokenRequest, err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: access_token missing in response", shared.ErrTokenRequest)
	}

	return tokenResp.AccessToken, nil
}

// SearchTrack resolves a (title, artist) pair to a track URI.
//
// The query is the combined free-text string "{title} {artist}" with
// type=track and limit=1. Combining both fields in one query is markedly more
// tolerant of artist-name spelling variants between the chart and the catalog
// than querying the artist field alone, so the resolver trusts the ranking
// and takes only the first result. An empty result list returns
// [shared.ErrNoMatch] rather than an error the pipeline would abort on.
func (s *SpotifyService) SearchTrack(ctx context.Context, token, title, artist string) (string, error) {
	params := url.Values{}
	params.Set("q", title+" "+artist)
	params.Set("type", "track")
	params.Set("limit", "1")

	searchURL := s.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: search request: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: search returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode search response: %v", shared.ErrAPIRequest, err)
	}

	if len(result.Tracks.Items) == 0 || result.Tracks.Items[0].URI == "" {
		s.logger.Warn("no songs found", "title", title, "artist", artist)
		return "", fmt.Errorf("%w: %q by %q", shared.ErrNoMatch, title, artist)
	}

	return result.Tracks.Items[0].URI, nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUserID returns the authenticated user's identifier.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("%w: user profile missing id", shared.ErrAPIRequest)
	}
	return user.ID, nil
}

// CreatePlaylist creates a playlist owned by the given user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error) {
	payload := map[string]any{
		"name":   name,
		"public": public,
	}

	var created SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, fmt.Errorf("%w: create playlist: %v", shared.ErrPublishFailed, err)
	}

	if created.ID == "" {
		return nil, fmt.Errorf("%w: create playlist response missing id", shared.ErrPublishFailed)
	}

	return &models.Playlist{
		ID:     created.ID,
		Name:   created.Name,
		URL:    created.ExternalURLs.Spotify,
		Public: created.Public,
	}, nil
}

// AddTracks appends track URIs to a playlist in a single bulk call,
// preserving the order of uris.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs to add", shared.ErrInvalidArgument)
	}

	payload := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, payload, nil); err != nil {
		return fmt.Errorf("%w: add tracks: %v", shared.ErrPublishFailed, err)
	}

	return nil
}

// doRequest performs an authenticated HTTP request against the Web API using
// the delegated user session.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil || s.userClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.userClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
