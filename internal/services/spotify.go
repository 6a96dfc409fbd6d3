// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	libraryPageLimit  = 50  // GET /me/tracks max page size
	playlistPageLimit = 100 // GET /playlists/{id}/tracks max page size

	playlistAddLimit   = 100 // POST /playlists/{id}/tracks max items
	librarySaveLimit   = 50  // PUT /me/tracks max ids
	libraryDeleteLimit = 50  // DELETE /me/tracks max ids
)

// spotifyImage represents an image resource.
type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// spotifyArtist represents a Spotify artist.
type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// spotifyAlbum represents a Spotify album. ReleaseDate precision varies with
// ReleaseDatePrecision ("year", "month", "day").
type spotifyAlbum struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Artists              []spotifyArtist `json:"artists"`
	ReleaseDate          string          `json:"release_date"`
	ReleaseDatePrecision string          `json:"release_date_precision"`
	Images               []spotifyImage  `json:"images"`
	URI                  string          `json:"uri"`
}

// spotifyTrack represents a Spotify track.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
	IsLocal    bool            `json:"is_local"`
}

// trackItem represents a track within a collection context (saved or playlist).
type trackItem struct {
	AddedAt string       `json:"added_at"`
	Track   spotifyTrack `json:"track"`
}

// paginatedTracks represents a paginated response of collection tracks.
type paginatedTracks struct {
	Items    []trackItem `json:"items"`
	Total    int         `json:"total"`
	Limit    int         `json:"limit"`
	Offset   int         `json:"offset"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
}

type playlistOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracksRef struct {
	Total int `json:"total"`
}

// spotifyPlaylist represents a Spotify playlist object.
type spotifyPlaylist struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Owner       playlistOwner     `json:"owner"`
	Public      bool              `json:"public"`
	Tracks      playlistTracksRef `json:"tracks"`
	URI         string            `json:"uri"`
}

// paginatedPlaylists represents a paginated response of playlists.
type paginatedPlaylists struct {
	Items    []spotifyPlaylist `json:"items"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
}

// spotifyError is the error envelope the API returns on non-2xx responses.
type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements [Service] and [OAuthService] for the Spotify Web API.
//
// Authentication accepts either a raw bearer token (the common case: a token
// obtained externally and passed via flag or environment) or a full OAuth2
// token with refresh support.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewSpotifyService creates a new Spotify service with the given credentials.
//
// client_id and client_secret are only required for the OAuth authorization
// flow; bearer-token authentication works without them.
func NewSpotifyService(credentials map[string]string) *SpotifyService {
	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     credentials["client_id"],
		ClientSecret: credentials["client_secret"],
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-library-read",
			"user-library-modify",
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}
}

// SetBaseURL overrides the API base URL. Used by tests to point at a fake backend.
func (s *SpotifyService) SetBaseURL(u string) { s.baseURL = u }

// SetRateLimit sets the write-batch rate limit in requests per second.
func (s *SpotifyService) SetRateLimit(rps float64) {
	if rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Authenticate performs authentication. Expects an "access_token" (bearer) or
// "auth_code" (authorization-code exchange) in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken := credentials["access_token"]; accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		if refresh := credentials["refresh_token"]; refresh != "" && s.config.ClientID != "" {
			s.token.RefreshToken = refresh
			s.httpClient = s.config.Client(ctx, s.token)
		}
		return nil
	}

	if authCode := credentials["auth_code"]; authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: access_token or auth_code required", shared.ErrMissingCredentials)
}

// OAuthenticate authenticates with a previously obtained OAuth2 token.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: token cannot be nil", shared.ErrMissingCredentials)
	}
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

func (s *SpotifyService) Name() string { return "Spotify" }

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig returns the OAuth2 configuration for the callback server.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config { return s.config }

// doRequest performs an authenticated request against the Spotify API,
// JSON-encoding body when non-nil and decoding the response into result.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.apiError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// apiError maps a non-2xx response onto the shared error taxonomy.
func (s *SpotifyService) apiError(resp *http.Response) error {
	var envelope spotifyError
	message := ""
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		message = envelope.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrTokenExpired, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: insufficient scope: %s", shared.ErrAuthFailed, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, message)
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		if retryAfter != "" {
			return fmt.Errorf("%w: retry after %ss", shared.ErrRateLimited, retryAfter)
		}
		return fmt.Errorf("%w: %s", shared.ErrRateLimited, message)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, message)
	}
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*User, error) {
	var user User
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPlaylists retrieves all playlists for the authenticated user.
func (s *SpotifyService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var all []models.Playlist
	limit := 50
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

		var page paginatedPlaylists
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, sp := range page.Items {
			all = append(all, models.Playlist{
				ID:          sp.ID,
				Name:        sp.Name,
				Description: sp.Description,
				TrackCount:  sp.Tracks.Total,
				Public:      sp.Public,
			})
		}

		if page.Next == nil || len(page.Items) < limit {
			break
		}
		offset += limit
	}

	return all, nil
}

// GetPlaylist retrieves a specific playlist by ID.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))

	var sp spotifyPlaylist
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &sp); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		TrackCount:  sp.Tracks.Total,
		Public:      sp.Public,
	}, nil
}

// GetPlaylistTracks retrieves the complete ordered track listing of a playlist.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.fetchAllTracks(ctx, path, playlistPageLimit)
}

// GetLibraryTracks retrieves the user's complete saved-track collection.
func (s *SpotifyService) GetLibraryTracks(ctx context.Context) ([]models.Track, error) {
	return s.fetchAllTracks(ctx, "/me/tracks", libraryPageLimit)
}

// fetchAllTracks pages through a track collection endpoint until the platform
// reports no further data (null next cursor) or returns a short page.
func (s *SpotifyService) fetchAllTracks(ctx context.Context, path string, limit int) ([]models.Track, error) {
	var all []models.Track
	offset := 0

	for {
		endpoint := fmt.Sprintf("%s?limit=%d&offset=%d", path, limit, offset)

		var page paginatedTracks
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for i, item := range page.Items {
			t := item.Track
			if t.ID == "" && t.URI == "" {
				// Local files and removed tracks come back as empty objects
				continue
			}

			track := models.Track{
				ID:          t.ID,
				URI:         t.URI,
				Title:       t.Name,
				Album:       t.Album.Name,
				ReleaseDate: t.Album.ReleaseDate,
				Position:    offset + i,
			}
			if len(t.Artists) > 0 {
				track.Artist = t.Artists[0].Name
			}
			all = append(all, track)
		}

		if page.Next == nil || len(page.Items) < limit {
			break
		}
		offset += limit
	}

	return all, nil
}

// CreatePlaylist creates a new empty playlist owned by the authenticated user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var sp spotifyPlaylist
	if err := s.doRequest(ctx, http.MethodPost, "/me/playlists", body, &sp); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Public:      sp.Public,
	}, nil
}

// AddTracks appends tracks to a playlist in order, in batches of at most 100.
//
// Returns the number of tracks successfully added; on error the count tells
// the caller how much of the playlist was populated.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) (int, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	added := 0

	for start := 0; start < len(uris); start += playlistAddLimit {
		end := min(start+playlistAddLimit, len(uris))

		if err := s.limiter.Wait(ctx); err != nil {
			return added, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		body := map[string]any{"uris": uris[start:end]}
		if err := s.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
			return added, err
		}
		added = end
	}

	return added, nil
}

// RemovePlaylistTracks removes all occurrences of the given tracks from a playlist.
func (s *SpotifyService) RemovePlaylistTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	unique := dedupe(uris)
	for start := 0; start < len(unique); start += playlistAddLimit {
		end := min(start+playlistAddLimit, len(unique))

		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		refs := make([]map[string]string, 0, end-start)
		for _, uri := range unique[start:end] {
			refs = append(refs, map[string]string{"uri": uri})
		}

		body := map[string]any{"tracks": refs}
		if err := s.doRequest(ctx, http.MethodDelete, endpoint, body, nil); err != nil {
			return err
		}
	}

	return nil
}

// SaveLibraryTracks saves tracks to the user's library in order.
//
// batchSize is clamped to 1..50; the platform does not guarantee ordering
// within a batch, so smaller batches preserve order better.
func (s *SpotifyService) SaveLibraryTracks(ctx context.Context, ids []string, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1
	}
	if batchSize > librarySaveLimit {
		batchSize = librarySaveLimit
	}

	saved := 0
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))

		if err := s.limiter.Wait(ctx); err != nil {
			return saved, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		body := map[string]any{"ids": ids[start:end]}
		if err := s.doRequest(ctx, http.MethodPut, "/me/tracks", body, nil); err != nil {
			return saved, err
		}
		saved = end
	}

	return saved, nil
}

// RemoveLibraryTracks removes tracks from the user's library.
func (s *SpotifyService) RemoveLibraryTracks(ctx context.Context, ids []string) error {
	unique := dedupe(ids)

	for start := 0; start < len(unique); start += libraryDeleteLimit {
		end := min(start+libraryDeleteLimit, len(unique))

		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		body := map[string]any{"ids": unique[start:end]}
		if err := s.doRequest(ctx, http.MethodDelete, "/me/tracks", body, nil); err != nil {
			return err
		}
	}

	return nil
}

// dedupe removes duplicate values, preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
