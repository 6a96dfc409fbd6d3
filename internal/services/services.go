package services

import (
	"context"

	"github.com/desertthunder/sortify/internal/models"
	"golang.org/x/oauth2"
)

// Service defines the music platform operations the sort engine needs: paginated
// reads of track collections and playlist creation/population.
type Service interface {
	// Authenticate performs bearer-token or OAuth authentication with the platform.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// GetPlaylistTracks retrieves the complete ordered track listing of a playlist,
	// paging through the API until exhausted.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// GetLibraryTracks retrieves the user's complete saved-track collection in
	// library order, paging through the API until exhausted.
	GetLibraryTracks(ctx context.Context) ([]models.Track, error)

	// CreatePlaylist creates a new empty playlist owned by the authenticated user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// AddTracks appends tracks to a playlist in order, batching requests to
	// respect the platform's per-request limit. Returns the number of tracks
	// added before any error.
	AddTracks(ctx context.Context, playlistID string, uris []string) (int, error)

	// RemovePlaylistTracks removes all occurrences of the given tracks from a playlist.
	RemovePlaylistTracks(ctx context.Context, playlistID string, uris []string) error

	// SaveLibraryTracks saves tracks to the user's library in batches of the
	// given size. Returns the number of tracks saved before any error.
	SaveLibraryTracks(ctx context.Context, ids []string, batchSize int) (int, error)

	// RemoveLibraryTracks removes tracks from the user's library.
	RemoveLibraryTracks(ctx context.Context, ids []string) error

	// UserProfile retrieves the authenticated user's profile.
	UserProfile(ctx context.Context) (*User, error)

	// Name returns the platform name (e.g. "Spotify")
	Name() string
}

// OAuthService extends Service for providers supporting a server-side OAuth2
// authorization-code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the OAuth2 authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig returns the underlying OAuth2 configuration.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate authenticates with a previously obtained token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// User represents the authenticated platform user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}
