// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/services"
)

// MockService is a configurable test double for [services.Service].
//
// Zero value returns empty results. Set the fields to control behavior;
// the Calls slice records every method invocation in order.
type MockService struct {
	Playlists     []models.Playlist
	Playlist      *models.Playlist
	Tracks        []models.Track
	LibraryTracks []models.Track
	Created       *models.Playlist
	User          *services.User

	AuthenticateErr error
	GetPlaylistErr  error
	GetTracksErr    error
	CreateErr       error
	AddErr          error
	RemoveErr       error
	SaveErr         error

	AddedPartial int // Tracks reported added when AddErr fires
	SavedPartial int // Tracks reported saved when SaveErr fires

	Calls        []string
	AddedURIs    [][]string
	SavedIDs     [][]string
	RemovedURIs  []string
	RemovedIDs   []string
	CreatedNames []string
}

func (m *MockService) record(call string) {
	m.Calls = append(m.Calls, call)
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	m.record("Authenticate")
	return m.AuthenticateErr
}

func (m *MockService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	m.record("GetPlaylists")
	return m.Playlists, m.GetPlaylistErr
}

func (m *MockService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	m.record("GetPlaylist")
	if m.GetPlaylistErr != nil {
		return nil, m.GetPlaylistErr
	}
	if m.Playlist != nil {
		return m.Playlist, nil
	}
	return &models.Playlist{ID: playlistID, Name: "Mock Playlist"}, nil
}

func (m *MockService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.record("GetPlaylistTracks")
	return m.Tracks, m.GetTracksErr
}

func (m *MockService) GetLibraryTracks(ctx context.Context) ([]models.Track, error) {
	m.record("GetLibraryTracks")
	return m.LibraryTracks, m.GetTracksErr
}

func (m *MockService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	m.record("CreatePlaylist")
	m.CreatedNames = append(m.CreatedNames, name)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Created != nil {
		return m.Created, nil
	}
	return &models.Playlist{ID: "mock_created", Name: name, Description: description, Public: public}, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, uris []string) (int, error) {
	m.record("AddTracks")
	m.AddedURIs = append(m.AddedURIs, uris)
	if m.AddErr != nil {
		return m.AddedPartial, m.AddErr
	}
	return len(uris), nil
}

func (m *MockService) RemovePlaylistTracks(ctx context.Context, playlistID string, uris []string) error {
	m.record("RemovePlaylistTracks")
	m.RemovedURIs = append(m.RemovedURIs, uris...)
	return m.RemoveErr
}

func (m *MockService) SaveLibraryTracks(ctx context.Context, ids []string, batchSize int) (int, error) {
	m.record("SaveLibraryTracks")
	m.SavedIDs = append(m.SavedIDs, ids)
	if m.SaveErr != nil {
		return m.SavedPartial, m.SaveErr
	}
	return len(ids), nil
}

func (m *MockService) RemoveLibraryTracks(ctx context.Context, ids []string) error {
	m.record("RemoveLibraryTracks")
	m.RemovedIDs = append(m.RemovedIDs, ids...)
	return m.RemoveErr
}

func (m *MockService) UserProfile(ctx context.Context) (*services.User, error) {
	m.record("UserProfile")
	if m.User != nil {
		return m.User, nil
	}
	return &services.User{ID: "mock_user", DisplayName: "Mock User"}, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
