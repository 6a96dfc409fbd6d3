package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
	mocks "github.com/desertthunder/sortify/internal/testing"
)

func testTracks() []models.Track {
	return []models.Track{
		{ID: "a", URI: "spotify:track:a", Title: "A", ReleaseDate: "2020-05-01"},
		{ID: "b", URI: "spotify:track:b", Title: "B", ReleaseDate: "2019-01-01"},
		{ID: "c", URI: "spotify:track:c", Title: "C", ReleaseDate: "2020-05-01"},
		{ID: "d", URI: "spotify:track:d", Title: "D", ReleaseDate: "2018"},
	}
}

type fakeRecorder struct {
	runs []*models.SortRun
	err  error
}

func (f *fakeRecorder) Create(run *models.SortRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

func called(calls []string, name string) bool {
	for _, c := range calls {
		if c == name {
			return true
		}
	}
	return false
}

func TestSortPlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("Publishes Sorted Order", func(t *testing.T) {
		svc := &mocks.MockService{
			Playlist: &models.Playlist{ID: "pl1", Name: "Mix", Description: "my mix"},
			Tracks:   testTracks(),
		}
		engine := NewEngine(svc, nil)

		result, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SourceName != "Mix" {
			t.Errorf("expected source name Mix, got %s", result.SourceName)
		}

		want := []string{"d", "b", "a", "c"}
		for i, id := range want {
			if result.Tracks[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, result.Tracks[i].ID)
			}
		}

		if len(svc.CreatedNames) != 1 || svc.CreatedNames[0] != "SORTED: Mix" {
			t.Errorf("expected default destination name, got %v", svc.CreatedNames)
		}

		if len(svc.AddedURIs) != 1 {
			t.Fatalf("expected one AddTracks call, got %d", len(svc.AddedURIs))
		}
		if svc.AddedURIs[0][0] != "spotify:track:d" {
			t.Errorf("expected oldest track first, got %s", svc.AddedURIs[0][0])
		}
	})

	t.Run("Reversed", func(t *testing.T) {
		svc := &mocks.MockService{Tracks: testTracks()}
		engine := NewEngine(svc, nil)

		result, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{Reversed: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Tracks[0].ID != "a" || result.Tracks[len(result.Tracks)-1].ID != "d" {
			t.Errorf("expected newest first, got %s ... %s", result.Tracks[0].ID, result.Tracks[len(result.Tracks)-1].ID)
		}
	})

	t.Run("Custom Name And Description", func(t *testing.T) {
		svc := &mocks.MockService{Tracks: testTracks()}
		engine := NewEngine(svc, nil)

		_, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{Name: "My Order", Description: "chronological"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if svc.CreatedNames[0] != "My Order" {
			t.Errorf("expected custom name, got %s", svc.CreatedNames[0])
		}
	})

	t.Run("Empty Source Still Creates Playlist", func(t *testing.T) {
		svc := &mocks.MockService{Tracks: []models.Track{}}
		engine := NewEngine(svc, nil)

		result, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Destination == nil {
			t.Fatal("expected destination playlist for empty source")
		}
		if len(svc.AddedURIs) != 0 {
			t.Errorf("expected no AddTracks calls for empty source, got %d", len(svc.AddedURIs))
		}
	})

	t.Run("Fetch Failure Prevents Writes", func(t *testing.T) {
		svc := &mocks.MockService{
			GetTracksErr: shared.ErrTokenExpired,
		}
		engine := NewEngine(svc, nil)

		_, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{})
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}

		if called(svc.Calls, "CreatePlaylist") || called(svc.Calls, "AddTracks") {
			t.Error("expected no write calls after fetch failure")
		}
	})

	t.Run("Partial Write", func(t *testing.T) {
		svc := &mocks.MockService{
			Tracks:       testTracks(),
			AddErr:       shared.ErrRateLimited,
			AddedPartial: 2,
		}
		engine := NewEngine(svc, nil)

		_, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{})
		if !errors.Is(err, shared.ErrPartialWrite) {
			t.Fatalf("expected ErrPartialWrite, got %v", err)
		}

		// Playlist was created before the failure and is left in place
		if !called(svc.Calls, "CreatePlaylist") {
			t.Error("expected playlist creation before partial failure")
		}
	})

	t.Run("In Place", func(t *testing.T) {
		svc := &mocks.MockService{
			Playlist: &models.Playlist{ID: "pl1", Name: "Mix"},
			Tracks:   testTracks(),
		}
		engine := NewEngine(svc, nil)

		result, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{InPlace: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if called(svc.Calls, "CreatePlaylist") {
			t.Error("expected no playlist creation for in-place sort")
		}
		if !called(svc.Calls, "RemovePlaylistTracks") {
			t.Error("expected source playlist to be cleared")
		}
		if !called(svc.Calls, "AddTracks") {
			t.Error("expected tracks to be re-added")
		}
		if result.Destination == nil || result.Destination.ID != "pl1" {
			t.Error("expected source playlist as destination")
		}
	})

	t.Run("Missing ID", func(t *testing.T) {
		engine := NewEngine(&mocks.MockService{}, nil)

		_, err := engine.SortPlaylist(ctx, nil, "", SortOptions{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Records Run", func(t *testing.T) {
		svc := &mocks.MockService{
			Playlist: &models.Playlist{ID: "pl1", Name: "Mix"},
			Tracks:   testTracks(),
		}
		recorder := &fakeRecorder{}
		engine := NewEngine(svc, recorder)

		_, err := engine.SortPlaylist(ctx, nil, "pl1", SortOptions{Reversed: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(recorder.runs) != 1 {
			t.Fatalf("expected one recorded run, got %d", len(recorder.runs))
		}

		run := recorder.runs[0]
		if run.Source != "playlist" || run.SourceID != "pl1" {
			t.Errorf("unexpected run source: %s/%s", run.Source, run.SourceID)
		}
		if run.TrackCount != 4 || !run.Reversed {
			t.Errorf("unexpected run facts: count=%d reversed=%v", run.TrackCount, run.Reversed)
		}
		if run.PlaylistID == "" {
			t.Error("expected destination playlist recorded")
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		svc := &mocks.MockService{Tracks: testTracks()}
		engine := NewEngine(svc, nil)

		progress := make(chan ProgressUpdate, 50)
		_, err := engine.SortPlaylist(ctx, progress, "pl1", SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		phases := map[Phase]bool{}
		for update := range progress {
			phases[update.Phase] = true
		}

		for _, phase := range []Phase{FetchSource, SortTracks, CreateDestination, PublishTracks} {
			if !phases[phase] {
				t.Errorf("expected a %s progress update", phase)
			}
		}
	})
}

func TestSortLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("Publishes To New Playlist", func(t *testing.T) {
		svc := &mocks.MockService{LibraryTracks: testTracks()}
		engine := NewEngine(svc, nil)

		result, err := engine.SortLibrary(ctx, nil, SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if svc.CreatedNames[0] != "SORTED: Your Library" {
			t.Errorf("expected default library destination name, got %s", svc.CreatedNames[0])
		}
		if result.Tracks[0].ID != "d" {
			t.Errorf("expected oldest track first, got %s", result.Tracks[0].ID)
		}
		if called(svc.Calls, "RemoveLibraryTracks") || called(svc.Calls, "SaveLibraryTracks") {
			t.Error("expected library itself untouched without rewrite")
		}
	})

	t.Run("Rewrite", func(t *testing.T) {
		svc := &mocks.MockService{LibraryTracks: testTracks()}
		engine := NewEngine(svc, nil)

		result, err := engine.SortLibrary(ctx, nil, SortOptions{Rewrite: true, Threshold: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if called(svc.Calls, "CreatePlaylist") {
			t.Error("expected no playlist creation for rewrite without backup")
		}
		if !called(svc.Calls, "RemoveLibraryTracks") {
			t.Error("expected library cleared")
		}
		if len(svc.SavedIDs) != 1 {
			t.Fatalf("expected one SaveLibraryTracks call, got %d", len(svc.SavedIDs))
		}
		if svc.SavedIDs[0][0] != "d" {
			t.Errorf("expected oldest track saved first, got %s", svc.SavedIDs[0][0])
		}
		if result.Destination != nil {
			t.Error("expected nil destination for in-place rewrite")
		}
	})

	t.Run("Rewrite With Backup", func(t *testing.T) {
		svc := &mocks.MockService{LibraryTracks: testTracks()}
		engine := NewEngine(svc, nil)

		result, err := engine.SortLibrary(ctx, nil, SortOptions{Rewrite: true, Backup: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(svc.CreatedNames) != 1 || svc.CreatedNames[0] != "Your Library [Backup]" {
			t.Errorf("expected backup playlist, got %v", svc.CreatedNames)
		}
		if result.Backup == nil {
			t.Fatal("expected backup playlist in result")
		}

		// Backup holds the pre-sort order
		if svc.AddedURIs[0][0] != "spotify:track:a" {
			t.Errorf("expected backup in original order, got %s first", svc.AddedURIs[0][0])
		}
	})

	t.Run("Rewrite Partial Save", func(t *testing.T) {
		svc := &mocks.MockService{
			LibraryTracks: testTracks(),
			SaveErr:       shared.ErrRateLimited,
			SavedPartial:  2,
		}
		engine := NewEngine(svc, nil)

		_, err := engine.SortLibrary(ctx, nil, SortOptions{Rewrite: true})
		if !errors.Is(err, shared.ErrPartialWrite) {
			t.Fatalf("expected ErrPartialWrite, got %v", err)
		}
	})

	t.Run("Empty Library Still Creates Playlist", func(t *testing.T) {
		svc := &mocks.MockService{LibraryTracks: []models.Track{}}
		engine := NewEngine(svc, nil)

		result, err := engine.SortLibrary(ctx, nil, SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Destination == nil {
			t.Fatal("expected destination playlist for empty library")
		}
	})

	t.Run("Records Run", func(t *testing.T) {
		svc := &mocks.MockService{LibraryTracks: testTracks()}
		recorder := &fakeRecorder{}
		engine := NewEngine(svc, recorder)

		_, err := engine.SortLibrary(ctx, nil, SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(recorder.runs) != 1 {
			t.Fatalf("expected one recorded run, got %d", len(recorder.runs))
		}
		if recorder.runs[0].Source != "library" {
			t.Errorf("expected library source, got %s", recorder.runs[0].Source)
		}
	})

	t.Run("Recorder Failure Is Silent", func(t *testing.T) {
		svc := &mocks.MockService{LibraryTracks: testTracks()}
		recorder := &fakeRecorder{err: errors.New("disk full")}
		engine := NewEngine(svc, recorder)

		_, err := engine.SortLibrary(ctx, nil, SortOptions{})
		if err != nil {
			t.Fatalf("expected recorder failure to be swallowed, got %v", err)
		}
	})
}
