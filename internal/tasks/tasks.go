package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/services"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/sorter"
)

// SortOptions configures a sort operation.
type SortOptions struct {
	Reversed    bool   // Newest first instead of oldest first
	Name        string // Destination playlist name (default: "SORTED: <source>")
	Description string // Destination playlist description (default: source's)
	InPlace     bool   // Playlist only: refill the source instead of creating a playlist
	Rewrite     bool   // Library only: rewrite saved tracks instead of creating a playlist
	Backup      bool   // Library rewrite only: back the library up to a playlist first
	Threshold   int    // Library rewrite only: tracks saved per request (1..50, default 3)
}

// SortResult contains all data from a completed sort operation.
type SortResult struct {
	SourceName  string           // Display name of the sorted source
	Tracks      []models.Track   // Tracks in published order
	Destination *models.Playlist // Created or refilled playlist; nil for library rewrites
	Backup      *models.Playlist // Backup playlist, when one was created
}

// SortEngine defines the fetch → sort → create → publish operations.
type SortEngine interface {
	// SortPlaylist sorts the given playlist's tracks by release date and
	// publishes the result as a new private playlist (or back into the source
	// when opts.InPlace is set).
	SortPlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, opts SortOptions) (*SortResult, error)

	// SortLibrary sorts the user's saved tracks by release date and publishes
	// the result as a new private playlist (or rewrites the library when
	// opts.Rewrite is set).
	SortLibrary(ctx context.Context, progress chan<- ProgressUpdate, opts SortOptions) (*SortResult, error)
}

// RunRecorder persists facts about completed runs. Recording is best effort;
// failures never surface to the caller.
type RunRecorder interface {
	Create(run *models.SortRun) error
}

// Engine implements [SortEngine] against a [services.Service].
type Engine struct {
	service  services.Service
	recorder RunRecorder
}

// NewEngine creates an Engine. recorder may be nil to disable run history.
func NewEngine(service services.Service, recorder RunRecorder) *Engine {
	return &Engine{service: service, recorder: recorder}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SortPlaylist sorts a playlist by release date.
func (e *Engine) SortPlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, opts SortOptions) (*SortResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}

	source, err := e.service.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchSourceUpdate(source.Name))
	tracks, err := e.service.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, fetchedSourceUpdate(source.Name, len(tracks)))

	e.sendProgress(progress, sortTracksUpdate(len(tracks), opts.Reversed))
	sorted := sorter.ByReleaseDate(tracks, sorter.Options{Reversed: opts.Reversed})

	result := &SortResult{SourceName: source.Name, Tracks: sorted}

	if opts.InPlace {
		e.sendProgress(progress, clearSourceUpdate(source.Name, len(sorted)))
		if err := e.service.RemovePlaylistTracks(ctx, playlistID, trackURIs(sorted)); err != nil {
			return nil, err
		}

		e.sendProgress(progress, publishTracksUpdate(1, len(sorted)))
		added, err := e.service.AddTracks(ctx, playlistID, trackURIs(sorted))
		if err != nil {
			return nil, fmt.Errorf("%w: %d of %d tracks restored to %s: %v",
				shared.ErrPartialWrite, added, len(sorted), source.Name, err)
		}

		result.Destination = source
	} else {
		name := opts.Name
		if name == "" {
			name = "SORTED: " + source.Name
		}
		description := opts.Description
		if description == "" {
			description = source.Description
		}

		dest, err := e.publish(ctx, progress, name, description, sorted)
		if err != nil {
			return nil, err
		}
		result.Destination = dest
	}

	e.record(models.NewSortRun("playlist", playlistID, source.Name), result, opts)
	return result, nil
}

// SortLibrary sorts the user's saved tracks by release date.
func (e *Engine) SortLibrary(ctx context.Context, progress chan<- ProgressUpdate, opts SortOptions) (*SortResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	const sourceName = "Your Library"

	e.sendProgress(progress, fetchSourceUpdate(sourceName))
	tracks, err := e.service.GetLibraryTracks(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, fetchedSourceUpdate(sourceName, len(tracks)))

	e.sendProgress(progress, sortTracksUpdate(len(tracks), opts.Reversed))
	sorted := sorter.ByReleaseDate(tracks, sorter.Options{Reversed: opts.Reversed})

	result := &SortResult{SourceName: sourceName, Tracks: sorted}

	if opts.Rewrite {
		if opts.Backup {
			backupName := "Your Library [Backup]"
			e.sendProgress(progress, backupLibraryUpdate(backupName))

			// Backup keeps the pre-sort library order
			backup, err := e.publish(ctx, progress, backupName, "", tracks)
			if err != nil {
				return nil, err
			}
			result.Backup = backup
		}

		e.sendProgress(progress, clearSourceUpdate(sourceName, len(sorted)))
		if err := e.service.RemoveLibraryTracks(ctx, trackIDs(sorted)); err != nil {
			return nil, err
		}

		threshold := opts.Threshold
		if threshold <= 0 {
			threshold = 3
		}

		e.sendProgress(progress, publishTracksUpdate(1, len(sorted)))
		saved, err := e.service.SaveLibraryTracks(ctx, trackIDs(sorted), threshold)
		if err != nil {
			return nil, fmt.Errorf("%w: %d of %d tracks saved back to the library: %v",
				shared.ErrPartialWrite, saved, len(sorted), err)
		}
	} else {
		name := opts.Name
		if name == "" {
			name = "SORTED: " + sourceName
		}

		dest, err := e.publish(ctx, progress, name, opts.Description, sorted)
		if err != nil {
			return nil, err
		}
		result.Destination = dest
	}

	e.record(models.NewSortRun("library", "", sourceName), result, opts)
	return result, nil
}

// publish creates a private playlist and appends tracks in order.
//
// An empty track list still creates the playlist; a batch failure after
// creation wraps [shared.ErrPartialWrite] with the number of tracks that
// landed, leaving the incomplete playlist in place.
func (e *Engine) publish(ctx context.Context, progress chan<- ProgressUpdate, name, description string, tracks []models.Track) (*models.Playlist, error) {
	e.sendProgress(progress, createDestinationUpdate(name))
	dest, err := e.service.CreatePlaylist(ctx, name, description, false)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, createdDestinationUpdate(dest))

	if len(tracks) == 0 {
		return dest, nil
	}

	e.sendProgress(progress, publishTracksUpdate(1, len(tracks)))
	added, err := e.service.AddTracks(ctx, dest.ID, trackURIs(tracks))
	if err != nil {
		return nil, fmt.Errorf("%w: %d of %d tracks added to %s (ID: %s): %v",
			shared.ErrPartialWrite, added, len(tracks), dest.Name, dest.ID, err)
	}

	dest.TrackCount = added
	return dest, nil
}

// record persists run facts; history is best effort.
func (e *Engine) record(run *models.SortRun, result *SortResult, opts SortOptions) {
	if e.recorder == nil {
		return
	}

	run.TrackCount = len(result.Tracks)
	run.Reversed = opts.Reversed
	if result.Destination != nil {
		run.PlaylistID = result.Destination.ID
		run.PlaylistName = result.Destination.Name
	}

	_ = e.recorder.Create(run)
}

func trackURIs(tracks []models.Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris
}

func trackIDs(tracks []models.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}
