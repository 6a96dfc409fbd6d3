package tasks

import (
	"fmt"

	"github.com/desertthunder/sortify/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	SortTracks
	BackupLibrary
	ClearSource
	CreateDestination
	PublishTracks
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case SortTracks:
		return "sort_tracks"
	case BackupLibrary:
		return "backup_library"
	case ClearSource:
		return "clear_source"
	case CreateDestination:
		return "create_destination"
	case PublishTracks:
		return "publish_tracks"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching tracks from %s...", name),
	}
}

func fetchedSourceUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d tracks from %s", count, name),
	}
}

func sortTracksUpdate(count int, reversed bool) ProgressUpdate {
	direction := "oldest first"
	if reversed {
		direction = "newest first"
	}
	return ProgressUpdate{
		Phase:   SortTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Sorting %d tracks by release date (%s)...", count, direction),
	}
}

func backupLibraryUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BackupLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Backing up library into playlist %q...", name),
	}
}

func clearSourceUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClearSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removing %d tracks from %s...", count, name),
	}
}

func createDestinationUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateDestination,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func createdDestinationUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateDestination,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func publishTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks in sorted order...", total),
	}
}
