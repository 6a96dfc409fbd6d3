package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/sortify/internal/repositories"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/urfave/cli/v3"
)

// runRecord is the JSON shape for a single history entry.
type runRecord struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	SourceName   string    `json:"source_name"`
	PlaylistID   string    `json:"playlist_id,omitempty"`
	PlaylistName string    `json:"playlist_name,omitempty"`
	TrackCount   int       `json:"track_count"`
	Reversed     bool      `json:"reversed"`
	CreatedAt    time.Time `json:"created_at"`
}

// History lists past sort runs from the run-history database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	source := cmd.String("source")

	if _, err := os.Stat(r.config.Database.Path); err != nil {
		return fmt.Errorf("%w: no run history database; run 'sortify setup' first", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)

	criteria := map[string]any{}
	if source != "" {
		criteria["source"] = source
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if useJSON {
		records := make([]runRecord, len(runs))
		for i, run := range runs {
			records[i] = runRecord{
				ID:           run.ID(),
				Source:       run.Source,
				SourceName:   run.SourceName,
				PlaylistID:   run.PlaylistID,
				PlaylistName: run.PlaylistName,
				TrackCount:   run.TrackCount,
				Reversed:     run.Reversed,
				CreatedAt:    run.CreatedAt(),
			}
		}
		return r.writeJSON(records, pretty)
	}

	if len(runs) == 0 {
		return r.writePlain("No sort runs recorded yet.\n")
	}

	r.writePlain("Found %d runs:\n\n", len(runs))
	for i, run := range runs {
		direction := "oldest first"
		if run.Reversed {
			direction = "newest first"
		}

		r.writePlain("%d. %s (%d tracks, %s)\n", i+1, run.SourceName, run.TrackCount, direction)
		if run.PlaylistName != "" {
			r.writePlain("   Destination: %s (ID: %s)\n", run.PlaylistName, run.PlaylistID)
		} else {
			r.writePlain("   Destination: rewritten in place\n")
		}
		r.writePlain("   When: %s\n\n", run.CreatedAt().Format(time.RFC1123))
	}

	return nil
}
