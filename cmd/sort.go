package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sortify/internal/formatter"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SortPlaylist fetches a playlist, sorts it by release date, and publishes the result.
func (r *Runner) SortPlaylist(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID argument is required", shared.ErrMissingArgument)
	}

	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	opts := tasks.SortOptions{
		Reversed:    cmd.Bool("reversed"),
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		InPlace:     cmd.Bool("inplace"),
	}

	if opts.InPlace {
		if err := r.confirm(cmd, "Reorder playlist %s in place? Its current order will be lost.", playlistID); err != nil {
			return err
		}
	}

	r.logger.Info("sorting playlist", "id", playlistID, "reversed", opts.Reversed)

	result, err := r.runSort(ctx, cmd, func(progressCh chan tasks.ProgressUpdate) (*tasks.SortResult, error) {
		return r.engine.SortPlaylist(ctx, progressCh, playlistID, opts)
	})
	if err != nil {
		return err
	}

	return r.writeSortResult(cmd, result)
}

// SortLibrary fetches the user's saved tracks, sorts them, and publishes the result.
func (r *Runner) SortLibrary(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	opts := tasks.SortOptions{
		Reversed:    cmd.Bool("reversed"),
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		Rewrite:     cmd.Bool("rewrite"),
		Backup:      cmd.Bool("backup"),
		Threshold:   int(cmd.Int("threshold")),
	}

	if opts.Threshold == 0 {
		opts.Threshold = r.config.Sort.Threshold
	}

	if opts.Rewrite {
		warning := "Rewrite your library in place? Every track will be removed and re-saved."
		if !opts.Backup {
			warning += " No backup playlist will be created."
		}
		if err := r.confirm(cmd, "%s", warning); err != nil {
			return err
		}
	}

	r.logger.Info("sorting library", "reversed", opts.Reversed, "rewrite", opts.Rewrite)

	result, err := r.runSort(ctx, cmd, func(progressCh chan tasks.ProgressUpdate) (*tasks.SortResult, error) {
		return r.engine.SortLibrary(ctx, progressCh, opts)
	})
	if err != nil {
		return err
	}

	return r.writeSortResult(cmd, result)
}

// runSort drives a sort operation while printing progress updates.
func (r *Runner) runSort(ctx context.Context, cmd *cli.Command, run func(chan tasks.ProgressUpdate) (*tasks.SortResult, error)) (*tasks.SortResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SortTracks:
				r.writePlain("🔀 %s\n", update.Message)
			case tasks.BackupLibrary:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.ClearSource:
				r.writePlain("🧹 %s\n", update.Message)
			case tasks.CreateDestination:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.PublishTracks:
				r.writePlain("➕ %s\n", update.Message)
			}
		}
	}()

	result, err := run(progressCh)
	close(progressCh)
	<-done

	if err != nil {
		if retried, retryErr := r.handleAuthError(ctx, err, cmd); retried {
			if retryErr != nil {
				return nil, retryErr
			}
			progressCh = make(chan tasks.ProgressUpdate, 50)
			result, err = run(progressCh)
			close(progressCh)
		}
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

// writeSortResult prints the summary and handles --json and --export.
func (r *Runner) writeSortResult(cmd *cli.Command, result *tasks.SortResult) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	exportFormat := cmd.String("export")
	outputPath := cmd.String("output")

	destination := result.Destination
	export := &models.PlaylistExport{Tracks: result.Tracks}
	if destination != nil {
		export.Playlist = *destination
	} else {
		export.Playlist = models.Playlist{Name: result.SourceName}
	}

	if useJSON {
		return r.writeJSON(export, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Sort Complete!")
	r.writePlain("Source: %s (%d tracks)\n", result.SourceName, len(result.Tracks))
	if destination != nil {
		r.writePlain("Destination: %s (ID: %s)\n", destination.Name, destination.ID)
	} else {
		r.writePlain("Destination: library rewritten in place\n")
	}
	if result.Backup != nil {
		r.writePlain("Backup: %s (ID: %s)\n", result.Backup.Name, result.Backup.ID)
	}

	if exportFormat != "" {
		return r.exportResult(export, exportFormat, outputPath)
	}

	return nil
}

// exportResult writes the sorted tracklist to disk in the requested format.
func (r *Runner) exportResult(export *models.PlaylistExport, format, outputPath string) error {
	switch format {
	case "csv":
		files, err := formatter.WriteCSVExport(export, outputPath)
		if err != nil {
			return err
		}
		r.writePlain("✓ Tracklist exported to %s\n", files.TracksFile)
		r.writePlain("✓ Metadata exported to %s\n", files.MetadataFile)
	case "markdown", "md":
		file, err := formatter.WriteMarkdownExport(export, outputPath)
		if err != nil {
			return err
		}
		r.writePlain("✓ Tracklist exported to %s\n", file)
	case "text", "txt":
		file, err := formatter.WriteTextExport(export, outputPath)
		if err != nil {
			return err
		}
		r.writePlain("✓ Tracklist exported to %s\n", file)
	default:
		return fmt.Errorf("%w: unknown export format '%s' (csv, markdown or text)", shared.ErrInvalidArgument, format)
	}

	return nil
}

// Playlists lists the user's Spotify playlists with optional limit.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	r.logger.Infof("listing playlists with limit %v", limit)

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		if retried, authErr := r.handleAuthError(ctx, err, cmd); retried {
			if authErr != nil {
				return authErr
			}
			if playlists, err = r.spotify.GetPlaylists(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}
