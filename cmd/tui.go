package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/tasks"
	"github.com/desertthunder/sortify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for picking and sorting a playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: sort engine not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/sortify-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts := tasks.SortOptions{Reversed: cmd.Bool("reversed")}

	model := ui.NewModel(ctx, r.spotify, r.engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
