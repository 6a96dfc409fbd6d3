package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/services"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify services.Service
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
	engine  tasks.SortEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Spotify  services.Service
	Recorder tasks.RunRecorder
	Logger   *log.Logger
	Output   io.Writer
	Input    io.Reader
	Engine   tasks.SortEngine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewEngine(opts.Spotify, opts.Recorder)
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
		engine:  opts.Engine,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, playlistCommand, libraryCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureAuth authenticates the Spotify service with stored or overridden credentials.
//
// Token resolution order: --token flag, SPOTIFY_TOKEN environment variable,
// then the access token stored in config.toml.
func (r *Runner) ensureAuth(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	credentials := r.config.Credentials.Map()

	token := cmd.String("token")
	if token == "" {
		token = os.Getenv("SPOTIFY_TOKEN")
	}
	if token != "" {
		credentials["access_token"] = token
		credentials["refresh_token"] = ""
	}

	if credentials["access_token"] == "" {
		return fmt.Errorf("%w: no access token; run 'sortify auth' or set SPOTIFY_TOKEN", shared.ErrNotAuthenticated)
	}

	return r.spotify.Authenticate(ctx, credentials)
}

// confirm prompts the user for a yes/no answer, returning shared.ErrAborted on anything but yes.
//
// Skipped when the command carries --yes.
func (r *Runner) confirm(cmd *cli.Command, format string, args ...any) error {
	if cmd.Bool("yes") {
		return nil
	}

	r.writePlain(format, args...)
	r.writePlain(" [y/N]: ")

	reader := bufio.NewReader(r.input)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("%w: failed to read confirmation: %v", shared.ErrAborted, err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return shared.ErrAborted
	}

	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
