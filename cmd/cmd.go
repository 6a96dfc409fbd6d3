// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is attached to every command that reads or writes config.toml.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// tokenFlag overrides the stored access token for a single invocation.
func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "Spotify access token (overrides config and SPOTIFY_TOKEN)",
	}
}

// sortFlags are shared by the playlist and library commands.
func sortFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		tokenFlag(),
		&cli.BoolFlag{
			Name:    "reversed",
			Aliases: []string{"r"},
			Usage:   "Sort newest first instead of oldest first",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Destination playlist name",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Destination playlist description",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip confirmation prompts",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the sorted tracklist as JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:  "export",
			Usage: "Export the sorted tracklist (csv, markdown or text)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path for --export",
		},
	}
}

// playlistCommand sorts a single playlist by release date.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Sort a playlist by release date into a new playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: append(sortFlags(),
			&cli.BoolFlag{
				Name:  "inplace",
				Usage: "Reorder the source playlist instead of creating a new one",
			},
		),
		Action: r.SortPlaylist,
	}
}

// libraryCommand sorts the user's saved tracks by release date.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Sort your saved tracks by release date into a new playlist",
		Flags: append(sortFlags(),
			&cli.BoolFlag{
				Name:  "rewrite",
				Usage: "Rewrite the library itself instead of creating a playlist",
			},
			&cli.BoolFlag{
				Name:  "backup",
				Usage: "Back the library up to a playlist before rewriting",
			},
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Tracks saved per request during a rewrite (1-50)",
			},
		),
		Action: r.SortLibrary,
	}
}

// playlistsCommand lists the user's playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List your Spotify playlists",
		Flags: []cli.Flag{
			configFlag(),
			tokenFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to return",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// authCommand performs the OAuth2 authorization flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Auth,
	}
}

// setupCommand initializes the config file and run-history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and run-history database",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

// historyCommand lists past sort runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past sort runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Filter by source kind (library or playlist)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

// tuiCommand returns the top-level TUI command for interactive sorting.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI to pick and sort a playlist",
		Flags: []cli.Flag{
			configFlag(),
			tokenFlag(),
			&cli.BoolFlag{
				Name:    "reversed",
				Aliases: []string{"r"},
				Usage:   "Sort newest first instead of oldest first",
			},
		},
		Action: r.TUI,
	}
}
