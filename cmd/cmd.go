// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags(pretty bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: pretty,
		},
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config if missing, initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in session",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Register an email address and sign in",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Action: r.AuthSignUp,
			},
			{
				Name:    "signin",
				Aliases: []string{"login"},
				Usage:   "Sign in and remember the session",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password, if the account has one",
					},
				},
				Action: r.AuthSignIn,
			},
			{
				Name:    "signout",
				Aliases: []string{"logout"},
				Usage:   "Forget the stored session",
				Action:  r.AuthSignOut,
			},
			{
				Name:   "status",
				Usage:  "Validate the stored session with the backend",
				Action: r.AuthStatus,
			},
		},
	}
}

// searchCommand queries the catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog for tracks",
		ArgsUsage: "<query>",
		Flags:     jsonFlags(true),
		Action:    r.Search,
	}
}

// playlistsCommand handles playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  jsonFlags(true),
				Action: r.PlaylistsList,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its tracks",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
				}, jsonFlags(true)...),
				Action: r.PlaylistsShow,
			},
			{
				Name:  "add",
				Usage: "Search for a track and add it to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Track search query",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Add every search result instead of the first",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second when adding several tracks",
						Value: 5,
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a track from a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "track",
						Usage:    "Track ID to remove",
						Required: true,
					},
				},
				Action: r.PlaylistsRemove,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file, base name or directory depending on format)",
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download artwork as the cover image (markdown only)",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// playCommand starts playback of a single track
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play the first search result, or a track by ID",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "track-id",
				Usage: "Play this track ID instead of searching",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Title recorded in history when using --track-id",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist recorded in history when using --track-id",
			},
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "Return as soon as playback starts",
			},
		},
		Action: r.Play,
	}
}

// historyCommand shows the recently played feed
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"recent"},
		Usage:   "Show recently played tracks",
		Flags:   jsonFlags(true),
		Action:  r.History,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend API using the stored session",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
