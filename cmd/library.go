package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/soundx/internal/formatter"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/shared"
	"github.com/desertthunder/soundx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search prints catalog results for the positional query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	tracks, err := app.Search.Search(ctx, queryArg(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}
	if len(tracks) == 0 {
		return r.writePlain("No results\n")
	}
	return r.writeBytes(formatter.TracksToText(tracks))
}

// PlaylistsList prints the signed-in user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	playlists, err := app.Playlists.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	if len(playlists) == 0 {
		return r.writePlain("No playlists yet\n")
	}
	for _, p := range playlists {
		if p.Description != "" {
			r.writePlain("%s\t%s — %s\n", p.ID, p.Name, p.Description)
		} else {
			r.writePlain("%s\t%s\n", p.ID, p.Name)
		}
	}
	return nil
}

// PlaylistsCreate creates a playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	created, err := app.Playlists.Create(ctx, cmd.StringArg("name"), cmd.String("description"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created playlist %s (%s)\n", created.Name, created.ID)
}

// PlaylistsShow prints one playlist with its tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	playlist, err := app.Playlists.Expand(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}
	text, err := formatter.ExportToText(playlist)
	if err != nil {
		return err
	}
	return r.writeBytes(text)
}

// PlaylistsAdd searches for --query and adds the first result, or every result with --all.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	playlistID := cmd.String("id")
	tracks, err := app.Search.Search(ctx, cmd.String("query"))
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, cmd.String("query"))
	}

	if !cmd.Bool("all") {
		app.Search.Remember(tracks[0])
		track, err := app.Playlists.AppendMostRecent(ctx, playlistID)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Added %s - %s\n", track.Artist, track.Title)
	}

	return r.bulkAppend(ctx, app, playlistID, tracks, cmd.Float("rate"))
}

func (r *Runner) bulkAppend(ctx context.Context, app *tasks.App, playlistID string, tracks []models.Track, rate float64) error {
	progress := make(chan tasks.ProgressUpdate, len(tracks)+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := app.Playlists.BulkAppend(ctx, progress, playlistID, tracks, tasks.BulkAppendOpts{RateLimit: rate})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("Added %d/%d tracks to %s", result.Added, result.Total, result.PlaylistID)
	if result.Failed > 0 {
		r.writePlain("Failed (%d):\n", result.Failed)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  • %s - %s: %v\n", res.Track.Artist, res.Track.Title, res.Error)
			}
		}
	}
	return nil
}

// PlaylistsRemove removes a track from a playlist.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := app.Playlists.RemoveTrack(ctx, cmd.String("id"), cmd.String("track")); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s\n", cmd.String("track"))
}

// PlaylistsExport writes a playlist to disk in the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	playlist, err := app.Playlists.Expand(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	switch strings.ToLower(cmd.String("format")) {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported tracks to %s\n", result.TracksFile)
		return r.writePlain("✓ Exported metadata to %s\n", result.MetadataFile)
	case "markdown", "md":
		client := r.httpClient
		if !cmd.Bool("cover") {
			client = nil
		}
		result, err := formatter.WriteMarkdownExport(playlist, output, client)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			r.logger.Warn("cover image skipped", "error", w)
		}
		return r.writePlain("✓ Exported %d files to %s\n", len(result.Files), result.Directory)
	case "txt", "text":
		path, err := formatter.WriteTextExport(playlist, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)
	case "json":
		path, err := formatter.WriteJSONExport(playlist, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)
	default:
		return fmt.Errorf("%w: format must be one of %s", shared.ErrInvalidArgument, strings.Join(formatter.Formats, ", "))
	}
}

// History prints the recently played feed.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	entries, err := app.Recent.Refresh(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}
	return r.writeBytes(formatter.HistoryToText(entries))
}
