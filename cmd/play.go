package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/player"
	"github.com/desertthunder/soundx/internal/shared"
	"github.com/desertthunder/soundx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Play starts a track and, unless --no-wait is set or no player is configured, blocks until it ends.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	app, err := r.authenticated(ctx)
	if err != nil {
		return err
	}

	track, err := r.resolveTrack(ctx, app, cmd)
	if err != nil {
		return err
	}

	ended := make(chan struct{}, 1)
	app.Playback.OnEnded(func(models.Track) {
		select {
		case ended <- struct{}{}:
		default:
		}
	})

	state, err := app.Playback.RequestPlay(ctx, track)
	if err != nil {
		return err
	}
	r.writePlain("▶ %s - %s\n", track.Artist, track.Title)

	_, headless := r.player.(*player.NopPlayer)
	if headless || cmd.Bool("no-wait") {
		return r.writePlain("Stream: %s\n", state.StreamURL)
	}

	select {
	case <-ended:
		return r.writePlain("✓ Finished\n")
	case <-ctx.Done():
		app.Playback.Silence()
		return nil
	}
}

func (r *Runner) resolveTrack(ctx context.Context, app *tasks.App, cmd *cli.Command) (models.Track, error) {
	if id := cmd.String("track-id"); id != "" {
		return models.Track{ID: id, Title: cmd.String("title"), Artist: cmd.String("artist")}, nil
	}

	query := queryArg(cmd)
	tracks, err := app.Search.Search(ctx, query)
	if err != nil {
		return models.Track{}, err
	}
	if len(tracks) == 0 {
		return models.Track{}, fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, query)
	}

	return tracks[0], nil
}
