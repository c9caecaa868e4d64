package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/player"
	"github.com/desertthunder/soundx/internal/services"
	"golang.org/x/sync/errgroup"
)

// App is the top-level controller. It owns the session context and injects it into every
// coordinator.
type App struct {
	State      *State
	Sessions   *SessionManager
	Search     *Searcher
	Playlists  *Playlists
	Playback   *Playback
	Recent     *Recent
	Expansions *Expansions

	logger *log.Logger
}

// NewApp wires the coordinators around state. catalog should read its credential from state
// (see services.NewAPIClient); pl may be nil for headless use.
func NewApp(state *State, catalog services.Catalog, store CredentialStore, pl player.Player, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		State:      state,
		Sessions:   NewSessionManager(catalog, store, state, logger),
		Search:     NewSearcher(catalog, state),
		Playlists:  NewPlaylists(catalog, state, logger),
		Playback:   NewPlayback(catalog, state, pl, logger),
		Recent:     NewRecent(catalog, logger),
		Expansions: NewExpansions(),
		logger:     logger,
	}
}

// Authenticated reports which of the two top-level states the app is in.
func (a *App) Authenticated() bool {
	return a.State.Authenticated()
}

// Snapshot is what the first screen needs after start-up.
type Snapshot struct {
	Session   models.Session
	Playlists []models.PlaylistSummary
	History   []models.PlayHistoryEntry
}

// Start restores the persisted session and, when that succeeds, loads playlists and history
// concurrently. Those loads are passive: failures are logged and leave the fields empty.
func (a *App) Start(ctx context.Context, progress chan<- ProgressUpdate) Snapshot {
	sendProgress(progress, ProgressUpdate{Phase: RestoreSession, Step: 1, Total: 1, Message: "Restoring session..."})

	session, ok := a.Sessions.Restore(ctx)
	snap := Snapshot{Session: session}
	if !ok {
		return snap
	}

	var g errgroup.Group
	g.Go(func() error {
		sendProgress(progress, ProgressUpdate{Phase: FetchPlaylists, Step: 1, Total: 1, Message: "Fetching playlists..."})
		playlists, err := a.Playlists.List(ctx)
		if err != nil {
			a.logger.Warn("failed to list playlists", "error", err)
			sendProgress(progress, refreshFailedUpdate(FetchPlaylists, err))
			return err
		}
		snap.Playlists = playlists
		return nil
	})
	g.Go(func() error {
		sendProgress(progress, ProgressUpdate{Phase: FetchHistory, Step: 1, Total: 1, Message: "Fetching recently played..."})
		history, err := a.Recent.Refresh(ctx)
		if err != nil {
			sendProgress(progress, refreshFailedUpdate(FetchHistory, err))
			return err
		}
		snap.History = history
		return nil
	})
	_ = g.Wait()

	return snap
}

// SignOut stops audio, forgets per-session views and replaces the session context.
func (a *App) SignOut() error {
	a.Playback.Silence()
	a.Expansions.Reset()
	a.Recent.Clear()
	return a.Sessions.SignOut()
}
