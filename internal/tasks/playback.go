package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/player"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
)

// Playback tracks the one current track. It moves Idle → Loaded on the first request and stays
// Loaded afterwards: completion is announced to listeners but never blanks the state.
type Playback struct {
	catalog services.Catalog
	state   *State
	player  player.Player
	logger  *log.Logger

	inflight sync.WaitGroup

	// requests orders the state transition and the hand-off to the player as one step.
	requests sync.Mutex

	mu        sync.Mutex
	listeners []func(models.Track)
}

// NewPlayback creates the coordinator. pl may be nil, in which case stream URLs are computed
// but not played.
func NewPlayback(catalog services.Catalog, state *State, pl player.Player, logger *log.Logger) *Playback {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Playback{
		catalog: catalog,
		state:   state,
		player:  pl,
		logger:  shared.WithLogger(logger, "component", "playback"),
	}
	if pl != nil {
		pl.OnEnded(p.OnPlaybackEnded)
	}
	return p
}

// RequestPlay makes track current and returns the new state.
//
// The stream URL is derived locally from the track id and session credential. The player is
// handed the URL without waiting for previous audio. A play-history record is dispatched in the
// background; its outcome is only logged and never affects the returned state. A player that
// fails to start is reported after the transition has been made. Concurrent requests are
// serialized so the player always ends up on the track the state reports.
func (p *Playback) RequestPlay(ctx context.Context, track models.Track) (models.PlaybackState, error) {
	p.requests.Lock()
	defer p.requests.Unlock()

	if err := track.Validate(); err != nil {
		return p.state.Playback(), fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	credential := p.state.Credential()
	if credential == "" {
		return p.state.Playback(), shared.ErrNotAuthenticated
	}

	current := track
	next := models.PlaybackState{
		Track:     &current,
		StreamURL: p.catalog.StreamURL(track.ID, credential),
	}
	p.state.setPlayback(next)

	p.logPlay(ctx, credential, track)

	if p.player != nil {
		if err := p.player.Play(context.WithoutCancel(ctx), next.StreamURL); err != nil {
			p.logger.Error("player failed to start", "track", track.ID, "error", err)
			return next, err
		}
	}
	return next, nil
}

// logPlay records the play for the session that requested it.
func (p *Playback) logPlay(ctx context.Context, credential string, track models.Track) {
	logCtx := services.WithCredential(context.WithoutCancel(ctx), credential)

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		if err := p.catalog.LogPlay(logCtx, track); err != nil {
			p.logger.Warn("failed to log play", "track", track.ID, "error", err)
			return
		}
		p.logger.Debug("play logged", "track", track.ID)
	}()
}

// Wait blocks until every dispatched play-history record has completed.
func (p *Playback) Wait() {
	p.inflight.Wait()
}

// Current returns the playback state of the current session.
func (p *Playback) Current() models.PlaybackState {
	return p.state.Playback()
}

// OnEnded registers fn to be called with the finished track.
func (p *Playback) OnEnded(fn func(models.Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// OnPlaybackEnded announces that the current track finished. The state is left unchanged.
func (p *Playback) OnPlaybackEnded() {
	current := p.state.Playback()
	if !current.Loaded() {
		return
	}

	p.mu.Lock()
	fns := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, fn := range fns {
		fn(*current.Track)
	}
}

// Silence stops audio output without touching playback state; used when the session ends.
func (p *Playback) Silence() {
	if p.player == nil {
		return
	}
	if err := p.player.Stop(); err != nil {
		p.logger.Warn("failed to stop player", "error", err)
	}
}
