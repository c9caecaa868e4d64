package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
	"golang.org/x/time/rate"
)

// Playlists coordinates playlist reads and membership changes.
//
// Mutations report only success or failure. Callers reconcile by refetching: [Playlists.List]
// after [Playlists.Create], [Playlists.Expand] after an append or removal.
type Playlists struct {
	catalog services.Catalog
	state   *State
	logger  *log.Logger
}

func NewPlaylists(catalog services.Catalog, state *State, logger *log.Logger) *Playlists {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Playlists{catalog: catalog, state: state, logger: shared.WithLogger(logger, "component", "playlists")}
}

// List fetches playlist summaries.
func (p *Playlists) List(ctx context.Context) ([]models.PlaylistSummary, error) {
	return p.catalog.ListPlaylists(ctx)
}

// Create makes a new playlist. The name is required.
func (p *Playlists) Create(ctx context.Context, name, description string) (models.PlaylistSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.PlaylistSummary{}, fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	}

	summary, err := p.catalog.CreatePlaylist(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return models.PlaylistSummary{}, err
	}
	p.logger.Info("playlist created", "id", summary.ID, "name", summary.Name)
	return summary, nil
}

// Expand fetches a playlist with its tracks. Only called when a detail view is opened.
func (p *Playlists) Expand(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}
	return p.catalog.GetPlaylist(ctx, playlistID)
}

// AppendTrack adds a denormalised copy of track to the playlist.
func (p *Playlists) AppendTrack(ctx context.Context, playlistID string, track models.Track) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}
	if err := track.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if err := p.catalog.AddTrack(ctx, playlistID, track); err != nil {
		return err
	}
	p.logger.Debug("track appended", "playlist", playlistID, "track", track.ID)
	return nil
}

// AppendMostRecent appends the front of the search cache, returning the track that was sent.
func (p *Playlists) AppendMostRecent(ctx context.Context, playlistID string) (models.Track, error) {
	track, ok := p.state.Search().MostRecent()
	if !ok {
		return models.Track{}, shared.ErrNoRecentTrack
	}
	if err := p.AppendTrack(ctx, playlistID, track); err != nil {
		return models.Track{}, err
	}
	return track, nil
}

// RemoveTrack removes trackID from the playlist.
func (p *Playlists) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	if playlistID == "" || trackID == "" {
		return fmt.Errorf("%w: playlist id and track id are required", shared.ErrValidation)
	}
	if err := p.catalog.RemoveTrack(ctx, playlistID, trackID); err != nil {
		return err
	}
	p.logger.Debug("track removed", "playlist", playlistID, "track", trackID)
	return nil
}

// BulkAppendOpts configures [Playlists.BulkAppend].
type BulkAppendOpts struct {
	RateLimit float64 // Requests per second (default: 5)
}

// TrackAppendResult is the outcome of appending one track.
type TrackAppendResult struct {
	Track models.Track
	Error error
}

// BulkAppendResult summarises a [Playlists.BulkAppend] run.
type BulkAppendResult struct {
	PlaylistID string
	Total      int
	Added      int
	Failed     int
	Results    []TrackAppendResult
}

// BulkAppend appends tracks in order, one attempt each, throttled to opts.RateLimit requests per
// second. Individual failures are collected rather than aborting the run; only cancellation
// stops it early.
func (p *Playlists) BulkAppend(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	playlistID string,
	tracks []models.Track,
	opts BulkAppendOpts,
) (*BulkAppendResult, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BulkAppendResult{
		PlaylistID: playlistID,
		Total:      len(tracks),
		Results:    make([]TrackAppendResult, 0, len(tracks)),
	}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	sendProgress(progress, appendStartedUpdate(len(tracks), playlistID))
	for i, track := range tracks {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		err := p.AppendTrack(ctx, playlistID, track)
		result.Results = append(result.Results, TrackAppendResult{Track: track, Error: err})
		if err != nil {
			result.Failed++
			sendProgress(progress, appendFailedUpdate(i+1, len(tracks), track, err))
			continue
		}
		result.Added++
		sendProgress(progress, appendTrackUpdate(i+1, len(tracks), track))
	}

	return result, nil
}

// Ticket identifies one fetch for an opened playlist detail view.
type Ticket struct {
	PlaylistID string
	generation uint64
}

// Expansions tracks which playlist detail views are open and which fetch each is waiting for,
// so a result that arrives after its view was closed or refetched is dropped.
type Expansions struct {
	mu         sync.Mutex
	generation uint64
	pending    map[string]uint64
	details    map[string]*models.Playlist
}

func NewExpansions() *Expansions {
	return &Expansions{pending: make(map[string]uint64), details: make(map[string]*models.Playlist)}
}

// Open marks the view for playlistID open and returns the ticket for its next fetch. A later
// Open for the same playlist supersedes earlier tickets.
func (e *Expansions) Open(playlistID string) Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.pending[playlistID] = e.generation
	return Ticket{PlaylistID: playlistID, generation: e.generation}
}

// Close drops the view and everything fetched for it.
func (e *Expansions) Close(playlistID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, playlistID)
	delete(e.details, playlistID)
}

// IsOpen reports whether the view for playlistID is open.
func (e *Expansions) IsOpen(playlistID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[playlistID]
	return ok
}

// Apply stores playlist as the view's contents if t is still the latest ticket for an open view.
func (e *Expansions) Apply(t Ticket, playlist *models.Playlist) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen, ok := e.pending[t.PlaylistID]; !ok || gen != t.generation {
		return false
	}
	e.details[t.PlaylistID] = playlist
	return true
}

// Detail returns the last applied contents of an open view.
func (e *Expansions) Detail(playlistID string) (*models.Playlist, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.details[playlistID]
	return p, ok
}

// Reset closes every view.
func (e *Expansions) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.pending)
	clear(e.details)
}
