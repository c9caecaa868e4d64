package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/shared"
	"github.com/desertthunder/soundx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	AuthView
	SearchView
	PlaylistsView
	PlaylistDetailView
	RecentView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	app    *tasks.App
	logger *log.Logger

	view   ViewState
	width  int
	height int

	email    textinput.Model
	password textinput.Model
	query    textinput.Model
	name     textinput.Model
	typing   bool // a text input owns the keyboard in a signed-in view

	results   list.Model
	playlists list.Model
	detail    list.Model
	recent    list.Model
	detailID  string

	ended     chan models.Track
	status    string
	statusErr bool

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model around app.
func NewModel(ctx context.Context, app *tasks.App, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		ctx:       ctx,
		app:       app,
		logger:    shared.WithLogger(logger, "component", "ui"),
		view:      LoadingView,
		email:     newInput("email@example.com"),
		password:  newInput("password (optional)"),
		query:     newInput("search tracks"),
		name:      newInput("playlist name"),
		results:   newList("Search"),
		playlists: newList("Playlists"),
		detail:    newList("Playlist"),
		recent:    newList("Recently Played"),
		ended:     make(chan models.Track, 1),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.password.EchoMode = textinput.EchoPassword

	app.Playback.OnEnded(func(t models.Track) {
		select {
		case m.ended <- t:
		default:
		}
	})
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init restores the persisted session and starts listening for playback ended signals.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.waitForEnded())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.results, &m.playlists, &m.detail, &m.recent} {
			l.SetSize(msg.Width-4, max(msg.Height-12, 4))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	if msg.scoped && msg.epoch != m.app.State.Epoch() {
		m.logger.Debug("dropped result from a previous session", "kind", msg.kind)
		return m, nil
	}

	switch msg.kind {
	case MsgStarted:
		snap := msg.data.(tasks.Snapshot)
		if !snap.Session.Authenticated() {
			m.showAuth()
			return m, nil
		}
		m.playlists.SetItems(playlistItems(snap.Playlists))
		m.recent.SetItems(historyItems(snap.History))
		m.view = SearchView
		return m, nil

	case MsgAuthenticated:
		res := msg.data.(authResult)
		if res.err != nil {
			m.setError(res.err)
			return m, nil
		}
		m.password.Reset()
		m.email.Blur()
		m.password.Blur()
		m.view = SearchView
		m.setStatus(fmt.Sprintf("Signed in as %s", res.session.Email()))
		return m, tea.Batch(m.fetchPlaylists(true), m.fetchHistory())

	case MsgSearchResults:
		res := msg.data.(searchResult)
		if res.err != nil {
			m.setError(res.err)
			return m, nil
		}
		m.results.Title = fmt.Sprintf("Results for %q", res.query)
		m.results.SetItems(trackItems(res.tracks))
		m.setStatus(fmt.Sprintf("%d results", len(res.tracks)))
		return m, nil

	case MsgPlaylistsFetched:
		res := msg.data.(playlistsResult)
		if res.err != nil {
			if res.passive {
				m.logger.Warn("failed to refresh playlists", "error", res.err)
			} else {
				m.setError(res.err)
			}
			return m, nil
		}
		m.playlists.SetItems(playlistItems(res.playlists))
		return m, nil

	case MsgPlaylistExpanded:
		res := msg.data.(expandResult)
		if res.err != nil {
			if m.app.Expansions.IsOpen(res.ticket.PlaylistID) {
				m.setError(res.err)
			}
			return m, nil
		}
		if !m.app.Expansions.Apply(res.ticket, res.playlist) {
			m.logger.Debug("dropped stale playlist", "playlist", res.ticket.PlaylistID)
			return m, nil
		}
		if m.view == PlaylistDetailView && m.detailID == res.ticket.PlaylistID {
			m.showDetail(res.playlist)
		}
		return m, nil

	case MsgPlaylistMutated:
		res := msg.data.(mutationResult)
		if res.err != nil {
			m.setError(res.err)
			return m, nil
		}
		m.setStatus(res.message)
		if res.playlistID == "" {
			return m, m.fetchPlaylists(false)
		}
		if m.app.Expansions.IsOpen(res.playlistID) {
			return m, m.expand(res.playlistID)
		}
		return m, nil

	case MsgHistoryFetched:
		res := msg.data.(historyResult)
		if res.err != nil {
			m.logger.Warn("failed to refresh recently played", "error", res.err)
			return m, nil
		}
		m.recent.SetItems(historyItems(res.entries))
		return m, nil

	case MsgPlaying:
		res := msg.data.(playResult)
		if res.err != nil {
			m.setError(res.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Playing %s", res.state.Track.Title))
		return m, nil

	case MsgPlaybackEnded:
		track := msg.data.(models.Track)
		m.setStatus(fmt.Sprintf("Finished %s", track.Title))
		return m, m.waitForEnded()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}
	m.status = ""

	switch m.view {
	case LoadingView:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	case AuthView:
		return m.handleAuthKeys(msg)
	}

	if m.typing {
		return m.handleInputKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.signOut):
		return m.signOut()
	case key.Matches(msg, m.keys.next):
		return m.nextView()
	}

	switch m.view {
	case SearchView:
		return m.handleSearchKeys(msg)
	case PlaylistsView:
		return m.handlePlaylistsKeys(msg)
	case PlaylistDetailView:
		return m.handleDetailKeys(msg)
	case RecentView:
		return m.handleRecentKeys(msg)
	}
	return m, nil
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next):
		if m.email.Focused() {
			m.email.Blur()
			m.password.Focus()
		} else {
			m.password.Blur()
			m.email.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.signIn(m.email.Value(), m.password.Value())
	case key.Matches(msg, m.keys.signUp):
		return m, m.signUp(m.email.Value())
	}

	var cmd tea.Cmd
	if m.password.Focused() {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := &m.query
	if m.view == PlaylistsView {
		input = &m.name
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.typing = false
		input.Blur()
		if m.view == PlaylistsView {
			input.Reset()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.typing = false
		input.Blur()
		value := input.Value()
		if m.view == PlaylistsView {
			input.Reset()
			return m, m.createPlaylist(value)
		}
		return m, m.search(value)
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.search):
		m.typing = true
		m.query.Focus()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			return m, m.play(item.track)
		}
		return m, nil
	case key.Matches(msg, m.keys.selectKey):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			m.app.Search.Remember(item.track)
			m.setStatus(fmt.Sprintf("Selected %s; press a in a playlist to add it", item.track.Title))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.create):
		m.typing = true
		m.name.Focus()
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchPlaylists(false)
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.playlists.SelectedItem().(playlistItem); ok {
			m.detailID = item.playlist.ID
			m.detail.Title = item.playlist.Name
			m.detail.SetItems(nil)
			m.view = PlaylistDetailView
			return m, m.expand(item.playlist.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.closeDetail()
		m.view = PlaylistsView
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.expand(m.detailID)
	case key.Matches(msg, m.keys.add):
		return m, m.appendMostRecent(m.detailID)
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.detail.SelectedItem().(entryItem); ok {
			return m, m.removeTrack(m.detailID, item.entry)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.detail.SelectedItem().(entryItem); ok {
			return m, m.play(item.entry.Track())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) handleRecentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchHistory()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.recent.SelectedItem().(historyItem); ok {
			return m, m.play(item.track())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recent, cmd = m.recent.Update(msg)
	return m, cmd
}

func (m *Model) nextView() (tea.Model, tea.Cmd) {
	switch m.view {
	case SearchView:
		m.view = PlaylistsView
	case PlaylistsView, PlaylistDetailView:
		m.closeDetail()
		m.view = RecentView
		return m, m.fetchHistory()
	case RecentView:
		m.view = SearchView
	}
	return m, nil
}

func (m *Model) signOut() (tea.Model, tea.Cmd) {
	if err := m.app.SignOut(); err != nil {
		m.logger.Warn("failed to clear stored credential", "error", err)
	}
	m.detailID = ""
	m.results.SetItems(nil)
	m.playlists.SetItems(nil)
	m.detail.SetItems(nil)
	m.recent.SetItems(nil)
	m.query.Reset()
	m.showAuth()
	m.setStatus("Signed out")
	return m, nil
}

func (m *Model) showAuth() {
	m.view = AuthView
	m.typing = false
	m.password.Blur()
	m.email.Focus()
}

func (m *Model) showDetail(p *models.Playlist) {
	m.detail.Title = fmt.Sprintf("%s (%d tracks)", p.Name, len(p.Tracks))
	m.detail.SetItems(entryItems(p.Tracks))
}

func (m *Model) closeDetail() {
	if m.detailID != "" {
		m.app.Expansions.Close(m.detailID)
	}
	m.detailID = ""
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.results, cmd = m.results.Update(msg)
	case PlaylistsView:
		m.playlists, cmd = m.playlists.Update(msg)
	case PlaylistDetailView:
		m.detail, cmd = m.detail.Update(msg)
	case RecentView:
		m.recent, cmd = m.recent.Update(msg)
	}
	return m, cmd
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		return startedMsg(m.app.Start(m.ctx, nil))
	}
}

func (m *Model) waitForEnded() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-m.ended:
			return playbackEndedMsg(t)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.app.Sessions.SignIn(m.ctx, email, password)
		return authenticatedMsg(session, err)
	}
}

func (m *Model) signUp(email string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.app.Sessions.SignUp(m.ctx, email)
		return authenticatedMsg(session, err)
	}
}

func (m *Model) search(query string) tea.Cmd {
	return m.scoped(func() Msg {
		tracks, err := m.app.Search.Search(m.ctx, query)
		return searchResultsMsg(shared.NormalizeQuery(query), tracks, err)
	})
}

func (m *Model) fetchPlaylists(passive bool) tea.Cmd {
	return m.scoped(func() Msg {
		playlists, err := m.app.Playlists.List(m.ctx)
		return playlistsFetchedMsg(playlists, passive, err)
	})
}

func (m *Model) fetchHistory() tea.Cmd {
	return m.scoped(func() Msg {
		entries, err := m.app.Recent.Refresh(m.ctx)
		return historyFetchedMsg(entries, err)
	})
}

// expand issues a new ticket for playlistID; any fetch still in flight for it becomes stale.
func (m *Model) expand(playlistID string) tea.Cmd {
	ticket := m.app.Expansions.Open(playlistID)
	return m.scoped(func() Msg {
		playlist, err := m.app.Playlists.Expand(m.ctx, ticket.PlaylistID)
		return playlistExpandedMsg(ticket, playlist, err)
	})
}

func (m *Model) createPlaylist(name string) tea.Cmd {
	return m.scoped(func() Msg {
		created, err := m.app.Playlists.Create(m.ctx, name, "")
		return playlistMutatedMsg("", fmt.Sprintf("Created %s", created.Name), err)
	})
}

func (m *Model) appendMostRecent(playlistID string) tea.Cmd {
	return m.scoped(func() Msg {
		track, err := m.app.Playlists.AppendMostRecent(m.ctx, playlistID)
		return playlistMutatedMsg(playlistID, fmt.Sprintf("Added %s", track.Title), err)
	})
}

func (m *Model) removeTrack(playlistID string, entry models.PlaylistTrack) tea.Cmd {
	return m.scoped(func() Msg {
		err := m.app.Playlists.RemoveTrack(m.ctx, playlistID, entry.TrackID)
		return playlistMutatedMsg(playlistID, fmt.Sprintf("Removed %s", entry.Title), err)
	})
}

func (m *Model) play(track models.Track) tea.Cmd {
	return m.scoped(func() Msg {
		state, err := m.app.Playback.RequestPlay(m.ctx, track)
		return playingMsg(state, err)
	})
}

// scoped stamps the result of fn with the session epoch current when the command was issued, so
// results that land after a sign-out or a new sign-in are dropped.
func (m *Model) scoped(fn func() Msg) tea.Cmd {
	epoch := m.app.State.Epoch()
	return func() tea.Msg {
		msg := fn()
		msg.epoch = epoch
		msg.scoped = true
		return msg
	}
}
