package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any

	scoped bool   // belongs to the session that issued it
	epoch  uint64 // session epoch when issued
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStarted MsgKind = iota
	MsgAuthenticated
	MsgSearchResults
	MsgPlaylistsFetched
	MsgPlaylistExpanded
	MsgPlaylistMutated
	MsgHistoryFetched
	MsgPlaying
	MsgPlaybackEnded
)

type authResult struct {
	session models.Session
	err     error
}

type searchResult struct {
	query  string
	tracks []models.Track
	err    error
}

type playlistsResult struct {
	playlists []models.PlaylistSummary
	passive   bool
	err       error
}

type expandResult struct {
	ticket   tasks.Ticket
	playlist *models.Playlist
	err      error
}

type mutationResult struct {
	playlistID string // empty for playlist creation
	message    string
	err        error
}

type historyResult struct {
	entries []models.PlayHistoryEntry
	err     error
}

type playResult struct {
	state models.PlaybackState
	err   error
}

// startedMsg is the constructor for [MsgStarted]
func startedMsg(snap tasks.Snapshot) Msg {
	return Msg{kind: MsgStarted, data: snap}
}

// authenticatedMsg is the constructor for [MsgAuthenticated]
func authenticatedMsg(session models.Session, err error) Msg {
	return Msg{kind: MsgAuthenticated, data: authResult{session, err}}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(query string, tracks []models.Track, err error) Msg {
	return Msg{kind: MsgSearchResults, data: searchResult{query, tracks, err}}
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.PlaylistSummary, passive bool, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsResult{playlists, passive, err}}
}

// playlistExpandedMsg is the constructor for [MsgPlaylistExpanded]
func playlistExpandedMsg(ticket tasks.Ticket, playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistExpanded, data: expandResult{ticket, playlist, err}}
}

// playlistMutatedMsg is the constructor for [MsgPlaylistMutated]
func playlistMutatedMsg(playlistID, message string, err error) Msg {
	return Msg{kind: MsgPlaylistMutated, data: mutationResult{playlistID, message, err}}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(entries []models.PlayHistoryEntry, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyResult{entries, err}}
}

// playingMsg is the constructor for [MsgPlaying]
func playingMsg(state models.PlaybackState, err error) Msg {
	return Msg{kind: MsgPlaying, data: playResult{state, err}}
}

// playbackEndedMsg is the constructor for [MsgPlaybackEnded]
func playbackEndedMsg(track models.Track) Msg {
	return Msg{kind: MsgPlaybackEnded, data: track}
}
