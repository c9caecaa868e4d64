package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/soundx/internal/models"
)

var (
	_ list.DefaultItem = trackItem{}
	_ list.DefaultItem = playlistItem{}
	_ list.DefaultItem = entryItem{}
	_ list.DefaultItem = historyItem{}
)

// trackItem wraps a search result [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string { return i.track.Artist }

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	if i.playlist.Description == "" {
		return "No description"
	}
	return i.playlist.Description
}

// entryItem wraps a [models.PlaylistTrack] inside an expanded playlist.
type entryItem struct {
	entry models.PlaylistTrack
}

func (i entryItem) FilterValue() string { return i.entry.Title }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string {
	if i.entry.AddedAt.IsZero() {
		return i.entry.Artist
	}
	return fmt.Sprintf("%s • added %s", i.entry.Artist, i.entry.AddedAt.Local().Format("Jan 2 15:04"))
}

// historyItem wraps a [models.PlayHistoryEntry].
type historyItem struct {
	entry models.PlayHistoryEntry
}

func (i historyItem) FilterValue() string { return i.entry.Title }
func (i historyItem) Title() string       { return i.entry.Title }
func (i historyItem) Description() string {
	if i.entry.PlayedAt.IsZero() {
		return i.entry.Artist
	}
	return fmt.Sprintf("%s • %s", i.entry.Artist, i.entry.PlayedAt.Local().Format("Jan 2 15:04"))
}

func (i historyItem) track() models.Track {
	return models.Track{ID: i.entry.TrackID, Title: i.entry.Title, Artist: i.entry.Artist}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

func playlistItems(playlists []models.PlaylistSummary) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func entryItems(entries []models.PlaylistTrack) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}

func historyItems(entries []models.PlayHistoryEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{entry: e}
	}
	return items
}
