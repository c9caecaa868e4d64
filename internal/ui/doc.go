// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives the same [tasks.App] as the CLI:
//  1. [AuthView] : Sign in or sign up; shown whenever no session is active
//  2. [SearchView] : Query the catalog, select and play results
//  3. [PlaylistsView] : Browse and create playlists
//  4. [PlaylistDetailView] : An expanded playlist; play, remove, or add the last selected search result
//  5. [RecentView] : The recently played feed
//
// A player bar is rendered beneath every signed-in view while a track is loaded.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every network call runs inside a [tea.Cmd] and reports back as a [Msg]. Failed user actions surface as a one-shot
// status line; failed background refreshes are only logged.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
