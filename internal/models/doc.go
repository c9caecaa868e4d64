// Package models defines the client-side data model for soundx.
//
// The package contains two categories of types:
//
// 1. Values received from the streaming backend, never mutated once decoded:
//   - [Track] : catalog entry addressable by an external id
//   - [PlaylistSummary] and [Playlist] : playlist metadata and an expanded track listing
//   - [PlaylistTrack] : denormalised copy of a track stored in a playlist
//   - [PlayHistoryEntry] : one row of the append-only play history feed
//   - [Identity] : the signed-in user's profile
//
// 2. Client state:
//   - [Session] : identity plus credential; both present or both absent
//   - [PlaybackState] : the single "currently selected" track and its stream URL
//   - [Credential] : the one value persisted across runs (implements [Model])
package models
