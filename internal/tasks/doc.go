// Package tasks implements the client state machine: session, search cache, playlists,
// playback and the play-history feed.
//
// # Session Context
//
// Everything scoped to a signed-in user lives in one [SessionContext] held by [State]. The
// coordinators receive the same *State and never keep a reference to the context itself.
// [SessionManager.SignOut] swaps in a brand-new context so the search cache and playback state
// disappear together with the credential.
//
// # Coordinators
//
//   - [SessionManager] : sign up, sign in, restore from the persisted credential, sign out
//   - [Searcher] and [SearchCache] : catalog search and the bounded "last searched" buffer
//   - [Playlists] : list, create, expand, append, remove, bulk append
//   - [Playback] : Idle/Loaded state, stream URL derivation, fire-and-forget history logging
//   - [Recent] : the recently played feed
//   - [App] : wires the above and drives start-up
//
// # Reconciliation
//
// Mutations return only success or failure. The caller refetches the dependent read instead of
// patching local copies. [Expansions] hands out a [Ticket] per detail fetch so a response for a
// closed or superseded view is dropped.
//
// # Progress Reporting
//
// Long-running operations accept a chan<- [ProgressUpdate]. Updates are sent with select and
// default, so a slow or absent reader never blocks the operation.
package tasks
