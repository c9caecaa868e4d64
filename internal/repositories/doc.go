// Package repositories implements SQLite persistence for local client state.
//
// The streaming backend owns every catalog entity; the only thing kept on disk is the bearer
// credential used to restore a session on the next launch.
//
// Key Implementations:
//   - [CredentialRepository] : single-slot credential storage with upsert semantics
//
// Rows carry a UUID primary key generated by [shared.GenerateID] and timestamps maintained by
// the repository. Soft deletes are not used: signing out removes the row outright.
package repositories
