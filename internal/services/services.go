// package services defines the typed API surface of the streaming backend
package services

import (
	"context"

	"github.com/desertthunder/soundx/internal/models"
)

// CredentialSource yields the credential attached to outgoing requests, or "" for none.
type CredentialSource interface {
	Credential() string
}

// CredentialFunc adapts a function to [CredentialSource].
type CredentialFunc func() string

func (f CredentialFunc) Credential() string { return f() }

// Catalog defines every backend operation the client core depends on.
type Catalog interface {
	// SignUp registers email and returns the new session.
	SignUp(ctx context.Context, email string) (models.Session, error)

	// SignIn authenticates email. The password is optional and sent only when non-empty.
	SignIn(ctx context.Context, email, password string) (models.Session, error)

	// Me returns the identity owning the request's credential.
	Me(ctx context.Context) (models.Identity, error)

	ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)
	CreatePlaylist(ctx context.Context, name, description string) (models.PlaylistSummary, error)
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// AddTrack stores a denormalised copy of track in the playlist.
	AddTrack(ctx context.Context, playlistID string, track models.Track) error
	RemoveTrack(ctx context.Context, playlistID, trackID string) error

	Search(ctx context.Context, query string) ([]models.Track, error)

	RecentlyPlayed(ctx context.Context) ([]models.PlayHistoryEntry, error)
	LogPlay(ctx context.Context, track models.Track) error

	// StreamURL derives the authorized audio URL for trackID. No network round trip.
	StreamURL(trackID, credential string) string
}

type credentialKey struct{}

// WithCredential returns a context whose requests use credential instead of the client's
// [CredentialSource]. Used to validate a persisted credential before it becomes the session's.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential)
}

// CredentialFromContext returns the override installed by [WithCredential].
func CredentialFromContext(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(credentialKey{}).(string)
	return credential, ok
}
