// package models defines the data model for the soundx streaming client
package models

import (
	"errors"
	"time"
)

// Model defines the base interface for locally persisted models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

var (
	ErrMissingTrackID = errors.New("track id is required")
	ErrMissingToken   = errors.New("credential token is required")
)

// Identity is the signed-in user's profile as returned by the session-check endpoint.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the current authenticated identity and its bearer credential.
//
// The zero value is the signed-out session.
type Session struct {
	Identity   *Identity
	Credential string
}

// Authenticated reports whether both identity and credential are present.
func (s Session) Authenticated() bool {
	return s.Identity != nil && s.Credential != ""
}

// Email returns the identity's email, or "" when signed out.
func (s Session) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// Track is an immutable catalog entry. An empty ArtworkURL means no artwork.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtworkURL string `json:"artwork,omitempty"`
}

// Validate checks the fields required to reference a track remotely.
func (t Track) Validate() error {
	if t.ID == "" {
		return ErrMissingTrackID
	}
	return nil
}

// PlaylistSummary is a playlist without its tracks, as returned by the list endpoint.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Playlist is a summary plus its ordered track listing.
type Playlist struct {
	PlaylistSummary
	Tracks []PlaylistTrack `json:"tracks"`
}

// PlaylistTrack is the backend's denormalised copy of a track inside a playlist.
type PlaylistTrack struct {
	ID         string    `json:"id,omitempty"`
	TrackID    string    `json:"track_id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	ArtworkURL string    `json:"artwork,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// Track converts the stored copy back into a playable [Track].
func (p PlaylistTrack) Track() Track {
	return Track{ID: p.TrackID, Title: p.Title, Artist: p.Artist, ArtworkURL: p.ArtworkURL}
}

// PlaybackState is the track currently selected for playback.
//
// Idle when Track is nil; Loaded otherwise, in which case StreamURL is set.
type PlaybackState struct {
	Track     *Track `json:"track,omitempty"`
	StreamURL string `json:"stream_url,omitempty"`
}

// Loaded reports whether a track is selected.
func (p PlaybackState) Loaded() bool {
	return p.Track != nil
}

// PlayHistoryEntry is one append-only record of a requested playback.
type PlayHistoryEntry struct {
	ID       string    `json:"id"`
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	PlayedAt time.Time `json:"played_at"`
}

// Credential is the persisted bearer token used to restore a session on startup.
type Credential struct {
	id        string
	token     string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

var _ Model = (*Credential)(nil)

// NewCredential creates a credential for token, remembering which email it was issued for.
func NewCredential(token, email string) *Credential {
	now := time.Now().UTC()
	return &Credential{token: token, email: email, createdAt: now, updatedAt: now}
}

func (c *Credential) ID() string           { return c.id }
func (c *Credential) Token() string        { return c.token }
func (c *Credential) Email() string        { return c.email }
func (c *Credential) CreatedAt() time.Time { return c.createdAt }
func (c *Credential) UpdatedAt() time.Time { return c.updatedAt }

func (c *Credential) SetID(id string)          { c.id = id }
func (c *Credential) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *Credential) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Validate checks that the credential carries a token.
func (c *Credential) Validate() error {
	if c.token == "" {
		return ErrMissingToken
	}
	return nil
}
