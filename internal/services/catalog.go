// Typed wrappers for each backend endpoint
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/soundx/internal/models"
)

// flexID accepts ids encoded either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*f = flexID(n.String())
	}
	return nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// flexTime accepts RFC 3339 and SQL-style timestamps. Unknown formats decode as the zero time.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		*f = flexTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*f = flexTime(t)
			return nil
		}
	}
	*f = flexTime{}
	return nil
}

type apiUser struct {
	ID    flexID `json:"id"`
	Email string `json:"email"`
}

func (u apiUser) identity() models.Identity {
	return models.Identity{ID: string(u.ID), Email: u.Email}
}

type authResponse struct {
	Token string  `json:"token"`
	User  apiUser `json:"user"`
}

type apiTrack struct {
	ID      flexID `json:"id"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Artwork string `json:"artwork"`
}

type apiPlaylist struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p apiPlaylist) summary() models.PlaylistSummary {
	return models.PlaylistSummary{ID: string(p.ID), Name: p.Name, Description: p.Description}
}

type apiPlaylistTrack struct {
	ID            flexID   `json:"id"`
	PlaylistID    flexID   `json:"playlist_id"`
	TrackID       flexID   `json:"track_id"`
	AudiusTrackID flexID   `json:"audius_track_id"`
	TrackTitle    string   `json:"track_title"`
	ArtistName    string   `json:"artist_name"`
	ArtworkURL    *string  `json:"artwork_url"`
	AddedAt       flexTime `json:"added_at"`
}

func (t apiPlaylistTrack) model() models.PlaylistTrack {
	trackID := string(t.AudiusTrackID)
	if trackID == "" {
		trackID = string(t.TrackID)
	}

	pt := models.PlaylistTrack{
		ID:      string(t.ID),
		TrackID: trackID,
		Title:   t.TrackTitle,
		Artist:  t.ArtistName,
		AddedAt: time.Time(t.AddedAt),
	}
	if t.ArtworkURL != nil {
		pt.ArtworkURL = *t.ArtworkURL
	}
	if pt.ID == "" {
		pt.ID = fmt.Sprintf("%s_%s", t.PlaylistID, trackID)
	}
	return pt
}

type apiHistoryEntry struct {
	ID            flexID   `json:"id"`
	AudiusTrackID flexID   `json:"audius_track_id"`
	TrackTitle    string   `json:"track_title"`
	ArtistName    string   `json:"artist_name"`
	PlayedAt      flexTime `json:"played_at"`
}

type items[T any] struct {
	Items []T `json:"items"`
}

// addTrackRequest is the denormalised copy the backend stores for a playlist entry.
type addTrackRequest struct {
	AudiusTrackID string  `json:"audius_track_id"`
	TrackTitle    string  `json:"track_title"`
	ArtistName    string  `json:"artist_name"`
	ArtworkURL    *string `json:"artwork_url"`
}

type logPlayRequest struct {
	AudiusTrackID string `json:"audius_track_id"`
	TrackTitle    string `json:"track_title"`
	ArtistName    string `json:"artist_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (a *APIClient) authenticate(ctx context.Context, endpoint string, body any) (models.Session, error) {
	var resp authResponse
	if err := a.Send(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return models.Session{}, err
	}
	if resp.Token == "" {
		return models.Session{}, &APIError{Status: http.StatusOK, Message: "authentication response missing token"}
	}

	identity := resp.User.identity()
	return models.Session{Identity: &identity, Credential: resp.Token}, nil
}

// SignUp calls POST /auth/signup.
func (a *APIClient) SignUp(ctx context.Context, email string) (models.Session, error) {
	return a.authenticate(ctx, "/auth/signup", map[string]string{"email": email})
}

// SignIn calls POST /auth/signin.
func (a *APIClient) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	return a.authenticate(ctx, "/auth/signin", signInRequest{Email: email, Password: password})
}

// Me calls GET /me.
func (a *APIClient) Me(ctx context.Context) (models.Identity, error) {
	var resp struct {
		User apiUser `json:"user"`
	}
	if err := a.Send(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return models.Identity{}, err
	}
	return resp.User.identity(), nil
}

// ListPlaylists calls GET /playlists.
func (a *APIClient) ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	var resp items[apiPlaylist]
	if err := a.Send(ctx, http.MethodGet, "/playlists", nil, &resp); err != nil {
		return nil, err
	}

	playlists := make([]models.PlaylistSummary, 0, len(resp.Items))
	for _, p := range resp.Items {
		playlists = append(playlists, p.summary())
	}
	return playlists, nil
}

// CreatePlaylist calls POST /playlists.
func (a *APIClient) CreatePlaylist(ctx context.Context, name, description string) (models.PlaylistSummary, error) {
	var resp apiPlaylist
	body := map[string]string{"name": name, "description": description}
	if err := a.Send(ctx, http.MethodPost, "/playlists", body, &resp); err != nil {
		return models.PlaylistSummary{}, err
	}

	summary := resp.summary()
	if summary.Name == "" {
		summary.Name = name
		summary.Description = description
	}
	return summary, nil
}

// GetPlaylist calls GET /playlists/:id.
func (a *APIClient) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var resp struct {
		apiPlaylist
		Tracks []apiPlaylistTrack `json:"tracks"`
	}
	if err := a.Send(ctx, http.MethodGet, "/playlists/"+url.PathEscape(playlistID), nil, &resp); err != nil {
		return nil, err
	}

	playlist := &models.Playlist{
		PlaylistSummary: resp.summary(),
		Tracks:          make([]models.PlaylistTrack, 0, len(resp.Tracks)),
	}
	if playlist.ID == "" {
		playlist.ID = playlistID
	}
	for _, t := range resp.Tracks {
		playlist.Tracks = append(playlist.Tracks, t.model())
	}
	return playlist, nil
}

// AddTrack calls POST /playlists/:id/tracks with the track's display fields.
func (a *APIClient) AddTrack(ctx context.Context, playlistID string, track models.Track) error {
	body := addTrackRequest{
		AudiusTrackID: track.ID,
		TrackTitle:    track.Title,
		ArtistName:    track.Artist,
	}
	if track.ArtworkURL != "" {
		artwork := track.ArtworkURL
		body.ArtworkURL = &artwork
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return a.Send(ctx, http.MethodPost, endpoint, body, nil)
}

// RemoveTrack calls DELETE /playlists/:id/tracks/:trackId.
func (a *APIClient) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks/%s", url.PathEscape(playlistID), url.PathEscape(trackID))
	return a.Send(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Search calls GET /search?q=.
func (a *APIClient) Search(ctx context.Context, query string) ([]models.Track, error) {
	var resp items[apiTrack]
	if err := a.Send(ctx, http.MethodGet, "/search?q="+url.QueryEscape(query), nil, &resp); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(resp.Items))
	for _, t := range resp.Items {
		tracks = append(tracks, models.Track{
			ID:         string(t.ID),
			Title:      t.Title,
			Artist:     t.Artist,
			ArtworkURL: t.Artwork,
		})
	}
	return tracks, nil
}

// RecentlyPlayed calls GET /recently-played.
func (a *APIClient) RecentlyPlayed(ctx context.Context) ([]models.PlayHistoryEntry, error) {
	var resp items[apiHistoryEntry]
	if err := a.Send(ctx, http.MethodGet, "/recently-played", nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]models.PlayHistoryEntry, 0, len(resp.Items))
	for _, e := range resp.Items {
		entries = append(entries, models.PlayHistoryEntry{
			ID:       string(e.ID),
			TrackID:  string(e.AudiusTrackID),
			Title:    e.TrackTitle,
			Artist:   e.ArtistName,
			PlayedAt: time.Time(e.PlayedAt),
		})
	}
	return entries, nil
}

// LogPlay calls POST /recently-played.
func (a *APIClient) LogPlay(ctx context.Context, track models.Track) error {
	body := logPlayRequest{
		AudiusTrackID: track.ID,
		TrackTitle:    track.Title,
		ArtistName:    track.Artist,
	}
	return a.Send(ctx, http.MethodPost, "/recently-played", body, nil)
}

// StreamURL returns <root>/api/tracks/<id>/stream?token=<credential>, where root is the base URL
// without its trailing "/api".
func (a *APIClient) StreamURL(trackID, credential string) string {
	root := strings.TrimSuffix(a.baseURL, "/api")
	return fmt.Sprintf("%s/api/tracks/%s/stream?token=%s", root, url.PathEscape(trackID), url.QueryEscape(credential))
}
