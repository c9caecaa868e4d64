// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/soundx/internal/models"
)

// Call records one invocation on [FakeCatalog].
type Call struct {
	Method     string
	Args       []string
	Credential string
}

// FakeCatalog is an in-memory test double for services.Catalog.
//
// Behaviour is overridden per test through the function fields; unset fields fall back to a
// small in-memory backend so coordinators can be exercised end to end.
type FakeCatalog struct {
	mu        sync.Mutex
	calls     []Call
	playlists map[string]*models.Playlist
	order     []string
	history   []models.PlayHistoryEntry
	nextID    int

	// Credential is reported on every recorded call; tests set it to the session credential.
	Credential func(ctx context.Context) string

	SignUpFunc         func(ctx context.Context, email string) (models.Session, error)
	SignInFunc         func(ctx context.Context, email, password string) (models.Session, error)
	MeFunc             func(ctx context.Context) (models.Identity, error)
	ListPlaylistsFunc  func(ctx context.Context) ([]models.PlaylistSummary, error)
	CreatePlaylistFunc func(ctx context.Context, name, description string) (models.PlaylistSummary, error)
	GetPlaylistFunc    func(ctx context.Context, playlistID string) (*models.Playlist, error)
	AddTrackFunc       func(ctx context.Context, playlistID string, track models.Track) error
	RemoveTrackFunc    func(ctx context.Context, playlistID, trackID string) error
	SearchFunc         func(ctx context.Context, query string) ([]models.Track, error)
	RecentlyPlayedFunc func(ctx context.Context) ([]models.PlayHistoryEntry, error)
	LogPlayFunc        func(ctx context.Context, track models.Track) error
}

// NewFakeCatalog returns an empty in-memory backend.
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{playlists: make(map[string]*models.Playlist)}
}

func (f *FakeCatalog) record(ctx context.Context, method string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := Call{Method: method, Args: args}
	if f.Credential != nil {
		c.Credential = f.Credential(ctx)
	}
	f.calls = append(f.calls, c)
}

// Calls returns a copy of the recorded calls, optionally filtered to one method.
func (f *FakeCatalog) Calls(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Seed stores a playlist in the in-memory backend.
func (f *FakeCatalog) Seed(p models.Playlist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.playlists[p.ID]; !ok {
		f.order = append(f.order, p.ID)
	}
	cp := p
	cp.Tracks = append([]models.PlaylistTrack(nil), p.Tracks...)
	f.playlists[p.ID] = &cp
}

func (f *FakeCatalog) SignUp(ctx context.Context, email string) (models.Session, error) {
	f.record(ctx, "SignUp", email)
	if f.SignUpFunc != nil {
		return f.SignUpFunc(ctx, email)
	}
	return models.Session{Identity: &models.Identity{ID: "u1", Email: email}, Credential: "tok-" + email}, nil
}

func (f *FakeCatalog) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	f.record(ctx, "SignIn", email, password)
	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, email, password)
	}
	return models.Session{Identity: &models.Identity{ID: "u1", Email: email}, Credential: "tok-" + email}, nil
}

func (f *FakeCatalog) Me(ctx context.Context) (models.Identity, error) {
	f.record(ctx, "Me")
	if f.MeFunc != nil {
		return f.MeFunc(ctx)
	}
	return models.Identity{ID: "u1", Email: "user@example.com"}, nil
}

func (f *FakeCatalog) ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	f.record(ctx, "ListPlaylists")
	if f.ListPlaylistsFunc != nil {
		return f.ListPlaylistsFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PlaylistSummary, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.playlists[id].PlaylistSummary)
	}
	return out, nil
}

func (f *FakeCatalog) CreatePlaylist(ctx context.Context, name, description string) (models.PlaylistSummary, error) {
	f.record(ctx, "CreatePlaylist", name, description)
	if f.CreatePlaylistFunc != nil {
		return f.CreatePlaylistFunc(ctx, name, description)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	summary := models.PlaylistSummary{ID: fmt.Sprintf("p%d", f.nextID), Name: name, Description: description}
	f.playlists[summary.ID] = &models.Playlist{PlaylistSummary: summary}
	f.order = append(f.order, summary.ID)
	return summary, nil
}

func (f *FakeCatalog) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	f.record(ctx, "GetPlaylist", playlistID)
	if f.GetPlaylistFunc != nil {
		return f.GetPlaylistFunc(ctx, playlistID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, errors.New("Playlist not found")
	}
	cp := *p
	cp.Tracks = append([]models.PlaylistTrack(nil), p.Tracks...)
	return &cp, nil
}

func (f *FakeCatalog) AddTrack(ctx context.Context, playlistID string, track models.Track) error {
	f.record(ctx, "AddTrack", playlistID, track.ID)
	if f.AddTrackFunc != nil {
		return f.AddTrackFunc(ctx, playlistID, track)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[playlistID]
	if !ok {
		return errors.New("Playlist not found")
	}
	p.Tracks = append(p.Tracks, models.PlaylistTrack{
		ID:         fmt.Sprintf("%s_%s", playlistID, track.ID),
		TrackID:    track.ID,
		Title:      track.Title,
		Artist:     track.Artist,
		ArtworkURL: track.ArtworkURL,
	})
	return nil
}

func (f *FakeCatalog) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	f.record(ctx, "RemoveTrack", playlistID, trackID)
	if f.RemoveTrackFunc != nil {
		return f.RemoveTrackFunc(ctx, playlistID, trackID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[playlistID]
	if !ok {
		return errors.New("Playlist not found")
	}
	kept := p.Tracks[:0]
	for _, t := range p.Tracks {
		if t.TrackID != trackID {
			kept = append(kept, t)
		}
	}
	p.Tracks = kept
	return nil
}

func (f *FakeCatalog) Search(ctx context.Context, query string) ([]models.Track, error) {
	f.record(ctx, "Search", query)
	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, query)
	}
	return []models.Track{}, nil
}

func (f *FakeCatalog) RecentlyPlayed(ctx context.Context) ([]models.PlayHistoryEntry, error) {
	f.record(ctx, "RecentlyPlayed")
	if f.RecentlyPlayedFunc != nil {
		return f.RecentlyPlayedFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PlayHistoryEntry, len(f.history))
	for i, e := range f.history {
		out[len(f.history)-1-i] = e
	}
	return out, nil
}

func (f *FakeCatalog) LogPlay(ctx context.Context, track models.Track) error {
	f.record(ctx, "LogPlay", track.ID)
	if f.LogPlayFunc != nil {
		return f.LogPlayFunc(ctx, track)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, models.PlayHistoryEntry{
		ID:      fmt.Sprintf("h%d", len(f.history)+1),
		TrackID: track.ID,
		Title:   track.Title,
		Artist:  track.Artist,
	})
	return nil
}

func (f *FakeCatalog) StreamURL(trackID, credential string) string {
	return fmt.Sprintf("http://stream.test/api/tracks/%s/stream?token=%s", trackID, credential)
}

// Tracks builds n distinct tracks with ids t1..tn.
func Tracks(n int) []models.Track {
	out := make([]models.Track, n)
	for i := range out {
		out[i] = models.Track{
			ID:     fmt.Sprintf("t%d", i+1),
			Title:  fmt.Sprintf("Title %d", i+1),
			Artist: fmt.Sprintf("Artist %d", i+1),
		}
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if err == nil && !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
