package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/soundx/internal/models"
)

// newTestCatalog serves handler under /api and returns a client rooted there.
func newTestCatalog(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("/api/", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewAPIClient(server.URL+"/api", nil, staticCredential("tok"))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	return body
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("SignIn", func(t *testing.T) {
		t.Run("Omits Empty Password", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/auth/signin" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				body := decodeBody(t, r)
				if _, ok := body["password"]; ok {
					t.Error("expected password to be omitted")
				}
				w.Write([]byte(`{"token":"abc","user":{"id":42,"email":"a@b.co"}}`))
			})

			session, err := c.SignIn(ctx, "a@b.co", "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !session.Authenticated() || session.Credential != "abc" {
				t.Errorf("expected authenticated session with credential 'abc', got %+v", session)
			}
			if session.Identity.ID != "42" || session.Email() != "a@b.co" {
				t.Errorf("expected numeric id to decode as '42', got %+v", session.Identity)
			}
		})

		t.Run("Sends Password When Present", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if decodeBody(t, r)["password"] != "secret" {
					t.Error("expected password to be sent")
				}
				w.Write([]byte(`{"token":"abc","user":{"id":"u1","email":"a@b.co"}}`))
			})

			if _, err := c.SignIn(ctx, "a@b.co", "secret"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Missing Token Is An Error", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"user":{"id":"u1","email":"a@b.co"}}`))
			})

			if _, err := c.SignIn(ctx, "a@b.co", ""); err == nil {
				t.Error("expected error when token missing")
			}
		})

		t.Run("Backend Message Is Surfaced", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Invalid credentials"}`))
			})

			_, err := c.SignIn(ctx, "a@b.co", "")
			if err == nil || err.Error() != "Invalid credentials" {
				t.Errorf("expected 'Invalid credentials', got %v", err)
			}
		})
	})

	t.Run("SignUp", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/signup" {
				t.Errorf("expected signup path, got %s", r.URL.Path)
			}
			if decodeBody(t, r)["email"] != "new@b.co" {
				t.Error("expected email in body")
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"token":"t2","user":{"id":"u2","email":"new@b.co"}}`))
		})

		session, err := c.SignUp(ctx, "new@b.co")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.Credential != "t2" {
			t.Errorf("expected credential 't2', got %q", session.Credential)
		}
	})

	t.Run("Me", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("expected bearer header, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"user":{"id":"u1","email":"a@b.co"}}`))
		})

		identity, err := c.Me(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if identity.Email != "a@b.co" {
			t.Errorf("expected email 'a@b.co', got %q", identity.Email)
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("List", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"items":[{"id":1,"name":"Mix","description":"d"},{"id":"2","name":"Chill"}]}`))
			})

			got, err := c.ListPlaylists(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 2 || got[0].ID != "1" || got[1].Name != "Chill" {
				t.Errorf("unexpected playlists %+v", got)
			}
		})

		t.Run("Create", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				body := decodeBody(t, r)
				if body["name"] != "Mix" || body["description"] != "" {
					t.Errorf("unexpected body %v", body)
				}
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":"p9","name":"Mix","description":""}`))
			})

			got, err := c.CreatePlaylist(ctx, "Mix", "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.ID != "p9" {
				t.Errorf("expected id 'p9', got %q", got.ID)
			}
		})

		t.Run("Get Decodes Tracks", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/playlists/p1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(`{"id":"p1","name":"Mix","tracks":[
					{"id":10,"playlist_id":"p1","audius_track_id":"t1","track_title":"One","artist_name":"A","artwork_url":null,"added_at":"2024-05-01 10:00:00"},
					{"playlist_id":"p1","track_id":"t2","track_title":"Two","artist_name":"B","artwork_url":"http://img","added_at":"2024-05-01T10:00:00Z"},
					{"id":"x","audius_track_id":"t3","track_title":"Three","artist_name":"C","added_at":"yesterday"}
				]}`))
			})

			p, err := c.GetPlaylist(ctx, "p1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(p.Tracks) != 3 {
				t.Fatalf("expected 3 tracks, got %d", len(p.Tracks))
			}

			first := p.Tracks[0]
			if first.ID != "10" || first.TrackID != "t1" || first.ArtworkURL != "" {
				t.Errorf("unexpected first track %+v", first)
			}
			want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
			if !first.AddedAt.Equal(want) {
				t.Errorf("expected SQL timestamp to parse, got %v", first.AddedAt)
			}

			second := p.Tracks[1]
			if second.TrackID != "t2" || second.ArtworkURL != "http://img" || second.ID != "p1_t2" {
				t.Errorf("unexpected second track %+v", second)
			}
			if !p.Tracks[2].AddedAt.IsZero() {
				t.Error("expected unknown timestamp format to decode as zero")
			}
		})

		t.Run("Get Escapes Identifier", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/api/playlists/a%2Fb" {
					t.Errorf("expected escaped id, got %s", r.URL.EscapedPath())
				}
				w.Write([]byte(`{"id":"a/b","name":"x","tracks":[]}`))
			})

			if _, err := c.GetPlaylist(ctx, "a/b"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("AddTrack Sends Denormalised Copy", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/playlists/p1/tracks" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				body := decodeBody(t, r)
				if body["audius_track_id"] != "t1" || body["track_title"] != "One" || body["artist_name"] != "A" {
					t.Errorf("unexpected body %v", body)
				}
				if v, ok := body["artwork_url"]; !ok || v != nil {
					t.Errorf("expected artwork_url null, got %v", v)
				}
				w.WriteHeader(http.StatusCreated)
			})

			if err := c.AddTrack(ctx, "p1", models.Track{ID: "t1", Title: "One", Artist: "A"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("RemoveTrack", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/api/playlists/p1/tracks/t1" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusNoContent)
			})

			if err := c.RemoveTrack(ctx, "p1", "t1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if q := r.URL.Query().Get("q"); q != "daft punk & co" {
				t.Errorf("expected query to round-trip, got %q", q)
			}
			w.Write([]byte(`{"items":[{"id":"t1","title":"One More Time","artist":"Daft Punk","artwork":"http://a"}]}`))
		})

		got, err := c.Search(ctx, "daft punk & co")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 || got[0].ArtworkURL != "http://a" {
			t.Errorf("unexpected tracks %+v", got)
		}
	})

	t.Run("History", func(t *testing.T) {
		t.Run("RecentlyPlayed", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"items":[{"id":5,"audius_track_id":"t1","track_title":"One","artist_name":"A","played_at":"2024-05-01T10:00:00Z"}]}`))
			})

			got, err := c.RecentlyPlayed(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 1 || got[0].ID != "5" || got[0].TrackID != "t1" || got[0].PlayedAt.IsZero() {
				t.Errorf("unexpected history %+v", got)
			}
		})

		t.Run("LogPlay", func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/recently-played" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				body := decodeBody(t, r)
				if body["audius_track_id"] != "t1" || body["track_title"] != "One" || body["artist_name"] != "A" {
					t.Errorf("unexpected body %v", body)
				}
				w.WriteHeader(http.StatusCreated)
			})

			if err := c.LogPlay(ctx, models.Track{ID: "t1", Title: "One", Artist: "A"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("StreamURL", func(t *testing.T) {
		t.Run("Strips API Suffix", func(t *testing.T) {
			c := NewAPIClient("http://localhost:3001/api", nil, nil)
			got := c.StreamURL("t1", "abc")
			if got != "http://localhost:3001/api/tracks/t1/stream?token=abc" {
				t.Errorf("unexpected url %s", got)
			}
		})

		t.Run("Base Without API Suffix", func(t *testing.T) {
			c := NewAPIClient("http://host:9000", nil, nil)
			got := c.StreamURL("t1", "abc")
			if got != "http://host:9000/api/tracks/t1/stream?token=abc" {
				t.Errorf("unexpected url %s", got)
			}
		})

		t.Run("Escapes Components", func(t *testing.T) {
			c := NewAPIClient("http://h/api", nil, nil)
			got := c.StreamURL("a b", "x+y=")
			if !strings.HasSuffix(got, "/tracks/a%20b/stream?token=x%2By%3D") {
				t.Errorf("unexpected url %s", got)
			}
		})
	})
}
