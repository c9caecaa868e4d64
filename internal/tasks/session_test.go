package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
)

func TestSessionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("SignIn", func(t *testing.T) {
		t.Run("Sets Identity And Persists Credential", func(t *testing.T) {
			h := newHarness(t)
			session := h.signIn(t, "u@x.com")

			if h.state.Session().Email() != "u@x.com" || !h.app.Authenticated() {
				t.Errorf("expected session for u@x.com, got %+v", h.state.Session())
			}
			stored, err := h.store.Load()
			if err != nil {
				t.Fatalf("expected stored credential, got %v", err)
			}
			if stored.Token() != session.Credential {
				t.Errorf("expected stored token %q, got %q", session.Credential, stored.Token())
			}
		})

		t.Run("Invalid Email Never Reaches Network", func(t *testing.T) {
			h := newHarness(t)
			for _, email := range []string{"", "   ", "not-an-email", "Name <a@b.co>"} {
				_, err := h.app.Sessions.SignIn(ctx, email, "")
				if !errors.Is(err, shared.ErrValidation) {
					t.Errorf("%q: expected validation error, got %v", email, err)
				}
			}
			if len(h.catalog.Calls("SignIn")) != 0 {
				t.Error("expected no sign-in request")
			}
		})

		t.Run("Failure Keeps Existing Session", func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, "u@x.com")
			h.state.Search().Remember(track("t1"))

			h.catalog.SignInFunc = func(ctx context.Context, email, password string) (models.Session, error) {
				return models.Session{}, &services.APIError{Status: 401, Message: "Invalid credentials"}
			}
			_, err := h.app.Sessions.SignIn(ctx, "other@x.com", "wrong")
			if err == nil || err.Error() != "Invalid credentials" {
				t.Fatalf("expected backend message, got %v", err)
			}

			if h.state.Session().Email() != "u@x.com" {
				t.Errorf("expected existing session kept, got %+v", h.state.Session())
			}
			if _, ok := h.state.Search().MostRecent(); !ok {
				t.Error("expected cache untouched by failed sign-in")
			}
			if stored, _ := h.store.Load(); stored == nil || stored.Email() != "u@x.com" {
				t.Error("expected stored credential untouched")
			}
		})

		t.Run("Failure While Signed Out Stays Signed Out", func(t *testing.T) {
			h := newHarness(t)
			h.catalog.SignInFunc = func(ctx context.Context, email, password string) (models.Session, error) {
				return models.Session{}, errors.New("boom")
			}

			if _, err := h.app.Sessions.SignIn(ctx, "u@x.com", ""); err == nil {
				t.Fatal("expected error")
			}
			if h.app.Authenticated() {
				t.Error("expected to remain signed out")
			}
		})

		t.Run("Forwards Password", func(t *testing.T) {
			h := newHarness(t)
			if _, err := h.app.Sessions.SignIn(ctx, "u@x.com", "pw"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if calls := h.catalog.Calls("SignIn"); calls[0].Args[1] != "pw" {
				t.Errorf("expected password forwarded, got %+v", calls[0])
			}
		})
	})

	t.Run("SignUp", func(t *testing.T) {
		h := newHarness(t)
		session, err := h.app.Sessions.SignUp(ctx, " new@x.com ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.Email() != "new@x.com" || !h.app.Authenticated() {
			t.Errorf("unexpected session %+v", session)
		}
		if _, err := h.store.Load(); err != nil {
			t.Errorf("expected stored credential, got %v", err)
		}
	})

	t.Run("SignOut", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t, "u@x.com")
		h.state.Search().Remember(track("t1"))
		if _, err := h.app.Playback.RequestPlay(ctx, track("t1")); err != nil {
			t.Fatalf("failed to play: %v", err)
		}
		h.app.Playback.Wait()

		if err := h.app.Sessions.SignOut(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if h.app.Authenticated() {
			t.Error("expected signed out")
		}
		if _, ok := h.state.Search().MostRecent(); ok {
			t.Error("expected empty cache after sign-out")
		}
		if h.state.Playback().Loaded() {
			t.Error("expected idle playback after sign-out")
		}

		if _, ok := h.app.Sessions.Restore(ctx); ok {
			t.Error("expected restore to find nothing")
		}
		if len(h.catalog.Calls("Me")) != 0 {
			t.Error("expected restore without credential to skip the network")
		}
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("No Credential", func(t *testing.T) {
			h := newHarness(t)
			if _, ok := h.app.Sessions.Restore(ctx); ok {
				t.Error("expected no session")
			}
			if len(h.catalog.Calls("")) != 0 {
				t.Error("expected no requests")
			}
		})

		t.Run("Valid Credential", func(t *testing.T) {
			h := newHarness(t)
			_ = h.store.Save(models.NewCredential("stored", "u@x.com"))
			h.catalog.MeFunc = func(ctx context.Context) (models.Identity, error) {
				return models.Identity{ID: "u1", Email: "u@x.com"}, nil
			}

			session, ok := h.app.Sessions.Restore(ctx)
			if !ok || session.Credential != "stored" || session.Email() != "u@x.com" {
				t.Fatalf("expected restored session, got %+v (%v)", session, ok)
			}
			if !h.app.Authenticated() {
				t.Error("expected state to hold the restored session")
			}
			if calls := h.catalog.Calls("Me"); len(calls) != 1 || calls[0].Credential != "stored" {
				t.Errorf("expected one check with the stored credential, got %+v", calls)
			}
		})

		t.Run("Rejected Credential Is Cleared Once", func(t *testing.T) {
			h := newHarness(t)
			_ = h.store.Save(models.NewCredential("expired", "u@x.com"))
			h.catalog.MeFunc = func(ctx context.Context) (models.Identity, error) {
				return models.Identity{}, &services.APIError{Status: 401, Message: "Invalid token"}
			}

			if _, ok := h.app.Sessions.Restore(ctx); ok {
				t.Fatal("expected restore to fail")
			}
			if _, err := h.store.Load(); !errors.Is(err, shared.ErrNoCredential) {
				t.Errorf("expected credential cleared, got %v", err)
			}

			if _, ok := h.app.Sessions.Restore(ctx); ok {
				t.Fatal("expected second restore to fail")
			}
			if calls := h.catalog.Calls("Me"); len(calls) != 1 {
				t.Errorf("expected exactly one network check, got %d", len(calls))
			}
		})

		t.Run("Concurrent Calls Share One Check", func(t *testing.T) {
			h := newHarness(t)
			_ = h.store.Save(models.NewCredential("stored", "u@x.com"))

			started := make(chan struct{}, 1)
			release := make(chan struct{})
			h.catalog.MeFunc = func(ctx context.Context) (models.Identity, error) {
				select {
				case started <- struct{}{}:
				default:
				}
				<-release
				return models.Identity{ID: "u1", Email: "u@x.com"}, nil
			}

			var wg sync.WaitGroup
			results := make([]bool, 5)
			for i := range results {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, results[i] = h.app.Sessions.Restore(ctx)
				}()
			}

			<-started
			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			for i, ok := range results {
				if !ok {
					t.Errorf("caller %d: expected restored session", i)
				}
			}
			if calls := h.catalog.Calls("Me"); len(calls) != 1 {
				t.Errorf("expected one network check, got %d", len(calls))
			}
		})

		t.Run("Sign-In During Restore Wins", func(t *testing.T) {
			h := newHarness(t)
			_ = h.store.Save(models.NewCredential("stale", "old@x.com"))

			started := make(chan struct{})
			release := make(chan struct{})
			h.catalog.MeFunc = func(ctx context.Context) (models.Identity, error) {
				close(started)
				<-release
				return models.Identity{ID: "old", Email: "old@x.com"}, nil
			}

			done := make(chan models.Session)
			go func() {
				session, _ := h.app.Sessions.Restore(ctx)
				done <- session
			}()

			<-started
			h.signIn(t, "new@x.com")
			close(release)

			if got := <-done; got.Email() != "new@x.com" {
				t.Errorf("expected restore to report the newer session, got %q", got.Email())
			}
			if h.state.Session().Email() != "new@x.com" {
				t.Errorf("expected sign-in to win, got %q", h.state.Session().Email())
			}
		})

		t.Run("Already Authenticated", func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, "u@x.com")

			session, ok := h.app.Sessions.Restore(ctx)
			if !ok || session.Email() != "u@x.com" {
				t.Errorf("expected current session, got %+v", session)
			}
			if len(h.catalog.Calls("Me")) != 0 {
				t.Error("expected no network check")
			}
		})
	})
}
