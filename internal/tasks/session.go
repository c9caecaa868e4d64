package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
	"golang.org/x/sync/singleflight"
)

// SessionManager is the only writer of session state.
type SessionManager struct {
	catalog services.Catalog
	store   CredentialStore
	state   *State
	logger  *log.Logger
	restore singleflight.Group
}

// NewSessionManager creates a manager persisting credentials to store. A nil logger discards output.
func NewSessionManager(catalog services.Catalog, store CredentialStore, state *State, logger *log.Logger) *SessionManager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SessionManager{
		catalog: catalog,
		store:   store,
		state:   state,
		logger:  shared.WithLogger(logger, "component", "session"),
	}
}

// SignUp registers email and signs in as the new identity.
func (m *SessionManager) SignUp(ctx context.Context, email string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if err := shared.ValidateEmail(email); err != nil {
		return models.Session{}, err
	}

	session, err := m.catalog.SignUp(ctx, email)
	if err != nil {
		return models.Session{}, err
	}
	return m.establish(session), nil
}

// SignIn authenticates email. An empty password is omitted from the request.
//
// On failure the current session, if any, is left as it was.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if err := shared.ValidateEmail(email); err != nil {
		return models.Session{}, err
	}

	session, err := m.catalog.SignIn(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}
	return m.establish(session), nil
}

func (m *SessionManager) establish(session models.Session) models.Session {
	if err := m.store.Save(models.NewCredential(session.Credential, session.Email())); err != nil {
		m.logger.Warn("failed to persist credential", "error", err)
	}
	m.state.SetSession(session)
	m.logger.Info("signed in", "email", session.Email())
	return session
}

type restoreResult struct {
	session models.Session
	ok      bool
}

// Restore validates the persisted credential with the session-check endpoint.
//
// With no stored credential it returns false without a network call. A rejected credential is
// deleted and reported as false; the failure is logged, never returned. Concurrent calls share
// one validation. An already authenticated session is returned as is.
func (m *SessionManager) Restore(ctx context.Context) (models.Session, bool) {
	if current := m.state.Session(); current.Authenticated() {
		return current, true
	}

	v, _, _ := m.restore.Do("restore", func() (any, error) {
		session, ok := m.doRestore(ctx)
		return restoreResult{session: session, ok: ok}, nil
	})
	res := v.(restoreResult)
	return res.session, res.ok
}

func (m *SessionManager) doRestore(ctx context.Context) (models.Session, bool) {
	epoch := m.state.Epoch()

	cred, err := m.store.Load()
	if errors.Is(err, shared.ErrNoCredential) {
		return models.Session{}, false
	}
	if err != nil {
		m.logger.Warn("failed to load credential", "error", err)
		return models.Session{}, false
	}

	identity, err := m.catalog.Me(services.WithCredential(ctx, cred.Token()))
	if err != nil {
		m.logger.Warn("stored credential rejected", "error", err)
		if err := m.store.Clear(); err != nil {
			m.logger.Error("failed to clear credential", "error", err)
		}
		m.state.setSessionAt(epoch, models.Session{})
		return models.Session{}, false
	}

	session := models.Session{Identity: &identity, Credential: cred.Token()}
	if !m.state.setSessionAt(epoch, session) {
		// a sign-in or sign-out landed while validating; it wins
		current := m.state.Session()
		return current, current.Authenticated()
	}
	m.logger.Info("session restored", "email", identity.Email)
	return session, true
}

// SignOut deletes the persisted credential and replaces the session context, dropping the
// search cache and playback state with it.
func (m *SessionManager) SignOut() error {
	m.state.Reset()
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	m.logger.Info("signed out")
	return nil
}

// Session returns the current session.
func (m *SessionManager) Session() models.Session {
	return m.state.Session()
}
