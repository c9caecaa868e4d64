package tasks

import (
	"sync"

	"github.com/desertthunder/soundx/internal/models"
)

// SessionContext is everything tied to one signed-in session. It is never cleared field by
// field; sign-out replaces it with a fresh value.
type SessionContext struct {
	Session  models.Session
	Search   *SearchCache
	Playback models.PlaybackState
}

func newSessionContext() *SessionContext {
	return &SessionContext{Search: NewSearchCache()}
}

// State owns the current [SessionContext]. Coordinators share one State and never hold on to
// the context itself, so a reset is observed by every later operation.
type State struct {
	mu    sync.RWMutex
	ctx   *SessionContext
	epoch uint64
}

// NewState returns a signed-out state with an empty search cache and idle playback.
func NewState() *State {
	return &State{ctx: newSessionContext()}
}

// Session returns the current session.
func (s *State) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx.Session
}

// Credential implements services.CredentialSource.
func (s *State) Credential() string {
	return s.Session().Credential
}

// Authenticated reports whether the current session has both identity and credential.
func (s *State) Authenticated() bool {
	return s.Session().Authenticated()
}

// Search returns the current session's search cache.
func (s *State) Search() *SearchCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx.Search
}

// Playback returns the current playback state.
func (s *State) Playback() models.PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx.Playback
}

// Epoch changes on every session change and every [State.Reset].
func (s *State) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *State) setPlayback(p models.PlaybackState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Playback = p
}

// SetSession replaces the session, keeping the search cache and playback of the current context.
func (s *State) SetSession(session models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Session = session
	s.epoch++
}

// setSessionAt is [State.SetSession] guarded by epoch; it reports false without changes when the
// session or context changed after epoch was read.
func (s *State) setSessionAt(epoch uint64, session models.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.ctx.Session = session
	s.epoch++
	return true
}

// Reset discards the whole context: session, search cache and playback.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = newSessionContext()
	s.epoch++
}
