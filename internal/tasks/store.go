package tasks

import (
	"sync"

	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/shared"
)

// CredentialStore persists the session credential across launches.
//
// Implemented by repositories.CredentialRepository; [MemoryCredentialStore] serves tests and
// ephemeral runs.
type CredentialStore interface {
	Save(c *models.Credential) error
	// Load returns [shared.ErrNoCredential] when nothing is stored.
	Load() (*models.Credential, error)
	Clear() error
}

// MemoryCredentialStore keeps the credential in process memory.
type MemoryCredentialStore struct {
	mu   sync.Mutex
	cred *models.Credential
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (m *MemoryCredentialStore) Save(c *models.Credential) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID() == "" {
		c.SetID(shared.GenerateID())
	}
	m.cred = c
	return nil
}

func (m *MemoryCredentialStore) Load() (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return nil, shared.ErrNoCredential
	}
	return m.cred, nil
}

func (m *MemoryCredentialStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	return nil
}
