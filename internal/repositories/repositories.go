package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/shared"
)

// credentialSlot is the only row the credentials table allows.
const credentialSlot = 1

// CredentialRepository persists the session credential in the credentials table.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save replaces the stored credential. The previous row, if any, is overwritten in place so the
// table never holds more than one credential.
func (r *CredentialRepository) Save(c *models.Credential) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if c.ID() == "" {
		c.SetID(shared.GenerateID())
	}
	now := time.Now().UTC()
	if c.CreatedAt().IsZero() {
		c.SetCreatedAt(now)
	}
	c.SetUpdatedAt(now)

	query := `
		INSERT INTO credentials (slot, id, token, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			id = excluded.id,
			token = excluded.token,
			email = excluded.email,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, credentialSlot, c.ID(), c.Token(), c.Email(), c.CreatedAt(), c.UpdatedAt()); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Load returns the stored credential, or [shared.ErrNoCredential] when none is stored.
func (r *CredentialRepository) Load() (*models.Credential, error) {
	query := `
		SELECT id, token, email, created_at, updated_at
		FROM credentials
		WHERE slot = ?
	`

	var (
		id        string
		token     string
		email     string
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRow(query, credentialSlot).Scan(&id, &token, &email, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	c := models.NewCredential(token, email)
	c.SetID(id)
	c.SetCreatedAt(createdAt)
	c.SetUpdatedAt(updatedAt)
	return c, nil
}

// Clear deletes the stored credential. Clearing an empty store is not an error.
func (r *CredentialRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM credentials WHERE slot = ?", credentialSlot); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
