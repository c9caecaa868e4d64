package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestCredentialRepository(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		t.Run("Assigns ID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewCredentialRepository(db)
			c := models.NewCredential("abc", "a@b.co")

			if err := repo.Save(c); err != nil {
				t.Fatalf("failed to save credential: %v", err)
			}
			if c.ID() == "" {
				t.Error("credential ID should be set after save")
			}
		})

		t.Run("Rejects Empty Token", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewCredentialRepository(db)
			err := repo.Save(models.NewCredential("", "a@b.co"))
			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})

		t.Run("Overwrites Previous", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewCredentialRepository(db)
			if err := repo.Save(models.NewCredential("first", "a@b.co")); err != nil {
				t.Fatalf("failed to save first credential: %v", err)
			}
			if err := repo.Save(models.NewCredential("second", "c@d.co")); err != nil {
				t.Fatalf("failed to save second credential: %v", err)
			}

			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count); err != nil {
				t.Fatalf("failed to count rows: %v", err)
			}
			if count != 1 {
				t.Errorf("expected 1 row, got %d", count)
			}

			got, err := repo.Load()
			if err != nil {
				t.Fatalf("failed to load credential: %v", err)
			}
			if got.Token() != "second" || got.Email() != "c@d.co" {
				t.Errorf("expected second credential, got %s/%s", got.Token(), got.Email())
			}
		})
	})

	t.Run("Load", func(t *testing.T) {
		t.Run("Round Trip", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewCredentialRepository(db)
			c := models.NewCredential("abc", "a@b.co")
			if err := repo.Save(c); err != nil {
				t.Fatalf("failed to save credential: %v", err)
			}

			got, err := repo.Load()
			if err != nil {
				t.Fatalf("failed to load credential: %v", err)
			}
			if got.ID() != c.ID() || got.Token() != "abc" || got.Email() != "a@b.co" {
				t.Errorf("unexpected credential %s/%s/%s", got.ID(), got.Token(), got.Email())
			}
		})

		t.Run("Empty Store", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewCredentialRepository(db).Load()
			if !errors.Is(err, shared.ErrNoCredential) {
				t.Fatalf("expected ErrNoCredential, got %v", err)
			}
		})

		t.Run("Closed Database", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			_, err := NewCredentialRepository(db).Load()
			if err == nil || errors.Is(err, shared.ErrNoCredential) {
				t.Fatalf("expected query error, got %v", err)
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		if err := repo.Save(models.NewCredential("abc", "a@b.co")); err != nil {
			t.Fatalf("failed to save credential: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear credential: %v", err)
		}
		if _, err := repo.Load(); !errors.Is(err, shared.ErrNoCredential) {
			t.Errorf("expected ErrNoCredential after clear, got %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Errorf("expected clearing empty store to succeed, got %v", err)
		}
	})
}
