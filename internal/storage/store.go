// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/osanchezp/casaflow/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the reference server needs.
// The abstraction keeps the HTTP layer independent of the storage backend.
type Store interface {
	// FormConfig loads everything the movement form selectors need.
	FormConfig(ctx context.Context) (*models.FormConfig, error)

	// ListAccounts returns all accounts, every type included; income
	// eligibility filtering is a client concern.
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// CreateMovement persists a new movement with its shares. ID and
	// CreatedAt are populated by the store.
	CreateMovement(ctx context.Context, m *models.Movement) error

	// GetMovement retrieves a movement by ID, shares included in their
	// insertion order. Returns ErrNotFound when absent.
	GetMovement(ctx context.Context, id string) (*models.Movement, error)

	// UpdateMovement applies the mutable fields to an existing movement.
	// A nil Shares slice leaves the stored shares untouched.
	UpdateMovement(ctx context.Context, id string, u models.MovementUpdate) error

	// ListMovements returns movements newest first.
	ListMovements(ctx context.Context) ([]models.Movement, error)

	// CreateIncome persists a new income entry. ID and CreatedAt are
	// populated by the store.
	CreateIncome(ctx context.Context, in *models.Income) error

	// Close releases any resources held by the store.
	Close() error
}
