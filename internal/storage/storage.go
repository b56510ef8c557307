// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"errors"

	"github.com/good-yellow-bee/hwportal/internal/models"
)

// ErrDuplicateKey is returned when an insert violates a uniqueness
// constraint. Callers use errors.Is to distinguish it from other store
// failures.
var ErrDuplicateKey = errors.New("duplicate key")

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error
	// EnsureAdminUser creates a default admin if no users exist.
	EnsureAdminUser() error
	// EnsurePools creates the given pools if they do not exist yet.
	EnsurePools(defaults []*models.HardwarePool) error

	// Repository accessors
	Users() UserRepository
	Projects() ProjectRepository
	Pools() PoolRepository
	Tokens() TokenRepository
	Events() EventRepository
}

// UserRepository defines operations for user management.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// ProjectRepository defines operations for project and membership management.
type ProjectRepository interface {
	// Create inserts the project and its first member (the creator) in one
	// transaction. Returns ErrDuplicateKey if the project ID is taken.
	Create(ctx context.Context, project *models.Project, creatorID string) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	// AddMember is idempotent: adding an existing member is a no-op.
	AddMember(ctx context.Context, projectID, userID string) error
	// RemoveMember is idempotent: removing a non-member is a no-op.
	RemoveMember(ctx context.Context, projectID, userID string) error
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
	GetMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, error)
	GetProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error)
}

// PoolRepository defines operations for hardware pool management.
//
// CheckoutUnits and CheckinUnits are the atomic commit point for the
// capacity invariant: each executes a single conditional UPDATE whose WHERE
// clause re-checks the guard against the committed row, so an interleaving
// writer can never push checked_out below zero or above capacity. A false
// return means the guard did not hold at commit time and nothing changed.
type PoolRepository interface {
	Create(ctx context.Context, pool *models.HardwarePool) error
	GetByName(ctx context.Context, name string) (*models.HardwarePool, error)
	List(ctx context.Context) ([]*models.HardwarePool, error)
	Count(ctx context.Context) (int64, error)
	CheckoutUnits(ctx context.Context, name, userID string, quantity int) (bool, error)
	CheckinUnits(ctx context.Context, name, userID string, quantity int) (bool, error)
}

// TokenRepository defines operations for refresh token management.
type TokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// EventRepository defines read operations for the checkout event log.
// Events are written by PoolRepository inside the mutation transaction.
type EventRepository interface {
	ListByPool(ctx context.Context, poolName string, limit int) ([]*models.CheckoutEvent, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.CheckoutEvent, error)
}
