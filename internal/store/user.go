package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
)

// UserStore defines the interface for the Identity Store: user records and
// point balances. Balances are mutated only through AdjustBalance, which the
// swap-acceptance path calls inside a transaction.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetForUpdate retrieves a user with a row-level lock using
	// SELECT ... FOR UPDATE. Must be called within a transaction; the
	// swap-acceptance path uses it to protect balances from concurrent
	// settlement.
	// Returns ErrUserNotFound if the user does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateProfile modifies the mutable profile fields (name, location,
	// avatar) of an existing user and returns the updated record.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, id uuid.UUID, name, location, avatar string) (*domain.User, error)

	// AdjustBalance applies a points delta and a swap-count delta to a user.
	// The database rejects the update if it would drive the balance negative.
	// Returns ErrUserNotFound if the user does not exist, ErrUpdateFailed if
	// the balance constraint is violated.
	AdjustBalance(ctx context.Context, id uuid.UUID, pointsDelta, swapCountDelta int) error

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service via RunInTransaction).
	WithTx(tx *sql.Tx) UserStore
}
