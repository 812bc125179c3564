package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
)

// ItemFilter narrows a catalog listing query. Zero values mean "no filter":
// empty Category and Search apply no constraint, and a nil Approved leaves
// both approved and unapproved listings in the result. Filters compose
// conjunctively.
type ItemFilter struct {
	// Category, when non-empty, requires an exact category match.
	Category domain.ItemCategory

	// Search, when non-empty, requires a case-insensitive substring match
	// against the title, the description, or any tag.
	Search string

	// Approved, when non-nil, requires the approval flag to equal its value.
	Approved *bool
}

// ItemStore defines the interface for the Catalog Store: listing records and
// their availability/approval flags.
type ItemStore interface {
	// Create saves a new item to the store.
	// Returns validation errors from the domain Item if data is invalid.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// GetForUpdate retrieves an item with a row-level lock using
	// SELECT ... FOR UPDATE. Must be called within a transaction; the
	// swap-acceptance path uses it so two accepts cannot both observe the
	// item as available.
	// Returns ErrItemNotFound if the item does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// List returns the items matching the filter, in insertion order.
	List(ctx context.Context, filter ItemFilter) ([]*domain.Item, error)

	// SetAvailability flips the availability flag of an item.
	// Returns ErrItemNotFound if the item does not exist.
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error

	// SetApproved marks an item as approved. The operation is idempotent:
	// approving an already-approved item succeeds without effect.
	// Returns ErrItemNotFound if the item does not exist.
	SetApproved(ctx context.Context, id uuid.UUID) error

	// Delete removes an item from the store by its ID. Swap records that
	// reference the item are not touched; they carry denormalized snapshot
	// fields so history survives item deletion.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of items.
	Count(ctx context.Context) (int, error)

	// CountPending returns the number of items awaiting approval.
	CountPending(ctx context.Context) (int, error)

	// WithTx returns a new ItemStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service via RunInTransaction).
	WithTx(tx *sql.Tx) ItemStore
}
