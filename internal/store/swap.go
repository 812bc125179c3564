package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
)

// SwapStore defines the interface for the Swap Ledger: swap-request records
// and their lifecycle status. Status transitions that mutate other stores
// (acceptance) are coordinated by the service layer inside one transaction.
type SwapStore interface {
	// Create appends a new swap request to the ledger.
	// Returns validation errors from the domain SwapRequest if data is
	// invalid.
	Create(ctx context.Context, swap *domain.SwapRequest) error

	// GetByID retrieves a swap request by its unique ID.
	// Returns ErrSwapNotFound if the swap request does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error)

	// GetForUpdate retrieves a swap request with a row-level lock using
	// SELECT ... FOR UPDATE. Must be called within a transaction; the
	// decision path uses it so two concurrent decisions cannot both observe
	// the swap as pending.
	// Returns ErrSwapNotFound if the swap request does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error)

	// ListForUser returns all swap requests in which the user participates,
	// either as the requester or as the owner of the target item, in
	// insertion order.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.SwapRequest, error)

	// UpdateStatus sets the lifecycle status of a swap request.
	// Returns ErrSwapNotFound if the swap request does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SwapStatus) error

	// DeclinePendingForItem declines every pending swap request targeting the
	// given item except the one identified by accepted. Called inside the
	// acceptance transaction so competing proposals are not left dangling.
	// Returns the number of declined requests.
	DeclinePendingForItem(ctx context.Context, itemID, accepted uuid.UUID) (int64, error)

	// Count returns the total number of swap requests.
	Count(ctx context.Context) (int, error)

	// CountByStatus returns the number of swap requests with the given
	// status.
	CountByStatus(ctx context.Context, status domain.SwapStatus) (int, error)

	// WithTx returns a new SwapStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service via RunInTransaction).
	WithTx(tx *sql.Tx) SwapStore
}
