package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/store"
)

// SwapServiceError is a custom error type for swap service errors.
type SwapServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SwapServiceError.
func (e *SwapServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("swap service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("swap service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SwapServiceError) Unwrap() error {
	return e.Err
}

// NewSwapServiceError creates a new SwapServiceError.
func NewSwapServiceError(operation, message string, err error) *SwapServiceError {
	return &SwapServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ProposeSwapInput carries the caller-supplied fields of a new swap proposal.
type ProposeSwapInput struct {
	ItemID        uuid.UUID
	OfferedItemID *uuid.UUID
	UsePoints     bool
	PointsOffered int
	Message       string
}

// SwapService coordinates the swap-request lifecycle: proposal creation,
// owner decisions, and the points-economy settlement that acceptance runs
// atomically.
type SwapService interface {
	// ProposeSwap validates and records a new pending swap request from
	// requesterID against the target item. Points are not escrowed; the
	// balance is only checked.
	ProposeSwap(ctx context.Context, requesterID uuid.UUID, input ProposeSwapInput) (*domain.SwapRequest, error)

	// DecideSwap applies an owner decision to a pending swap request. The
	// pending state is one-shot: the first decision consumes it and any later
	// decision fails with ErrInvalidTransition. Accepting settles the swap
	// (points transfer, availability flips, auto-decline of competing
	// proposals) in a single transaction.
	DecideSwap(ctx context.Context, swapID, actorID uuid.UUID, newStatus domain.SwapStatus) (*domain.SwapRequest, error)

	// ListSwapsForUser returns every swap request the user participates in,
	// as requester or as owner of the target item.
	ListSwapsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.SwapRequest, error)
}

// txRunnerFunc runs fn inside a database transaction. It exists as a seam so
// tests can exercise the settlement logic without a live database.
type txRunnerFunc func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// swapServiceImpl implements the SwapService interface.
type swapServiceImpl struct {
	db       *sql.DB
	swaps    store.SwapStore
	items    store.ItemStore
	users    store.UserStore
	logger   *slog.Logger
	txRunner txRunnerFunc
}

var _ SwapService = (*swapServiceImpl)(nil)

// NewSwapService creates a new SwapService.
// It returns an error if any of the required dependencies are nil.
func NewSwapService(
	db *sql.DB,
	swaps store.SwapStore,
	items store.ItemStore,
	users store.UserStore,
	log *slog.Logger,
) (SwapService, error) {
	if swaps == nil {
		return nil, domain.NewValidationError("swaps", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &swapServiceImpl{
		db:       db,
		swaps:    swaps,
		items:    items,
		users:    users,
		logger:   log.With(slog.String("component", "swap_service")),
		txRunner: store.RunInTransaction,
	}, nil
}

// ProposeSwap implements SwapService.ProposeSwap.
func (s *swapServiceImpl) ProposeSwap(
	ctx context.Context,
	requesterID uuid.UUID,
	input ProposeSwapInput,
) (*domain.SwapRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrItemNotFound
		}
		return nil, NewSwapServiceError("propose_swap", "failed to load target item", err)
	}

	if !item.IsAvailable {
		return nil, ErrItemUnavailable
	}

	if item.UploaderID == requesterID {
		return nil, ErrSelfSwap
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, NewSwapServiceError("propose_swap", "failed to load requester", err)
	}

	points := input.PointsOffered
	if input.UsePoints {
		if points <= 0 {
			points = item.PointsValue
		}
		if requester.Points < points {
			log.Debug("proposal rejected: insufficient points",
				slog.String("requester_id", requesterID.String()),
				slog.Int("balance", requester.Points),
				slog.Int("points_offered", points))
			return nil, ErrInsufficientPoints
		}
	}

	var offeredTitle string
	if input.OfferedItemID != nil {
		offered, err := s.items.GetByID(ctx, *input.OfferedItemID)
		switch {
		case err == nil:
			offeredTitle = offered.Title
		case store.IsNotFoundError(err):
			// The offered item is an optional reference; a stale ID just
			// leaves the title snapshot empty.
			log.Debug("offered item not found at proposal time",
				slog.String("offered_item_id", input.OfferedItemID.String()))
		default:
			return nil, NewSwapServiceError("propose_swap", "failed to load offered item", err)
		}
	}

	swap, err := domain.NewSwapRequest(
		requesterID,
		requester.Name,
		item.UploaderID,
		item.ID,
		item.Title,
		input.OfferedItemID,
		offeredTitle,
		input.UsePoints,
		points,
		input.Message,
	)
	if err != nil {
		return nil, err
	}

	if err := s.swaps.Create(ctx, swap); err != nil {
		log.Error("failed to save swap request",
			slog.String("error", err.Error()),
			slog.String("requester_id", requesterID.String()),
			slog.String("item_id", item.ID.String()))
		return nil, NewSwapServiceError("propose_swap", "failed to save swap request", err)
	}

	log.Info("swap request created",
		slog.String("swap_id", swap.ID.String()),
		slog.String("requester_id", requesterID.String()),
		slog.String("item_id", item.ID.String()),
		slog.Bool("use_points", swap.UsePoints))

	return swap, nil
}

// DecideSwap implements SwapService.DecideSwap.
func (s *swapServiceImpl) DecideSwap(
	ctx context.Context,
	swapID, actorID uuid.UUID,
	newStatus domain.SwapStatus,
) (*domain.SwapRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch newStatus {
	case domain.SwapStatusAccepted,
		domain.SwapStatusDeclined,
		domain.SwapStatusCompleted,
		domain.SwapStatusCancelled:
	default:
		return nil, domain.NewValidationError("status", "is not a valid decision", domain.ErrValidation)
	}

	var decided *domain.SwapRequest

	err := s.txRunner(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSwaps := s.swaps.WithTx(tx)

		swap, err := txSwaps.GetForUpdate(ctx, swapID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return store.ErrSwapNotFound
			}
			return NewSwapServiceError("decide_swap", "failed to lock swap request", err)
		}

		if swap.OwnerID != actorID {
			return ErrNotOwned
		}

		// One-shot guard: only a pending request can be decided, and the row
		// lock above means two concurrent decisions serialize here.
		if !swap.IsDecidable() {
			return ErrInvalidTransition
		}

		if newStatus == domain.SwapStatusAccepted {
			if err := s.settle(ctx, tx, swap, log); err != nil {
				return err
			}
		}

		if err := txSwaps.UpdateStatus(ctx, swap.ID, newStatus); err != nil {
			return NewSwapServiceError("decide_swap", "failed to update swap status", err)
		}

		swap.Status = newStatus
		decided = swap
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("swap request decided",
		slog.String("swap_id", swapID.String()),
		slog.String("actor_id", actorID.String()),
		slog.String("status", string(newStatus)))

	return decided, nil
}

// settle applies the side effects of accepting a swap inside the caller's
// transaction: the points transfer and swap-count increments (points swaps
// only), availability flips, and auto-decline of competing pending
// proposals. Direct trades touch no user records. The status update itself
// stays with the caller so it remains the final write.
func (s *swapServiceImpl) settle(
	ctx context.Context,
	tx *sql.Tx,
	swap *domain.SwapRequest,
	log *slog.Logger,
) error {
	txItems := s.items.WithTx(tx)
	txUsers := s.users.WithTx(tx)
	txSwaps := s.swaps.WithTx(tx)

	item, err := txItems.GetForUpdate(ctx, swap.ItemID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrItemNotFound
		}
		return NewSwapServiceError("decide_swap", "failed to lock target item", err)
	}
	if !item.IsAvailable {
		return ErrItemUnavailable
	}

	if swap.UsePoints {
		// Lock both balances in ID order so two settlements touching the same
		// pair of users cannot deadlock.
		first, second := swap.RequesterID, swap.OwnerID
		if bytes.Compare(second[:], first[:]) < 0 {
			first, second = second, first
		}
		for _, id := range []uuid.UUID{first, second} {
			if _, err := txUsers.GetForUpdate(ctx, id); err != nil {
				if store.IsNotFoundError(err) {
					return store.ErrUserNotFound
				}
				return NewSwapServiceError("decide_swap", "failed to lock user balance", err)
			}
		}

		// Balances may have changed since the proposal; re-check before the
		// transfer rather than trusting the proposal-time check.
		requester, err := txUsers.GetByID(ctx, swap.RequesterID)
		if err != nil {
			return NewSwapServiceError("decide_swap", "failed to load requester balance", err)
		}
		if requester.Points < swap.PointsOffered {
			log.Debug("settlement rejected: balance no longer covers offer",
				slog.String("swap_id", swap.ID.String()),
				slog.Int("balance", requester.Points),
				slog.Int("points_offered", swap.PointsOffered))
			return ErrInsufficientPoints
		}

		if err := txUsers.AdjustBalance(ctx, swap.RequesterID, -swap.PointsOffered, 1); err != nil {
			return NewSwapServiceError("decide_swap", "failed to debit requester", err)
		}
		if err := txUsers.AdjustBalance(ctx, swap.OwnerID, swap.PointsOffered, 1); err != nil {
			return NewSwapServiceError("decide_swap", "failed to credit owner", err)
		}
	}

	if err := txItems.SetAvailability(ctx, swap.ItemID, false); err != nil {
		return NewSwapServiceError("decide_swap", "failed to mark item unavailable", err)
	}

	if swap.OfferedItemID != nil {
		err := txItems.SetAvailability(ctx, *swap.OfferedItemID, false)
		if err != nil && !errors.Is(err, store.ErrItemNotFound) {
			// The offered item may have been deleted since the proposal; that
			// does not block settlement.
			return NewSwapServiceError("decide_swap", "failed to mark offered item unavailable", err)
		}
	}

	declined, err := txSwaps.DeclinePendingForItem(ctx, swap.ItemID, swap.ID)
	if err != nil {
		return NewSwapServiceError("decide_swap", "failed to decline competing requests", err)
	}
	if declined > 0 {
		log.Info("auto-declined competing swap requests",
			slog.String("swap_id", swap.ID.String()),
			slog.String("item_id", swap.ItemID.String()),
			slog.Int64("declined", declined))
	}

	return nil
}

// ListSwapsForUser implements SwapService.ListSwapsForUser.
func (s *swapServiceImpl) ListSwapsForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.SwapRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	swaps, err := s.swaps.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list swap requests",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewSwapServiceError("list_swaps", "failed to list swap requests", err)
	}

	return swaps, nil
}
