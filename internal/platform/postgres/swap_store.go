package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/store"
)

// PostgresSwapStore implements the store.SwapStore interface
// using a PostgreSQL database as the storage backend.
//
// item_id deliberately carries no foreign key: swap history must survive the
// deletion of the items it references, with the snapshot columns keeping the
// record legible.
type PostgresSwapStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSwapStore creates a new PostgreSQL implementation of the
// SwapStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresSwapStore(db store.DBTX, logger *slog.Logger) *PostgresSwapStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSwapStore{
		db:     db,
		logger: logger.With(slog.String("component", "swap_store")),
	}
}

// Ensure PostgresSwapStore implements store.SwapStore interface
var _ store.SwapStore = (*PostgresSwapStore)(nil)

const swapColumns = `id, requester_id, requester_name, owner_id, item_id, item_title, offered_item_id, offered_item_title, use_points, points_offered, message, status, created_at`

// Create implements store.SwapStore.Create
// It appends a new swap request to the ledger, handling domain validation.
func (s *PostgresSwapStore) Create(ctx context.Context, swap *domain.SwapRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := swap.Validate(); err != nil {
		log.Warn("swap validation failed during create",
			slog.String("error", err.Error()),
			slog.String("swap_id", swap.ID.String()))
		return err
	}

	var offeredItemID uuid.NullUUID
	if swap.OfferedItemID != nil {
		offeredItemID = uuid.NullUUID{UUID: *swap.OfferedItemID, Valid: true}
	}

	query := `
		INSERT INTO swap_requests (` + swapColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		swap.ID,
		swap.RequesterID,
		swap.RequesterName,
		swap.OwnerID,
		swap.ItemID,
		swap.ItemTitle,
		offeredItemID,
		swap.OfferedItemTitle,
		swap.UsePoints,
		swap.PointsOffered,
		swap.Message,
		swap.Status,
		swap.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create swap request",
			slog.String("error", err.Error()),
			slog.String("swap_id", swap.ID.String()),
			slog.String("item_id", swap.ItemID.String()))
		return MapError(err)
	}

	log.Info("swap request created",
		slog.String("swap_id", swap.ID.String()),
		slog.String("requester_id", swap.RequesterID.String()),
		slog.String("item_id", swap.ItemID.String()),
		slog.Bool("use_points", swap.UsePoints))
	return nil
}

// GetByID implements store.SwapStore.GetByID
// Returns store.ErrSwapNotFound if the swap request does not exist.
func (s *PostgresSwapStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1`
	return s.scanSwap(s.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate implements store.SwapStore.GetForUpdate
// It locks the swap row for the remainder of the surrounding transaction so
// concurrent decisions serialize on the pending check.
// Returns store.ErrSwapNotFound if the swap request does not exist.
func (s *PostgresSwapStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1 FOR UPDATE`
	return s.scanSwap(s.db.QueryRowContext(ctx, query, id))
}

// ListForUser implements store.SwapStore.ListForUser
// A user sees swaps they requested and swaps targeting items they own.
func (s *PostgresSwapStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.SwapRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE requester_id = $1 OR owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list swaps for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	swaps := []*domain.SwapRequest{}
	for rows.Next() {
		swap, err := scanSwapRow(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return swaps, nil
}

// UpdateStatus implements store.SwapStore.UpdateStatus
// Returns store.ErrSwapNotFound if the swap request does not exist.
func (s *PostgresSwapStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SwapStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE swap_requests SET status = $2 WHERE id = $1`,
		id,
		status,
	)
	if err != nil {
		log.Error("failed to update swap status",
			slog.String("error", err.Error()),
			slog.String("swap_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "swap request"); err != nil {
		return store.ErrSwapNotFound
	}

	log.Info("swap status updated",
		slog.String("swap_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// DeclinePendingForItem implements store.SwapStore.DeclinePendingForItem
// Competing pending proposals for the accepted item are declined so they are
// not left dangling against an unavailable item.
func (s *PostgresSwapStore) DeclinePendingForItem(ctx context.Context, itemID, accepted uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE swap_requests
		SET status = $3
		WHERE item_id = $1 AND id <> $2 AND status = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		itemID,
		accepted,
		domain.SwapStatusDeclined,
		domain.SwapStatusPending,
	)
	if err != nil {
		log.Error("failed to decline competing swap requests",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return 0, MapError(err)
	}

	declined, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	if declined > 0 {
		log.Info("declined competing swap requests",
			slog.String("item_id", itemID.String()),
			slog.Int64("count", declined))
	}
	return declined, nil
}

// Count implements store.SwapStore.Count
func (s *PostgresSwapStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swap_requests`).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CountByStatus implements store.SwapStore.CountByStatus
func (s *PostgresSwapStore) CountByStatus(ctx context.Context, status domain.SwapStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM swap_requests WHERE status = $1`
	if err := s.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.SwapStore.WithTx
// It returns a new SwapStore bound to the provided transaction.
func (s *PostgresSwapStore) WithTx(tx *sql.Tx) store.SwapStore {
	return &PostgresSwapStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresSwapStore) scanSwap(row *sql.Row) (*domain.SwapRequest, error) {
	swap, err := scanSwapRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || store.IsNotFoundError(err) {
			return nil, store.ErrSwapNotFound
		}
		return nil, err
	}
	return swap, nil
}

func scanSwapRow(row rowScanner) (*domain.SwapRequest, error) {
	var swap domain.SwapRequest
	var offeredItemID uuid.NullUUID
	var offeredItemTitle sql.NullString

	err := row.Scan(
		&swap.ID,
		&swap.RequesterID,
		&swap.RequesterName,
		&swap.OwnerID,
		&swap.ItemID,
		&swap.ItemTitle,
		&offeredItemID,
		&offeredItemTitle,
		&swap.UsePoints,
		&swap.PointsOffered,
		&swap.Message,
		&swap.Status,
		&swap.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, MapError(err)
	}

	if offeredItemID.Valid {
		id := offeredItemID.UUID
		swap.OfferedItemID = &id
	}
	swap.OfferedItemTitle = offeredItemTitle.String

	return &swap, nil
}
