package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
//
// Tags and images are stored as JSONB string arrays, which keeps scanning
// uniform across the driver and lets the search query unnest tags with
// jsonb_array_elements_text.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

const itemColumns = `id, uploader_id, uploader_name, title, description, category, item_type, size, condition, tags, images, points_value, is_available, is_approved, location, created_at, updated_at`

// Create implements store.ItemStore.Create
// It saves a new item to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the uploader does not exist.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	images, err := json.Marshal(item.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UploaderID,
		item.UploaderName,
		item.Title,
		item.Description,
		item.Category,
		item.Type,
		item.Size,
		item.Condition,
		tags,
		images,
		item.PointsValue,
		item.IsAvailable,
		item.IsApproved,
		item.Location,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("uploader_id", item.UploaderID.String()))
		return MapError(err)
	}

	log.Info("item created successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("uploader_id", item.UploaderID.String()))
	return nil
}

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return s.scanItem(s.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate implements store.ItemStore.GetForUpdate
// It locks the item row for the remainder of the surrounding transaction.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return s.scanItem(s.db.QueryRowContext(ctx, query, id))
}

// likeEscaper neutralizes LIKE metacharacters so a search term matches as a
// plain substring. The queries use ESCAPE '\' to match.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// List implements store.ItemStore.List
// Filters compose conjunctively; the search term matches case-insensitively
// against the title, the description, or any tag. Results come back in
// insertion order.
func (s *PostgresItemStore) List(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = ''
		       OR title ILIKE '%' || $2 || '%' ESCAPE '\'
		       OR description ILIKE '%' || $2 || '%' ESCAPE '\'
		       OR EXISTS (
		           SELECT 1 FROM jsonb_array_elements_text(tags) AS tag
		           WHERE tag ILIKE '%' || $2 || '%' ESCAPE '\'
		       ))
		  AND ($3::boolean IS NULL OR is_approved = $3)
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(filter.Category), escapeLikePattern(filter.Search), filter.Approved)
	if err != nil {
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return items, nil
}

// SetAvailability implements store.ItemStore.SetAvailability
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE items SET is_available = $2, updated_at = $3 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, available, time.Now().UTC())
	if err != nil {
		log.Error("failed to set item availability",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "item"); err != nil {
		return store.ErrItemNotFound
	}

	log.Debug("item availability updated",
		slog.String("item_id", id.String()),
		slog.Bool("available", available))
	return nil
}

// SetApproved implements store.ItemStore.SetApproved
// The update is idempotent: re-approving an approved item is a no-op.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) SetApproved(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE items SET is_approved = TRUE, updated_at = $2 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		log.Error("failed to approve item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "item"); err != nil {
		return store.ErrItemNotFound
	}

	log.Info("item approved", slog.String("item_id", id.String()))
	return nil
}

// Delete implements store.ItemStore.Delete
// Swap ledger rows referencing the item are left untouched; they carry
// snapshot fields so history survives the deletion.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "item"); err != nil {
		return store.ErrItemNotFound
	}

	log.Info("item deleted", slog.String("item_id", id.String()))
	return nil
}

// Count implements store.ItemStore.Count
func (s *PostgresItemStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CountPending implements store.ItemStore.CountPending
func (s *PostgresItemStore) CountPending(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM items WHERE is_approved = FALSE`
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.ItemStore.WithTx
// It returns a new ItemStore bound to the provided transaction.
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresItemStore) scanItem(row *sql.Row) (*domain.Item, error) {
	item, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || store.IsNotFoundError(err) {
			return nil, store.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func scanItemRow(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var tags, images []byte

	err := row.Scan(
		&item.ID,
		&item.UploaderID,
		&item.UploaderName,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Type,
		&item.Size,
		&item.Condition,
		&tags,
		&images,
		&item.PointsValue,
		&item.IsAvailable,
		&item.IsApproved,
		&item.Location,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(tags, &item.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal(images, &item.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	return &item, nil
}
