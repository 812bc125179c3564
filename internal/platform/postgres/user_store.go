package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, email, hashed_password, name, points, swap_count, is_admin, avatar, location, created_at, updated_at`

// Create implements store.UserStore.Create
// It saves a new user to the database, handling domain validation.
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.Name,
		user.Points,
		user.SwapCount,
		user.IsAdmin,
		user.Avatar,
		user.Location,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("email", user.Email))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, email))
}

// GetForUpdate implements store.UserStore.GetForUpdate
// It locks the user row for the remainder of the surrounding transaction.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile implements store.UserStore.UpdateProfile
// Empty arguments leave the corresponding field unchanged.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	name, location, avatar string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    location = COALESCE(NULLIF($3, ''), location),
		    avatar = COALESCE(NULLIF($4, ''), avatar),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	user, err := s.scanUser(
		ctx,
		s.db.QueryRowContext(ctx, query, id, name, location, avatar, time.Now().UTC()),
	)
	if err != nil {
		return nil, err
	}

	log.Debug("user profile updated", slog.String("user_id", id.String()))
	return user, nil
}

// AdjustBalance implements store.UserStore.AdjustBalance
// The points CHECK constraint rejects updates that would drive the balance
// negative; that case surfaces as store.ErrUpdateFailed.
func (s *PostgresUserStore) AdjustBalance(
	ctx context.Context,
	id uuid.UUID,
	pointsDelta, swapCountDelta int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET points = points + $2,
		    swap_count = swap_count + $3,
		    updated_at = $4
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, pointsDelta, swapCountDelta, time.Now().UTC())
	if err != nil {
		if IsCheckConstraintViolation(err) {
			log.Warn("balance adjustment rejected by constraint",
				slog.String("user_id", id.String()),
				slog.Int("points_delta", pointsDelta))
			return fmt.Errorf("%w: balance cannot go negative", store.ErrUpdateFailed)
		}
		log.Error("failed to adjust balance",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		return store.ErrUserNotFound
	}

	log.Debug("balance adjusted",
		slog.String("user_id", id.String()),
		slog.Int("points_delta", pointsDelta),
		slog.Int("swap_count_delta", swapCountDelta))
	return nil
}

// Count implements store.UserStore.Count
func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.UserStore.WithTx
// It returns a new UserStore bound to the provided transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanUser reads a single user row, mapping the no-rows case to
// store.ErrUserNotFound.
func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Name,
		&user.Points,
		&user.SwapCount,
		&user.IsAdmin,
		&user.Avatar,
		&user.Location,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to scan user row",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &user, nil
}
