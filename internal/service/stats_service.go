package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/store"
)

// Stats is a point-in-time snapshot of marketplace totals. Counts are
// computed on demand; no caching.
type Stats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalItems     int `json:"totalItems"`
	PendingItems   int `json:"pendingItems"`
	TotalSwaps     int `json:"totalSwaps"`
	CompletedSwaps int `json:"completedSwaps"`
}

// StatsService aggregates marketplace totals for the admin dashboard.
type StatsService interface {
	// GetStats returns current marketplace totals.
	GetStats(ctx context.Context) (*Stats, error)
}

// statsServiceImpl implements the StatsService interface.
type statsServiceImpl struct {
	users  store.UserStore
	items  store.ItemStore
	swaps  store.SwapStore
	logger *slog.Logger
}

var _ StatsService = (*statsServiceImpl)(nil)

// NewStatsService creates a new StatsService.
// It returns an error if any of the required dependencies are nil.
func NewStatsService(
	users store.UserStore,
	items store.ItemStore,
	swaps store.SwapStore,
	log *slog.Logger,
) (StatsService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if swaps == nil {
		return nil, domain.NewValidationError("swaps", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &statsServiceImpl{
		users:  users,
		items:  items,
		swaps:  swaps,
		logger: log.With(slog.String("component", "stats_service")),
	}, nil
}

// GetStats implements StatsService.GetStats.
func (s *statsServiceImpl) GetStats(ctx context.Context) (*Stats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stats := &Stats{}
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalItems, err = s.items.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	if stats.PendingItems, err = s.items.CountPending(ctx); err != nil {
		return nil, fmt.Errorf("failed to count pending items: %w", err)
	}
	if stats.TotalSwaps, err = s.swaps.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count swaps: %w", err)
	}
	if stats.CompletedSwaps, err = s.swaps.CountByStatus(ctx, domain.SwapStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed swaps: %w", err)
	}

	log.Debug("stats computed",
		slog.Int("total_users", stats.TotalUsers),
		slog.Int("total_items", stats.TotalItems),
		slog.Int("pending_items", stats.PendingItems),
		slog.Int("total_swaps", stats.TotalSwaps),
		slog.Int("completed_swaps", stats.CompletedSwaps))

	return stats, nil
}
