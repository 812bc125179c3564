package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rewear-app/rewear-api/internal/config"
	"github.com/rewear-app/rewear-api/internal/platform/media"
	"github.com/rewear-app/rewear-api/internal/platform/postgres"
	"github.com/rewear-app/rewear-api/internal/service"
	"github.com/rewear-app/rewear-api/internal/service/auth"
)

// application holds the shared dependencies for the HTTP server: the
// configuration, database handle, file store and the service layer built on
// top of them.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	files  *media.FileStore

	jwtService   auth.JWTService
	userService  service.UserService
	itemService  service.ItemService
	swapService  service.SwapService
	statsService service.StatsService
}

// newApplication connects to the database, applies pending migrations and
// wires stores, services and supporting infrastructure together.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		closeDatabase(db, log)
		return nil, err
	}

	files, err := media.NewFileStore(cfg.Upload.Dir, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to set up upload store: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to set up JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	itemStore := postgres.NewPostgresItemStore(db, log)
	swapStore := postgres.NewPostgresSwapStore(db, log)

	userService, err := service.NewUserService(
		userStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		log,
	)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	itemService, err := service.NewItemService(itemStore, userStore, files, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create item service: %w", err)
	}

	swapService, err := service.NewSwapService(db, swapStore, itemStore, userStore, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create swap service: %w", err)
	}

	statsService, err := service.NewStatsService(userStore, itemStore, swapStore, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	return &application{
		config:       cfg,
		logger:       log,
		db:           db,
		files:        files,
		jwtService:   jwtService,
		userService:  userService,
		itemService:  itemService,
		swapService:  swapService,
		statsService: statsService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

func closeDatabase(db *sql.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database connection", "error", err)
	}
}
