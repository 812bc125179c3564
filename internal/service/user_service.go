package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/service/auth"
	"github.com/rewear-app/rewear-api/internal/store"
)

// UserServiceError is a custom error type for user service errors.
type UserServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for UserServiceError.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UserServiceError) Unwrap() error {
	return e.Err
}

// NewUserServiceError creates a new UserServiceError.
func NewUserServiceError(operation, message string, err error) *UserServiceError {
	return &UserServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UpdateProfileInput carries the profile fields a user may change. Empty
// fields are left untouched.
type UpdateProfileInput struct {
	Name     string
	Location string
	Avatar   string
}

// UserService manages user accounts: registration, credential checks, and
// profile maintenance. Token issuance stays with the API layer.
type UserService interface {
	// Register creates a new account with the starting points balance.
	// Returns store.ErrEmailExists if the email is already taken.
	Register(ctx context.Context, email, password, name string) (*domain.User, error)

	// Authenticate verifies the credentials and returns the matching user.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password,
	// without distinguishing the two.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetProfile retrieves a user by ID.
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateProfile applies the non-empty fields of input to the user's
	// profile and returns the updated record.
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(
	ctx context.Context,
	email, password, name string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewUserServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(email, hashed, name)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return nil, store.ErrEmailExists
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, NewUserServiceError("register", "failed to save user", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.Int("starting_points", user.Points))

	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Same error as a wrong password so responses do not reveal
			// which emails are registered.
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to load user for login", slog.String("error", err.Error()))
		return nil, NewUserServiceError("authenticate", "failed to load user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile implements UserService.GetProfile.
func (s *userServiceImpl) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, NewUserServiceError("get_profile", "failed to retrieve user", err)
	}
	return user, nil
}

// UpdateProfile implements UserService.UpdateProfile.
func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input UpdateProfileInput,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.UpdateProfile(ctx, id, input.Name, input.Location, input.Avatar)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, NewUserServiceError("update_profile", "failed to update profile", err)
	}

	log.Info("profile updated", slog.String("user_id", id.String()))
	return user, nil
}
