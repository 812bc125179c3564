package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/service"
	"github.com/rewear-app/rewear-api/internal/service/auth"
	"github.com/rewear-app/rewear-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the service.UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(
	ctx context.Context,
	email, password, name string,
) (*domain.User, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input service.UpdateProfileInput,
) (*domain.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockItemService mocks the service.ItemService interface
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateItem(
	ctx context.Context,
	uploaderID uuid.UUID,
	input service.CreateItemInput,
) (*domain.Item, error) {
	args := m.Called(ctx, uploaderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemService) ListItems(
	ctx context.Context,
	filter store.ItemFilter,
) ([]*domain.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemService) ListPendingItems(ctx context.Context) ([]*domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemService) SetAvailability(
	ctx context.Context,
	id, actorID uuid.UUID,
	isAdmin, available bool,
) (*domain.Item, error) {
	args := m.Called(ctx, id, actorID, isAdmin, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemService) ApproveItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemService) DeleteItem(
	ctx context.Context,
	id, actorID uuid.UUID,
	isAdmin bool,
) error {
	args := m.Called(ctx, id, actorID, isAdmin)
	return args.Error(0)
}

// MockSwapService mocks the service.SwapService interface
type MockSwapService struct {
	mock.Mock
}

func (m *MockSwapService) ProposeSwap(
	ctx context.Context,
	requesterID uuid.UUID,
	input service.ProposeSwapInput,
) (*domain.SwapRequest, error) {
	args := m.Called(ctx, requesterID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapService) DecideSwap(
	ctx context.Context,
	swapID, actorID uuid.UUID,
	newStatus domain.SwapStatus,
) (*domain.SwapRequest, error) {
	args := m.Called(ctx, swapID, actorID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapService) ListSwapsForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.SwapRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SwapRequest), args.Error(1)
}

// MockStatsService mocks the service.StatsService interface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Stats), args.Error(1)
}

// stubJWTService issues a fixed token.
type stubJWTService struct {
	token string
	err   error
}

func (s *stubJWTService) GenerateToken(
	ctx context.Context,
	userID uuid.UUID,
	isAdmin bool,
) (string, error) {
	return s.token, s.err
}

func (s *stubJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}
