package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	name, location, avatar string,
) (*domain.User, error) {
	args := m.Called(ctx, id, name, location, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) AdjustBalance(
	ctx context.Context,
	id uuid.UUID,
	pointsDelta, swapCountDelta int,
) error {
	args := m.Called(ctx, id, pointsDelta, swapCountDelta)
	return args.Error(0)
}

func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// WithTx returns the mock itself so transactional paths can be tested
// without a live database.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockItemStore mocks the store.ItemStore interface
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemStore) List(
	ctx context.Context,
	filter store.ItemFilter,
) ([]*domain.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func (m *MockItemStore) SetApproved(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockItemStore) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return m
}

// MockSwapStore mocks the store.SwapStore interface
type MockSwapStore struct {
	mock.Mock
}

func (m *MockSwapStore) Create(ctx context.Context, swap *domain.SwapRequest) error {
	args := m.Called(ctx, swap)
	return args.Error(0)
}

func (m *MockSwapStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.SwapRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapStore) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SwapRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.SwapRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SwapRequest), args.Error(1)
}

func (m *MockSwapStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.SwapStatus,
) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSwapStore) DeclinePendingForItem(
	ctx context.Context,
	itemID, accepted uuid.UUID,
) (int64, error) {
	args := m.Called(ctx, itemID, accepted)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSwapStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSwapStore) CountByStatus(ctx context.Context, status domain.SwapStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockSwapStore) WithTx(tx *sql.Tx) store.SwapStore {
	return m
}

// MockMediaRemover mocks the MediaRemover interface
type MockMediaRemover struct {
	mock.Mock
}

func (m *MockMediaRemover) Remove(urlPaths []string) {
	m.Called(urlPaths)
}

// fakeHasher is a deterministic PasswordHasher for tests.
type fakeHasher struct {
	err error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

// fakeVerifier accepts passwords matching the fakeHasher scheme.
type fakeVerifier struct{}

func (v *fakeVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return ErrInvalidCredentials
}
