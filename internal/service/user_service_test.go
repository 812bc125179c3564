package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserServiceForTest(t *testing.T, users *MockUserStore) UserService {
	t.Helper()
	svc, err := NewUserService(users, &fakeHasher{}, &fakeVerifier{}, nil)
	require.NoError(t, err)
	return svc
}

func TestRegisterGrantsStartingPoints(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)

	assert.Equal(t, domain.StartingPoints, user.Points)
	assert.Equal(t, "hashed:s3cret", user.HashedPassword)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, 0, user.SwapCount)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(store.ErrEmailExists)

	_, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestRegisterInvalidEmail(t *testing.T) {
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	_, err := svc.Register(context.Background(), "not-an-email", "s3cret", "Alice")
	assert.Error(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthenticateSuccess(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	stored, err := domain.NewUser("alice@example.com", "hashed:s3cret", "Alice")
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)

	user, err := svc.Authenticate(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	stored, err := domain.NewUser("alice@example.com", "hashed:s3cret", "Alice")
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, store.ErrUserNotFound)

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := svc.Authenticate(ctx, "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	stored, err := domain.NewUser("alice@example.com", "hashed:pw", "Alice Cooper")
	require.NoError(t, err)
	stored.Location = "Hamburg"

	users.On("UpdateProfile", ctx, stored.ID, "Alice Cooper", "Hamburg", "").
		Return(stored, nil)

	user, err := svc.UpdateProfile(ctx, stored.ID, UpdateProfileInput{
		Name:     "Alice Cooper",
		Location: "Hamburg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hamburg", user.Location)
}

func TestUpdateProfileNotFound(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	svc := newUserServiceForTest(t, users)

	id := uuid.New()
	users.On("UpdateProfile", ctx, id, "", "", "").Return(nil, store.ErrUserNotFound)

	_, err := svc.UpdateProfile(ctx, id, UpdateProfileInput{})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
