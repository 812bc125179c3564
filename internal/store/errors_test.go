package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrUserNotFound))
	assert.True(t, IsNotFoundError(ErrItemNotFound))
	assert.True(t, IsNotFoundError(ErrSwapNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrItemNotFound)))

	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("something else")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrEmailExists)))

	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	wrapped := errors.New("connection reset")
	err := NewStoreError("item", "update", "could not flip availability", wrapped)

	assert.Contains(t, err.Error(), "update operation on item failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, wrapped)

	bare := NewStoreError("swap", "create", "ledger append failed", nil)
	assert.Equal(t, "create operation on swap failed: ledger append failed", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
