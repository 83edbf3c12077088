package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotOwned,
		ErrForbidden,
		ErrSessionEnded,
		ErrInvalidRating,
		ErrThemeCategoryMismatch,
		ErrGenerationDisabled,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestServiceError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "with underlying error",
			err:      NewServiceError("user", "register", "failed to save user", errors.New("connection refused")),
			expected: "user service register failed: failed to save user: connection refused",
		},
		{
			name:     "without underlying error",
			err:      NewServiceError("card", "delete", "nothing to delete", nil),
			expected: "card service delete failed: nothing to delete",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	t.Parallel()

	storageErr := store.NewStoreError("card", "update", "write failed", errors.New("serialization failure"))
	err := NewServiceError("card", "update", "failed to update card", storageErr)

	assert.True(t, store.IsStorageError(err))
	var target *store.StoreError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "card", target.Entity)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		passThrough bool
	}{
		{name: "not found", err: store.ErrCardNotFound, passThrough: true},
		{name: "duplicate", err: store.ErrEmailExists, passThrough: true},
		{name: "in use", err: store.ErrCategoryHasCards, passThrough: true},
		{name: "invalid entity", err: fmt.Errorf("%w: bad reference", store.ErrInvalidEntity), passThrough: true},
		{name: "validation", err: domain.ErrCardQuestionEmpty, passThrough: true},
		{name: "not owned", err: ErrNotOwned, passThrough: true},
		{name: "session ended", err: ErrSessionEnded, passThrough: true},
		{name: "storage failure", err: store.NewStoreError("card", "get", "query failed", errors.New("eof"))},
		{name: "unknown", err: errors.New("boom")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := wrap("card", "get", "failed", tc.err)
			if tc.passThrough {
				assert.Same(t, tc.err, got)
				return
			}
			var serviceErr *ServiceError
			require.True(t, errors.As(got, &serviceErr))
			assert.ErrorIs(t, got, tc.err)
		})
	}

	assert.NoError(t, wrap("card", "get", "failed", nil))
}
