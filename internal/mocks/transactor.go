package mocks

import (
	"context"

	"github.com/phrazzld/medcards-api/internal/store"
)

// MockTransactor implements store.Transactor by calling fn with a nil
// transaction. Store mocks ignore the transaction in WithTx.
type MockTransactor struct {
	// Err, when set, is returned instead of running fn.
	Err   error
	Calls int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTx implements the store.Transactor interface
func (m *MockTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
