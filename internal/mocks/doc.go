// Package mocks provides centralized mock implementations for testing.
//
// Every mock exposes one function field per interface method. Unset fields
// fall back to a simple default: getters report the entity as not found,
// writers succeed and listings return nothing. WithTx returns the mock
// itself so transactional code can be exercised with a MockTransactor.
//
//	cards := &mocks.MockCardStore{
//	    GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
//	        return card, nil
//	    },
//	}
package mocks
