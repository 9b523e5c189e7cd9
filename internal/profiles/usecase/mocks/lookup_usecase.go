package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/keepitcut/linked-profiles/internal/profiles/usecase"
)

// MockLookupUseCase is a mock implementation of LookupUseCase for testing.
type MockLookupUseCase struct {
	mock.Mock
}

// Lookup mocks the Lookup method of LookupUseCase.
func (m *MockLookupUseCase) Lookup(ctx context.Context, input usecase.LookupInput) (*usecase.LookupResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LookupResult), args.Error(1)
}
