// Package mocks provides mock implementations for testing lookup use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// MockPhoneResolver is a mock implementation of PhoneResolver for testing.
type MockPhoneResolver struct {
	mock.Mock
}

// ResolveByPhone mocks the ResolveByPhone method of PhoneResolver.
func (m *MockPhoneResolver) ResolveByPhone(ctx context.Context, phone, locationID string) (*domain.ClientRecord, error) {
	args := m.Called(ctx, phone, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientRecord), args.Error(1)
}

// MockClientDetails is a mock implementation of ClientDetails for testing.
type MockClientDetails struct {
	mock.Mock
}

// GetClientDetail mocks the GetClientDetail method of ClientDetails.
func (m *MockClientDetails) GetClientDetail(ctx context.Context, clientID, locationID string) (*domain.ClientRecord, error) {
	args := m.Called(ctx, clientID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientRecord), args.Error(1)
}

// MockProfileDiscoverer is a mock implementation of ProfileDiscoverer for testing.
type MockProfileDiscoverer struct {
	mock.Mock
}

// Discover mocks the Discover method of ProfileDiscoverer.
func (m *MockProfileDiscoverer) Discover(ctx context.Context, guardianID, guardianLastName, locationID string) ([]domain.LinkedProfile, int, error) {
	args := m.Called(ctx, guardianID, guardianLastName, locationID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LinkedProfile), args.Int(1), args.Error(2)
}
