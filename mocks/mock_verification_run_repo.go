package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"figcheck/internal/domain"
)

// MockVerificationRunRepo is a mock implementation of port.VerificationRunRepository.
type MockVerificationRunRepo struct {
	mock.Mock
}

func (m *MockVerificationRunRepo) Create(ctx context.Context, run *domain.VerificationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockVerificationRunRepo) GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRun), args.Error(1)
}

func (m *MockVerificationRunRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.VerificationRun, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VerificationRun), args.Int(1), args.Error(2)
}

func (m *MockVerificationRunRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.VerificationRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VerificationRun), args.Error(1)
}

func (m *MockVerificationRunRepo) SaveResults(ctx context.Context, run *domain.VerificationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockVerificationRunRepo) Requeue(ctx context.Context, tenantID, runID uuid.UUID, reason string) error {
	args := m.Called(ctx, tenantID, runID, reason)
	return args.Error(0)
}

func (m *MockVerificationRunRepo) MarkFailed(ctx context.Context, tenantID, runID uuid.UUID, reason string) error {
	args := m.Called(ctx, tenantID, runID, reason)
	return args.Error(0)
}

func (m *MockVerificationRunRepo) SetArchiveKey(ctx context.Context, tenantID, runID uuid.UUID, key string) error {
	args := m.Called(ctx, tenantID, runID, key)
	return args.Error(0)
}
