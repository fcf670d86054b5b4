package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"figcheck/internal/domain"
	"figcheck/internal/service"
)

// MockVerificationService is a mock implementation of service.VerificationService.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) VerifyBatch(claims []domain.CalculationClaim) ([]domain.ClaimResult, domain.RunSummary, error) {
	args := m.Called(claims)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RunSummary), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimResult), args.Get(1).(domain.RunSummary), args.Error(2)
}

func (m *MockVerificationService) SubmitRun(ctx context.Context, input *service.SubmitRunInput) (*domain.VerificationRun, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRun), args.Error(1)
}

func (m *MockVerificationService) ProcessRun(ctx context.Context, run *domain.VerificationRun, maxAttempts int) {
	m.Called(ctx, run, maxAttempts)
}

func (m *MockVerificationService) GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRun), args.Error(1)
}

func (m *MockVerificationService) ListRuns(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.VerificationRun, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VerificationRun), args.Int(1), args.Error(2)
}

// ExportRun writes the mocked third return value, when it is a string, to w.
func (m *MockVerificationService) ExportRun(ctx context.Context, tenantID, runID uuid.UUID, w io.Writer) (*domain.VerificationRun, error) {
	args := m.Called(ctx, tenantID, runID, w)
	if body, ok := args.Get(2).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRun), args.Error(1)
}

func (m *MockVerificationService) ArchiveRun(ctx context.Context, tenantID, runID uuid.UUID) (*service.ArchiveResult, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveResult), args.Error(1)
}
