package port

import (
	"context"

	"github.com/google/uuid"

	"figcheck/internal/domain"
)

// VerificationRunRepository defines the contract for verification run persistence.
// Lookups take tenantID to enforce tenant isolation at the data layer.
type VerificationRunRepository interface {
	Create(ctx context.Context, run *domain.VerificationRun) error
	GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.VerificationRun, int, error)
	// ClaimQueued atomically moves up to limit queued runs to processing,
	// incrementing their attempt counters, and returns them.
	ClaimQueued(ctx context.Context, limit int) ([]domain.VerificationRun, error)
	SaveResults(ctx context.Context, run *domain.VerificationRun) error
	Requeue(ctx context.Context, tenantID, runID uuid.UUID, reason string) error
	MarkFailed(ctx context.Context, tenantID, runID uuid.UUID, reason string) error
	SetArchiveKey(ctx context.Context, tenantID, runID uuid.UUID, key string) error
}
