package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"figcheck/internal/domain"
	"figcheck/internal/port"
)

type verificationRunRepo struct {
	db *sqlx.DB
}

// NewVerificationRunRepo creates a new PostgreSQL-backed VerificationRunRepository.
func NewVerificationRunRepo(db *sqlx.DB) port.VerificationRunRepository {
	return &verificationRunRepo{db: db}
}

func (r *verificationRunRepo) Create(ctx context.Context, run *domain.VerificationRun) error {
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	query := `INSERT INTO verification_runs (
		id, tenant_id, name, status, claims, claim_count,
		attempts, last_error, archive_key, created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.TenantID, run.Name, run.Status, run.Claims, run.ClaimCount,
		run.Attempts, run.LastError, run.ArchiveKey, run.CreatedBy, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("verificationRunRepo.Create: %w", err)
	}
	return nil
}

func (r *verificationRunRepo) GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, error) {
	var run domain.VerificationRun
	err := r.db.GetContext(ctx, &run,
		"SELECT * FROM verification_runs WHERE id = $1 AND tenant_id = $2", runID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("verificationRunRepo.GetByID: %w", err)
	}
	return &run, nil
}

// ListByTenant omits the claims and results payloads to keep listings small.
func (r *verificationRunRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.VerificationRun, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM verification_runs WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("verificationRunRepo.ListByTenant count: %w", err)
	}

	var runs []domain.VerificationRun
	err = r.db.SelectContext(ctx, &runs,
		`SELECT id, tenant_id, name, status, claim_count,
			confirmed_count, minor_count, contradicted_count, unverifiable_count,
			attempts, last_error, archive_key, created_by, completed_at, created_at, updated_at
		 FROM verification_runs WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("verificationRunRepo.ListByTenant: %w", err)
	}
	return runs, total, nil
}

func (r *verificationRunRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.VerificationRun, error) {
	var runs []domain.VerificationRun
	err := r.db.SelectContext(ctx, &runs,
		`UPDATE verification_runs SET
			status = $1, attempts = attempts + 1, updated_at = $2
		 WHERE id IN (
			SELECT id FROM verification_runs
			WHERE status = $3
			ORDER BY created_at ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.RunStatusProcessing, time.Now().UTC(), domain.RunStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("verificationRunRepo.ClaimQueued: %w", err)
	}
	return runs, nil
}

func (r *verificationRunRepo) SaveResults(ctx context.Context, run *domain.VerificationRun) error {
	run.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE verification_runs SET
			status = $1, results = $2, claim_count = $3,
			confirmed_count = $4, minor_count = $5, contradicted_count = $6, unverifiable_count = $7,
			last_error = $8, completed_at = $9, updated_at = $10
		 WHERE id = $11 AND tenant_id = $12`,
		run.Status, run.Results, run.ClaimCount,
		run.ConfirmedCount, run.MinorCount, run.ContradictedCount, run.UnverifiableCount,
		run.LastError, run.CompletedAt, run.UpdatedAt,
		run.ID, run.TenantID)
	if err != nil {
		return fmt.Errorf("verificationRunRepo.SaveResults: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *verificationRunRepo) Requeue(ctx context.Context, tenantID, runID uuid.UUID, reason string) error {
	return r.setStatus(ctx, "Requeue", tenantID, runID, domain.RunStatusQueued, reason)
}

func (r *verificationRunRepo) MarkFailed(ctx context.Context, tenantID, runID uuid.UUID, reason string) error {
	return r.setStatus(ctx, "MarkFailed", tenantID, runID, domain.RunStatusFailed, reason)
}

func (r *verificationRunRepo) setStatus(ctx context.Context, op string, tenantID, runID uuid.UUID, status domain.RunStatus, reason string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE verification_runs SET status = $1, last_error = $2, updated_at = $3
		 WHERE id = $4 AND tenant_id = $5`,
		status, reason, time.Now().UTC(), runID, tenantID)
	if err != nil {
		return fmt.Errorf("verificationRunRepo.%s: %w", op, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *verificationRunRepo) SetArchiveKey(ctx context.Context, tenantID, runID uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE verification_runs SET archive_key = $1, updated_at = $2
		 WHERE id = $3 AND tenant_id = $4`,
		key, time.Now().UTC(), runID, tenantID)
	if err != nil {
		return fmt.Errorf("verificationRunRepo.SetArchiveKey: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}
