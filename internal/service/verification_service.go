package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"figcheck/internal/csvexport"
	"figcheck/internal/domain"
	"figcheck/internal/port"
	"figcheck/internal/verify"
)

const defaultMaxRunAttempts = 3

// SubmitRunInput is the DTO for queueing a batch of claims.
type SubmitRunInput struct {
	TenantID  uuid.UUID
	CreatedBy uuid.UUID
	Name      string
	Claims    []domain.CalculationClaim
}

// ArchiveResult describes an uploaded run report.
type ArchiveResult struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// VerificationConfig holds the settings the verification service needs.
type VerificationConfig struct {
	Tolerance     verify.Tolerance
	Workers       int
	MaxClaims     int
	Bucket        string
	PresignExpiry int64
}

// VerificationService defines the claim verification contract.
type VerificationService interface {
	VerifyBatch(claims []domain.CalculationClaim) ([]domain.ClaimResult, domain.RunSummary, error)
	SubmitRun(ctx context.Context, input *SubmitRunInput) (*domain.VerificationRun, error)
	ProcessRun(ctx context.Context, run *domain.VerificationRun, maxAttempts int)
	GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, error)
	ListRuns(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.VerificationRun, int, error)
	ExportRun(ctx context.Context, tenantID, runID uuid.UUID, w io.Writer) (*domain.VerificationRun, error)
	ArchiveRun(ctx context.Context, tenantID, runID uuid.UUID) (*ArchiveResult, error)
}

type verificationService struct {
	runRepo port.VerificationRunRepository
	storage port.ObjectStorage // nil when archiving is not configured
	batch   *verify.BatchVerifier
	cfg     VerificationConfig
	logger  *zap.Logger
}

// NewVerificationService creates a new VerificationService implementation.
func NewVerificationService(
	runRepo port.VerificationRunRepository,
	storage port.ObjectStorage,
	cfg VerificationConfig,
	logger *zap.Logger,
) VerificationService {
	return &verificationService{
		runRepo: runRepo,
		storage: storage,
		batch:   verify.NewBatchVerifier(verify.NewVerifier(cfg.Tolerance), cfg.Workers),
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *verificationService) checkBatch(claims []domain.CalculationClaim) error {
	if len(claims) == 0 {
		return domain.ErrEmptyBatch
	}
	if s.cfg.MaxClaims > 0 && len(claims) > s.cfg.MaxClaims {
		return fmt.Errorf("%d claims exceeds limit of %d: %w", len(claims), s.cfg.MaxClaims, domain.ErrBatchTooLarge)
	}
	return nil
}

func (s *verificationService) VerifyBatch(claims []domain.CalculationClaim) ([]domain.ClaimResult, domain.RunSummary, error) {
	if err := s.checkBatch(claims); err != nil {
		return nil, domain.RunSummary{}, err
	}

	results, summary := VerifyClaims(s.batch, claims)
	return results, summary, nil
}

// VerifyClaims runs claims through the batch verifier and converts verdicts
// to claim results, preserving input order.
func VerifyClaims(batch *verify.BatchVerifier, claims []domain.CalculationClaim) ([]domain.ClaimResult, domain.RunSummary) {
	input := make([]verify.Claim, len(claims))
	for i := range claims {
		input[i] = verify.Claim{
			ReportedValue:  claims[i].ReportedValue,
			Operands:       claims[i].Operands,
			Operation:      claims[i].Operation,
			PercentageHint: bool(claims[i].IsPercentage),
		}
	}

	verdicts := batch.VerifyAll(input)

	results := make([]domain.ClaimResult, len(claims))
	for i := range claims {
		results[i] = newClaimResult(&claims[i], &verdicts[i])
	}

	sum := verify.Summarize(verdicts)
	return results, domain.RunSummary{
		Total:            sum.Total,
		Confirmed:        sum.Confirmed,
		MinorDiscrepancy: sum.MinorDiscrepancy,
		Contradicted:     sum.Contradicted,
		Unverifiable:     sum.Unverifiable,
	}
}

// newClaimResult copies the passthrough fields and appends the trace to the
// producer's commentary.
func newClaimResult(c *domain.CalculationClaim, v *verify.Verdict) domain.ClaimResult {
	r := domain.ClaimResult{
		ClaimID:            c.ClaimID,
		ReportedValue:      c.ReportedValue,
		Operands:           c.Operands,
		Operation:          c.Operation,
		IsPercentage:       c.IsPercentage,
		Page:               c.Page,
		ItemPath:           c.ItemPath,
		Commentary:         appendTrace(c.Commentary, v.Trace),
		Verdict:            string(v.Status),
		Status:             domain.ResultStatusFor(string(v.Status)),
		Failure:            string(v.Failure),
		AbsoluteDifference: decimalString(v.AbsoluteDifference),
		RelativeDifference: decimalString(v.RelativeDifference),
		PointDifference:    decimalString(v.PointDifference),
		Trace:              v.Trace,
	}
	if r.Operands == nil {
		r.Operands = []string{}
	}
	if v.Computed != nil {
		value := v.Computed.Value()
		r.ComputedValue = decimalString(&value)
	}
	return r
}

func appendTrace(commentary, trace string) string {
	line := "Verification: " + trace
	if commentary == "" {
		return line
	}
	return commentary + "\n" + line
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func (s *verificationService) SubmitRun(ctx context.Context, input *SubmitRunInput) (*domain.VerificationRun, error) {
	if err := s.checkBatch(input.Claims); err != nil {
		return nil, err
	}

	claimsJSON, err := json.Marshal(input.Claims)
	if err != nil {
		return nil, fmt.Errorf("encoding claims: %w", err)
	}

	run := &domain.VerificationRun{
		ID:         uuid.New(),
		TenantID:   input.TenantID,
		Name:       input.Name,
		Status:     domain.RunStatusQueued,
		Claims:     claimsJSON,
		ClaimCount: len(input.Claims),
		CreatedBy:  input.CreatedBy,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("creating verification run: %w", err)
	}

	s.logger.Info("verification run queued",
		zap.String("run_id", run.ID.String()),
		zap.String("tenant_id", run.TenantID.String()),
		zap.Int("claims", run.ClaimCount))
	return run, nil
}

// ProcessRun verifies a claimed run and stores its results. Malformed stored
// claims fail the run immediately; storage errors are retried until the
// run has used maxAttempts attempts.
func (s *verificationService) ProcessRun(ctx context.Context, run *domain.VerificationRun, maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxRunAttempts
	}
	log := s.logger.With(
		zap.String("run_id", run.ID.String()),
		zap.Int("attempt", run.Attempts))

	var claims []domain.CalculationClaim
	if err := json.Unmarshal(run.Claims, &claims); err != nil {
		s.failRun(ctx, run, fmt.Sprintf("%v: %v", domain.ErrInvalidClaims, err))
		return
	}

	results, summary, err := s.VerifyBatch(claims)
	if err != nil {
		s.failRun(ctx, run, err.Error())
		return
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		s.failRun(ctx, run, fmt.Sprintf("encoding results: %v", err))
		return
	}

	now := time.Now().UTC()
	run.Status = domain.RunStatusCompleted
	run.Results = resultsJSON
	run.ApplySummary(summary)
	run.LastError = ""
	run.CompletedAt = &now

	if err := s.runRepo.SaveResults(ctx, run); err != nil {
		s.retryOrFail(ctx, run, fmt.Sprintf("saving results: %v", err), maxAttempts)
		return
	}

	log.Info("verification run completed",
		zap.Int("confirmed", summary.Confirmed),
		zap.Int("minor_discrepancy", summary.MinorDiscrepancy),
		zap.Int("contradicted", summary.Contradicted),
		zap.Int("unverifiable", summary.Unverifiable))
}

func (s *verificationService) retryOrFail(ctx context.Context, run *domain.VerificationRun, reason string, maxAttempts int) {
	if run.Attempts >= maxAttempts {
		s.failRun(ctx, run, fmt.Sprintf("giving up after %d attempts: %s", run.Attempts, reason))
		return
	}
	s.logger.Warn("verification run requeued",
		zap.String("run_id", run.ID.String()),
		zap.Int("attempt", run.Attempts),
		zap.String("reason", reason))
	if err := s.runRepo.Requeue(ctx, run.TenantID, run.ID, reason); err != nil {
		s.logger.Error("requeueing verification run", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

func (s *verificationService) failRun(ctx context.Context, run *domain.VerificationRun, reason string) {
	s.logger.Error("verification run failed",
		zap.String("run_id", run.ID.String()),
		zap.String("reason", reason))
	run.Status = domain.RunStatusFailed
	run.LastError = reason
	if err := s.runRepo.MarkFailed(ctx, run.TenantID, run.ID, reason); err != nil {
		s.logger.Error("marking verification run failed", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

func (s *verificationService) GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, error) {
	return s.runRepo.GetByID(ctx, tenantID, runID)
}

func (s *verificationService) ListRuns(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.VerificationRun, int, error) {
	return s.runRepo.ListByTenant(ctx, tenantID, offset, limit)
}

// completedResults loads a run and decodes its results, refusing runs that
// have not finished.
func (s *verificationService) completedResults(ctx context.Context, tenantID, runID uuid.UUID) (*domain.VerificationRun, []domain.ClaimResult, error) {
	run, err := s.runRepo.GetByID(ctx, tenantID, runID)
	if err != nil {
		return nil, nil, err
	}
	if run.Status != domain.RunStatusCompleted {
		return nil, nil, domain.ErrRunNotCompleted
	}

	var results []domain.ClaimResult
	if len(run.Results) > 0 {
		if err := json.Unmarshal(run.Results, &results); err != nil {
			return nil, nil, fmt.Errorf("decoding results of run %s: %w", run.ID, err)
		}
	}
	return run, results, nil
}

// ExportRun writes the header and one CSV row per claim result of a completed run.
func (s *verificationService) ExportRun(ctx context.Context, tenantID, runID uuid.UUID, w io.Writer) (*domain.VerificationRun, error) {
	run, results, err := s.completedResults(ctx, tenantID, runID)
	if err != nil {
		return nil, err
	}
	if err := writeReport(w, results); err != nil {
		return nil, fmt.Errorf("writing report for run %s: %w", run.ID, err)
	}
	return run, nil
}

func writeReport(w io.Writer, results []domain.ClaimResult) error {
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteResults(results); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ArchiveRun uploads the run's report under runs/{tenant}/{run}.csv and
// returns a presigned download URL.
func (s *verificationService) ArchiveRun(ctx context.Context, tenantID, runID uuid.UUID) (*ArchiveResult, error) {
	if s.storage == nil || s.cfg.Bucket == "" {
		return nil, domain.ErrArchiveUnavailable
	}

	run, results, err := s.completedResults(ctx, tenantID, runID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	if err := writeReport(&buf, results); err != nil {
		return nil, fmt.Errorf("writing report for run %s: %w", run.ID, err)
	}

	key := fmt.Sprintf("runs/%s/%s.csv", run.TenantID, run.ID)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:             s.cfg.Bucket,
		Key:                key,
		Body:               &buf,
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename(run.Name)),
	})
	if err != nil {
		return nil, errors.Join(domain.ErrArchiveFailed, err)
	}

	if err := s.runRepo.SetArchiveKey(ctx, run.TenantID, run.ID, key); err != nil {
		// An earlier archive under the same key is still referenced by the run.
		if run.ArchiveKey != key {
			s.discardArchive(ctx, run, key)
		}
		return nil, fmt.Errorf("recording archive key: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning archived report: %w", err)
	}

	s.logger.Info("verification run archived",
		zap.String("run_id", run.ID.String()),
		zap.String("key", key))
	return &ArchiveResult{Key: key, URL: url, ExpiresIn: s.cfg.PresignExpiry}, nil
}

// discardArchive removes an uploaded report whose key could not be recorded.
func (s *verificationService) discardArchive(ctx context.Context, run *domain.VerificationRun, key string) {
	if err := s.storage.Delete(ctx, s.cfg.Bucket, key); err != nil {
		s.logger.Warn("failed to delete unrecorded archive",
			zap.String("run_id", run.ID.String()),
			zap.String("key", key),
			zap.Error(err))
	}
}
