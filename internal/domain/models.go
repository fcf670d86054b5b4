package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CalculationClaim is one claim as received from the claim producer.
// Page, ItemPath and Commentary are passed through untouched.
type CalculationClaim struct {
	ClaimID       string          `json:"claim_id,omitempty"`
	ReportedValue string          `json:"reported_value"`
	Operands      []string        `json:"operands"`
	Operation     string          `json:"operation"`
	IsPercentage  Hint            `json:"is_percentage,omitempty"`
	Page          json.RawMessage `json:"page,omitempty"`
	ItemPath      string          `json:"item_path,omitempty"`
	Commentary    string          `json:"commentary,omitempty"`
}

// Hint is a booleanish producer flag. It accepts JSON booleans, numbers and
// strings such as "yes", "1", "percentage" or "rate".
type Hint bool

var truthyHints = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true, "on": true,
	"percentage": true, "percent": true, "pct": true, "rate": true, "ratio": true, "%": true,
}

func (h *Hint) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*h = false
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding hint: %w", err)
		}
		raw = s
	}
	*h = ParseHint(raw)
	return nil
}

// ParseHint interprets a booleanish text such as a spreadsheet cell.
func ParseHint(s string) Hint {
	return Hint(truthyHints[strings.ToLower(strings.TrimSpace(s))])
}

// ClaimResult is a claim augmented with its verification outcome. Commentary
// holds the producer's commentary with the verification trace appended.
type ClaimResult struct {
	ClaimID            string          `json:"claim_id,omitempty"`
	ReportedValue      string          `json:"reported_value"`
	Operands           []string        `json:"operands"`
	Operation          string          `json:"operation"`
	IsPercentage       Hint            `json:"is_percentage"`
	Page               json.RawMessage `json:"page,omitempty"`
	ItemPath           string          `json:"item_path,omitempty"`
	Commentary         string          `json:"commentary"`
	Verdict            string          `json:"verdict"`
	Status             ResultStatus    `json:"status"`
	Failure            string          `json:"failure,omitempty"`
	ComputedValue      *string         `json:"computed_value,omitempty"`
	AbsoluteDifference *string         `json:"absolute_difference,omitempty"`
	RelativeDifference *string         `json:"relative_difference,omitempty"`
	PointDifference    *string         `json:"point_difference,omitempty"`
	Trace              string          `json:"trace"`
}

// RunSummary counts results by verdict.
type RunSummary struct {
	Total            int `json:"total"`
	Confirmed        int `json:"confirmed"`
	MinorDiscrepancy int `json:"minor_discrepancy"`
	Contradicted     int `json:"contradicted"`
	Unverifiable     int `json:"unverifiable"`
}

// VerificationRun is a persisted batch of claims processed by the queue worker.
type VerificationRun struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	TenantID          uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Name              string          `db:"name" json:"name"`
	Status            RunStatus       `db:"status" json:"status"`
	Claims            json.RawMessage `db:"claims" json:"-"`
	Results           json.RawMessage `db:"results" json:"results,omitempty"`
	ClaimCount        int             `db:"claim_count" json:"claim_count"`
	ConfirmedCount    int             `db:"confirmed_count" json:"confirmed_count"`
	MinorCount        int             `db:"minor_count" json:"minor_count"`
	ContradictedCount int             `db:"contradicted_count" json:"contradicted_count"`
	UnverifiableCount int             `db:"unverifiable_count" json:"unverifiable_count"`
	Attempts          int             `db:"attempts" json:"attempts"`
	LastError         string          `db:"last_error" json:"last_error,omitempty"`
	ArchiveKey        string          `db:"archive_key" json:"archive_key,omitempty"`
	CreatedBy         uuid.UUID       `db:"created_by" json:"created_by"`
	CompletedAt       *time.Time      `db:"completed_at" json:"completed_at"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// ApplySummary copies summary counts onto the run.
func (r *VerificationRun) ApplySummary(s RunSummary) {
	r.ClaimCount = s.Total
	r.ConfirmedCount = s.Confirmed
	r.MinorCount = s.MinorDiscrepancy
	r.ContradictedCount = s.Contradicted
	r.UnverifiableCount = s.Unverifiable
}
