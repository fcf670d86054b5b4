package verify

import (
	"golang.org/x/sync/errgroup"
)

// BatchVerifier verifies claims independently and in parallel.
type BatchVerifier struct {
	verifier *Verifier
	workers  int
}

// NewBatchVerifier creates a BatchVerifier running at most workers claims at once.
func NewBatchVerifier(verifier *Verifier, workers int) *BatchVerifier {
	if workers < 1 {
		workers = 1
	}
	return &BatchVerifier{verifier: verifier, workers: workers}
}

// VerifyAll returns one verdict per claim, in input order. A claim that
// fails never affects its siblings.
func (b *BatchVerifier) VerifyAll(claims []Claim) []Verdict {
	verdicts := make([]Verdict, len(claims))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i := range claims {
		g.Go(func() error {
			verdicts[i] = b.verifier.Verify(claims[i])
			return nil
		})
	}
	_ = g.Wait()

	return verdicts
}

// Summary counts verdicts by status.
type Summary struct {
	Total            int `json:"total"`
	Confirmed        int `json:"confirmed"`
	MinorDiscrepancy int `json:"minor_discrepancy"`
	Contradicted     int `json:"contradicted"`
	Unverifiable     int `json:"unverifiable"`
}

// Summarize tallies verdicts.
func Summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for i := range verdicts {
		switch verdicts[i].Status {
		case StatusConfirmed:
			s.Confirmed++
		case StatusMinorDiscrepancy:
			s.MinorDiscrepancy++
		case StatusContradicted:
			s.Contradicted++
		case StatusUnverifiable:
			s.Unverifiable++
		}
	}
	return s
}
