package verify_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figcheck/internal/verify"
)

func fiveClaims() []verify.Claim {
	return []verify.Claim{
		{ReportedValue: "1,234百万円", Operands: []string{"2,000百万円", "766百万円"}, Operation: "subtract"},
		{ReportedValue: "1,230百万円", Operands: []string{"1,234百万円"}, Operation: "sum"},
		{ReportedValue: "500", Operands: []string{"200", "###"}, Operation: "sum"},
		{ReportedValue: "900百万円", Operands: []string{"1,234百万円"}, Operation: "sum"},
		{ReportedValue: "12.5%", Operands: []string{"125", "1,000"}, Operation: "divide_as_percentage"},
	}
}

func TestBatchVerifier_IsolatesFailures(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run("workers="+strconv.Itoa(workers), func(t *testing.T) {
			b := verify.NewBatchVerifier(newVerifier(), workers)
			verdicts := b.VerifyAll(fiveClaims())

			require.Len(t, verdicts, 5)
			assert.Equal(t, verify.StatusConfirmed, verdicts[0].Status)
			assert.Equal(t, verify.StatusMinorDiscrepancy, verdicts[1].Status)
			assert.Equal(t, verify.StatusUnverifiable, verdicts[2].Status)
			assert.Equal(t, verify.FailureParse, verdicts[2].Failure)
			assert.Contains(t, verdicts[2].Trace, `"###"`)
			assert.Equal(t, verify.StatusContradicted, verdicts[3].Status)
			assert.Equal(t, verify.StatusConfirmed, verdicts[4].Status)
		})
	}
}

func TestBatchVerifier_PreservesOrder(t *testing.T) {
	claims := make([]verify.Claim, 200)
	for i := range claims {
		n := strconv.Itoa(i)
		claims[i] = verify.Claim{ReportedValue: n, Operands: []string{n}, Operation: "sum"}
	}

	verdicts := verify.NewBatchVerifier(newVerifier(), 8).VerifyAll(claims)

	require.Len(t, verdicts, len(claims))
	for i, v := range verdicts {
		require.NotNil(t, v.Computed, "claim %d", i)
		assert.Equal(t, strconv.Itoa(i), v.Computed.String())
		assert.Equal(t, verify.StatusConfirmed, v.Status)
	}
}

func TestBatchVerifier_Empty(t *testing.T) {
	verdicts := verify.NewBatchVerifier(newVerifier(), 2).VerifyAll(nil)
	assert.Empty(t, verdicts)
}

func TestSummarize(t *testing.T) {
	verdicts := verify.NewBatchVerifier(newVerifier(), 2).VerifyAll(fiveClaims())
	s := verify.Summarize(verdicts)

	assert.Equal(t, verify.Summary{
		Total:            5,
		Confirmed:        2,
		MinorDiscrepancy: 1,
		Contradicted:     1,
		Unverifiable:     1,
	}, s)
}
