package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figcheck/internal/verify"
)

func newVerifier() *verify.Verifier {
	return verify.NewVerifier(verify.DefaultTolerance())
}

func TestVerify_ConfirmedSubtraction(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "1,234百万円",
		Operands:      []string{"2,000百万円", "766百万円"},
		Operation:     "subtract",
	})

	assert.Equal(t, verify.StatusConfirmed, v.Status)
	assert.Equal(t, verify.FailureNone, v.Failure)
	assert.Equal(t, verify.OpSubtract, v.Operation)
	require.NotNil(t, v.Computed)
	assertDecimal(t, "1234000000", v.Computed.Value())
	assert.Equal(t,
		"2,000,000,000 − 766,000,000 = 1,234,000,000; reported 1,234百万円 (1,234,000,000): confirmed",
		v.Trace)
}

func TestVerify_MinorDiscrepancy(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "1,230百万円",
		Operands:      []string{"1,000,000,000", "234,000,000"},
		Operation:     "sum",
	})

	assert.Equal(t, verify.StatusMinorDiscrepancy, v.Status)
	require.NotNil(t, v.AbsoluteDifference)
	require.NotNil(t, v.RelativeDifference)
	assertDecimal(t, "4000000", *v.AbsoluteDifference)
	assert.Contains(t, v.Trace, "1,000,000,000 + 234,000,000 = 1,234,000,000")
	assert.Contains(t, v.Trace, "minor_discrepancy, difference 4,000,000")
}

func TestVerify_PercentageOfTotal(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "12.5%",
		Operands:      []string{"125", "1,000"},
		Operation:     "percentage_of_total",
	})

	assert.Equal(t, verify.StatusConfirmed, v.Status)
	assert.Equal(t, verify.OpDivideAsPercentage, v.Operation)
	assert.Equal(t, "125 ÷ 1,000 = 0.125 (12.5%); reported 12.5%: confirmed", v.Trace)
	require.NotNil(t, v.PointDifference)
}

func TestVerify_HintedRate(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue:  "0.6",
		Operands:       []string{"30", "60"},
		Operation:      "divide",
		PercentageHint: true,
	})

	assert.Equal(t, verify.StatusContradicted, v.Status)
	require.NotNil(t, v.PointDifference)
	assertDecimal(t, "10", *v.PointDifference)
}

func TestVerify_UnparsableOperand(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "100",
		Operands:      []string{"40", "abc", "60"},
		Operation:     "sum",
	})

	assert.Equal(t, verify.StatusUnverifiable, v.Status)
	assert.Equal(t, verify.FailureParse, v.Failure)
	assert.Nil(t, v.Computed)
	assert.Equal(t, `operand 2 "abc" not interpretable as a number`, v.Trace)
}

func TestVerify_UnparsableReported(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "—",
		Operands:      []string{"1", "2"},
		Operation:     "sum",
	})

	assert.Equal(t, verify.StatusUnverifiable, v.Status)
	assert.Equal(t, verify.FailureParse, v.Failure)
	require.NotNil(t, v.Computed)
	assertDecimal(t, "3", v.Computed.Value())
	assert.Equal(t, `1 + 2 = 3; reported value "—" not interpretable as a number`, v.Trace)
}

func TestVerify_UnsupportedOperation(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "5",
		Operands:      []string{"1", "9"},
		Operation:     "median",
	})

	assert.Equal(t, verify.StatusUnverifiable, v.Status)
	assert.Equal(t, verify.FailureUnsupportedOperation, v.Failure)
	assert.Equal(t, `unsupported operation "median"`, v.Trace)
}

func TestVerify_InsufficientOperands(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "10",
		Operands:      []string{"10"},
		Operation:     "subtract",
	})

	assert.Equal(t, verify.StatusUnverifiable, v.Status)
	assert.Equal(t, verify.FailureInsufficientOperands, v.Failure)
	assert.Equal(t, "subtract requires at least 2 operands, got 1", v.Trace)
}

func TestVerify_DivisionByZero(t *testing.T) {
	v := newVerifier().Verify(verify.Claim{
		ReportedValue: "0",
		Operands:      []string{"100", "0"},
		Operation:     "divide",
	})

	assert.Equal(t, verify.StatusUnverifiable, v.Status)
	assert.Equal(t, verify.FailureDivisionByZero, v.Failure)
	assert.Nil(t, v.Computed)
	assert.Equal(t, "100 ÷ 0: division by zero", v.Trace)
}
