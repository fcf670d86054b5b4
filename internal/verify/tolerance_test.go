package verify_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figcheck/internal/verify"
)

func judge(t *testing.T, computed, reported string, hint bool) verify.Judgement {
	t.Helper()
	return verify.DefaultTolerance().Judge(mustParse(t, computed), verify.ReadReported(reported), hint)
}

func TestJudge_AbsoluteAmounts(t *testing.T) {
	tests := []struct {
		name     string
		computed string
		reported string
		want     verify.Status
	}{
		{"exact match", "1234000000", "1,234百万円", verify.StatusConfirmed},
		{"exact match in base units", "1234000000", "1,234,000,000", verify.StatusConfirmed},
		{"rounded at million granularity", "1234000000", "1,230百万円", verify.StatusMinorDiscrepancy},
		{"far off", "1234000000", "900百万円", verify.StatusContradicted},
		{"within one yen", "1001", "1,000", verify.StatusMinorDiscrepancy},
		{"within one percent", "1005", "1,000", verify.StatusMinorDiscrepancy},
		{"beyond both bands", "1020", "1,000", verify.StatusContradicted},
		// One unit of the report's own granularity is enough, even at 50%.
		{"unit band masks relative error", "150000000", "1億円", verify.StatusMinorDiscrepancy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := judge(t, tt.computed, tt.reported, false)
			assert.Equal(t, tt.want, j.Status)
			require.NotNil(t, j.AbsoluteDifference)
			assert.Nil(t, j.PointDifference)
		})
	}
}

func TestJudge_Differences(t *testing.T) {
	j := judge(t, "1234000000", "1,230百万円", false)
	require.NotNil(t, j.AbsoluteDifference)
	require.NotNil(t, j.RelativeDifference)
	assertDecimal(t, "4000000", *j.AbsoluteDifference)
	assert.True(t, j.RelativeDifference.LessThan(decimal.RequireFromString("0.0033")))
	assert.True(t, j.RelativeDifference.GreaterThan(decimal.RequireFromString("0.0032")))
	assert.Equal(t, "difference 4,000,000 (0.33%)", j.Note)
}

func TestJudge_ReportedZero(t *testing.T) {
	j := judge(t, "0.5", "0", false)
	assert.Equal(t, verify.StatusMinorDiscrepancy, j.Status)
	assert.Nil(t, j.RelativeDifference)

	j = judge(t, "3", "0", false)
	assert.Equal(t, verify.StatusContradicted, j.Status)

	j = judge(t, "2000", "0千円", false)
	assert.Equal(t, verify.StatusContradicted, j.Status)

	j = judge(t, "999", "0千円", false)
	assert.Equal(t, verify.StatusMinorDiscrepancy, j.Status)
}

func TestJudge_Percentages(t *testing.T) {
	tests := []struct {
		name     string
		computed string
		reported string
		hint     bool
		want     verify.Status
		points   string
	}{
		{"half a point apart", "0.505", "50%", false, verify.StatusMinorDiscrepancy, "0.5"},
		{"ten points apart", "0.60", "50%", false, verify.StatusContradicted, "10"},
		{"exact", "0.5", "50%", false, verify.StatusConfirmed, "0"},
		{"exactly one point", "0.51", "50%", false, verify.StatusMinorDiscrepancy, "1"},
		{"hinted rate", "0.505", "0.50", true, verify.StatusMinorDiscrepancy, "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := judge(t, tt.computed, tt.reported, tt.hint)
			assert.Equal(t, tt.want, j.Status)
			require.NotNil(t, j.PointDifference)
			assertDecimal(t, tt.points, *j.PointDifference)
		})
	}
}

func TestJudge_HintedRateWithoutPercentSign(t *testing.T) {
	j := judge(t, "0.25", "25", true)
	assert.Equal(t, verify.StatusContradicted, j.Status)
	assert.Equal(t, "2,475 percentage points apart; reported value has no % sign and reads as a fraction above 1", j.Note)

	j = judge(t, "0.25", "0.3", true)
	assert.Equal(t, "5 percentage points apart", j.Note)

	j = judge(t, "0.25", "30%", true)
	assert.NotContains(t, j.Note, "no % sign")
}

func TestJudge_UnparsableReported(t *testing.T) {
	j := judge(t, "100", "n/a", false)
	assert.Equal(t, verify.StatusUnverifiable, j.Status)
	assert.Nil(t, j.AbsoluteDifference)
	assert.Contains(t, j.Note, "not interpretable as a number")
}

func TestJudge_CustomTolerance(t *testing.T) {
	strict := verify.Tolerance{
		Relative:         decimal.RequireFromString("0.001"),
		PercentagePoints: decimal.RequireFromString("0.1"),
	}

	j := strict.Judge(mustParse(t, "1005"), verify.ReadReported("1,000"), false)
	assert.Equal(t, verify.StatusContradicted, j.Status)

	j = strict.Judge(mustParse(t, "0.505"), verify.ReadReported("50%"), false)
	assert.Equal(t, verify.StatusContradicted, j.Status)
}
