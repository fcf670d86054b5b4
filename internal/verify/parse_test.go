package verify_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figcheck/internal/verify"
)

func mustParse(t *testing.T, s string) verify.ParsedAmount {
	t.Helper()
	a, err := verify.Parse(s)
	require.NoError(t, err, "parsing %q", s)
	return a
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w := decimal.RequireFromString(want)
	assert.True(t, w.Equal(got), "want %s, got %s", w, got)
}

func TestParse_Amounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"millions of yen", "1,234百万円", "1234000000"},
		{"triangle negative thousands", "△500千円", "-500000"},
		{"filled triangle negative", "▲1,000", "-1000"},
		{"parenthesised negative", "(500)", "-500"},
		{"full-width parentheses", "（500）", "-500"},
		{"parenthesised before unit", "(500)百万円", "-500000000"},
		{"hundred millions", "3.2億円", "320000000"},
		{"yen symbol", "¥1,234", "1234"},
		{"full-width digits and yen", "￥１，２３４円", "1234"},
		{"footnote marker", "1,234百万円※1", "1234000000"},
		{"asterisk footnote", "500*", "500"},
		{"explicit minus", "-766", "-766"},
		{"unicode minus", "−766", "-766"},
		{"own sign wins over triangle", "△-5", "-5"},
		{"leading decimal point", ".5", "0.5"},
		{"zero", "0", "0"},
		{"spaces around unit", "1,234 百万円", "1234000000"},
		{"lenient extraction", "約1,234百万円", "1234000000"},
		{"lenient keeps own sign", "approx. -12", "-12"},
		{"dollar amount", "US$1,500.25", "1500.25"},
		{"minus then space", "- 500", "-500"},
		{"unicode minus then space with unit", "− 1,234百万円", "-1234000000"},
		{"minus before parentheses", "-(500)", "-500"},
		{"minus before triangle", "-▲500", "-500"},
		{"minus before spaced yen", "-¥ 500", "-500"},
		{"explicit plus", "+ 500", "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)
			assertDecimal(t, tt.want, got.Value())
			assert.False(t, got.IsPercentage())
		})
	}
}

func TestParse_Percentages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12.5%", "0.125"},
		{"１２．５％", "0.125"},
		{"12.5 %", "0.125"},
		{"△3.0%", "-0.03"},
		{"100%※2", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustParse(t, tt.input)
			assertDecimal(t, tt.want, got.Value())
			assert.True(t, got.IsPercentage())
		})
	}
}

func TestParse_PercentIgnoresUnitMultiplier(t *testing.T) {
	got := mustParse(t, "5%円")
	assertDecimal(t, "0.05", got.Value())
	assert.True(t, got.IsPercentage())
}

func TestParse_Failures(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "—", "%", "百万円", "N/A", "-"} {
		t.Run(input, func(t *testing.T) {
			_, err := verify.Parse(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, verify.ErrNotANumber))

			var pe *verify.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, input, pe.Input)
		})
	}
}

func TestResolveUnit(t *testing.T) {
	tests := []struct {
		input string
		want  verify.Unit
	}{
		{"1,234百万円", verify.UnitMillionYen},
		{"3億円", verify.UnitHundredMillionYen},
		{"500千円", verify.UnitThousandYen},
		{"500円", verify.UnitYen},
		{"500", verify.BaseUnit},
		{"12%", verify.BaseUnit},
		{"1,234百万円※2", verify.UnitMillionYen},
		{"n/a百万円", verify.UnitMillionYen},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, verify.ResolveUnit(tt.input))
		})
	}
}

func TestUnit_Multiplier(t *testing.T) {
	assertDecimal(t, "1", verify.BaseUnit.Multiplier())
	assertDecimal(t, "1", verify.UnitYen.Multiplier())
	assertDecimal(t, "1000", verify.UnitThousandYen.Multiplier())
	assertDecimal(t, "1000000", verify.UnitMillionYen.Multiplier())
	assertDecimal(t, "100000000", verify.UnitHundredMillionYen.Multiplier())
}

func TestRender_RoundTrip(t *testing.T) {
	magnitudes := []string{"0", "1", "1234000000", "-766000000", "1234567.5", "0.001"}
	all := append(verify.Units(), verify.BaseUnit)

	for _, u := range all {
		for _, m := range magnitudes {
			value := decimal.RequireFromString(m)
			text := verify.Render(value, u)
			got, err := verify.Parse(text)
			require.NoError(t, err, "parsing %q", text)
			assert.True(t, value.Equal(got.Value()), "%s via %q gave %s", m, text, got.Value())
		}
	}
}

func TestRender_Format(t *testing.T) {
	assert.Equal(t, "1,234百万円", verify.Render(decimal.RequireFromString("1234000000"), verify.UnitMillionYen))
	assert.Equal(t, "-500千円", verify.Render(decimal.RequireFromString("-500000"), verify.UnitThousandYen))
}

func TestFormatDecimal(t *testing.T) {
	tests := map[string]string{
		"1234567.891": "1,234,567.891",
		"-1000":       "-1,000",
		"999":         "999",
		"0":           "0",
		"100000":      "100,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, verify.FormatDecimal(decimal.RequireFromString(in)), in)
	}
}
