package verify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// displayPlaces bounds the fractional digits shown in traces. Stored values
// keep full precision.
const displayPlaces = 6

// FormatDecimal renders d with comma-grouped integer digits.
func FormatDecimal(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatAmount renders a for human-readable traces: grouped base units, or
// percentage points with a "%" suffix for percentage-notated amounts.
func FormatAmount(a ParsedAmount) string {
	if a.IsPercentage() {
		return FormatPercent(a.Value())
	}
	return FormatDecimal(a.Value().Round(displayPlaces))
}

// FormatPercent renders a fraction as percentage points, e.g. 0.125 as "12.5%".
func FormatPercent(fraction decimal.Decimal) string {
	return FormatDecimal(fraction.Shift(2).Round(displayPlaces-2)) + "%"
}

// Render writes value in the given unit, the inverse of Parse:
// Render(1234000000, UnitMillionYen) is "1,234百万円".
func Render(value decimal.Decimal, u Unit) string {
	return FormatDecimal(value.Shift(-u.exp)) + u.Suffix
}
