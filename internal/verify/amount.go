package verify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedAmount is an exact signed value recovered from a document string.
// Percentage-notated amounts store the fraction, so "12.5%" holds 0.125.
type ParsedAmount struct {
	value      decimal.Decimal
	percentage bool
}

func newAmount(v decimal.Decimal) ParsedAmount {
	return ParsedAmount{value: v}
}

func newPercentage(fraction decimal.Decimal) ParsedAmount {
	return ParsedAmount{value: fraction, percentage: true}
}

// Value returns the exact decimal value.
func (a ParsedAmount) Value() decimal.Decimal { return a.value }

// IsPercentage reports whether the source was percentage-notated.
func (a ParsedAmount) IsPercentage() bool { return a.percentage }

// String returns the exact decimal value without grouping.
func (a ParsedAmount) String() string { return a.value.String() }

// Unit is a trailing currency-unit suffix and the power of ten it scales by.
type Unit struct {
	Suffix string
	exp    int32
}

// Multiplier returns the unit's scale factor (1, 1,000, 1,000,000 or 100,000,000).
func (u Unit) Multiplier() decimal.Decimal {
	return decimal.New(1, u.exp)
}

// BaseUnit is used when a string carries no recognised suffix.
var BaseUnit = Unit{}

var (
	UnitHundredMillionYen = Unit{Suffix: "億円", exp: 8}
	UnitMillionYen        = Unit{Suffix: "百万円", exp: 6}
	UnitThousandYen       = Unit{Suffix: "千円", exp: 3}
	UnitYen               = Unit{Suffix: "円", exp: 0}
)

// units is ordered longest suffix first so "百万円" never matches as "円".
var units = []Unit{
	UnitMillionYen,
	UnitHundredMillionYen,
	UnitThousandYen,
	UnitYen,
}

// Units returns the recognised suffixes, longest first.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// cutUnitSuffix strips the first matching unit suffix from s.
func cutUnitSuffix(s string) (string, Unit) {
	for _, u := range units {
		if rest, ok := strings.CutSuffix(s, u.Suffix); ok {
			return strings.TrimSpace(rest), u
		}
	}
	return s, BaseUnit
}

// ResolveUnit recovers the unit declared by the trailing suffix of s,
// regardless of whether the rest of s parses.
func ResolveUnit(s string) Unit {
	text := stripFootnotes(strings.TrimSpace(normalizeWidth(s)))
	if strings.HasSuffix(text, "%") {
		return BaseUnit
	}
	_, u := cutUnitSuffix(text)
	return u
}
