package verify

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status classifies a reported figure against its re-derivation.
type Status string

const (
	StatusConfirmed        Status = "confirmed"
	StatusMinorDiscrepancy Status = "minor_discrepancy"
	StatusContradicted     Status = "contradicted"
	StatusUnverifiable     Status = "unverifiable"
)

// Tolerance bounds what counts as a minor discrepancy.
type Tolerance struct {
	// Relative is the accepted |diff| / |reported| for amounts.
	Relative decimal.Decimal
	// PercentagePoints is the accepted gap for rates.
	PercentagePoints decimal.Decimal
}

// DefaultTolerance accepts 1% relative error, or one percentage point for rates.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Relative:         decimal.New(1, -2),
		PercentagePoints: decimal.New(1, 0),
	}
}

// Reported is a claim's reported figure together with the unit its own
// text declares. Err is set when the text held no number.
type Reported struct {
	Text   string
	Amount ParsedAmount
	Err    error
	Unit   Unit
}

// ReadReported parses the reported text and resolves its unit independently.
func ReadReported(text string) Reported {
	amount, err := Parse(text)
	return Reported{Text: text, Amount: amount, Err: err, Unit: ResolveUnit(text)}
}

// Judgement is the outcome of comparing a computed value with a reported one.
type Judgement struct {
	Status             Status
	AbsoluteDifference *decimal.Decimal
	RelativeDifference *decimal.Decimal
	// PointDifference is set on the percentage path only.
	PointDifference *decimal.Decimal
	Note            string
}

// Judge compares computed against reported. A percentage-notated report (or
// a claim hinted as a rate) is judged in percentage points; anything else is
// judged in amounts, where either the relative band or one unit of the
// report's own granularity is enough to count as a minor discrepancy.
func (t Tolerance) Judge(computed ParsedAmount, reported Reported, percentageHint bool) Judgement {
	if reported.Err != nil {
		return Judgement{
			Status: StatusUnverifiable,
			Note:   fmt.Sprintf("reported value %q not interpretable as a number", reported.Text),
		}
	}

	r := reported.Amount.Value()
	diff := computed.Value().Sub(r).Abs()
	j := Judgement{AbsoluteDifference: &diff}
	if !r.IsZero() {
		rel := diff.DivRound(r.Abs(), divisionPrecision)
		j.RelativeDifference = &rel
	}

	if percentageHint || reported.Amount.IsPercentage() {
		points := diff.Shift(2)
		j.PointDifference = &points
		switch {
		case diff.IsZero():
			j.Status = StatusConfirmed
		case points.LessThanOrEqual(t.PercentagePoints):
			j.Status = StatusMinorDiscrepancy
		default:
			j.Status = StatusContradicted
		}
		if !diff.IsZero() {
			j.Note = fmt.Sprintf("%s percentage points apart", FormatDecimal(points.Round(displayPlaces)))
			// A rate read as a fraction above 1 was likely written in percent without "%".
			if !reported.Amount.IsPercentage() && r.Abs().GreaterThan(decimal.NewFromInt(1)) {
				j.Note += "; reported value has no % sign and reads as a fraction above 1"
			}
		}
		return j
	}

	unitTolerance := reported.Unit.Multiplier()
	within := diff.LessThanOrEqual(unitTolerance)
	if j.RelativeDifference != nil && j.RelativeDifference.LessThanOrEqual(t.Relative) {
		within = true
	}
	switch {
	case diff.IsZero():
		j.Status = StatusConfirmed
	case within:
		j.Status = StatusMinorDiscrepancy
	default:
		j.Status = StatusContradicted
	}
	if !diff.IsZero() {
		j.Note = "difference " + FormatDecimal(diff.Round(displayPlaces))
		if j.RelativeDifference != nil {
			j.Note += " (" + FormatPercent(j.RelativeDifference.Round(4)) + ")"
		}
	}
	return j
}
