package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FailureKind says why a claim could not be judged numerically.
type FailureKind string

const (
	FailureNone                 FailureKind = ""
	FailureParse                FailureKind = "parse_failure"
	FailureInsufficientOperands FailureKind = "insufficient_operands"
	FailureDivisionByZero       FailureKind = "division_by_zero"
	FailureUnsupportedOperation FailureKind = "unsupported_operation"
	FailureInternal             FailureKind = "internal"
)

// Claim is one producer assertion: ReportedValue equals Operation applied
// to Operands.
type Claim struct {
	ReportedValue  string
	Operands       []string
	Operation      string
	PercentageHint bool
}

// Verdict is the immutable outcome of verifying one claim.
type Verdict struct {
	Status             Status
	Failure            FailureKind
	Operation          Operation
	Computed           *ParsedAmount
	AbsoluteDifference *decimal.Decimal
	RelativeDifference *decimal.Decimal
	PointDifference    *decimal.Decimal
	Trace              string
}

// Verifier re-derives claimed figures and judges them.
type Verifier struct {
	tolerance Tolerance
}

// NewVerifier creates a Verifier using the given tolerance.
func NewVerifier(tolerance Tolerance) *Verifier {
	return &Verifier{tolerance: tolerance}
}

// Verify always returns a verdict; a panic while verifying becomes an
// Unverifiable verdict with FailureInternal.
func (v *Verifier) Verify(c Claim) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = Verdict{
				Status:  StatusUnverifiable,
				Failure: FailureInternal,
				Trace:   "internal verification error",
			}
		}
	}()
	return v.verify(c)
}

func (v *Verifier) verify(c Claim) Verdict {
	operands := make([]ParsedAmount, 0, len(c.Operands))
	for i, text := range c.Operands {
		a, err := Parse(text)
		if err != nil {
			return Verdict{
				Status:  StatusUnverifiable,
				Failure: FailureParse,
				Trace:   fmt.Sprintf("operand %d %q not interpretable as a number", i+1, text),
			}
		}
		operands = append(operands, a)
	}

	op, err := ParseOperation(c.Operation)
	if err != nil {
		return failedVerdict(err, 0, "")
	}

	computed, err := Evaluate(operands, op)
	if err != nil {
		return failedVerdict(err, op, renderOperands(operands, op))
	}

	reported := ReadReported(c.ReportedValue)
	j := v.tolerance.Judge(computed, reported, c.PercentageHint)

	failure := FailureNone
	if reported.Err != nil {
		failure = FailureParse
	}
	return Verdict{
		Status:             j.Status,
		Failure:            failure,
		Operation:          op,
		Computed:           &computed,
		AbsoluteDifference: j.AbsoluteDifference,
		RelativeDifference: j.RelativeDifference,
		PointDifference:    j.PointDifference,
		Trace:              renderTrace(operands, op, computed, reported, j),
	}
}

func failedVerdict(err error, op Operation, expr string) Verdict {
	verdict := Verdict{Status: StatusUnverifiable, Operation: op, Failure: FailureInternal, Trace: err.Error()}
	switch {
	case errors.Is(err, ErrUnsupportedOperation):
		verdict.Failure = FailureUnsupportedOperation
	case errors.Is(err, ErrInsufficientOperands):
		verdict.Failure = FailureInsufficientOperands
	case errors.Is(err, ErrDivisionByZero):
		verdict.Failure = FailureDivisionByZero
		if expr != "" {
			verdict.Trace = expr + ": division by zero"
		}
	}
	return verdict
}

// renderOperands renders the participating operands in infix form.
func renderOperands(operands []ParsedAmount, op Operation) string {
	used := participating(operands, op)
	parts := make([]string, len(used))
	for i, a := range used {
		parts[i] = FormatAmount(a)
	}
	return strings.Join(parts, " "+op.symbol()+" ")
}

func renderResult(computed ParsedAmount, op Operation) string {
	switch op {
	case OpDivideAsPercentage:
		q := computed.Value()
		return FormatDecimal(q.Round(displayPlaces)) + " (" + FormatPercent(q) + ")"
	case OpSum, OpSubtract, OpMultiply, OpDivide:
		return FormatAmount(computed)
	default:
		return computed.String()
	}
}

// renderTrace produces e.g.
// "2,000,000,000 − 766,000,000 = 1,234,000,000; reported 1,230百万円 (1,230,000,000): minor_discrepancy, difference 4,000,000 (0.33%)".
func renderTrace(operands []ParsedAmount, op Operation, computed ParsedAmount, reported Reported, j Judgement) string {
	var b strings.Builder
	b.WriteString(renderOperands(operands, op))
	b.WriteString(" = ")
	b.WriteString(renderResult(computed, op))
	b.WriteString("; ")

	if reported.Err != nil {
		b.WriteString(j.Note)
		return b.String()
	}

	b.WriteString("reported ")
	text := strings.TrimSpace(reported.Text)
	b.WriteString(text)
	if shown := FormatAmount(reported.Amount); shown != text {
		b.WriteString(" (" + shown + ")")
	}
	b.WriteString(": ")
	b.WriteString(string(j.Status))
	if j.Note != "" {
		b.WriteString(", ")
		b.WriteString(j.Note)
	}
	return b.String()
}
