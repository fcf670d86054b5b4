package verify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of fractional digits kept by quotients.
const divisionPrecision = 20

// Operation is the closed set of calculations a claim may name.
type Operation int

const (
	OpSum Operation = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
	// OpDivideAsPercentage divides like OpDivide; traces also show the
	// quotient as a percentage.
	OpDivideAsPercentage
)

// Operations lists every member of the enumeration.
func Operations() []Operation {
	return []Operation{OpSum, OpSubtract, OpMultiply, OpDivide, OpDivideAsPercentage}
}

func (o Operation) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	case OpDivideAsPercentage:
		return "divide_as_percentage"
	default:
		return "unknown"
	}
}

// symbol is the infix operator used in traces.
func (o Operation) symbol() string {
	switch o {
	case OpSum:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide, OpDivideAsPercentage:
		return "÷"
	default:
		return "?"
	}
}

// minOperands is how many operands the operation needs.
func (o Operation) minOperands() int {
	switch o {
	case OpSum:
		return 1
	case OpSubtract, OpMultiply, OpDivide, OpDivideAsPercentage:
		return 2
	default:
		return 0
	}
}

// arity is how many operands participate; -1 means all of them.
func (o Operation) arity() int {
	if o == OpSum {
		return -1
	}
	return 2
}

var operationAliases = map[string]Operation{
	"sum":                  OpSum,
	"add":                  OpSum,
	"addition":             OpSum,
	"total":                OpSum,
	"subtract":             OpSubtract,
	"subtraction":          OpSubtract,
	"difference":           OpSubtract,
	"minus":                OpSubtract,
	"multiply":             OpMultiply,
	"multiplication":       OpMultiply,
	"product":              OpMultiply,
	"times":                OpMultiply,
	"divide":               OpDivide,
	"division":             OpDivide,
	"ratio":                OpDivide,
	"quotient":             OpDivide,
	"divide_as_percentage": OpDivideAsPercentage,
	"percentage":           OpDivideAsPercentage,
	"percentage_of_total":  OpDivideAsPercentage,
	"percent_of_total":     OpDivideAsPercentage,
	"share":                OpDivideAsPercentage,
}

// ParseOperation maps a producer's free-form operation name onto the
// enumeration. Unknown names yield an *EvalError carrying the tag verbatim.
func ParseOperation(tag string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(tag))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if op, ok := operationAliases[key]; ok {
		return op, nil
	}
	return 0, &EvalError{Kind: ErrUnsupportedOperation, Operation: tag}
}

// Evaluate applies op to operands. Subtract, Multiply and the divisions use
// operands[0] and operands[1] only; extra operands are ignored.
func Evaluate(operands []ParsedAmount, op Operation) (ParsedAmount, error) {
	if op.minOperands() == 0 {
		return ParsedAmount{}, &EvalError{Kind: ErrUnsupportedOperation, Operation: op.String()}
	}
	if len(operands) < op.minOperands() {
		return ParsedAmount{}, &EvalError{
			Kind:      ErrInsufficientOperands,
			Operation: op.String(),
			Want:      op.minOperands(),
			Got:       len(operands),
		}
	}

	switch op {
	case OpSum:
		total := decimal.Zero
		for _, a := range operands {
			total = total.Add(a.value)
		}
		return withPercentage(total, allPercentage(operands)), nil
	case OpSubtract:
		a, b := operands[0], operands[1]
		return withPercentage(a.value.Sub(b.value), a.percentage && b.percentage), nil
	case OpMultiply:
		a, b := operands[0], operands[1]
		return withPercentage(a.value.Mul(b.value), a.percentage && b.percentage), nil
	case OpDivide, OpDivideAsPercentage:
		a, b := operands[0], operands[1]
		if b.value.IsZero() {
			return ParsedAmount{}, &EvalError{Kind: ErrDivisionByZero, Operation: op.String()}
		}
		q := a.value.DivRound(b.value, divisionPrecision)
		return withPercentage(q, op == OpDivideAsPercentage), nil
	default:
		return ParsedAmount{}, &EvalError{Kind: ErrUnsupportedOperation, Operation: op.String()}
	}
}

// participating returns the operands op actually reads.
func participating(operands []ParsedAmount, op Operation) []ParsedAmount {
	if n := op.arity(); n >= 0 && len(operands) > n {
		return operands[:n]
	}
	return operands
}

func withPercentage(v decimal.Decimal, percentage bool) ParsedAmount {
	if percentage {
		return newPercentage(v)
	}
	return newAmount(v)
}

func allPercentage(operands []ParsedAmount) bool {
	for _, a := range operands {
		if !a.percentage {
			return false
		}
	}
	return len(operands) > 0
}
