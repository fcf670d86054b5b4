package verify

import (
	"errors"
	"fmt"
)

var (
	ErrNotANumber           = errors.New("not interpretable as a number")
	ErrInsufficientOperands = errors.New("insufficient operands")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// ParseError reports a string that yielded no numeric value.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%q %s", e.Input, ErrNotANumber)
	}
	return fmt.Sprintf("%q %s: %s", e.Input, ErrNotANumber, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrNotANumber }

// EvalError reports why an operation could not produce a value.
// Kind is one of ErrInsufficientOperands, ErrDivisionByZero or ErrUnsupportedOperation.
type EvalError struct {
	Kind      error
	Operation string
	Want      int
	Got       int
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case ErrInsufficientOperands:
		return fmt.Sprintf("%s requires at least %d operands, got %d", e.Operation, e.Want, e.Got)
	case ErrDivisionByZero:
		return fmt.Sprintf("%s: division by zero", e.Operation)
	case ErrUnsupportedOperation:
		return fmt.Sprintf("unsupported operation %q", e.Operation)
	default:
		return fmt.Sprintf("%s: %v", e.Operation, e.Kind)
	}
}

func (e *EvalError) Unwrap() error { return e.Kind }
