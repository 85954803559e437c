package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure returned by the services matches exactly one of
// these through errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrTransactionFailure = errors.New("transaction failure")
)

// Error describes a failed operation precisely enough to identify the violated
// precondition: which operation, which entity, which id or field.
type Error struct {
	Kind   error  // one of the Err* kinds above
	Op     string // e.g. "RecordSale"
	Entity string // "ingredient", "recipe", "sale"
	ID     string
	Field  string
	Msg    string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != "" {
			fmt.Fprintf(&b, " %s", e.ID)
		}
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidInput(op, field, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned by store implementations when a point lookup misses.
// Services re-tag it with their own operation name.
func NotFoundError(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// TransactionError wraps a store failure that aborted a transaction.
func TransactionError(msg string, err error) error {
	return &Error{Kind: ErrTransactionFailure, Msg: msg, Err: err}
}

// withOp stamps op onto err if it is a *Error without one, and classifies any
// other error as a transaction failure.
func withOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			cp := *e
			cp.Op = op
			return &cp
		}
		return err
	}
	return &Error{Kind: ErrTransactionFailure, Op: op, Err: err}
}

// KindOf returns the error kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, k := range []error{ErrInvalidInput, ErrNotFound, ErrInsufficientStock, ErrTransactionFailure} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
