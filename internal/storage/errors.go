package storage

import (
	"errors"
	"fmt"
)

// Kind categorizes a storage failure.
type Kind int

const (
	KindInit Kind = iota
	KindRead
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error wraps a driver error with the failed operation and its kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage %s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a storage Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

func initErr(op string, err error) *Error {
	return &Error{Kind: KindInit, Op: op, Err: err}
}

func readErr(op string, err error) *Error {
	return &Error{Kind: KindRead, Op: op, Err: err}
}

func writeErr(op string, err error) *Error {
	return &Error{Kind: KindWrite, Op: op, Err: err}
}
