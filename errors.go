package qstree

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPath reports a key whose bracket structure cannot be
	// tokenized, such as dog[1]]. It aborts the whole parse.
	ErrMalformedPath = errors.New("malformed path")

	// ErrShapeConflict reports a pair that reaches a position already
	// materialized with an incompatible shape. It is only returned in strict
	// mode; otherwise the first writer's shape wins.
	ErrShapeConflict = errors.New("shape conflict")

	// ErrLimitExceeded reports a key nesting deeper, or indexing higher, than
	// the configured limits allow.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrInvalidOption reports an option constructed with an unusable value.
	ErrInvalidOption = errors.New("invalid option")
)

// PathError records the raw key and byte offset at which a pair was
// rejected.
type PathError struct {
	Key string
	Pos int
	Err error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("key %q at offset %d: %v", e.Key, e.Pos, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
