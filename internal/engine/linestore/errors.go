package linestore

import (
	"errors"
	"fmt"
)

// Errors returned by store operations.
var (
	// ErrOutOfRange indicates a mutation addressed a line that does not exist.
	ErrOutOfRange = errors.New("line out of range")

	// ErrReadOnly indicates a mutation was attempted on a read-only store.
	ErrReadOnly = errors.New("store is read-only")

	// ErrInvalidMode indicates an unknown put mode, mark or direction.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInconsistent indicates the storage hierarchy no longer agrees with
	// its counters. The store should be emergency-saved and discarded.
	ErrInconsistent = errors.New("internal inconsistency")
)

// RangeError reports an out-of-range mutation with a message suitable for
// showing to the user.
type RangeError struct {
	Op    string
	Line  int
	Lines int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: line %d is out of range (document has %d lines)", e.Op, e.Line, e.Lines)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// InconsistencyError reports a broken storage invariant.
type InconsistencyError struct {
	Op     string
	Line   int
	Detail string
}

func (e *InconsistencyError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("%s: internal inconsistency at line %d: %s", e.Op, e.Line, e.Detail)
	}
	return fmt.Sprintf("%s: internal inconsistency: %s", e.Op, e.Detail)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInconsistent
}

// IsInconsistent reports whether err signals a broken storage invariant.
func IsInconsistent(err error) bool {
	return errors.Is(err, ErrInconsistent)
}

func (s *Store) rangeError(op string, n int) error {
	return &RangeError{Op: op, Line: n, Lines: s.lines}
}

func (s *Store) inconsistent(op string, n int, format string, args ...any) error {
	err := &InconsistencyError{Op: op, Line: n, Detail: fmt.Sprintf(format, args...)}
	s.log.Error("%v", err)
	return err
}

func (s *Store) checkWritable() error {
	if !s.writable {
		return ErrReadOnly
	}
	return nil
}
