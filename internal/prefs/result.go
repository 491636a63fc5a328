package prefs

import (
	"errors"
	"fmt"
)

var (
	// ErrRead marks a failed read: medium unreachable or payload unparsable.
	ErrRead = errors.New("storage read failure")
	// ErrWrite marks a failed write.
	ErrWrite = errors.New("storage write failure")
	// ErrInvalid marks a write rejected before reaching the medium.
	ErrInvalid = errors.New("invalid record")
)

// StorageError carries the operation, key and cause of a swallowed failure.
// errors.Is matches both its kind (ErrRead, ErrWrite, ErrInvalid) and cause.
type StorageError struct {
	Op   string
	Key  string
	Kind error
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Source says where a read value came from.
type Source int

const (
	// SourceStored: decoded from the medium.
	SourceStored Source = iota
	// SourceSeeded: key was absent; the default was materialized.
	SourceSeeded
	// SourceDefault: key was absent and the type does not seed, or the read failed.
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceSeeded:
		return "seeded"
	case SourceDefault:
		return "default"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Result is the outcome of a read. Value is always usable; Err is the
// swallowed failure, if any, that forced a fallback.
type Result[T any] struct {
	Value  T
	Source Source
	Err    error
}

// Failed reports whether the value is a fallback for a failed read.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Outcome is the result of a write. Err is nil when the medium accepted the
// write. Callers may ignore it; nothing is retried.
type Outcome struct {
	Key string
	Err error
}

// OK reports whether the write reached the medium.
func (o Outcome) OK() bool {
	return o.Err == nil
}
