// Package oxmlerr defines the error kinds shared across the engine.
//
// Kinds are sentinel values, not types: callers match them with errors.Is
// against an error built by Wrap, and every wrapped error still carries a
// %w chain down to the underlying cause.
package oxmlerr

import "fmt"

// Kind is one of the error categories from the error handling design.
type Kind string

const (
	PackageIO        Kind = "package_io"
	Codec            Kind = "codec"
	Schema           Kind = "schema"
	ConcurrentAccess Kind = "concurrent_access"
	NotFound         Kind = "not_found"
	Conflict         Kind = "conflict"
	Programmer       Kind = "programmer"
)

// Error wraps an underlying cause with a kind, a stage, and the file path
// (if any) the failure concerns.
type Error struct {
	Kind  Kind
	Stage string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, oxmlerr.Sentinel(oxmlerr.NotFound)) work by
// comparing kinds, since Kind is not itself an error.
func (e *Error) Is(target error) bool {
	if k, ok := target.(*Error); ok {
		return e.Kind == k.Kind
	}
	return false
}

// Wrap builds an *Error with the given kind, stage, and file path context.
func Wrap(kind Kind, stage, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Stage: stage, Path: path, Err: err}
}

// New builds a new *Error without an underlying cause, for cases where the
// failure originates here (e.g. a Programmer-kind misuse).
func New(kind Kind, stage, path, msg string) error {
	return &Error{Kind: kind, Stage: stage, Path: path, Err: fmt.Errorf("%s", msg)}
}

// Sentinel returns a bare *Error of the given kind, suitable only for use
// as a target with errors.Is (its Stage/Path/Err are empty).
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}
