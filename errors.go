package richtext

import (
	"errors"
	"fmt"
)

// Module errors.
var (
	// ErrNoBuffer indicates an operation that requires content before any
	// has been set.
	ErrNoBuffer = errors.New("no buffer set")

	// ErrWatcherClosed indicates use of a stopped environment watcher.
	ErrWatcherClosed = errors.New("environment watcher closed")
)

// ParseError represents a failure to parse an environment file or an
// inline-markup source.
type ParseError struct {
	Path    string // Source path, or a synthetic name like "<markup>"
	Line    int    // 1-based line, 0 when unknown
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OperationError represents an error during a named operation against a
// target (a file path, an attachment identity).
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is, matching both the wrapper and the wrapped
// error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// WrapError wraps an error with a formatted message. Returns nil for a
// nil error.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
