package combiner

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration problems. These abort the run before the
// target file is created.
var (
	// ErrNoSources is returned when the glob patterns resolve to nothing.
	ErrNoSources = errors.New("no source files resolved")

	// ErrTooFewSources is returned when header auto-detection needs two
	// files but fewer are available and no fixed count was given.
	ErrTooFewSources = errors.New("need at least two source files to detect the header")

	// ErrTargetIsSource is returned when the target path is also one of the
	// resolved sources.
	ErrTargetIsSource = errors.New("target file is one of the source files")
)

// ConfigError wraps a configuration sentinel with the offending detail.
type ConfigError struct {
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v: %s", e.Cause, e.Detail)
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying sentinel.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a ConfigError for the given sentinel.
func NewConfigError(cause error, detail string) *ConfigError {
	return &ConfigError{Detail: detail, Cause: cause}
}

// TargetWriteError is fatal: the output file could not be created or a write
// failed mid-run. Partially written output is left in place.
type TargetWriteError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *TargetWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *TargetWriteError) Unwrap() error {
	return e.Cause
}

// IsConfigError checks whether err is any configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
