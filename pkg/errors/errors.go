package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of a staging failure
type ErrorCode string

// Error codes for the three failure classes of the pipeline
const (
	// ErrUnknown is reported for errors that did not originate in stager
	ErrUnknown ErrorCode = "UNKNOWN"

	// ErrInvalidConfiguration means a declared path is not expressible as
	// stage-relative, escapes the stage root, or the configuration is malformed
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// ErrHarvestingFailed covers pre-stage validation and enumeration failures
	ErrHarvestingFailed ErrorCode = "HARVESTING_FAILED"

	// ErrStagingFailed means a filesystem operation against the stage failed
	ErrStagingFailed ErrorCode = "STAGING_FAILED"
)

// Description returns the human readable summary of a code
func (c ErrorCode) Description() string {
	switch c {
	case ErrInvalidConfiguration:
		return "error in the configuration"
	case ErrHarvestingFailed:
		return "preparing to stage failed"
	case ErrStagingFailed:
		return "staging failed"
	default:
		return "unknown failure"
	}
}

// StagingError is a single staging failure: a kind, optional context and an
// optional underlying cause
type StagingError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error renders "[CODE] message: cause". A missing message falls back to the
// code's description.
func (e *StagingError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.Description()
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying cause
func (e *StagingError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface. Two staging errors are the same when
// they share a code.
func (e *StagingError) Is(target error) bool {
	var targetErr *StagingError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

func build(code ErrorCode, wrapped error, message string) *StagingError {
	return &StagingError{
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
		Wrapped: wrapped,
	}
}

// New returns a StagingError of kind code.
func New(code ErrorCode, message string) *StagingError {
	return build(code, nil, message)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *StagingError {
	return build(code, nil, fmt.Sprintf(format, args...))
}

// Wrap attaches a kind and context to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *StagingError {
	if err == nil {
		return nil
	}
	return build(code, err, message)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *StagingError {
	if err == nil {
		return nil
	}
	return build(code, err, fmt.Sprintf(format, args...))
}

// WithDetail records a key/value pair for logs and tests. It returns e.
func (e *StagingError) WithDetail(key string, value interface{}) *StagingError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error, or any member of an Errors batch, has a
// specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &StagingError{Code: code})
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a
// StagingError. For a batch the first member's code is returned.
func GetErrorCode(err error) ErrorCode {
	var stagingErr *StagingError
	if errors.As(err, &stagingErr) {
		return stagingErr.Code
	}
	return ErrUnknown
}
