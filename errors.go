package hxtag

import (
	"errors"
	"fmt"

	"github.com/pthm/hxtag/lib/manifest"
)

// Sentinel errors for tag helper operations.
var (
	ErrInvalidArgument  = errors.New("hxtag: invalid argument")
	ErrNotFound         = errors.New("hxtag: component not found")
	ErrInvalidFormat    = errors.New("hxtag: invalid manifest format")
	ErrSignatureInvalid = errors.New("hxtag: manifest signature verification failed")
)

// ArgumentError describes a rejected constructor or registration argument.
// It always matches ErrInvalidArgument under errors.Is.
type ArgumentError struct {
	Param  string // parameter name, e.g. "additionalTags"
	Value  string // offending value, when there is one
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("hxtag: %s: %s %q", e.Param, e.Reason, e.Value)
	}
	return fmt.Sprintf("hxtag: %s: %s", e.Param, e.Reason)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// IsInvalidArgument checks if err is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// wrapManifestError wraps manifest package errors with hxtag sentinel errors.
func wrapManifestError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, manifest.ErrInvalidFormat) {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if errors.Is(err, manifest.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	return err
}
