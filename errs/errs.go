// Package errs defines the error taxonomy shared across the generator.
package errs

import (
	"errors"
	"fmt"
)

// ConfigError reports malformed or missing required structure in a
// configuration source (conversation card, persona card, modifier pool,
// vignette). It is fatal and surfaces before any generation work begins.
type ConfigError struct {
	Source string // file path or logical source name
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Source, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config creates a ConfigError without an underlying cause.
func Config(source, reason string) *ConfigError {
	return &ConfigError{Source: source, Reason: reason}
}

// ConfigWrap creates a ConfigError wrapping an underlying cause.
func ConfigWrap(source, reason string, err error) *ConfigError {
	return &ConfigError{Source: source, Reason: reason, Err: err}
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// UnknownCategoryError reports a requested modifier category that is absent
// from the pool. Non-fatal: selection proceeds with the remaining categories.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown modifier category %q", e.Category)
}
