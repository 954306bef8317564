package campaigner

import (
	"errors"
	"fmt"
)

// Predefined sentinel errors for common cases.
var (
	// ErrCampaignNotFound indicates the named campaign folder does not exist.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrNoContacts indicates the contact list loaded empty.
	ErrNoContacts = errors.New("contact list is empty")
)

// FormatError represents a malformed template or contact file. It is fatal:
// a run aborts before any send when loading produces one.
type FormatError struct {
	// File is the path of the offending file.
	File string

	// Reason describes what is malformed.
	Reason string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("format error in %s: %s", e.File, e.Reason)
	}
	return "format error: " + e.Reason
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *FormatError) Is(target error) bool {
	_, ok := target.(*FormatError)
	return ok
}

// NewFormatError creates a new format error.
func NewFormatError(file, reason string) *FormatError {
	return &FormatError{File: file, Reason: reason}
}

// ConfigError represents a missing or invalid environment-supplied
// configuration value. It is fatal at startup.
type ConfigError struct {
	// Var is the environment variable concerned.
	Var string

	// Reason describes what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s %s", e.Var, e.Reason)
}

// Is implements error matching for errors.Is.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError creates a new config error.
func NewConfigError(envVar, reason string) *ConfigError {
	return &ConfigError{Var: envVar, Reason: reason}
}
