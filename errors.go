package main

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	errConfig  = errors.New("invalid configuration")
	errDomain  = errors.New("invalid domain")
	errNumeric = errors.New("numeric consistency")
	errDevice  = errors.New("device failure")
)

// ConfigError reports an invalid grid, spacing, step count or run parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return errConfig }

// DomainError reports a fill region outside the grid or a zero material constant.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain: %s: %s", e.Op, e.Reason)
}

func (e *DomainError) Unwrap() error { return errDomain }

// NumericConsistencyError reports an array whose shape or values do not match
// what the field layout requires.
type NumericConsistencyError struct {
	Array  string
	Reason string
}

func (e *NumericConsistencyError) Error() string {
	return fmt.Sprintf("numeric: %s: %s", e.Array, e.Reason)
}

func (e *NumericConsistencyError) Unwrap() error { return errNumeric }

// DeviceError wraps a failure of the execution queue or a transform backend.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device: %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the device sentinel and the underlying cause.
func (e *DeviceError) Unwrap() []error { return []error{errDevice, e.Err} }

// stepError pins a time-loop failure to the equation, axis and step that
// produced it. A partially applied step leaves the fields inconsistent, so the
// run must stop.
type stepError struct {
	Step     int
	Equation string
	Axis     axis
	Err      error
}

func (e *stepError) Error() string {
	if e.Equation == "barrier" {
		return fmt.Sprintf("step %d: barrier: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %d: %s%s update: %v", e.Step, e.Equation, e.Axis, e.Err)
}

func (e *stepError) Unwrap() error { return e.Err }

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func domainErrorf(op, format string, args ...any) error {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
