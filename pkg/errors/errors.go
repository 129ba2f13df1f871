/*
Copyright 2025-2026 the eHalisaha Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package errors defines the failure classes raised by the harness.
// Configuration errors are fatal and never retried, setup timeouts mean the
// application or browser grid never became ready, and wait timeouts mean a
// UI condition never held.
package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrSetupTimeout is matched by every SetupTimeoutError.
	ErrSetupTimeout = errors.New("setup timeout")

	// ErrWaitTimeout is matched by every WaitTimeoutError.
	ErrWaitTimeout = errors.New("wait timeout")
)

// ConfigurationError is raised when a required value is absent or blank.
type ConfigurationError struct {
	// Name is the environment variable or setting name.
	Name string
	// Reason describes what is wrong with it.
	Reason string
}

// NewConfigurationError returns a configuration error for the named value.
func NewConfigurationError(name, reason string) *ConfigurationError {
	return &ConfigurationError{
		Name:   name,
		Reason: reason,
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Name)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// SetupTimeoutError is raised when a dependency does not become ready in time.
type SetupTimeoutError struct {
	// Component names the thing being waited for e.g. "App", "Selenium".
	Component string
	// Timeout is the deadline that elapsed.
	Timeout time.Duration
	// Last is the last observed response or error.
	Last string
}

// NewSetupTimeoutError returns a setup timeout for a component.
func NewSetupTimeoutError(component string, timeout time.Duration, last string) *SetupTimeoutError {
	return &SetupTimeoutError{
		Component: component,
		Timeout:   timeout,
		Last:      last,
	}
}

func (e *SetupTimeoutError) Error() string {
	return fmt.Sprintf("%s did not become ready within %s. Last: %s", e.Component, e.Timeout, e.Last)
}

func (e *SetupTimeoutError) Is(target error) bool {
	return target == ErrSetupTimeout
}

// WaitTimeoutError is raised when a page condition was never satisfied.
type WaitTimeoutError struct {
	// Condition describes the unmet condition.
	Condition string
	// Timeout is the deadline that elapsed.
	Timeout time.Duration
	// Cause is the last evaluation error, if any.
	Cause error
}

// NewWaitTimeoutError returns a wait timeout for the described condition.
func NewWaitTimeoutError(condition string, timeout time.Duration, cause error) *WaitTimeoutError {
	return &WaitTimeoutError{
		Condition: condition,
		Timeout:   timeout,
		Cause:     cause,
	}
}

func (e *WaitTimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("timed out after %s waiting for %s: %v", e.Timeout, e.Condition, e.Cause)
	}

	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
}

func (e *WaitTimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

func (e *WaitTimeoutError) Unwrap() error {
	return e.Cause
}

// IsConfiguration reports whether err is, or wraps, a configuration error.
func IsConfiguration(err error) bool {
	var target *ConfigurationError

	return errors.As(err, &target)
}

// IsSetupTimeout reports whether err is, or wraps, a setup timeout.
func IsSetupTimeout(err error) bool {
	var target *SetupTimeoutError

	return errors.As(err, &target)
}

// IsWaitTimeout reports whether err is, or wraps, a wait timeout.
func IsWaitTimeout(err error) bool {
	var target *WaitTimeoutError

	return errors.As(err, &target)
}
