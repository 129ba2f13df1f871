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

// Package poll provides the bounded retry loop every harness wait is built on.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrTimeout is returned when the deadline elapses before the check is done.
var ErrTimeout = errors.New("poll timeout")

// Check is evaluated once per attempt.  It returns the value to hand back
// to the caller when done is true.  A returned error is treated as a failed
// attempt and recorded, polling carries on.
type Check[T any] func(ctx context.Context) (value T, done bool, err error)

// For runs check immediately and then again, pausing interval after each
// unsuccessful attempt, until it reports done or timeout elapses.  On
// timeout the error wraps ErrTimeout and the last error returned by check,
// if any.  Cancelling ctx stops polling with the context's error.
func For[T any](ctx context.Context, interval, timeout time.Duration, check Check[T]) (T, error) {
	var (
		result T
		last   error
	)

	condition := func(ctx context.Context) (bool, error) {
		value, done, err := check(ctx)
		if err != nil {
			// An attempt cut short by the deadline says nothing new.
			if last == nil || ctx.Err() == nil {
				last = err
			}

			return false, nil
		}

		if done {
			result = value
		}

		return done, nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Sliding, the full interval separates the end of one attempt from the
	// start of the next however long an attempt takes.
	delay := wait.Backoff{Duration: interval}.DelayFunc()

	if err := delay.Until(timeoutCtx, true, true, condition); err != nil {
		var zero T

		if ctx.Err() != nil {
			return zero, fmt.Errorf("polling aborted: %w", ctx.Err())
		}

		if last != nil {
			return zero, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, last)
		}

		return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}

	return result, nil
}

// Until is For without a result value.
func Until(ctx context.Context, interval, timeout time.Duration, check func(ctx context.Context) (bool, error)) error {
	_, err := For(ctx, interval, timeout, func(ctx context.Context) (struct{}, bool, error) {
		done, err := check(ctx)

		return struct{}{}, done, err
	})

	return err
}

// Last returns the innermost error recorded by a timed out poll, or nil.
func Last(err error) error {
	if !errors.Is(err, ErrTimeout) {
		return nil
	}

	var multi interface{ Unwrap() []error }
	if !errors.As(err, &multi) {
		return nil
	}

	for _, e := range multi.Unwrap() {
		if !errors.Is(e, ErrTimeout) {
			return e
		}
	}

	return nil
}
