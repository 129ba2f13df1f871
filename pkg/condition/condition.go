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

//go:generate mockgen -source=condition.go -destination=mock/page.go -package=mock

// Package condition waits for asynchronously rendered page state.
//
// Conditions only read the page.  Evaluating one any number of times has no
// effect on the application, so an already true condition stays true when
// polled again.
package condition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ehalisaha/e2e/pkg/browser"
	harnesserrors "github.com/ehalisaha/e2e/pkg/errors"
	"github.com/ehalisaha/e2e/pkg/poll"
)

// DefaultInterval is how often a condition is evaluated.
const DefaultInterval = 500 * time.Millisecond

// Page is the read-only view of a browser that conditions evaluate.
type Page interface {
	CurrentURL(ctx context.Context) (string, error)
	Lookup(ctx context.Context, l browser.Locator) (*browser.Element, error)
	Count(ctx context.Context, l browser.Locator) (int, error)
	Source(ctx context.Context) (string, error)
}

// Check evaluates a condition once.
type Check[T any] func(ctx context.Context, p Page) (value T, ok bool, err error)

// Condition is a named check, the name is reported when it times out.
type Condition[T any] struct {
	Description string
	Check       Check[T]
}

type options struct {
	interval time.Duration
}

// Option customises WaitFor.
type Option func(*options)

// WithInterval sets the evaluation interval.
func WithInterval(interval time.Duration) Option {
	return func(o *options) {
		o.interval = interval
	}
}

// WaitFor evaluates c against p until it holds and returns its value.  When
// timeout elapses first a wait timeout error naming the condition is
// returned.
func WaitFor[T any](ctx context.Context, p Page, c Condition[T], timeout time.Duration, opts ...Option) (T, error) {
	o := &options{
		interval: DefaultInterval,
	}

	for _, opt := range opts {
		opt(o)
	}

	value, err := poll.For(ctx, o.interval, timeout, func(ctx context.Context) (T, bool, error) {
		return c.Check(ctx, p)
	})
	if err != nil {
		var zero T

		if !errors.Is(err, poll.ErrTimeout) {
			return zero, err
		}

		return zero, harnesserrors.NewWaitTimeoutError(c.Description, timeout, poll.Last(err))
	}

	return value, nil
}

// URLContains holds once the current URL contains fragment.  It yields the URL.
func URLContains(fragment string) Condition[string] {
	return Condition[string]{
		Description: fmt.Sprintf("url containing %q", fragment),
		Check: func(ctx context.Context, p Page) (string, bool, error) {
			url, err := p.CurrentURL(ctx)
			if err != nil {
				return "", false, err
			}

			return url, strings.Contains(url, fragment), nil
		},
	}
}

// ElementVisible holds once l matches a visible element, which it yields.
func ElementVisible(l browser.Locator) Condition[*browser.Element] {
	return Condition[*browser.Element]{
		Description: "visibility of " + l.String(),
		Check: func(ctx context.Context, p Page) (*browser.Element, bool, error) {
			element, err := p.Lookup(ctx, l)
			if err != nil {
				return nil, false, err
			}

			return element, element.Visible, nil
		},
	}
}

// TextContains holds once l matches a visible element whose text contains
// any of texts, ignoring case.  It yields the element.
func TextContains(l browser.Locator, texts ...string) Condition[*browser.Element] {
	return Condition[*browser.Element]{
		Description: fmt.Sprintf("text of %s containing any of %q", l, texts),
		Check: func(ctx context.Context, p Page) (*browser.Element, bool, error) {
			element, err := p.Lookup(ctx, l)
			if err != nil {
				return nil, false, err
			}

			if !element.Visible {
				return element, false, nil
			}

			return element, containsAny(element.Text, texts), nil
		},
	}
}

// TextMentions holds once l matches a visible element whose text contains
// required and, when anyOf is given, at least one of anyOf, ignoring case.
// It yields the element.
func TextMentions(l browser.Locator, required string, anyOf ...string) Condition[*browser.Element] {
	description := fmt.Sprintf("text of %s mentioning %q", l, required)
	if len(anyOf) > 0 {
		description += fmt.Sprintf(" and any of %q", anyOf)
	}

	return Condition[*browser.Element]{
		Description: description,
		Check: func(ctx context.Context, p Page) (*browser.Element, bool, error) {
			element, err := p.Lookup(ctx, l)
			if err != nil {
				return nil, false, err
			}

			if !element.Visible || !containsAny(element.Text, []string{required}) {
				return element, false, nil
			}

			return element, len(anyOf) == 0 || containsAny(element.Text, anyOf), nil
		},
	}
}

// TextChangedFrom holds once c holds for an element whose text is no longer
// before.  before is read just ahead of the action being waited on, so text
// that was already showing cannot satisfy the wait.
func TextChangedFrom(before string, c Condition[*browser.Element]) Condition[*browser.Element] {
	before = strings.TrimSpace(before)

	return Condition[*browser.Element]{
		Description: fmt.Sprintf("%s, changed from %q", c.Description, before),
		Check: func(ctx context.Context, p Page) (*browser.Element, bool, error) {
			element, ok, err := c.Check(ctx, p)
			if err != nil || !ok {
				return element, false, err
			}

			return element, strings.TrimSpace(element.Text) != before, nil
		},
	}
}

// CountAtLeast holds once l matches n or more elements.  It yields the count.
func CountAtLeast(l browser.Locator, n int) Condition[int] {
	return Condition[int]{
		Description: fmt.Sprintf("at least %d of %s", n, l),
		Check: func(ctx context.Context, p Page) (int, bool, error) {
			count, err := p.Count(ctx, l)
			if err != nil {
				return 0, false, err
			}

			return count, count >= n, nil
		},
	}
}

// SourceContains holds once the page source contains any of texts,
// ignoring case.
func SourceContains(texts ...string) Condition[bool] {
	return Condition[bool]{
		Description: fmt.Sprintf("page source containing any of %q", texts),
		Check: func(ctx context.Context, p Page) (bool, bool, error) {
			source, err := p.Source(ctx)
			if err != nil {
				return false, false, err
			}

			ok := containsAny(source, texts)

			return ok, ok, nil
		},
	}
}

// Predicate holds once fn returns true.
func Predicate(description string, fn func(ctx context.Context, p Page) (bool, error)) Condition[bool] {
	return Condition[bool]{
		Description: description,
		Check: func(ctx context.Context, p Page) (bool, bool, error) {
			ok, err := fn(ctx, p)
			if err != nil {
				return false, false, err
			}

			return ok, ok, nil
		},
	}
}

// Holds discards the value of c.
func Holds[T any](c Condition[T]) Condition[bool] {
	return Condition[bool]{
		Description: c.Description,
		Check: func(ctx context.Context, p Page) (bool, bool, error) {
			_, ok, err := c.Check(ctx, p)
			if err != nil {
				return false, false, err
			}

			return ok, ok, nil
		},
	}
}

// AnyOf holds once one of conditions holds.  Conditions are evaluated in
// order and evaluation errors only count when none hold.
func AnyOf(conditions ...Condition[bool]) Condition[bool] {
	descriptions := make([]string, len(conditions))
	for i := range conditions {
		descriptions[i] = conditions[i].Description
	}

	return Condition[bool]{
		Description: strings.Join(descriptions, " or "),
		Check: func(ctx context.Context, p Page) (bool, bool, error) {
			var errs []error

			for _, c := range conditions {
				_, ok, err := c.Check(ctx, p)
				if err != nil {
					errs = append(errs, err)

					continue
				}

				if ok {
					return true, true, nil
				}
			}

			return false, false, errors.Join(errs...)
		},
	}
}

func containsAny(s string, texts []string) bool {
	s = strings.ToLower(s)

	for _, text := range texts {
		if strings.Contains(s, strings.ToLower(text)) {
			return true
		}
	}

	return false
}
