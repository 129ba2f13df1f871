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

package browser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

var (
	// ErrSessionReleased is returned by every operation after Release.
	ErrSessionReleased = errors.New("browser session already released")

	// ErrNoSuchElement is returned when a locator matches nothing.
	ErrNoSuchElement = errors.New("no such element")

	// ErrNoOption is returned when a select has no usable option.
	ErrNoOption = errors.New("no selectable option")
)

// Element is what a page showed for one element when it was looked up.
type Element struct {
	Tag     string `json:"tag"`
	Text    string `json:"text"`
	Value   string `json:"value"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
}

// Session is one remote browser.  It is not safe for concurrent use by
// several scenarios, but Release may race with an in-flight operation.
type Session struct {
	id   string
	grid *gridClient
	tab  *Tab

	once     sync.Once
	released atomic.Bool

	lock         sync.Mutex
	scriptErrors []string
}

func newSession() *Session {
	return &Session{}
}

// ID is the WebDriver session ID, empty for direct DevTools sessions.
func (s *Session) ID() string {
	return s.id
}

// Released reports whether Release has been called.
func (s *Session) Released() bool {
	return s.released.Load()
}

func (s *Session) recordScriptError(text string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.scriptErrors = append(s.scriptErrors, text)
}

// ScriptErrors returns uncaught exceptions and console errors seen so far.
func (s *Session) ScriptErrors() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return slices.Clone(s.scriptErrors)
}

// Release closes the tab and deletes the grid session.  Only the first call
// does anything, later calls return nil.
func (s *Session) Release(ctx context.Context) error {
	var errs []error

	s.once.Do(func() {
		s.released.Store(true)

		if s.tab != nil && s.tab.Close != nil {
			if err := s.tab.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing tab: %w", err))
			}
		}

		if s.grid != nil && s.id != "" {
			if err := s.grid.delete(ctx, s.id); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return utilerrors.NewAggregate(errs)
}

// run executes actions in the tab, bounded by the deadline and cancellation
// of ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.released.Load() {
		return ErrSessionReleased
	}

	runCtx, cancel := context.WithCancel(s.tab.Context)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var deadlineCancel context.CancelFunc

		runCtx, deadlineCancel = context.WithDeadline(runCtx, deadline)
		defer deadlineCancel()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if s.released.Load() {
			return ErrSessionReleased
		}

		return err
	}

	return nil
}

func (s *Session) evaluate(ctx context.Context, script string, result any) error {
	return s.run(ctx, chromedp.Evaluate(script, result))
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}

	return nil
}

// CurrentURL returns the location of the top frame.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var location string

	if err := s.run(ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}

	return location, nil
}

// Source returns the serialised DOM.
func (s *Session) Source(ctx context.Context) (string, error) {
	var html string

	if err := s.evaluate(ctx, "document.documentElement ? document.documentElement.outerHTML : ''", &html); err != nil {
		return "", err
	}

	return html, nil
}

// Elements describes every element matched by l, in document order.
func (s *Session) Elements(ctx context.Context, l Locator) ([]Element, error) {
	var elements []Element

	if err := s.evaluate(ctx, l.snapshotScript(), &elements); err != nil {
		return nil, fmt.Errorf("looking up %s: %w", l, err)
	}

	return elements, nil
}

// Lookup describes the first element matched by l.
func (s *Session) Lookup(ctx context.Context, l Locator) (*Element, error) {
	elements, err := s.Elements(ctx, l)
	if err != nil {
		return nil, err
	}

	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, l)
	}

	return &elements[0], nil
}

// Count returns how many elements l matches.
func (s *Session) Count(ctx context.Context, l Locator) (int, error) {
	var count int

	if err := s.evaluate(ctx, l.countScript(), &count); err != nil {
		return 0, fmt.Errorf("counting %s: %w", l, err)
	}

	return count, nil
}

// Text is the visible text of the first match, or empty if there is none.
func (s *Session) Text(ctx context.Context, l Locator) (string, error) {
	element, err := s.Lookup(ctx, l)
	if err != nil {
		if errors.Is(err, ErrNoSuchElement) {
			return "", nil
		}

		return "", err
	}

	return element.Text, nil
}

// Click clicks the first match of l.
func (s *Session) Click(ctx context.Context, l Locator) error {
	return s.ClickNth(ctx, l, 0)
}

// ClickNth clicks the nth match of l with a synthesised mouse event,
// falling back to a script click when the node has no clickable box.
func (s *Session) ClickNth(ctx context.Context, l Locator, n int) error {
	count, err := s.Count(ctx, l)
	if err != nil {
		return err
	}

	if n >= count {
		return fmt.Errorf("%w: %s has %d matches, wanted index %d", ErrNoSuchElement, l, count, n)
	}

	var nodes []*cdp.Node

	mouse := chromedp.ActionFunc(func(ctx context.Context) error {
		if n >= len(nodes) {
			return fmt.Errorf("%w: %s", ErrNoSuchElement, l)
		}

		return chromedp.MouseClickNode(nodes[n]).Do(ctx)
	})

	err = s.run(ctx, chromedp.Nodes(l.Value, &nodes, append(l.queryOptions(), chromedp.AtLeast(n+1))...), mouse)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSessionReleased):
		return err
	}

	var clicked bool

	if err := s.evaluate(ctx, l.clickScript(n), &clicked); err != nil {
		return fmt.Errorf("clicking %s: %w", l, err)
	}

	if !clicked {
		return fmt.Errorf("%w: %s", ErrNoSuchElement, l)
	}

	return nil
}

// Fill replaces the value of a form field with value by typing it.  If the
// field does not end up holding value it is assigned by script instead.
func (s *Session) Fill(ctx context.Context, l Locator, value string) error {
	count, err := s.Count(ctx, l)
	if err != nil {
		return err
	}

	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchElement, l)
	}

	options := l.queryOptions()

	typed := s.run(ctx,
		chromedp.Clear(l.Value, options...),
		chromedp.SendKeys(l.Value, value, options...),
	)
	if errors.Is(typed, ErrSessionReleased) {
		return typed
	}

	if typed == nil {
		if current, err := s.Value(ctx, l); err == nil && current == value {
			return nil
		}
	}

	var ok bool

	if err := s.evaluate(ctx, l.fillScript(value), &ok); err != nil {
		return fmt.Errorf("filling %s: %w", l, err)
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchElement, l)
	}

	return nil
}

// Value returns the form value of the first match.
func (s *Session) Value(ctx context.Context, l Locator) (string, error) {
	var value *string

	if err := s.evaluate(ctx, l.valueScript(), &value); err != nil {
		return "", fmt.Errorf("reading %s: %w", l, err)
	}

	if value == nil {
		return "", fmt.Errorf("%w: %s", ErrNoSuchElement, l)
	}

	return *value, nil
}

func (s *Session) choose(ctx context.Context, l Locator, wanted string) (string, error) {
	var chosen *string

	if err := s.evaluate(ctx, l.selectScript(wanted), &chosen); err != nil {
		return "", fmt.Errorf("selecting in %s: %w", l, err)
	}

	if chosen == nil {
		return "", fmt.Errorf("%w: %s", ErrNoOption, l)
	}

	return *chosen, nil
}

// SelectFirstNonEmpty chooses the first option of a select whose value is
// not blank, "null" or "undefined", or the first option if all are.  It
// returns the chosen value.
func (s *Session) SelectFirstNonEmpty(ctx context.Context, l Locator) (string, error) {
	return s.choose(ctx, l, "")
}

// SelectValue chooses the option with value, failing with ErrNoOption when
// the select has no such option.
func (s *Session) SelectValue(ctx context.Context, l Locator, value string) error {
	_, err := s.choose(ctx, l, value)

	return err
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var png []byte

	if err := s.run(ctx, chromedp.CaptureScreenshot(&png)); err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}

	return png, nil
}

// ContainsText reports whether the page source contains text, ignoring case.
func (s *Session) ContainsText(ctx context.Context, text string) (bool, error) {
	source, err := s.Source(ctx)
	if err != nil {
		return false, err
	}

	return strings.Contains(strings.ToLower(source), strings.ToLower(text)), nil
}
