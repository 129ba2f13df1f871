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

// Package browser creates and drives remote headless Chrome sessions.
//
// Sessions are normally created on a Selenium grid over W3C WebDriver and
// then driven over the Chrome DevTools Protocol endpoint the grid exposes.
// A bare DevTools websocket is also accepted for local runs.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/ehalisaha/e2e/pkg/errors"
	"github.com/ehalisaha/e2e/pkg/poll"
)

// Protocol is how the factory reaches the browser.
type Protocol string

const (
	// WebDriver creates sessions on a Selenium grid.
	WebDriver Protocol = "webdriver"
	// CDP attaches straight to a DevTools endpoint.
	CDP Protocol = "cdp"
)

const (
	// DefaultTimeout bounds a whole Acquire.
	DefaultTimeout = 60 * time.Second
	// DefaultInterval is the pause between attempts.
	DefaultInterval = 2 * time.Second
	// defaultRequestTimeout bounds grid HTTP calls.
	defaultRequestTimeout = 30 * time.Second
	// releaseTimeout bounds cleanup of a half created session.
	releaseTimeout = 10 * time.Second
)

// DefaultArgs are passed to every Chrome.  Headless with the sandbox and
// /dev/shm usage off is what runs inside a container.
func DefaultArgs() []string {
	return []string{
		"--headless=new",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--window-size=1280,900",
		"--no-first-run",
		"--no-default-browser-check",
		"--ignore-certificate-errors",
		"--allow-insecure-localhost",
	}
}

// Tab is an attached DevTools target.
type Tab struct {
	// Context drives the target with chromedp.
	Context context.Context
	// Close detaches, it must be safe to call once.
	Close func() error
}

// Connector attaches to a DevTools endpoint.  Script errors raised by the
// page are reported to onScriptError.
type Connector func(ctx context.Context, endpoint string, direct bool, onScriptError func(string)) (*Tab, error)

// Factory hands out sessions.
type Factory struct {
	url      string
	protocol Protocol
	args     []string
	interval time.Duration
	grid     *gridClient
	connect  Connector
}

// Option customises a Factory.
type Option func(*Factory)

// WithProtocol overrides protocol detection from the URL scheme.
func WithProtocol(protocol Protocol) Option {
	return func(f *Factory) {
		if protocol != "" {
			f.protocol = protocol
		}
	}
}

// WithArgs appends Chrome arguments to DefaultArgs.
func WithArgs(args ...string) Option {
	return func(f *Factory) {
		for _, arg := range args {
			if !slices.Contains(f.args, arg) {
				f.args = append(f.args, arg)
			}
		}
	}
}

// WithInterval sets the pause between attempts.
func WithInterval(interval time.Duration) Option {
	return func(f *Factory) {
		f.interval = interval
	}
}

// WithConnector replaces how DevTools endpoints are attached.
func WithConnector(connect Connector) Option {
	return func(f *Factory) {
		f.connect = connect
	}
}

// WithHTTPClient replaces the client used to talk to the grid.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Factory) {
		f.grid.client = client
	}
}

// NewFactory returns a factory for the browser endpoint at rawURL.  http and
// https URLs are treated as WebDriver grids, ws and wss as DevTools.
func NewFactory(rawURL string, options ...Option) *Factory {
	f := &Factory{
		url:      rawURL,
		protocol: WebDriver,
		args:     DefaultArgs(),
		interval: DefaultInterval,
		grid:     newGridClient(rawURL, &http.Client{Timeout: defaultRequestTimeout}),
		connect:  Attach,
	}

	if u, err := url.Parse(rawURL); err == nil && (u.Scheme == "ws" || u.Scheme == "wss") {
		f.protocol = CDP
	}

	for _, o := range options {
		o(f)
	}

	return f
}

// Protocol returns the protocol in use.
func (f *Factory) Protocol() Protocol {
	return f.protocol
}

// Args returns the Chrome arguments in use.
func (f *Factory) Args() []string {
	return slices.Clone(f.args)
}

// Acquire keeps trying to open a session until one succeeds or timeout
// elapses.  The first success is returned without further attempts.  The
// caller owns the session and must Release it.
func (f *Factory) Acquire(ctx context.Context, timeout time.Duration) (*Session, error) {
	logger := log.FromContext(ctx).WithValues("url", f.url, "protocol", f.protocol)

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	attempts := 0

	session, err := poll.For(ctx, f.interval, timeout, func(ctx context.Context) (*Session, bool, error) {
		attempts++

		session, err := f.attempt(ctx, logger)
		if err != nil {
			logger.V(1).Info("browser not ready", "attempt", attempts, "error", err.Error())

			return nil, false, err
		}

		return session, true, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}

		last := "<no attempt completed>"
		if cause := poll.Last(err); cause != nil {
			last = cause.Error()
		}

		return nil, errors.NewSetupTimeoutError("Selenium", timeout, last)
	}

	logger.Info("browser session ready", "id", session.ID(), "attempts", attempts)

	return session, nil
}

func (f *Factory) attempt(ctx context.Context, logger logr.Logger) (*Session, error) {
	session := newSession()

	if f.protocol == CDP {
		tab, err := f.connect(ctx, f.url, false, session.recordScriptError)
		if err != nil {
			return nil, fmt.Errorf("attaching to %s: %w", f.url, err)
		}

		session.tab = tab

		return session, nil
	}

	remote, err := f.grid.create(ctx, f.args)
	if err != nil {
		return nil, err
	}

	session.id = remote.ID
	session.grid = f.grid

	discard := func(cause error) (*Session, error) {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		if err := f.grid.delete(cleanupCtx, remote.ID); err != nil {
			logger.Error(err, "failed to discard webdriver session")
		}

		return nil, cause
	}

	if remote.DevTools == "" {
		return discard(fmt.Errorf("%w: session %s", ErrNoDevTools, remote.ID))
	}

	tab, err := f.connect(ctx, remote.DevTools, true, session.recordScriptError)
	if err != nil {
		return discard(fmt.Errorf("attaching to session %s: %w", remote.ID, err))
	}

	session.tab = tab

	return session, nil
}

// Attach is the default Connector, backed by chromedp.  The tab outlives
// ctx, which only bounds connection setup.  direct endpoints are used as
// given, others are resolved through /json/version.
func Attach(ctx context.Context, endpoint string, direct bool, onScriptError func(string)) (*Tab, error) {
	logger := log.FromContext(ctx).WithName("chromedp")

	var allocatorOptions []chromedp.RemoteAllocatorOption
	if direct || strings.Contains(endpoint, "/devtools/") {
		allocatorOptions = append(allocatorOptions, chromedp.NoModifyURL)
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.WithoutCancel(ctx), endpoint, allocatorOptions...)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.V(2).Info(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.V(1).Info(fmt.Sprintf(format, args...))
		}),
	)

	cancel := func() {
		browserCancel()
		allocCancel()
	}

	chromedp.ListenTarget(browserCtx, func(ev any) {
		switch ev := ev.(type) {
		case *runtime.EventExceptionThrown:
			text := ev.ExceptionDetails.Text
			if ev.ExceptionDetails.Exception != nil && ev.ExceptionDetails.Exception.Description != "" {
				text += " " + ev.ExceptionDetails.Exception.Description
			}

			onScriptError(text)
		case *runtime.EventConsoleAPICalled:
			if ev.Type != runtime.APITypeError {
				return
			}

			args := make([]string, 0, len(ev.Args))

			for _, arg := range ev.Args {
				switch {
				case arg.Value != nil:
					args = append(args, string(arg.Value))
				case arg.Description != "":
					args = append(args, arg.Description)
				}
			}

			onScriptError("console.error: " + strings.Join(args, " "))
		}
	})

	// The first Run connects and opens the target, its lifetime is that of
	// browserCtx so it cannot simply be run under ctx.
	done := make(chan error, 1)

	go func() {
		done <- chromedp.Run(browserCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			cancel()

			return nil, err
		}
	case <-ctx.Done():
		cancel()

		return nil, ctx.Err()
	}

	return &Tab{
		Context: browserCtx,
		Close: func() error {
			cancel()

			return nil
		},
	}, nil
}
