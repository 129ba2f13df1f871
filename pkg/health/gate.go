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

// Package health blocks until the application under test reports it is up.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ehalisaha/e2e/pkg/errors"
	"github.com/ehalisaha/e2e/pkg/poll"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// Path is the actuator health endpoint.
	Path = "/actuator/health"

	// DefaultTimeout bounds a whole Wait.
	DefaultTimeout = 90 * time.Second
	// DefaultInterval is the pause between attempts.
	DefaultInterval = 2 * time.Second
	// DefaultRequestTimeout bounds a single probe.
	DefaultRequestTimeout = 3 * time.Second

	// snippetLength caps how much of a response body is reported.
	snippetLength = 200
)

// Gate polls the health endpoint of one application.
type Gate struct {
	url      string
	client   *http.Client
	interval time.Duration
}

// Option customises a Gate.
type Option func(*Gate)

// WithInterval sets the pause between attempts.
func WithInterval(interval time.Duration) Option {
	return func(g *Gate) {
		g.interval = interval
	}
}

// WithRequestTimeout bounds each probe.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(g *Gate) {
		g.client.Timeout = timeout
	}
}

// WithTransport replaces the HTTP transport, used by tests.
func WithTransport(transport http.RoundTripper) Option {
	return func(g *Gate) {
		g.client.Transport = transport
	}
}

// NewGate returns a gate for the application rooted at baseURL.
func NewGate(baseURL string, options ...Option) *Gate {
	g := &Gate{
		url: strings.TrimSuffix(baseURL, "/") + Path,
		client: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
		interval: DefaultInterval,
	}

	for _, o := range options {
		o(g)
	}

	return g
}

// URL is the probed endpoint.
func (g *Gate) URL() string {
	return g.url
}

// observation is a failed probe, its text is what gets reported on timeout.
type observation string

func (o observation) Error() string {
	return string(o)
}

type status struct {
	Status string `json:"status"`
}

func ready(code int, body []byte) bool {
	if code != http.StatusOK {
		return false
	}

	var s status

	if err := json.Unmarshal(body, &s); err == nil && s.Status != "" {
		return s.Status == "UP"
	}

	text := string(body)

	return strings.Contains(text, `"status"`) && strings.Contains(text, "UP")
}

func snippet(body []byte) string {
	if len(body) > snippetLength {
		body = body[:snippetLength]
	}

	return string(body)
}

func (g *Gate) probe(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if !ready(resp.StatusCode, body) {
		return false, observation(fmt.Sprintf("%d %s", resp.StatusCode, snippet(body)))
	}

	return true, nil
}

// Wait returns once a probe sees HTTP 200 with an UP status.  Every failure
// along the way, network errors included, is retried until timeout, after
// which a setup timeout error carrying the last observation is returned.
func (g *Gate) Wait(ctx context.Context, timeout time.Duration) error {
	logger := log.FromContext(ctx).WithValues("url", g.url)

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	attempts := 0

	err := poll.Until(ctx, g.interval, timeout, func(ctx context.Context) (bool, error) {
		attempts++

		ok, err := g.probe(ctx)
		if err != nil {
			logger.V(1).Info("application not ready", "attempt", attempts, "last", err.Error())
		}

		return ok, err
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}

		last := "<no response>"
		if cause := poll.Last(err); cause != nil {
			last = cause.Error()
		}

		return errors.NewSetupTimeoutError("App", timeout, last)
	}

	logger.Info("application healthy", "attempts", attempts, "elapsed", time.Since(start).Round(time.Millisecond))

	return nil
}
