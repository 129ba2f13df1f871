/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package e2e

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/onsi/ginkgo/v2"

	"github.com/ehalisaha/e2e/pkg/contract"
)

// ErrUnexpectedStatus is returned when a response does not carry the
// status the caller asked for.
var ErrUnexpectedStatus = errors.New("unexpected status code")

const defaultMaxTries = 4

type APIClient struct {
	baseURL   string
	client    *http.Client
	config    *TestConfig
	endpoints *Endpoints
	validator *contract.Validator
	username  string
	password  string
	// newBackOff is the retry policy for idempotent reads.
	newBackOff func() backoff.BackOff
	maxTries   uint
}

// NewAPIClient returns an anonymous client.  When validator is not nil
// every exchange is checked against the API contract.
func NewAPIClient(config *TestConfig, validator *contract.Validator) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		validator: validator,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second

			return b
		},
		maxTries: defaultMaxTries,
	}
}

// WithBasicAuth returns a copy of the client that authenticates as the
// given user.
func (c *APIClient) WithBasicAuth(username, password string) *APIClient {
	clone := *c
	clone.username = username
	clone.password = password

	return &clone
}

// WithBackOff returns a copy of the client with a different read retry policy.
func (c *APIClient) WithBackOff(newBackOff func() backoff.BackOff, maxTries uint) *APIClient {
	clone := *c
	clone.newBackOff = newBackOff
	clone.maxTries = maxTries

	return &clone
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expectedStatus, actualStatus int, body, traceParent string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%d got=%d body=%s traceparent=%s\n", method, path, expectedStatus, actualStatus, body, traceParent)
	c.logTraceContext(traceParent)
}

func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value so a failing
// request can be found in the application logs.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", randomHex(16), randomHex(8))
}

func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// doRequest performs a single exchange.  An expectedStatus of zero accepts
// any status.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, method, path string, body []byte, expectedStatus int) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return resp, nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	if c.validator != nil && c.config.ValidateContract {
		if err := c.validator.Validate(ctx, req, body, resp.StatusCode, resp.Header, respBody); err != nil {
			c.logError(method, path, duration, traceParent, err, "contract violation")
			return resp, respBody, err
		}
	}

	if expectedStatus > 0 && resp.StatusCode != expectedStatus {
		c.logUnexpectedStatus(method, path, expectedStatus, resp.StatusCode, string(respBody), traceParent)
		return resp, respBody, fmt.Errorf("%w: expected %d, got %d, body: %s (trace ID: %s)", ErrUnexpectedStatus, expectedStatus, resp.StatusCode, string(respBody), extractTraceID(traceParent))
	}

	return resp, respBody, nil
}

// retryable reports whether a read is worth repeating.
func retryable(resp *http.Response) bool {
	if resp == nil {
		return true
	}

	return resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
}

// get performs an idempotent read, retrying transport failures and server
// errors, and decodes a 200 response into out.
func (c *APIClient) get(ctx context.Context, path string, out any) error {
	operation := func() ([]byte, error) {
		//nolint:bodyclose // response body is closed in doRequest
		resp, respBody, err := c.doRequest(ctx, http.MethodGet, path, nil, http.StatusOK)
		if err == nil {
			return respBody, nil
		}

		if !retryable(resp) {
			return nil, backoff.Permanent(err)
		}

		return nil, err
	}

	notify := func(err error, next time.Duration) {
		ginkgo.GinkgoWriter.Printf("[GET %s] retrying in %s: %v\n", path, next, err)
	}

	respBody, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshaling %s response: %w", path, err)
	}

	return nil
}

// Health reads the actuator once.  A down application answers 503 with a
// body, so the status is returned rather than treated as an error.
func (c *APIClient) Health(ctx context.Context) (int, *Health, error) {
	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodGet, c.endpoints.Health(), nil, 0)
	if err != nil {
		return 0, nil, fmt.Errorf("reading health: %w", err)
	}

	health := &Health{}
	if err := json.Unmarshal(respBody, health); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("unmarshaling health response: %w", err)
	}

	return resp.StatusCode, health, nil
}

// Register creates a member account.  The raw status is returned because
// an existing username is a valid outcome.
func (c *APIClient) Register(ctx context.Context, username, password string) (int, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return 0, fmt.Errorf("marshaling registration body: %w", err)
	}

	//nolint:bodyclose // response body is closed in doRequest
	resp, _, err := c.doRequest(ctx, http.MethodPost, c.endpoints.Register(), body, 0)
	if err != nil {
		return 0, fmt.Errorf("registering %s: %w", username, err)
	}

	return resp.StatusCode, nil
}

// Me returns the authenticated principal.
func (c *APIClient) Me(ctx context.Context) (*Me, error) {
	me := &Me{}
	if err := c.get(ctx, c.endpoints.Me(), me); err != nil {
		return nil, fmt.Errorf("reading current user: %w", err)
	}

	return me, nil
}

func (c *APIClient) ListFacilities(ctx context.Context) ([]Facility, error) {
	var facilities []Facility
	if err := c.get(ctx, c.endpoints.ListFacilities(), &facilities); err != nil {
		return nil, fmt.Errorf("listing facilities: %w", err)
	}

	return facilities, nil
}

func (c *APIClient) ListPitches(ctx context.Context, facilityID int64) ([]Pitch, error) {
	var pitches []Pitch
	if err := c.get(ctx, c.endpoints.ListPitches(facilityID), &pitches); err != nil {
		return nil, fmt.Errorf("listing pitches of facility %d: %w", facilityID, err)
	}

	return pitches, nil
}

func (c *APIClient) MembershipStatus(ctx context.Context, facilityID int64) (*MembershipStatus, error) {
	status := &MembershipStatus{}
	if err := c.get(ctx, c.endpoints.MembershipStatus(facilityID), status); err != nil {
		return nil, fmt.Errorf("reading membership of facility %d: %w", facilityID, err)
	}

	return status, nil
}

// CreateReservation attempts a booking exactly once, retrying a write could
// double book.  Any status is a result, only transport and contract
// failures are errors.
func (c *APIClient) CreateReservation(ctx context.Context, request *ReservationRequest) (*ReservationResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling reservation body: %w", err)
	}

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodPost, c.endpoints.CreateReservation(), body, 0)
	if err != nil {
		return nil, fmt.Errorf("creating reservation: %w", err)
	}

	return &ReservationResponse{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}

// OwnerReservations lists the owner's reservations for a day.
func (c *APIClient) OwnerReservations(ctx context.Context, date string, facilityID, pitchID *int64) ([]OwnerReservation, error) {
	var reservations []OwnerReservation
	if err := c.get(ctx, c.endpoints.OwnerReservations(date, facilityID, pitchID), &reservations); err != nil {
		return nil, fmt.Errorf("listing owner reservations on %s: %w", date, err)
	}

	return reservations, nil
}
