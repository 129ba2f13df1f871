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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrNoDevTools is returned when a grid session exposes no CDP endpoint.
	ErrNoDevTools = errors.New("grid session has no se:cdp capability")

	// ErrGrid is returned when the grid rejects a request.
	ErrGrid = errors.New("webdriver grid error")
)

// capabilityCDP is the Selenium 4 capability carrying the DevTools websocket.
const capabilityCDP = "se:cdp"

type chromeOptions struct {
	Args []string `json:"args"`
}

type alwaysMatch struct {
	BrowserName         string        `json:"browserName"`
	AcceptInsecureCerts bool          `json:"acceptInsecureCerts"`
	ChromeOptions       chromeOptions `json:"goog:chromeOptions"`
}

type capabilities struct {
	AlwaysMatch alwaysMatch `json:"alwaysMatch"`
}

type newSessionRequest struct {
	Capabilities capabilities `json:"capabilities"`
}

type sessionValue struct {
	SessionID    string         `json:"sessionId"`
	Capabilities map[string]any `json:"capabilities"`
	Error        string         `json:"error"`
	Message      string         `json:"message"`
}

type sessionResponse struct {
	Value sessionValue `json:"value"`
}

// gridSession is a WebDriver session created on the grid.
type gridSession struct {
	ID       string
	DevTools string
}

// gridClient speaks the small part of the W3C WebDriver protocol needed to
// own a session's lifecycle, everything else goes over CDP.
type gridClient struct {
	baseURL string
	client  *http.Client
}

func newGridClient(baseURL string, client *http.Client) *gridClient {
	return &gridClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

func (g *gridClient) do(ctx context.Context, method, path string, body any) (*sessionResponse, error) {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var result sessionResponse

	if len(data) > 0 {
		if err := json.Unmarshal(data, &result); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		message := result.Value.Message
		if message == "" {
			message = string(data)
		}

		return nil, fmt.Errorf("%w: %s %s returned %d: %s %s", ErrGrid, method, path, resp.StatusCode, result.Value.Error, message)
	}

	return &result, nil
}

// create opens a Chrome session on the grid with the given arguments.
func (g *gridClient) create(ctx context.Context, args []string) (*gridSession, error) {
	request := &newSessionRequest{
		Capabilities: capabilities{
			AlwaysMatch: alwaysMatch{
				BrowserName:         "chrome",
				AcceptInsecureCerts: true,
				ChromeOptions: chromeOptions{
					Args: args,
				},
			},
		},
	}

	result, err := g.do(ctx, http.MethodPost, "/session", request)
	if err != nil {
		return nil, err
	}

	if result.Value.SessionID == "" {
		return nil, fmt.Errorf("%w: new session response has no session ID", ErrGrid)
	}

	session := &gridSession{
		ID: result.Value.SessionID,
	}

	if cdp, ok := result.Value.Capabilities[capabilityCDP].(string); ok {
		session.DevTools = cdp
	}

	return session, nil
}

// delete ends a session, freeing its grid slot.
func (g *gridClient) delete(ctx context.Context, id string) error {
	if _, err := g.do(ctx, http.MethodDelete, "/session/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("deleting webdriver session %s: %w", id, err)
	}

	return nil
}
