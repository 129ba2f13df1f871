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

package e2e

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/ehalisaha/e2e/pkg/browser"
	"github.com/ehalisaha/e2e/pkg/contract"
	"github.com/ehalisaha/e2e/pkg/health"
)

// Harness is everything a scenario needs, built once per run from the
// resolved configuration.
type Harness struct {
	Config  *TestConfig
	Logger  logr.Logger
	Gate    *health.Gate
	Factory *browser.Factory
	API     *APIClient
}

// NewHarness wires the health gate, browser factory and API client.  No
// network access happens here.
func NewHarness(ctx context.Context, config *TestConfig, logger logr.Logger) (*Harness, error) {
	var validator *contract.Validator

	if config.ValidateContract {
		v, err := contract.NewValidator(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading api contract: %w", err)
		}

		validator = v
	}

	options := []browser.Option{
		browser.WithProtocol(config.Protocol()),
		browser.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
	}

	if len(config.ChromeArgs) > 0 {
		options = append(options, browser.WithArgs(config.ChromeArgs...))
	}

	return &Harness{
		Config:  config,
		Logger:  logger,
		Gate:    health.NewGate(config.BaseURL),
		Factory: browser.NewFactory(config.SeleniumURL, options...),
		API:     NewAPIClient(config, validator),
	}, nil
}

// Context attaches the harness logger to ctx.
func (h *Harness) Context(ctx context.Context) context.Context {
	return log.IntoContext(ctx, h.Logger)
}

// WaitForApp blocks until the application reports healthy.
func (h *Harness) WaitForApp(ctx context.Context) error {
	return h.Gate.Wait(h.Context(ctx), h.Config.HealthTimeout)
}

// NewSession acquires a browser, the caller must release it.
func (h *Harness) NewSession(ctx context.Context) (*browser.Session, error) {
	return h.Factory.Acquire(h.Context(ctx), h.Config.SessionTimeout)
}

// Owner is the API client authenticated as the configured owner.
func (h *Harness) Owner() *APIClient {
	return h.API.WithBasicAuth(h.Config.OwnerUsername, h.Config.OwnerPassword)
}

// Member is the API client authenticated as the configured member.
func (h *Harness) Member() *APIClient {
	return h.API.WithBasicAuth(h.Config.MemberUsername, h.Config.MemberPassword)
}
