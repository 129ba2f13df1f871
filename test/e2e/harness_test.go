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

package e2e_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/ehalisaha/e2e/pkg/browser"
	"github.com/ehalisaha/e2e/pkg/env"
	"github.com/ehalisaha/e2e/pkg/errors"
	"github.com/ehalisaha/e2e/test/e2e"
)

var _ = Describe("Harness", func() {
	var server *httptest.Server

	BeforeEach(func() {
		router := chi.NewRouter()
		router.Get("/actuator/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
		})

		server = httptest.NewServer(router)
		DeferCleanup(server.Close)
	})

	It("should wire the browser factory from configuration", func(ctx SpecContext) {
		config, err := e2e.LoadTestConfigFrom(env.NewResolverFromMap(map[string]string{
			"BASE_URL":     server.URL,
			"SELENIUM_URL": "ws://chrome:9222/devtools/browser/abc",
			"CHROME_ARGS":  "--lang=tr",
		}))
		Expect(err).NotTo(HaveOccurred())

		h, err := e2e.NewHarness(ctx, config, logr.Discard())
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Factory.Protocol()).To(Equal(browser.CDP))
		Expect(h.Factory.Args()).To(ContainElements("--lang=tr", "--headless=new", "--no-sandbox"))
	})

	It("should wait for a healthy application", func(ctx SpecContext) {
		config, err := e2e.LoadTestConfigFrom(env.NewResolverFromMap(map[string]string{
			"BASE_URL":       server.URL,
			"HEALTH_TIMEOUT": "5s",
		}))
		Expect(err).NotTo(HaveOccurred())

		h, err := e2e.NewHarness(ctx, config, logr.Discard())
		Expect(err).NotTo(HaveOccurred())
		Expect(h.WaitForApp(ctx)).To(Succeed())
	})

	It("should give up on an application that never starts", func(ctx SpecContext) {
		config, err := e2e.LoadTestConfigFrom(env.NewResolverFromMap(map[string]string{
			"BASE_URL":       server.URL + "/missing",
			"HEALTH_TIMEOUT": "1s",
		}))
		Expect(err).NotTo(HaveOccurred())

		h, err := e2e.NewHarness(ctx, config, logr.Discard())
		Expect(err).NotTo(HaveOccurred())

		err = h.WaitForApp(ctx)
		Expect(errors.IsSetupTimeout(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("404"))
	}, SpecTimeout(10*time.Second))

	It("should log through the configured writer", func() {
		var out bytes.Buffer

		logger := e2e.NewLogger(&e2e.TestConfig{DebugLogging: true}, &out)
		logger.V(1).Info("polling", "attempt", 1)

		Expect(out.String()).To(ContainSubstring("polling"))
	})
})
