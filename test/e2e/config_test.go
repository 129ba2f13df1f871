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
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive
	"github.com/spf13/pflag"

	"github.com/ehalisaha/e2e/pkg/browser"
	"github.com/ehalisaha/e2e/pkg/env"
	"github.com/ehalisaha/e2e/pkg/errors"
	"github.com/ehalisaha/e2e/test/e2e"
)

func load(values map[string]string) (*e2e.TestConfig, error) {
	return e2e.LoadTestConfigFrom(env.NewResolverFromMap(values))
}

var _ = Describe("Test configuration", func() {
	Context("When nothing is set", func() {
		It("should fall back to the container defaults", func() {
			config, err := load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(config.BaseURL).To(Equal("http://app:8080"))
			Expect(config.SeleniumURL).To(Equal("http://selenium:4444/wd/hub"))
			Expect(config.Protocol()).To(Equal(browser.WebDriver))
			Expect(config.OwnerUsername).To(Equal("owner1"))
			Expect(config.MemberPassword).To(Equal("member123"))
			Expect(config.HealthTimeout).To(Equal(90 * time.Second))
			Expect(config.SessionTimeout).To(Equal(60 * time.Second))
			Expect(config.WaitTimeout).To(Equal(15 * time.Second))
			Expect(config.ReportDir).To(Equal("e2e-reports"))
			Expect(config.ValidateContract).To(BeTrue())
			Expect(config.ChromeArgs).To(BeEmpty())
		})
	})

	Context("When variables are set", func() {
		It("should trim values", func() {
			config, err := load(map[string]string{
				"BASE_URL": "  http://localhost:18080/  ",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(config.BaseURL).To(Equal("http://localhost:18080/"))
			Expect(config.URL("/ui/owner.html")).To(Equal("http://localhost:18080/ui/owner.html"))
		})

		It("should honour aliases in order", func() {
			config, err := load(map[string]string{
				"E2E_BASE_URL": "http://alias:8080",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(config.BaseURL).To(Equal("http://alias:8080"))

			config, err = load(map[string]string{
				"BASE_URL":     "http://primary:8080",
				"E2E_BASE_URL": "http://alias:8080",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(config.BaseURL).To(Equal("http://primary:8080"))
		})

		It("should parse durations in seconds or Go syntax", func() {
			config, err := load(map[string]string{
				"HEALTH_TIMEOUT": "120",
				"WAIT_TIMEOUT":   "2m",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(config.HealthTimeout).To(Equal(120 * time.Second))
			Expect(config.WaitTimeout).To(Equal(2 * time.Minute))
		})

		It("should split browser arguments", func() {
			config, err := load(map[string]string{
				"CHROME_ARGS": "--lang=tr; --mute-audio ;",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(config.ChromeArgs).To(Equal([]string{"--lang=tr", "--mute-audio"}))
		})

		It("should report dates in the application offset", func() {
			config, err := load(map[string]string{
				"E2E_UTC_OFFSET": "+14:00",
			})
			Expect(err).NotTo(HaveOccurred())

			expected := time.Now().In(time.FixedZone("", 14*60*60)).Format(time.DateOnly)
			Expect(config.Today()).To(Equal(expected))
		})

		It("should select the DevTools protocol for a websocket endpoint", func() {
			config, err := load(map[string]string{
				"SELENIUM_URL": "ws://chrome:9222/devtools/browser/abc",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(config.Protocol()).To(Equal(browser.CDP))
		})
	})

	Context("When a value is unusable", func() {
		DescribeTable("should fail with a configuration error naming the variable",
			func(values map[string]string, name string) {
				_, err := load(values)
				Expect(err).To(HaveOccurred())
				Expect(errors.IsConfiguration(err)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring(name))
			},
			Entry("blank base url", map[string]string{"BASE_URL": "   "}, "BASE_URL"),
			Entry("empty grid url", map[string]string{"SELENIUM_URL": ""}, "SELENIUM_URL"),
			Entry("blank alias", map[string]string{"E2E_SELENIUM_URL": "\t"}, "E2E_SELENIUM_URL"),
			Entry("url without host", map[string]string{"BASE_URL": "app:8080"}, "BASE_URL"),
			Entry("websocket application url", map[string]string{"BASE_URL": "ws://app:8080"}, "BASE_URL"),
			Entry("unknown protocol", map[string]string{"E2E_BROWSER_PROTOCOL": "marionette"}, "E2E_BROWSER_PROTOCOL"),
			Entry("zero timeout", map[string]string{"HEALTH_TIMEOUT": "0"}, "HEALTH_TIMEOUT"),
			Entry("garbage timeout", map[string]string{"WAIT_TIMEOUT": "soon"}, "WAIT_TIMEOUT"),
			Entry("garbage boolean", map[string]string{"DEBUG_LOGGING": "sometimes"}, "DEBUG_LOGGING"),
			Entry("bad offset", map[string]string{"E2E_UTC_OFFSET": "Europe/Istanbul"}, "E2E_UTC_OFFSET"),
		)
	})

	Context("When flags are given", func() {
		var (
			config *e2e.TestConfig
			flags  *e2e.Flags
			fs     *pflag.FlagSet
		)

		BeforeEach(func() {
			var err error

			config, err = load(nil)
			Expect(err).NotTo(HaveOccurred())

			flags = &e2e.Flags{}
			fs = pflag.NewFlagSet("e2e", pflag.ContinueOnError)
			flags.AddFlags(fs)
		})

		It("should override the environment", func() {
			Expect(fs.Parse([]string{
				"--e2e.base-url=http://localhost:18080",
				"--e2e.wait-timeout=30s",
				"--e2e.debug",
			})).To(Succeed())

			Expect(flags.Apply(config)).To(Succeed())
			Expect(config.BaseURL).To(Equal("http://localhost:18080"))
			Expect(config.WaitTimeout).To(Equal(30 * time.Second))
			Expect(config.DebugLogging).To(BeTrue())
			Expect(config.SeleniumURL).To(Equal("http://selenium:4444/wd/hub"))
		})

		It("should reject invalid overrides", func() {
			Expect(fs.Parse([]string{"--e2e.browser-protocol=telnet"})).To(Succeed())

			err := flags.Apply(config)
			Expect(err).To(HaveOccurred())
			Expect(errors.IsConfiguration(err)).To(BeTrue())
		})
	})
})
