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

package e2e

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ehalisaha/e2e/pkg/browser"
	"github.com/ehalisaha/e2e/pkg/env"
	"github.com/ehalisaha/e2e/pkg/errors"
)

// TestConfig is resolved once per run and shared read-only by every spec.
type TestConfig struct {
	BaseURL         string        `default:"http://app:8080"`
	SeleniumURL     string        `default:"http://selenium:4444/wd/hub"`
	BrowserProtocol string        `default:"webdriver"`
	ChromeArgs      []string
	OwnerUsername   string        `default:"owner1"`
	OwnerPassword   string        `default:"owner123"`
	MemberUsername  string        `default:"member1"`
	MemberPassword  string        `default:"member123"`
	HealthTimeout   time.Duration `default:"90s"`
	SessionTimeout  time.Duration `default:"60s"`
	WaitTimeout     time.Duration `default:"15s"`
	RequestTimeout  time.Duration `default:"30s"`
	TestTimeout     time.Duration `default:"20m"`
	ReportDir       string        `default:"e2e-reports"`
	// UTCOffset is appended to local slot times sent to the API.
	UTCOffset        string `default:"+03:00"`
	ValidateContract bool   `default:"true"`
	DebugLogging     bool
	LogRequests      bool
	LogResponses     bool
}

// LoadTestConfig loads configuration from defaults, .env files and
// environment variables in that order of precedence.  Any blank or
// malformed value is a configuration error, reported before anything
// touches the network.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	return LoadTestConfigFrom(env.NewResolver())
}

// LoadTestConfigFrom is LoadTestConfig over an arbitrary resolver.
//
//nolint:cyclop // a flat list of settings
func LoadTestConfigFrom(r *env.Resolver) (*TestConfig, error) {
	config := &TestConfig{}

	if err := defaults.Set(config); err != nil {
		return nil, fmt.Errorf("applying configuration defaults: %w", err)
	}

	var err error

	settings := []struct {
		target  *string
		aliases []string
	}{
		{&config.BaseURL, []string{env.BaseURL, "E2E_BASE_URL"}},
		{&config.SeleniumURL, []string{env.SeleniumURL, "E2E_SELENIUM_URL"}},
		{&config.BrowserProtocol, []string{"E2E_BROWSER_PROTOCOL"}},
		{&config.OwnerUsername, []string{"E2E_OWNER_USERNAME"}},
		{&config.OwnerPassword, []string{"E2E_OWNER_PASSWORD"}},
		{&config.MemberUsername, []string{"E2E_MEMBER_USERNAME"}},
		{&config.MemberPassword, []string{"E2E_MEMBER_PASSWORD"}},
		{&config.ReportDir, []string{"E2E_REPORT_DIR"}},
		{&config.UTCOffset, []string{"E2E_UTC_OFFSET"}},
	}

	for _, s := range settings {
		if *s.target, err = r.FirstOf(*s.target, s.aliases...); err != nil {
			return nil, err
		}
	}

	durations := []struct {
		target *time.Duration
		name   string
	}{
		{&config.HealthTimeout, "HEALTH_TIMEOUT"},
		{&config.SessionTimeout, "SESSION_TIMEOUT"},
		{&config.WaitTimeout, "WAIT_TIMEOUT"},
		{&config.RequestTimeout, "REQUEST_TIMEOUT"},
		{&config.TestTimeout, "TEST_TIMEOUT"},
	}

	for _, d := range durations {
		if *d.target, err = r.Duration(d.name, *d.target); err != nil {
			return nil, err
		}
	}

	booleans := []struct {
		target *bool
		name   string
	}{
		{&config.ValidateContract, "VALIDATE_CONTRACT"},
		{&config.DebugLogging, "DEBUG_LOGGING"},
		{&config.LogRequests, "LOG_REQUESTS"},
		{&config.LogResponses, "LOG_RESPONSES"},
	}

	for _, b := range booleans {
		if *b.target, err = r.Bool(b.name, *b.target); err != nil {
			return nil, err
		}
	}

	config.ChromeArgs = append(config.ChromeArgs, r.List("CHROME_ARGS", ";")...)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks cross-field constraints.
func (c *TestConfig) Validate() error {
	if err := checkURL("BASE_URL", c.BaseURL, "http", "https"); err != nil {
		return err
	}

	if err := checkURL("SELENIUM_URL", c.SeleniumURL, "http", "https", "ws", "wss"); err != nil {
		return err
	}

	switch browser.Protocol(c.BrowserProtocol) {
	case browser.WebDriver, browser.CDP:
	default:
		return errors.NewConfigurationError("E2E_BROWSER_PROTOCOL", fmt.Sprintf("Unsupported protocol %q for env var", c.BrowserProtocol))
	}

	if _, err := time.Parse("-07:00", c.UTCOffset); err != nil {
		return errors.NewConfigurationError("E2E_UTC_OFFSET", fmt.Sprintf("Invalid offset %q for env var", c.UTCOffset))
	}

	return nil
}

func checkURL(name, value string, schemes ...string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || !slices.Contains(schemes, u.Scheme) {
		return errors.NewConfigurationError(name, fmt.Sprintf("Invalid URL %q, expected one of %s, for env var", value, strings.Join(schemes, "/")))
	}

	return nil
}

// Protocol is the browser protocol to use.  A DevTools URL implies CDP.
func (c *TestConfig) Protocol() browser.Protocol {
	if strings.HasPrefix(c.SeleniumURL, "ws://") || strings.HasPrefix(c.SeleniumURL, "wss://") {
		return browser.CDP
	}

	return browser.Protocol(c.BrowserProtocol)
}

// Today is the current date where the application runs.
func (c *TestConfig) Today() string {
	now := time.Now()

	if t, err := time.Parse("-07:00", c.UTCOffset); err == nil {
		_, offset := t.Zone()
		now = now.In(time.FixedZone(c.UTCOffset, offset))
	}

	return now.Format(time.DateOnly)
}

// URL joins a path onto the application base URL.
func (c *TestConfig) URL(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/e2e/suites directory
		"../../../.env", // From test/contracts/consumer/* directories
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing variables win over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// Flags are command line overrides, passed as go test -args --e2e.base-url=...
type Flags struct {
	BaseURL         string
	SeleniumURL     string
	BrowserProtocol string
	ReportDir       string
	HealthTimeout   time.Duration
	SessionTimeout  time.Duration
	WaitTimeout     time.Duration
	DebugLogging    bool
}

// AddFlags registers the overrides with a flag set.
func (f *Flags) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.BaseURL, "e2e.base-url", "", "Application base URL, overrides BASE_URL.")
	flags.StringVar(&f.SeleniumURL, "e2e.selenium-url", "", "Browser grid or DevTools URL, overrides SELENIUM_URL.")
	flags.StringVar(&f.BrowserProtocol, "e2e.browser-protocol", "", "Browser protocol, webdriver or cdp.")
	flags.StringVar(&f.ReportDir, "e2e.report-dir", "", "Directory failure artifacts are written to.")
	flags.DurationVar(&f.HealthTimeout, "e2e.health-timeout", 0, "How long to wait for the application to be healthy.")
	flags.DurationVar(&f.SessionTimeout, "e2e.session-timeout", 0, "How long to wait for a browser session.")
	flags.DurationVar(&f.WaitTimeout, "e2e.wait-timeout", 0, "Default timeout of page waits.")
	flags.BoolVar(&f.DebugLogging, "e2e.debug", false, "Enable debug logging.")
}

// Apply overlays any overrides that were set and revalidates.
func (f *Flags) Apply(config *TestConfig) error {
	overrides := []struct {
		value  string
		target *string
	}{
		{f.BaseURL, &config.BaseURL},
		{f.SeleniumURL, &config.SeleniumURL},
		{f.BrowserProtocol, &config.BrowserProtocol},
		{f.ReportDir, &config.ReportDir},
	}

	for _, o := range overrides {
		if value := strings.TrimSpace(o.value); value != "" {
			*o.target = value
		}
	}

	if f.HealthTimeout > 0 {
		config.HealthTimeout = f.HealthTimeout
	}

	if f.SessionTimeout > 0 {
		config.SessionTimeout = f.SessionTimeout
	}

	if f.WaitTimeout > 0 {
		config.WaitTimeout = f.WaitTimeout
	}

	config.DebugLogging = config.DebugLogging || f.DebugLogging

	return config.Validate()
}
