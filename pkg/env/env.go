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

// Package env resolves harness settings from the process environment.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ehalisaha/e2e/pkg/errors"
)

const (
	// BaseURL is the application root URL.
	BaseURL = "BASE_URL"
	// SeleniumURL is the remote browser grid endpoint.
	SeleniumURL = "SELENIUM_URL"

	// DefaultBaseURL is used when BASE_URL is unset.
	DefaultBaseURL = "http://app:8080"
	// DefaultSeleniumURL is used when SELENIUM_URL is unset.
	DefaultSeleniumURL = "http://selenium:4444/wd/hub"
)

// LookupFunc has the semantics of os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Resolver reads named values.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver returns a resolver over the process environment.
func NewResolver() *Resolver {
	return &Resolver{
		lookup: os.LookupEnv,
	}
}

// NewResolverWithLookup returns a resolver over an arbitrary source.
func NewResolverWithLookup(lookup LookupFunc) *Resolver {
	return &Resolver{
		lookup: lookup,
	}
}

// NewResolverFromMap returns a resolver over a fixed set of values.
func NewResolverFromMap(values map[string]string) *Resolver {
	return NewResolverWithLookup(func(name string) (string, bool) {
		value, ok := values[name]

		return value, ok
	})
}

func missing(name string) error {
	return errors.NewConfigurationError(name, "Missing env var")
}

// Get returns the trimmed value of name, falling back to def only when the
// variable is not set at all.  A value that is empty after trimming is an
// error, even when a default exists.
func (r *Resolver) Get(name, def string) (string, error) {
	value, ok := r.lookup(name)
	if !ok {
		value = def
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", missing(name)
	}

	return value, nil
}

// Require returns the trimmed value of name, which must be set.
func (r *Resolver) Require(name string) (string, error) {
	return r.Get(name, "")
}

// FirstOf resolves the first of names that is set, so aliases such as
// BASE_URL and E2E_BASE_URL are honoured in order.
func (r *Resolver) FirstOf(def string, names ...string) (string, error) {
	for _, name := range names {
		if _, ok := r.lookup(name); ok {
			return r.Get(name, def)
		}
	}

	if len(names) == 0 {
		return "", missing("<unnamed>")
	}

	return r.Get(names[0], def)
}

// Optional returns the trimmed value or an empty string, it never fails.
func (r *Resolver) Optional(name string) string {
	value, _ := r.lookup(name)

	return strings.TrimSpace(value)
}

// Duration resolves a Go duration string, falling back to def when unset.
func (r *Resolver) Duration(name string, def time.Duration) (time.Duration, error) {
	value, ok := r.lookup(name)
	if !ok {
		return def, nil
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, missing(name)
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		// Plain numbers are seconds.
		seconds, serr := strconv.ParseFloat(value, 64)
		if serr != nil {
			return 0, errors.NewConfigurationError(name, "Invalid duration "+strconv.Quote(value)+" for env var")
		}

		duration = time.Duration(seconds * float64(time.Second))
	}

	if duration <= 0 {
		return 0, errors.NewConfigurationError(name, "Non-positive duration for env var")
	}

	return duration, nil
}

// Bool resolves a boolean, falling back to def when unset or blank.
func (r *Resolver) Bool(name string, def bool) (bool, error) {
	value := r.Optional(name)
	if value == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.NewConfigurationError(name, "Invalid boolean "+strconv.Quote(value)+" for env var")
	}

	return b, nil
}

// List splits the value on sep, dropping blank parts.  Unset is an empty list.
func (r *Resolver) List(name, sep string) []string {
	value := r.Optional(name)
	if value == "" {
		return nil
	}

	var out []string

	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
