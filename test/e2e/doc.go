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

// Package e2e provides the scaffolding the eHalisaha end-to-end suites are
// written against.
//
// # Configuration
//
// TestConfig is resolved once per run, from struct defaults, an optional
// .env file, the environment and finally command line flags.  A blank or
// malformed value fails the run before anything touches the network.
//
// # Browser
//
// Scenarios obtain a UI from NewSessionWithCleanup.  The underlying session
// comes from a remote grid, or a bare DevTools endpoint, and is released
// when the spec ends whatever its outcome.  Failed specs leave a
// screenshot, the page source and a summary in the report directory.
//
// # API
//
// APIClient is a small hand written client rather than a generated one.
// Any change to the application API has to be mirrored here and in the
// embedded contract, which makes such changes visible in review.  It adds:
//   - W3C trace context propagation for request correlation
//   - basic authentication per user
//   - retries with exponential backoff for idempotent reads only
//   - contract validation of every exchange
//   - direct access to HTTP status codes and response bodies
package e2e
