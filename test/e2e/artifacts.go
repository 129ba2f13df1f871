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
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/ehalisaha/e2e/pkg/browser"
)

const maxArtifactName = 80

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArtifactName turns a spec description into a file name prefix.
func ArtifactName(description string, at time.Time) string {
	name := strings.Trim(unsafeName.ReplaceAllString(description, "_"), "_")
	if len(name) > maxArtifactName {
		name = name[:maxArtifactName]
	}

	if name == "" {
		name = "scenario"
	}

	return fmt.Sprintf("%s-%s", at.Format("20060102-150405"), name)
}

// CaptureFailure writes what the browser showed when a scenario failed:
// a screenshot, the page source and a text summary.  Whatever can be
// captured is written, the aggregate of what could not is returned for
// logging only.
func CaptureFailure(ctx context.Context, session *browser.Session, config *TestConfig, name string) error {
	logger := log.FromContext(ctx).WithValues("session", session.ID(), "name", name)

	if err := os.MkdirAll(config.ReportDir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	base := filepath.Join(config.ReportDir, name)

	var errs []error

	if png, err := session.Screenshot(ctx); err != nil {
		errs = append(errs, err)
	} else if err := os.WriteFile(base+".png", png, 0o600); err != nil {
		errs = append(errs, err)
	}

	if source, err := session.Source(ctx); err != nil {
		errs = append(errs, err)
	} else if err := os.WriteFile(base+".html", []byte(source), 0o600); err != nil {
		errs = append(errs, err)
	}

	summary, err := summarize(ctx, session, config)
	if err != nil {
		errs = append(errs, err)
	}

	if err := os.WriteFile(base+".txt", []byte(summary), 0o600); err != nil {
		errs = append(errs, err)
	}

	logger.Info("failure artifacts written", "dir", config.ReportDir)

	return utilerrors.NewAggregate(errs)
}

func summarize(ctx context.Context, session *browser.Session, config *TestConfig) (string, error) {
	var (
		b    strings.Builder
		errs []error
	)

	url, err := session.CurrentURL(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	fmt.Fprintf(&b, "URL: %s\n", url)
	fmt.Fprintf(&b, "BASE_URL: %s\n", config.BaseURL)
	fmt.Fprintf(&b, "SELENIUM_URL: %s\n", config.SeleniumURL)

	for _, output := range []browser.Locator{OwnerOutput, MemberOutput} {
		text, err := session.Text(ctx, output)
		if err != nil {
			errs = append(errs, err)
		}

		fmt.Fprintf(&b, "%s: %s\n", output, text)
	}

	scriptErrors := session.ScriptErrors()

	fmt.Fprintf(&b, "JS errors: %d\n", len(scriptErrors))

	for _, e := range scriptErrors {
		fmt.Fprintf(&b, "  %s\n", e)
	}

	return b.String(), utilerrors.NewAggregate(errs)
}
