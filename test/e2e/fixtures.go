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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package e2e

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ehalisaha/e2e/pkg/browser"
	"github.com/ehalisaha/e2e/pkg/condition"
)

// releaseTimeout bounds artifact capture and session teardown.
const releaseTimeout = 30 * time.Second

// UI drives one browser session on behalf of a single spec.  Every helper
// fails the spec through Gomega rather than returning an error.
type UI struct {
	// ctx is the running spec's context, so an interrupt stops any wait.
	ctx     context.Context
	harness *Harness
	Session *browser.Session
}

// WaitForAppOrFail gates a spec on application health.
func WaitForAppOrFail(ctx context.Context, h *Harness) {
	Expect(h.WaitForApp(ctx)).To(Succeed(), "application at %s never became healthy", h.Config.BaseURL)
}

// NewSessionWithCleanup acquires a browser session and schedules its
// release, this runs whether the spec passes or fails.  A failed spec gets
// its artifacts captured before the browser goes away.
func NewSessionWithCleanup(ctx context.Context, h *Harness) *UI {
	session, err := h.NewSession(ctx)
	Expect(err).NotTo(HaveOccurred(), "no browser session from %s", h.Config.SeleniumURL)

	GinkgoWriter.Printf("Acquired browser session: %s\n", session.ID())

	DeferCleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(h.Context(context.Background()), releaseTimeout)
		defer cancel()

		if CurrentSpecReport().Failed() {
			name := ArtifactName(CurrentSpecReport().FullText(), time.Now())

			if err := CaptureFailure(cleanupCtx, session, h.Config, name); err != nil {
				GinkgoWriter.Printf("Warning: incomplete failure artifacts for %s: %v\n", name, err)
			}
		}

		if err := session.Release(cleanupCtx); err != nil {
			GinkgoWriter.Printf("Warning: Failed to release browser session %s: %v\n", session.ID(), err)
		} else {
			GinkgoWriter.Printf("Released browser session: %s\n", session.ID())
		}
	})

	return &UI{
		ctx:     h.Context(ctx),
		harness: h,
		Session: session,
	}
}

func (u *UI) timeout() time.Duration {
	return u.harness.Config.WaitTimeout
}

// Open navigates to a path of the application.
func (u *UI) Open(path string) {
	GinkgoHelper()

	Expect(u.Session.Navigate(u.ctx, u.harness.Config.URL(path))).To(Succeed())
}

// WaitURL waits for the URL to contain fragment.
func (u *UI) WaitURL(fragment string, timeout time.Duration) string {
	GinkgoHelper()

	url, err := condition.WaitFor(u.ctx, u.Session, condition.URLContains(fragment), timeout)
	Expect(err).NotTo(HaveOccurred())

	return url
}

// WaitVisible waits for l to be visible.
func (u *UI) WaitVisible(l browser.Locator) *browser.Element {
	GinkgoHelper()

	element, err := condition.WaitFor(u.ctx, u.Session, condition.ElementVisible(l), u.timeout())
	Expect(err).NotTo(HaveOccurred())

	return element
}

// WaitText waits for l to be visible and mention any of texts.
func (u *UI) WaitText(l browser.Locator, texts ...string) string {
	GinkgoHelper()

	element, err := condition.WaitFor(u.ctx, u.Session, condition.TextContains(l, texts...), u.timeout())
	Expect(err).NotTo(HaveOccurred())

	return element.Text
}

// WaitCount waits for l to match at least n elements.
func (u *UI) WaitCount(l browser.Locator, n int, timeout time.Duration) int {
	GinkgoHelper()

	count, err := condition.WaitFor(u.ctx, u.Session, condition.CountAtLeast(l, n), timeout)
	Expect(err).NotTo(HaveOccurred())

	return count
}

// WaitUntil waits for an arbitrary condition.
func (u *UI) WaitUntil(c condition.Condition[bool], timeout time.Duration) {
	GinkgoHelper()

	_, err := condition.WaitFor(u.ctx, u.Session, c, timeout)
	Expect(err).NotTo(HaveOccurred())
}

// Type replaces the content of a visible field.
func (u *UI) Type(l browser.Locator, value string) {
	GinkgoHelper()

	u.WaitVisible(l)
	Expect(u.Session.Fill(u.ctx, l, value)).To(Succeed())
}

// Press clicks the first match of l once it exists.
func (u *UI) Press(l browser.Locator) {
	GinkgoHelper()

	u.PressNth(l, 0)
}

// PressNth clicks the n-th match of l once it exists.
func (u *UI) PressNth(l browser.Locator, n int) {
	GinkgoHelper()

	u.WaitCount(l, n+1, u.timeout())
	Expect(u.Session.ClickNth(u.ctx, l, n)).To(Succeed())
}

// Choose selects the first usable option of a visible select.
func (u *UI) Choose(l browser.Locator) string {
	GinkgoHelper()

	u.WaitVisible(l)

	value, err := u.Session.SelectFirstNonEmpty(u.ctx, l)
	Expect(err).NotTo(HaveOccurred())

	return value
}

// ChooseIfPresent selects value when the select offers it and reports
// whether it did.
func (u *UI) ChooseIfPresent(l browser.Locator, value string) bool {
	GinkgoHelper()

	u.WaitVisible(l)

	err := u.Session.SelectValue(u.ctx, l, value)
	if errors.Is(err, browser.ErrNoOption) {
		return false
	}

	Expect(err).NotTo(HaveOccurred())

	return true
}

// Text returns the current text of l, empty when absent.
func (u *UI) Text(l browser.Locator) string {
	GinkgoHelper()

	text, err := u.Session.Text(u.ctx, l)
	Expect(err).NotTo(HaveOccurred())

	return text
}

// Value returns the form value of l.
func (u *UI) Value(l browser.Locator) string {
	GinkgoHelper()

	value, err := u.Session.Value(u.ctx, l)
	Expect(err).NotTo(HaveOccurred())

	return value
}

// Elements describes every match of l.
func (u *UI) Elements(l browser.Locator) []browser.Element {
	GinkgoHelper()

	elements, err := u.Session.Elements(u.ctx, l)
	Expect(err).NotTo(HaveOccurred())

	return elements
}

// Mentions reports whether the page source contains text, ignoring case.
func (u *UI) Mentions(text string) bool {
	GinkgoHelper()

	found, err := u.Session.ContainsText(u.ctx, text)
	Expect(err).NotTo(HaveOccurred())

	return found
}

// Login signs in through the login form and waits for the role's
// dashboard output to appear.
func (u *UI) Login(role Role, username, password string) {
	GinkgoHelper()

	landing, output := OwnerPath, OwnerOutput
	if role == RoleMember {
		landing, output = MemberPath, MemberOutput
	}

	u.Open(LoginPath(role))
	u.Type(LoginUsername, username)
	u.Type(LoginPassword, password)
	u.Press(LoginSubmit)

	u.WaitURL(landing, 20*time.Second)
	u.WaitVisible(output)
}

// LoginOwner signs in as the configured owner.
func (u *UI) LoginOwner() {
	GinkgoHelper()

	u.Login(RoleOwner, u.harness.Config.OwnerUsername, u.harness.Config.OwnerPassword)
}

// LoginMember signs in as the configured member.
func (u *UI) LoginMember() {
	GinkgoHelper()

	u.Login(RoleMember, u.harness.Config.MemberUsername, u.harness.Config.MemberPassword)
}

// SelectFacilityAndPitch picks the first facility and pitch on pages that
// share the facilitySel and pitchSel controls.  It returns the pitch value.
func (u *UI) SelectFacilityAndPitch() string {
	GinkgoHelper()

	u.Choose(FacilitySelect)

	return u.Choose(PitchSelect)
}

// WaitSlots waits for the slot grid to render and describes its buttons.
func (u *UI) WaitSlots() []browser.Element {
	GinkgoHelper()

	u.WaitVisible(SlotGrid)
	u.WaitCount(SlotButtons, 1, 25*time.Second)

	return u.Elements(SlotButtons)
}
