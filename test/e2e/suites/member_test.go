//go:build e2e

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

package suites

import (
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive

	"github.com/ehalisaha/e2e/pkg/condition"
	"github.com/ehalisaha/e2e/test/e2e"
)

func memberRegisters() {
	It("[00] should let a visitor register as a member", func(ctx SpecContext) {
		// Given: The member registration page
		ui := e2e.NewSessionWithCleanup(ctx, harness)
		ui.Open(e2e.RegisterPath(e2e.RoleMember))

		// When: A new username is registered
		username := e2e.GenerateTestID()
		ui.Type(e2e.RegUsername, username)
		ui.Type(e2e.RegPassword, "secret123")
		ui.Type(e2e.RegPassword2, "secret123")
		ui.Press(e2e.RegSubmit)

		// Then: The visitor is sent to log in, or told it worked
		ui.WaitUntil(condition.AnyOf(
			condition.Holds(condition.URLContains("/ui/login.html")),
			condition.Holds(condition.TextContains(e2e.RegisterOutput, "başar")),
		), 20*time.Second)

		GinkgoWriter.Printf("Registered member: %s\n", username)
	}, SpecTimeout(scenarioTimeout))
}

func memberLogsIn() {
	It("[03] should take the member to the dashboard", func(ctx SpecContext) {
		// Given: A fresh browser
		ui := e2e.NewSessionWithCleanup(ctx, harness)

		// When: The member logs in
		ui.LoginMember()

		// Then: The dashboard reports it is ready
		ui.WaitText(e2e.MemberOutput, "Hazır")
	}, SpecTimeout(scenarioTimeout))
}

func memberRequestsMembership() {
	It("[05] should let the member ask to join a facility", func(ctx SpecContext) {
		// Given: A signed in member with a facility and pitch selected
		ui := e2e.NewSessionWithCleanup(ctx, harness)
		ui.LoginMember()
		ui.SelectFacilityAndPitch()

		// When: A membership is requested
		before := ui.Text(e2e.MemberOutput)
		ui.Press(e2e.RequestMembership)

		// Then: The member output changes to confirm the request went out
		ui.WaitUntil(condition.Holds(condition.TextChangedFrom(before,
			condition.TextMentions(e2e.MemberOutput, "Üyelik", "gönderildi", "istek", "✅"),
		)), 20*time.Second)
	}, SpecTimeout(scenarioTimeout))
}

func repeatedMembershipRequestFails() {
	It("[10] should refuse a second membership request", func(ctx SpecContext) {
		// Given: A signed in member who already belongs to the facility
		ui := e2e.NewSessionWithCleanup(ctx, harness)
		ui.LoginMember()
		ui.SelectFacilityAndPitch()

		// When: Membership is requested twice
		before := ui.Text(e2e.MemberOutput)
		ui.Press(e2e.RequestMembership)
		ui.Press(e2e.RequestMembership)

		// Then: The member output changes to report an error
		ui.WaitUntil(condition.Holds(condition.TextChangedFrom(before,
			condition.TextContains(e2e.MemberOutput, "Üyelik isteği hatası", "hata", "already", "❌"),
		)), 20*time.Second)
	}, SpecTimeout(scenarioTimeout))
}
