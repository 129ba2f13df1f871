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
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/ehalisaha/e2e/test/e2e"
)

func apiJourneys() {
	It("should report the application as up", func(ctx SpecContext) {
		// Given: A healthy application
		// When: The actuator is read
		status, health, err := harness.API.Health(ctx)

		// Then: It is up
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(http.StatusOK))
		Expect(health.Status).To(Equal("UP"))
	})

	It("should register a new member exactly once", func(ctx SpecContext) {
		// Given: A username nobody has taken
		username := e2e.GenerateTestID()

		// When: It is registered
		status, err := harness.API.Register(ctx, username, "secret123")

		// Then: The account is created and can sign in as a member
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(BeElementOf(http.StatusOK, http.StatusCreated))

		me, err := harness.API.WithBasicAuth(username, "secret123").Me(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(me.Username).To(Equal(username))
		Expect(strings.ToUpper(me.Role)).To(ContainSubstring(string(e2e.RoleMember)))

		// When: The same username is registered again
		status, err = harness.API.Register(ctx, username, "secret123")

		// Then: It is refused as a conflict
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(http.StatusConflict))
	})

	It("should identify the authenticated member", func(ctx SpecContext) {
		// Given: The configured member's credentials
		// When: The current user is requested
		me, err := harness.Member().Me(ctx)

		// Then: It is that member
		Expect(err).NotTo(HaveOccurred())
		Expect(me.Username).To(Equal(config.MemberUsername))
		Expect(strings.ToUpper(me.Role)).To(ContainSubstring(string(e2e.RoleMember)))
	})

	It("should report the member's standing at a facility", func(ctx SpecContext) {
		// Given: The public facility list
		facilities, err := harness.API.ListFacilities(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(facilities).NotTo(BeEmpty())

		// When: The member asks about the first one
		status, err := harness.Member().MembershipStatus(ctx, facilities[0].ID)

		// Then: The answer is about that facility
		Expect(err).NotTo(HaveOccurred())
		Expect(status.FacilityID).To(Equal(facilities[0].ID))
		GinkgoWriter.Printf("Membership at %q: member=%t\n", facilities[0].Name, status.Member)
	})

	It("should list today's reservations in the owner ledger", func(ctx SpecContext) {
		// Given: A reservation made earlier today
		// When: The owner reads today's ledger
		reservations, err := harness.Owner().OwnerReservations(ctx, config.Today(), nil, nil)

		// Then: It is not empty
		Expect(err).NotTo(HaveOccurred())
		Expect(reservations).NotTo(BeEmpty())

		for _, r := range reservations {
			GinkgoWriter.Printf("Reservation %d on pitch %d at %s: %s\n", r.ID, r.PitchID, r.StartTime, r.Status)
		}
	})
}
