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
)

// scenarioTimeout bounds a single journey including its waits.
const scenarioTimeout = 3 * time.Minute

// Journeys build on each other's data, so they run in declaration order.
// A failure does not skip the rest, each journey stands on its own session.
var _ = Describe("eHalisaha journeys", Ordered, ContinueOnFailure, func() {
	Context("When a visitor signs up", func() {
		memberRegisters()
	})

	Context("When the owner prepares a facility", func() {
		ownerLogsIn()
		ownerCreatesFacility()
		memberLogsIn()
		ownerSetsUpSlotsPitchAndPricing()
	})

	Context("When the member joins the facility", func() {
		memberRequestsMembership()
		ownerApprovesMembership()
	})

	Context("When the member books a slot", func() {
		memberMakesReservation()
		memberCannotDoubleBook()
		ownerSeesReservation()
	})

	Context("When the member asks to join again", func() {
		repeatedMembershipRequestFails()
	})

	Context("When the API is used directly", func() {
		apiJourneys()
	})
})
