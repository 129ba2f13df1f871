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
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/ehalisaha/e2e/pkg/condition"
	"github.com/ehalisaha/e2e/test/e2e"
)

func memberMakesReservation() {
	It("[07] should let an approved member reserve a slot", func(ctx SpecContext) {
		// Given: A signed in member looking at a pitch's slots
		ui := e2e.NewSessionWithCleanup(ctx, harness)
		ui.LoginMember()
		ui.SelectFacilityAndPitch()
		slots := ui.WaitSlots()

		// When: A free slot is picked and filled in
		index, ok := e2e.ChooseSlot(slots)
		Expect(ok).To(BeTrue(), "no selectable slot among %d", len(slots))
		GinkgoWriter.Printf("Booking slot: %q\n", slots[index].Text)

		ui.PressNth(e2e.SlotButtons, index)
		ui.Press(e2e.FillPlayers)
		ui.ChooseIfPresent(e2e.PaymentSelect, string(e2e.PaymentCard))
		ui.ChooseIfPresent(e2e.ShuttleSelect, "YES")

		// And: The reservation is submitted
		ui.Press(e2e.Reserve)

		// Then: The member output confirms it
		ui.WaitUntil(condition.Holds(condition.TextContains(e2e.MemberOutput, "Rezervasyon alındı")), 25*time.Second)
	}, SpecTimeout(scenarioTimeout))
}

func memberCannotDoubleBook() {
	It("[08] should refuse to book a taken slot twice", func(ctx SpecContext) {
		// Given: A signed in member looking at a pitch with a booked slot
		ui := e2e.NewSessionWithCleanup(ctx, harness)
		ui.LoginMember()
		pitch := ui.SelectFacilityAndPitch()
		slots := ui.WaitSlots()

		index, ok := e2e.FindBookedSlot(slots)
		Expect(ok).To(BeTrue(), "no booked slot, was a reservation made?")

		// Then: The UI does not offer it
		Expect(slots[index].Enabled).To(BeFalse(), "booked slot %q is clickable", slots[index].Text)

		// When: The same slot is booked through the API
		ui.WaitVisible(e2e.DateSelect)
		date := ui.Value(e2e.DateSelect)

		start, ok := e2e.ParseSlotStart(slots[index].Text)
		Expect(ok).To(BeTrue(), "cannot read a start time from %q", slots[index].Text)

		pitchID, err := strconv.ParseInt(pitch, 10, 64)
		Expect(err).NotTo(HaveOccurred(), "pitch value %q", pitch)

		payload := e2e.NewReservationPayload().
			WithPitchID(pitchID).
			WithStartTime(date, start, config.UTCOffset).
			WithDuration(60).
			WithPaymentMethod(e2e.PaymentCash).
			WithShuttle(false).
			Build()

		result, err := harness.Member().CreateReservation(ctx, payload)
		Expect(err).NotTo(HaveOccurred())

		// Then: The application reports a conflict
		Expect(result.StatusCode).To(BeElementOf(http.StatusConflict, http.StatusBadRequest),
			"expected a conflict, got %d %s", result.StatusCode, result.Body)

		if result.StatusCode != http.StatusConflict {
			body := strings.ToLower(result.Body)
			Expect(strings.Contains(body, "conflict") || strings.Contains(body, "already")).To(BeTrue(),
				"400 without a conflict reason: %s", result.Body)
		}
	}, SpecTimeout(scenarioTimeout))
}
