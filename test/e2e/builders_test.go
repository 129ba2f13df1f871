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
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/ehalisaha/e2e/pkg/browser"
	"github.com/ehalisaha/e2e/test/e2e"
)

var _ = Describe("Reservation payloads", func() {
	It("should default to a single cash player and pitch defaults", func() {
		payload := e2e.NewReservationPayload().
			WithPitchID(7).
			WithStartTime("2026-10-17", "18:00", "+03:00").
			Build()

		data, err := json.Marshal(payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{
			"pitchId": 7,
			"startTime": "2026-10-17T18:00:00+03:00",
			"paymentMethod": "CASH",
			"players": [{"fullName": "API Player"}]
		}`))
	})

	It("should carry the optional fields when set", func() {
		payload := e2e.NewReservationPayload().
			WithPitchID(7).
			WithStartTime("2026-10-17", "08:30", "+03:00").
			WithDuration(60).
			WithPaymentMethod(e2e.PaymentCard).
			WithPlayers("Ali", "Veli").
			WithShuttle(false).
			Build()

		Expect(*payload.DurationMinutes).To(Equal(60))
		Expect(*payload.Shuttle).To(BeFalse())
		Expect(payload.Players).To(HaveLen(2))
		Expect(payload.PaymentMethod).To(Equal(e2e.PaymentCard))
	})

	It("should not share state between built payloads", func() {
		builder := e2e.NewReservationPayload()
		first := builder.Build()

		builder.WithPlayers("Someone Else")
		Expect(first.Players[0].FullName).To(Equal("API Player"))
	})

	It("should generate distinct names", func() {
		Expect(e2e.UniqueName("CI Pitch")).NotTo(Equal(e2e.UniqueName("CI Pitch")))
		Expect(e2e.UniqueName("CI Pitch")).To(HavePrefix("CI Pitch "))
		Expect(e2e.GenerateTestID()).To(MatchRegexp(`^e2e[0-9a-f]{10}$`))
	})
})

var _ = Describe("Slot grid", func() {
	free := browser.Element{Tag: "BUTTON", Text: "18:00-19:00 BOŞ", Enabled: true, Visible: true}
	full := browser.Element{Tag: "BUTTON", Text: "17:00-18:00\nDOLU", Enabled: false, Visible: true}
	other := browser.Element{Tag: "BUTTON", Text: "19:00-20:00", Enabled: true, Visible: true}

	DescribeTable("choosing a slot to book",
		func(slots []browser.Element, index int, ok bool) {
			i, found := e2e.ChooseSlot(slots)
			Expect(found).To(Equal(ok))
			Expect(i).To(Equal(index))
		},
		Entry("prefers a free slot", []browser.Element{full, other, free}, 2, true),
		Entry("falls back to any enabled slot", []browser.Element{full, other}, 1, true),
		Entry("matches the label regardless of case", []browser.Element{{Text: "20:00-21:00 boş", Enabled: true}}, 0, true),
		Entry("finds nothing when all are taken", []browser.Element{full}, -1, false),
	)

	It("should find a booked slot", func() {
		i, ok := e2e.FindBookedSlot([]browser.Element{free, full})
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(1))

		_, ok = e2e.FindBookedSlot([]browser.Element{free, other})
		Expect(ok).To(BeFalse())
	})

	DescribeTable("parsing a slot start",
		func(label, start string, ok bool) {
			got, found := e2e.ParseSlotStart(label)
			Expect(found).To(Equal(ok))
			Expect(got).To(Equal(start))
		},
		Entry("plain range", "08:00-09:00", "08:00", true),
		Entry("spaced range with status", "17:30 - 18:30\nDOLU", "17:30", true),
		Entry("no range", "DOLU", "", false),
		Entry("out of range hour", "25:00-26:00", "", false),
	)

	It("should build an offset start time", func() {
		Expect(e2e.StartTime("2026-10-17", "17:30", "+03:00")).To(Equal("2026-10-17T17:30:00+03:00"))
	})
})

var _ = Describe("Failure artifacts", func() {
	It("should derive a file safe name", func() {
		at := time.Date(2026, 10, 17, 18, 5, 0, 0, time.UTC)

		Expect(e2e.ArtifactName("Booking [07] member reserves: a slot!", at)).
			To(Equal("20261017-180500-Booking_07_member_reserves_a_slot"))
		Expect(e2e.ArtifactName("***", at)).To(Equal("20261017-180500-scenario"))
	})
})
