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
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/ptr"
)

// UniqueName returns a name that will not collide with earlier runs
// against the same database.
func UniqueName(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]

	return fmt.Sprintf("%s %s-%s", prefix, time.Now().Format("150405"), suffix)
}

// GenerateTestID returns a short identifier safe for usernames.
func GenerateTestID() string {
	return "e2e" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// ReservationPayloadBuilder builds reservation requests for testing.
type ReservationPayloadBuilder struct {
	payload ReservationRequest
}

// NewReservationPayload creates a builder for a cash booking by a single
// player using the pitch defaults for duration and shuttle.
func NewReservationPayload() *ReservationPayloadBuilder {
	return &ReservationPayloadBuilder{
		payload: ReservationRequest{
			PaymentMethod: PaymentCash,
			Players: []Player{
				{FullName: "API Player"},
			},
		},
	}
}

func (b *ReservationPayloadBuilder) WithPitchID(id int64) *ReservationPayloadBuilder {
	b.payload.PitchID = id
	return b
}

// WithStartTime sets the start from a local date and HH:MM in the given
// UTC offset, e.g. "2026-10-17", "18:00", "+03:00".
func (b *ReservationPayloadBuilder) WithStartTime(date, hhmm, offset string) *ReservationPayloadBuilder {
	b.payload.StartTime = StartTime(date, hhmm, offset)
	return b
}

// WithDuration sets the duration, zero restores the pitch default.
func (b *ReservationPayloadBuilder) WithDuration(minutes int) *ReservationPayloadBuilder {
	if minutes == 0 {
		b.payload.DurationMinutes = nil
		return b
	}

	b.payload.DurationMinutes = ptr.To(minutes)

	return b
}

func (b *ReservationPayloadBuilder) WithPaymentMethod(method PaymentMethod) *ReservationPayloadBuilder {
	b.payload.PaymentMethod = method
	return b
}

// WithPlayers replaces the player list.
func (b *ReservationPayloadBuilder) WithPlayers(names ...string) *ReservationPayloadBuilder {
	b.payload.Players = make([]Player, len(names))

	for i, name := range names {
		b.payload.Players[i] = Player{FullName: name}
	}

	return b
}

func (b *ReservationPayloadBuilder) WithShuttle(shuttle bool) *ReservationPayloadBuilder {
	b.payload.Shuttle = ptr.To(shuttle)
	return b
}

// Build returns a copy of the completed payload.
func (b *ReservationPayloadBuilder) Build() *ReservationRequest {
	payload := b.payload
	payload.Players = append([]Player(nil), b.payload.Players...)

	return &payload
}

// StartTime formats a slot start as an ISO-8601 date time with offset.
func StartTime(date, hhmm, offset string) string {
	return fmt.Sprintf("%sT%s:00%s", date, hhmm, offset)
}
