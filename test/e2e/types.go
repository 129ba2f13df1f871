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

// PaymentMethod is how a reservation is paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationCreated   ReservationStatus = "CREATED"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

type Health struct {
	Status string `json:"status"`
}

type Me struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Facility struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

type Pitch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MembershipStatus struct {
	FacilityID       int64   `json:"facilityId"`
	Member           bool    `json:"member"`
	MembershipStatus *string `json:"membershipStatus"`
	MembershipID     *int64  `json:"membershipId"`
	RequestStatus    *string `json:"requestStatus"`
}

type Player struct {
	FullName string `json:"fullName"`
}

// ReservationRequest books a slot.  Omitted duration and shuttle fall back
// to the pitch defaults.
type ReservationRequest struct {
	PitchID         int64         `json:"pitchId"`
	StartTime       string        `json:"startTime"`
	DurationMinutes *int          `json:"durationMinutes,omitempty"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Players         []Player      `json:"players"`
	Shuttle         *bool         `json:"shuttle,omitempty"`
}

// ReservationResponse is the raw outcome of a booking attempt, conflicts
// are an expected result rather than an error.
type ReservationResponse struct {
	StatusCode int
	Body       string
}

type OwnerReservation struct {
	ID            int64             `json:"id"`
	FacilityID    *int64            `json:"facilityId"`
	PitchID       int64             `json:"pitchId"`
	PitchName     *string           `json:"pitchName"`
	StartTime     string            `json:"startTime"`
	EndTime       *string           `json:"endTime"`
	Status        ReservationStatus `json:"status"`
	TotalPrice    *float64          `json:"totalPrice"`
	PaymentStatus *string           `json:"paymentStatus"`
	Username      *string           `json:"username"`
}
