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

package e2e

import (
	"fmt"
	"net/url"
	"strconv"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Health is the actuator endpoint.
func (e *Endpoints) Health() string {
	return "/actuator/health"
}

// Public endpoints.
func (e *Endpoints) Register() string {
	return "/api/public/register"
}

func (e *Endpoints) ListFacilities() string {
	return "/api/public/facilities"
}

func (e *Endpoints) ListPitches(facilityID int64) string {
	return fmt.Sprintf("/api/public/facilities/%s/pitches",
		url.PathEscape(strconv.FormatInt(facilityID, 10)))
}

// Authenticated endpoints.
func (e *Endpoints) Me() string {
	return "/api/auth/me"
}

func (e *Endpoints) MembershipStatus(facilityID int64) string {
	query := url.Values{}
	query.Set("facilityId", strconv.FormatInt(facilityID, 10))

	return "/api/member/membership-status?" + query.Encode()
}

func (e *Endpoints) CreateReservation() string {
	return "/api/member/reservations"
}

// OwnerReservations lists reservations on a day, optionally narrowed to a
// facility and pitch.
func (e *Endpoints) OwnerReservations(date string, facilityID, pitchID *int64) string {
	query := url.Values{}
	query.Set("date", date)

	if facilityID != nil {
		query.Set("facilityId", strconv.FormatInt(*facilityID, 10))
	}

	if pitchID != nil {
		query.Set("pitchId", strconv.FormatInt(*pitchID, 10))
	}

	return "/api/owner/reservations?" + query.Encode()
}
