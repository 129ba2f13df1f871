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
	"github.com/ehalisaha/e2e/pkg/browser"
)

// Role selects which login form is shown.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// UI pages.
const (
	OwnerPath             = "/ui/owner.html"
	MemberPath            = "/ui/member.html"
	OwnerReservationsPath = "/ui/owner-reservations.html"
)

func LoginPath(role Role) string {
	return "/ui/login.html?role=" + string(role)
}

func RegisterPath(role Role) string {
	return "/ui/register.html?role=" + string(role)
}

// The element identifiers below are what the pages expose to scripts and
// tests alike, renaming any of them in the application breaks the suites.

//nolint:gochecknoglobals
var (
	// Login and registration.
	LoginUsername  = browser.ID("u")
	LoginPassword  = browser.ID("p")
	LoginSubmit    = browser.ID("btn")
	RegUsername    = browser.ID("username")
	RegPassword    = browser.ID("password")
	RegPassword2   = browser.ID("password2")
	RegSubmit      = browser.ID("btnRegister")
	RegisterOutput = browser.ID("out")

	// Owner dashboard.
	OwnerOutput         = browser.ID("ownerOut")
	FacilityName        = browser.ID("facName")
	FacilityAddress     = browser.ID("facAddr")
	CreateFacility      = browser.ByText("button", "Facility oluştur")
	OwnerFacilitySelect = browser.ID("ownerFacilitySel")
	SlotPresetDay       = browser.ByOnclick("slotPreset('day')")
	SaveSlots           = browser.ByOnclick("saveSlots")
	PitchName           = browser.ID("pitchName")
	CreatePitch         = browser.ByOnclick("createPitch")
	OwnerPitchSelect    = browser.ID("ownerPitchSel")
	PriceDuration       = browser.ID("priceDurationSel")
	PriceValue          = browser.ID("priceValue")
	UpsertPricing       = browser.ByOnclick("upsertPricing")
	PricingBox          = browser.ID("pricingBox")
	ApproveRequest      = browser.CSS("#reqBox [data-a='approve']")

	// Member dashboard.
	MemberOutput      = browser.ID("memberOut")
	FacilitySelect    = browser.ID("facilitySel")
	PitchSelect       = browser.ID("pitchSel")
	RequestMembership = browser.ID("btnMembership")
	SlotGrid          = browser.ID("slotGrid")
	SlotButtons       = browser.CSS("#slotGrid button")
	FillPlayers       = browser.ID("btnFillPlayers")
	PaymentSelect     = browser.ID("paySel")
	ShuttleSelect     = browser.ID("shuttleSel")
	Reserve           = browser.ID("btnReserve")
	DateSelect        = browser.ID("dateSel")

	// Owner reservation ledger, which reuses facilitySel and pitchSel.
	Today            = browser.ID("btnToday")
	Refresh          = browser.ID("btnRefresh")
	ReservationCards = browser.CSS("#listBox .card")
	ReservationList  = browser.ID("listBox")
)

// Slot labels rendered in the grid.
const (
	SlotFree = "BOŞ"
	SlotFull = "DOLU"
)
