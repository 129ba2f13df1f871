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
	"regexp"
	"strconv"
	"strings"

	"github.com/ehalisaha/e2e/pkg/browser"
)

// slotStart matches the start of a "HH:MM-HH:MM" label.
var slotStart = regexp.MustCompile(`(\d{2}):(\d{2})\s*-`)

// ChooseSlot picks the grid button to book: the first enabled free slot,
// otherwise the first enabled one.
func ChooseSlot(slots []browser.Element) (int, bool) {
	for i := range slots {
		if slots[i].Enabled && strings.Contains(strings.ToUpper(slots[i].Text), SlotFree) {
			return i, true
		}
	}

	for i := range slots {
		if slots[i].Enabled {
			return i, true
		}
	}

	return -1, false
}

// FindBookedSlot returns the first slot labelled as taken.
func FindBookedSlot(slots []browser.Element) (int, bool) {
	for i := range slots {
		if strings.Contains(strings.ToUpper(slots[i].Text), SlotFull) {
			return i, true
		}
	}

	return -1, false
}

// ParseSlotStart extracts the start time of a slot label as HH:MM.
func ParseSlotStart(label string) (string, bool) {
	match := slotStart.FindStringSubmatch(label)
	if match == nil {
		return "", false
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])

	if hours > 23 || minutes > 59 {
		return "", false
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes), true
}
