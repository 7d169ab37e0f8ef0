package services

import "fmt"

// Shop booking hours. Slots run on a fixed 30-minute grid from opening at
// 08:00 through the 20:00 hour, with the 12:00 lunch hour excluded.
const (
	slotOpenHour  = 8
	slotCloseHour = 20
	lunchHour     = 12
)

// GenerateSlots returns the fixed universe of bookable times for any day,
// as ascending "HH:MM" strings. The result is deterministic: 24 slots.
func GenerateSlots() []string {
	slots := make([]string, 0, 24)
	for hour := slotOpenHour; hour <= slotCloseHour; hour++ {
		if hour == lunchHour {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		slots = append(slots, fmt.Sprintf("%02d:30", hour))
	}
	return slots
}
