package catalog

import (
	"strconv"
	"strings"
)

// Ticket prices by part of the day.
const (
	PriceMorning   = 200 // 06:00 - 11:59
	PriceAfternoon = 300 // 12:00 - 17:59
	PriceNight     = 150 // 18:00 - 05:59
	PriceDefault   = 200 // slot text could not be parsed
)

// Price derives the ticket price of a slot written as "hh:mm AM|PM".
func Price(slot string) int {
	hour, ok := slotHour(slot)
	if !ok {
		return PriceDefault
	}
	switch {
	case hour >= 6 && hour < 12:
		return PriceMorning
	case hour >= 12 && hour < 18:
		return PriceAfternoon
	default:
		return PriceNight
	}
}

// slotHour converts a 12-hour slot into a 0-23 hour.
func slotHour(slot string) (int, bool) {
	fields := strings.Fields(slot)
	if len(fields) == 0 {
		return 0, false
	}
	hh, _, found := strings.Cut(fields[0], ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 12 {
		return 0, false
	}
	pm := strings.Contains(strings.ToUpper(slot), "PM")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return hour, true
}
