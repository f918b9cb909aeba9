package utils

import (
	"fmt"
	"time"
)

// DateParts are the guest-facing renderings of an instant.
type DateParts struct {
	DayOfWeek     string `json:"day_of_week"`
	FormattedDate string `json:"formatted_date"`
	FormattedTime string `json:"formatted_time"`
	FormattedFull string `json:"formatted_full"`
}

func OrdinalSuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// FormatClock renders a 12-hour clock such as "9:05 AM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatDate renders "January 21st".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s", t.Month(), t.Day(), OrdinalSuffix(t.Day()))
}

// FormatParts renders all presentation fields of a local instant.
func FormatParts(t time.Time) DateParts {
	date := FormatDate(t)
	clock := FormatClock(t)
	return DateParts{
		DayOfWeek:     t.Weekday().String(),
		FormattedDate: date,
		FormattedTime: clock,
		FormattedFull: fmt.Sprintf("%s, %s at %s", t.Weekday(), date, clock),
	}
}
