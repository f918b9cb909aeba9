package availability

import (
	"fmt"
	"time"

	"slotfinder/models"
)

// ParseClock reads "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// BuildWindows covers [dayStart, dayEnd] with windows of the given width
// advancing by step. When step < width consecutive windows overlap, so a run
// of slots longer than the upstream cap cannot hide behind a seam. The last
// window is pinned to dayEnd.
func BuildWindows(dayStart, dayEnd int, width, step time.Duration) ([]models.DiscoveryWindow, error) {
	w := int(width / time.Minute)
	s := int(step / time.Minute)
	if w <= 0 || s <= 0 {
		return nil, fmt.Errorf("window width and step must be positive")
	}
	if s > w {
		return nil, fmt.Errorf("window step %v larger than width %v leaves gaps", step, width)
	}
	if dayEnd <= dayStart {
		return nil, fmt.Errorf("day end must be after day start")
	}
	if dayEnd-dayStart <= w {
		return []models.DiscoveryWindow{{Start: dayStart, End: dayEnd}}, nil
	}

	var out []models.DiscoveryWindow
	start := dayStart
	for ; start+w <= dayEnd; start += s {
		out = append(out, models.DiscoveryWindow{Start: start, End: start + w})
	}
	if last := out[len(out)-1]; last.End < dayEnd {
		out = append(out, models.DiscoveryWindow{Start: dayEnd - w, End: dayEnd})
	}
	return out, nil
}

// DefaultWindows is the 06:00-22:00 cover of 2 hour windows stepping hourly.
func DefaultWindows() []models.DiscoveryWindow {
	out, _ := BuildWindows(6*60, 22*60, 2*time.Hour, time.Hour)
	return out
}
