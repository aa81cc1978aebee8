package scheduler

import "fmt"

const (
	// DefaultSlotStart is the default opening time of the scheduling window.
	DefaultSlotStart = "09:00"
	// DefaultSlotEnd is the default closing time of the scheduling window.
	DefaultSlotEnd = "17:00"
	// DefaultSlotStep is the default increment, in minutes, between slot starts.
	DefaultSlotStep = 60
)

// minutesSinceMidnight parses "HH:MM" into minutes since 00:00.
func minutesSinceMidnight(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return h*60 + m, nil
}

// formatMinutes renders minutes since midnight back to a zero-padded "HH:MM".
func formatMinutes(total int) string {
	h := total / 60
	m := total % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// EndOf adds duration minutes to start and returns the resulting "HH:MM".
// No normalization past 23:59 is performed; callers are expected to keep
// durations within the working window.
func EndOf(start string, duration int) string {
	startMin, err := minutesSinceMidnight(start)
	if err != nil {
		return start
	}
	return formatMinutes(startMin + duration)
}

// Overlaps reports whether [aStart,aEnd) intersects [bStart,bEnd).
// Intervals are half-open at the right edge: touching boundaries do not
// conflict.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, err1 := minutesSinceMidnight(aStart)
	ae, err2 := minutesSinceMidnight(aEnd)
	bs, err3 := minutesSinceMidnight(bStart)
	be, err4 := minutesSinceMidnight(bEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return as < be && bs < ae
}

// GenerateSlots returns the ordered start-time strings t such that
// start <= t and t+duration <= end, stepping by step minutes. Zero
// values fall back to the package defaults (duration defaults to step).
func GenerateSlots(start, end string, step, duration int) ([]string, error) {
	if start == "" {
		start = DefaultSlotStart
	}
	if end == "" {
		end = DefaultSlotEnd
	}
	if step <= 0 {
		step = DefaultSlotStep
	}
	if duration <= 0 {
		duration = step
	}

	startMin, err := minutesSinceMidnight(start)
	if err != nil {
		return nil, err
	}
	endMin, err := minutesSinceMidnight(end)
	if err != nil {
		return nil, err
	}

	var slots []string
	for t := startMin; t+duration <= endMin; t += step {
		slots = append(slots, formatMinutes(t))
	}
	return slots, nil
}
