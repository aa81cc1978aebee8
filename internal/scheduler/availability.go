package scheduler

// Constrained is satisfied by any entity carrying availability/blackout
// data: Teacher, Classroom, and StudentGroup all implement it.
type Constrained interface {
	availabilityWindows() Availability
	blackoutWindows() Availability
}

func (t *Teacher) availabilityWindows() Availability { return t.Availability }
func (t *Teacher) blackoutWindows() Availability      { return t.BlackoutPeriods }

func (c *Classroom) availabilityWindows() Availability { return c.Availability }
func (c *Classroom) blackoutWindows() Availability      { return c.BlackoutPeriods }

func (g *StudentGroup) availabilityWindows() Availability { return g.Availability }
func (g *StudentGroup) blackoutWindows() Availability      { return g.BlackoutPeriods }

// WithinAvailability tests whether [start,end) on day is permitted for
// entity. A nil entity, or one with neither availability nor blackout
// data, is unconstrained and always passes.
func WithinAvailability(entity Constrained, day Weekday, start, end string) bool {
	if entity == nil {
		return true
	}
	blackout := entity.blackoutWindows()
	availability := entity.availabilityWindows()
	if len(blackout) == 0 && len(availability) == 0 {
		return true
	}

	if slots, ok := blackout[day]; ok {
		for _, slot := range slots {
			if Overlaps(start, end, slot.Start, slot.End) {
				return false
			}
		}
	}

	if len(availability) > 0 {
		slots, ok := availability[day]
		if !ok {
			// Availability is declared but has no record for this day:
			// the entity is unavailable that day.
			return false
		}
		for _, slot := range slots {
			if withinInterval(start, end, slot) {
				return true
			}
		}
		return false
	}

	return true
}

func withinInterval(start, end string, slot Interval) bool {
	startMin, err1 := minutesSinceMidnight(start)
	endMin, err2 := minutesSinceMidnight(end)
	slotStart, err3 := minutesSinceMidnight(slot.Start)
	slotEnd, err4 := minutesSinceMidnight(slot.End)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return startMin >= slotStart && endMin <= slotEnd
}
