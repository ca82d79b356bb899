package scheduling

import (
	"time"

	"gorm.io/gorm"
)

// SlotStep is the probe stride. Candidate windows always advance by this
// constant, not by the service duration, even though each probed window is
// exactly the service duration long.
const SlotStep = 30 * time.Minute

type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// roundUpToStep rounds t up to the next SlotStep boundary. A time already on
// a boundary is returned unchanged.
func roundUpToStep(t time.Time) time.Time {
	rounded := t.Truncate(SlotStep)
	if rounded.Before(t) {
		rounded = rounded.Add(SlotStep)
	}
	return rounded
}

// DaySlots enumerates every probe window of the given duration across the
// seller's recurring window for the date and flags each with its conflict
// result. A weekday with no recurring row yields an empty grid — there is no
// window to probe. (Booking creation is intentionally more permissive; see
// WithinWorkingWindow.)
func DaySlots(dbh *gorm.DB, sellerID uint, duration time.Duration, date time.Time) ([]Slot, error) {
	off, err := onTimeOff(dbh, sellerID, date)
	if err != nil {
		return nil, err
	}
	if off {
		return []Slot{}, nil
	}

	row, err := dayAvailability(dbh, sellerID, date)
	if err != nil {
		return nil, err
	}
	if row == nil || !row.IsAvailable {
		return []Slot{}, nil
	}

	winStart, winEnd, err := row.Window(date)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	for s := winStart; !s.Add(duration).After(winEnd); s = s.Add(SlotStep) {
		free, err := CheckAvailability(dbh, sellerID, s, s.Add(duration), 0)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{Start: s, End: s.Add(duration), Available: free})
	}
	return slots, nil
}

// NextAvailableSlot scans forward from `from` for at most daysAhead calendar
// days and returns the first conflict-free window of the given duration, or
// nil when the horizon holds none — an ordinary negative result, not an
// error. When probing the starting day, candidates never begin before `from`
// rounded up to the next step boundary.
func NextAvailableSlot(dbh *gorm.DB, sellerID uint, duration time.Duration, from time.Time, daysAhead int) (*Slot, error) {
	for i := 0; i <= daysAhead; i++ {
		day := from.AddDate(0, 0, i)

		row, err := dayAvailability(dbh, sellerID, day)
		if err != nil {
			return nil, err
		}
		if row == nil || !row.IsAvailable {
			continue
		}

		off, err := onTimeOff(dbh, sellerID, day)
		if err != nil {
			return nil, err
		}
		if off {
			continue
		}

		winStart, winEnd, err := row.Window(day)
		if err != nil {
			return nil, err
		}

		probe := winStart
		if i == 0 {
			if notBefore := roundUpToStep(from); notBefore.After(probe) {
				probe = notBefore
			}
		}

		for ; !probe.Add(duration).After(winEnd); probe = probe.Add(SlotStep) {
			free, err := CheckAvailability(dbh, sellerID, probe, probe.Add(duration), 0)
			if err != nil {
				return nil, err
			}
			if free {
				return &Slot{Start: probe, End: probe.Add(duration), Available: true}, nil
			}
		}
	}
	return nil, nil
}
