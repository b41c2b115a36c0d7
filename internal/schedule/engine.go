package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/store"
)

// DefaultHorizonDays is the rolling window over which weekly templates are
// expanded into concrete slots, inclusive of day 0.
const DefaultHorizonDays = 30

var (
	ErrInvalidSlotDuration = errors.New("slot duration must be a positive number of minutes")
	ErrInvalidTimeWindow   = errors.New("template window must use HH:MM times")
	ErrInvalidDayOfWeek    = errors.New("day of week must be between 0 and 6")
)

// Expand turns a set of weekly templates into concrete time slots over
// horizonDays starting at now. For each calendar day whose weekday matches a
// template, the template window is walked in slot-duration steps; a step
// whose end would pass the window end is dropped. A template with N
// specializations emits N slots per step, each tagged with one
// specialization; an untagged template emits one untagged slot per step.
//
// Two calls with equal inputs and an equal now produce slot sets identical
// in every field except their ids.
func Expand(now time.Time, horizonDays int, templates []store.Schedule, ids *identity.Generator) ([]store.TimeSlot, error) {
	type window struct {
		tpl      store.Schedule
		startMin int
		endMin   int
	}

	windows := make([]window, 0, len(templates))
	for _, tpl := range templates {
		if tpl.SlotDuration <= 0 {
			return nil, fmt.Errorf("template for day %d: %w", tpl.DayOfWeek, ErrInvalidSlotDuration)
		}
		if tpl.DayOfWeek < 0 || tpl.DayOfWeek > 6 {
			return nil, fmt.Errorf("template day %d: %w", tpl.DayOfWeek, ErrInvalidDayOfWeek)
		}
		startMin, err := parseMinutes(tpl.StartTime)
		if err != nil {
			return nil, fmt.Errorf("template start %q: %w", tpl.StartTime, ErrInvalidTimeWindow)
		}
		endMin, err := parseMinutes(tpl.EndTime)
		if err != nil {
			return nil, fmt.Errorf("template end %q: %w", tpl.EndTime, ErrInvalidTimeWindow)
		}
		windows = append(windows, window{tpl: tpl, startMin: startMin, endMin: endMin})
	}

	slots := []store.TimeSlot{}
	for offset := 0; offset < horizonDays; offset++ {
		day := now.AddDate(0, 0, offset)
		dow := int(day.Weekday())
		dateStr := day.Format("2006-01-02")

		for _, w := range windows {
			if w.tpl.DayOfWeek != dow {
				continue
			}
			for cur := w.startMin; cur+w.tpl.SlotDuration <= w.endMin; cur += w.tpl.SlotDuration {
				startStr := formatMinutes(cur)
				endStr := formatMinutes(cur + w.tpl.SlotDuration)

				if len(w.tpl.Specializations) == 0 {
					slots = append(slots, store.TimeSlot{
						ID:          ids.SlotID(w.tpl.DoctorID, dateStr, startStr, ""),
						DoctorID:    w.tpl.DoctorID,
						Date:        dateStr,
						StartTime:   startStr,
						EndTime:     endStr,
						IsAvailable: true,
					})
					continue
				}
				for _, spec := range w.tpl.Specializations {
					slots = append(slots, store.TimeSlot{
						ID:             ids.SlotID(w.tpl.DoctorID, dateStr, startStr, spec),
						DoctorID:       w.tpl.DoctorID,
						Date:           dateStr,
						StartTime:      startStr,
						EndTime:        endStr,
						IsAvailable:    true,
						Specialization: spec,
					})
				}
			}
		}
	}

	return slots, nil
}

func parseMinutes(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
