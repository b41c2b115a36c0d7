package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/store"
)

// 2025-01-06 is a Monday.
var monday = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

func tpl(dow int, start, end string, duration int, specs ...string) store.Schedule {
	return store.Schedule{
		DoctorID:        "dr1",
		DayOfWeek:       dow,
		StartTime:       start,
		EndTime:         end,
		SlotDuration:    duration,
		Specializations: specs,
		IsRecurring:     true,
	}
}

func TestExpandFanOut(t *testing.T) {
	slots, err := Expand(monday, 1, []store.Schedule{
		tpl(1, "09:00", "10:00", 30, "A", "B"),
	}, identity.NewGenerator())
	require.NoError(t, err)
	require.Len(t, slots, 4)

	type key struct{ start, end, spec string }
	got := make([]key, len(slots))
	for i, s := range slots {
		got[i] = key{s.StartTime, s.EndTime, s.Specialization}
		assert.Equal(t, "dr1", s.DoctorID)
		assert.Equal(t, "2025-01-06", s.Date)
		assert.True(t, s.IsAvailable)
	}
	assert.Equal(t, []key{
		{"09:00", "09:30", "A"},
		{"09:00", "09:30", "B"},
		{"09:30", "10:00", "A"},
		{"09:30", "10:00", "B"},
	}, got)
}

func TestExpandDropsPartialTrailingSlot(t *testing.T) {
	slots, err := Expand(monday, 1, []store.Schedule{
		tpl(1, "09:00", "10:00", 45),
	}, identity.NewGenerator())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:45", slots[0].EndTime)
	assert.Empty(t, slots[0].Specialization)
}

func TestExpandIsDeterministicExceptIDs(t *testing.T) {
	templates := []store.Schedule{
		tpl(1, "09:00", "12:00", 30, "A"),
		tpl(3, "13:00", "17:00", 60),
	}

	first, err := Expand(monday, DefaultHorizonDays, templates, identity.NewGenerator())
	require.NoError(t, err)
	second, err := Expand(monday, DefaultHorizonDays, templates, identity.NewGenerator())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		a, b := first[i], second[i]
		assert.NotEqual(t, a.ID, b.ID)
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	}
}

func TestExpandCoversRollingHorizon(t *testing.T) {
	// Mondays within 30 days of a Monday start: offsets 0, 7, 14, 21, 28.
	slots, err := Expand(monday, 30, []store.Schedule{
		tpl(1, "09:00", "10:00", 30),
	}, identity.NewGenerator())
	require.NoError(t, err)
	assert.Len(t, slots, 5*2)

	dates := map[string]struct{}{}
	for _, s := range slots {
		dates[s.Date] = struct{}{}
	}
	assert.Len(t, dates, 5)
	_, hasDayZero := dates["2025-01-06"]
	assert.True(t, hasDayZero)
}

func TestExpandNoMatchingDays(t *testing.T) {
	slots, err := Expand(monday, 1, []store.Schedule{
		tpl(2, "09:00", "10:00", 30),
	}, identity.NewGenerator())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestExpandRejectsNonPositiveDuration(t *testing.T) {
	for _, duration := range []int{0, -15} {
		_, err := Expand(monday, 1, []store.Schedule{
			tpl(1, "09:00", "10:00", duration),
		}, identity.NewGenerator())
		assert.ErrorIs(t, err, ErrInvalidSlotDuration)
	}
}

func TestExpandRejectsMalformedWindow(t *testing.T) {
	_, err := Expand(monday, 1, []store.Schedule{
		tpl(1, "9am", "10:00", 30),
	}, identity.NewGenerator())
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestExpandRejectsBadDayOfWeek(t *testing.T) {
	_, err := Expand(monday, 1, []store.Schedule{
		tpl(7, "09:00", "10:00", 30),
	}, identity.NewGenerator())
	assert.ErrorIs(t, err, ErrInvalidDayOfWeek)
}

func TestExpandIDsAreUniqueAcrossRuns(t *testing.T) {
	templates := []store.Schedule{tpl(1, "09:00", "17:00", 15, "A", "B")}
	ids := identity.NewGenerator()

	seen := map[string]struct{}{}
	for run := 0; run < 3; run++ {
		slots, err := Expand(monday, 30, templates, ids)
		require.NoError(t, err)
		for _, s := range slots {
			_, dup := seen[s.ID]
			require.False(t, dup, "duplicate slot id %s", s.ID)
			seen[s.ID] = struct{}{}
		}
	}
}

func TestExpandEmptyWindowProducesNothing(t *testing.T) {
	slots, err := Expand(monday, 1, []store.Schedule{
		tpl(1, "10:00", "09:00", 30),
	}, identity.NewGenerator())
	require.NoError(t, err)
	assert.Empty(t, slots)
}
