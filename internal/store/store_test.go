package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSnapshots is an in-memory Snapshotter for store tests.
type fakeSnapshots struct {
	mu      sync.Mutex
	state   *AppState
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeSnapshots) Load(ctx context.Context) (*AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.state, nil
}

func (f *fakeSnapshots) Save(ctx context.Context, state AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = &state
	f.saves++
	return nil
}

func (f *fakeSnapshots) last() *AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func TestOpenLoadsSnapshot(t *testing.T) {
	saved := emptyState()
	saved.Doctors = []Doctor{{ID: "dr1", Name: "A"}}
	fake := &fakeSnapshots{state: &saved}

	st := Open(context.Background(), fake, nil)
	defer st.Close()

	_, ok := st.State().DoctorByID("dr1")
	assert.True(t, ok)
}

func TestOpenDedupesSlotsBySemanticKey(t *testing.T) {
	saved := emptyState()
	saved.TimeSlots = []TimeSlot{
		{ID: "s1", DoctorID: "dr1", Date: "2025-09-01", StartTime: "09:00", EndTime: "09:30", IsAvailable: true, Specialization: "Dental Care"},
		{ID: "s2", DoctorID: "dr1", Date: "2025-09-01", StartTime: "09:00", EndTime: "09:30", IsAvailable: true, Specialization: "Dental Care"},
		{ID: "s3", DoctorID: "dr1", Date: "2025-09-01", StartTime: "09:00", EndTime: "09:30", IsAvailable: true},
	}
	fake := &fakeSnapshots{state: &saved}

	st := Open(context.Background(), fake, nil)
	defer st.Close()

	// s2 duplicates s1 semantically; s3 differs (no specialization).
	slots := st.State().TimeSlots
	require.Len(t, slots, 2)
	assert.Equal(t, "s1", slots[0].ID)
	assert.Equal(t, "s3", slots[1].ID)
}

func TestOpenFallsBackToEmptyOnLoadFailure(t *testing.T) {
	fake := &fakeSnapshots{loadErr: errors.New("document corrupted")}

	st := Open(context.Background(), fake, nil)
	defer st.Close()

	state := st.State()
	assert.Empty(t, state.Doctors)
	assert.Empty(t, state.TimeSlots)
}

func TestDispatchPersistsLatestState(t *testing.T) {
	fake := &fakeSnapshots{}
	st := Open(context.Background(), fake, nil)

	st.Dispatch(AddDoctor{Doctor: Doctor{ID: "dr1"}})
	st.Dispatch(AddDoctor{Doctor: Doctor{ID: "dr2"}})
	st.Close()

	last := fake.last()
	require.NotNil(t, last)
	assert.Len(t, last.Doctors, 2)
}

func TestDispatchSurvivesSaveFailure(t *testing.T) {
	fake := &fakeSnapshots{saveErr: errors.New("disk full")}
	st := Open(context.Background(), fake, nil)
	defer st.Close()

	next := st.Dispatch(AddDoctor{Doctor: Doctor{ID: "dr1"}})

	// In-memory state moved on even though the write failed.
	_, ok := next.DoctorByID("dr1")
	assert.True(t, ok)
}

func TestSubscribeAndCancel(t *testing.T) {
	st := Open(context.Background(), nil, nil)
	defer st.Close()

	var mu sync.Mutex
	var seen int
	cancel := st.Subscribe(func(AppState) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	st.Dispatch(AddDoctor{Doctor: Doctor{ID: "dr1"}})
	cancel()
	st.Dispatch(AddDoctor{Doctor: Doctor{ID: "dr2"}})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, seen)
}

func TestDispatchIsSerialized(t *testing.T) {
	st := Open(context.Background(), nil, nil)
	defer st.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			st.Dispatch(AddTimeSlots{Slots: []TimeSlot{{
				ID:          fmt.Sprintf("slot-%d", n),
				DoctorID:    "dr1",
				IsAvailable: true,
			}}})
		}(i)
	}
	wg.Wait()

	assert.Len(t, st.State().TimeSlots, 50)
}

func TestStateReturnsDefensiveCopies(t *testing.T) {
	st := Open(context.Background(), nil, nil)
	t.Cleanup(st.Close)

	st.Dispatch(AddDoctor{Doctor: Doctor{ID: "dr1", Name: "Sarah", Specializations: []string{"Dental Care"}}})
	st.Dispatch(AddPet{OwnerID: "o1", Pet: Pet{ID: "p1", Name: "Buddy", OwnerID: "o1"}})

	read := st.State()
	read.Doctors[0].Name = "mutated"
	read.Doctors[0].Specializations[0] = "mutated"
	read.PetOwners[0].Pets[0].Name = "mutated"

	fresh := st.State()
	assert.Equal(t, "Sarah", fresh.Doctors[0].Name)
	assert.Equal(t, "Dental Care", fresh.Doctors[0].Specializations[0])
	assert.Equal(t, "Buddy", fresh.PetOwners[0].Pets[0].Name)

	// The state handed back by Dispatch is just as detached.
	next := st.Dispatch(AddTimeSlots{Slots: []TimeSlot{slotFixture("s1", "dr1", "2025-09-01", "09:00")}})
	next.TimeSlots[0].IsAvailable = false

	got, ok := st.State().SlotByID("s1")
	require.True(t, ok)
	assert.True(t, got.IsAvailable)
}
