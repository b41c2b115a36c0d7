package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petpractice/vet-scheduler/internal/booking"
	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/schedule"
	"github.com/petpractice/vet-scheduler/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st := store.Open(context.Background(), nil, nil)
	t.Cleanup(st.Close)

	ids := identity.NewGenerator()
	router := NewRouter(RouterConfig{
		Store:     st,
		Booking:   booking.NewService(st, ids, nil),
		Schedules: schedule.NewService(st, ids, nil, 7),
		Ids:       ids,
		Env:       "test",
		Version:   "test",
	})
	return router, st
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLivenessEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LivenessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestBookingFlowEndToEnd(t *testing.T) {
	router, st := newTestRouter(t)

	// Doctor signs up.
	rec := doJSON(t, router, http.MethodPost, "/doctors", CreateDoctorRequest{
		Name:            "Sarah Johnson",
		Specializations: []string{"General Checkup", "Dental Care"},
		Experience:      8,
		Rating:          4.8,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var doc store.Doctor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	require.NotEmpty(t, doc.ID)

	// Doctor publishes a weekly schedule covering every day so the short
	// test horizon always matches.
	templates := make([]ScheduleTemplateRequest, 0, 7)
	for dow := 0; dow < 7; dow++ {
		templates = append(templates, ScheduleTemplateRequest{
			DayOfWeek:    dow,
			StartTime:    "09:00",
			EndTime:      "10:00",
			SlotDuration: 30,
			IsRecurring:  true,
		})
	}
	rec = doJSON(t, router, http.MethodPost, "/doctors/"+doc.ID+"/schedule", RegenerateScheduleRequest{Templates: templates})
	require.Equal(t, http.StatusOK, rec.Code)

	// Slots exist and are bookable.
	rec = doJSON(t, router, http.MethodGet, "/doctors/"+doc.ID+"/slots?available=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var slots []store.TimeSlot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&slots))
	require.NotEmpty(t, slots)

	// Owner signs up and registers a pet.
	rec = doJSON(t, router, http.MethodPut, "/owners/o1", UpsertOwnerRequest{Name: "John Smith"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/owners/o1/pets", CreatePetRequest{Name: "Buddy", Type: "Dog", Breed: "Golden Retriever", Age: 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pet store.Pet
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pet))

	// Owner books the first slot.
	rec = doJSON(t, router, http.MethodPost, "/appointments", BookAppointmentRequest{
		OwnerID: "o1",
		PetID:   pet.ID,
		SlotID:  slots[0].ID,
		Reason:  "annual checkup",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var appt store.Appointment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&appt))
	assert.Equal(t, store.StatusScheduled, appt.Status)

	// The slot is consumed in the same transition.
	slot, ok := st.State().SlotByID(slots[0].ID)
	require.True(t, ok)
	assert.False(t, slot.IsAvailable)

	// Booking the same slot again conflicts.
	rec = doJSON(t, router, http.MethodPost, "/appointments", BookAppointmentRequest{
		OwnerID: "o1",
		PetID:   pet.ID,
		SlotID:  slots[0].ID,
		Reason:  "second try",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Doctor completes the appointment; cancellation is then refused.
	rec = doJSON(t, router, http.MethodPost, "/appointments/"+appt.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/appointments/"+appt.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookAppointmentValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/appointments", BookAppointmentRequest{
		OwnerID: "o1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "missing_field", resp.Error)
}

func TestSessionEndpoints(t *testing.T) {
	router, st := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/session", SessionRequest{UserType: "petowner", UserID: "o1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.UserPetOwner, st.State().CurrentUserType)

	// Implicit owner record created on first login.
	_, ok := st.State().OwnerByID("o1")
	assert.True(t, ok)

	rec = doJSON(t, router, http.MethodDelete, "/session", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, st.State().CurrentUserID)

	rec = doJSON(t, router, http.MethodPost, "/session", SessionRequest{UserType: "admin", UserID: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/doctors", CreateDoctorRequest{Name: "A"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var doc store.Doctor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))

	rec = doJSON(t, router, http.MethodPost, "/doctors/"+doc.ID+"/schedule", RegenerateScheduleRequest{
		Templates: []ScheduleTemplateRequest{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", SlotDuration: 0}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/doctors/ghost/schedule", RegenerateScheduleRequest{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDoctorNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/doctors/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPetLifecycle(t *testing.T) {
	router, st := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/owners/o1", UpsertOwnerRequest{Name: "John"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/owners/o1/pets", CreatePetRequest{Name: "Whiskers", Type: "Cat", Breed: "Persian", Age: 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pet store.Pet
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pet))

	newName := "Mittens"
	rec = doJSON(t, router, http.MethodPatch, "/owners/o1/pets/"+pet.ID, UpdatePetRequest{Name: &newName})
	require.Equal(t, http.StatusOK, rec.Code)
	got, ok := st.State().PetByID("o1", pet.ID)
	require.True(t, ok)
	assert.Equal(t, "Mittens", got.Name)

	rec = doJSON(t, router, http.MethodDelete, "/owners/o1/pets/"+pet.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, ok = st.State().PetByID("o1", pet.ID)
	assert.False(t, ok)

	rec = doJSON(t, router, http.MethodPost, "/owners/o1/pets", CreatePetRequest{Name: "Old", Age: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
