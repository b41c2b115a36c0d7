package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petpractice/vet-scheduler/internal/booking"
	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/schedule"
	"github.com/petpractice/vet-scheduler/internal/store"
)

// Session

func setSessionHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		userType := store.UserType(req.UserType)
		if userType != store.UserDoctor && userType != store.UserPetOwner {
			writeError(w, http.StatusBadRequest, "invalid_user_type", "user_type must be doctor or petowner")
			return
		}
		if req.UserID == "" {
			writeError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
			return
		}

		next := st.Dispatch(store.SetUser{UserType: userType, UserID: req.UserID})
		writeJSON(w, http.StatusOK, map[string]string{
			"user_type": string(next.CurrentUserType),
			"user_id":   next.CurrentUserID,
		})
	}
}

func logoutHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st.Dispatch(store.Logout{})
		w.WriteHeader(http.StatusNoContent)
	}
}

// Doctors

func listDoctorsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, st.State().Doctors)
	}
}

func createDoctorHandler(st *store.Store, ids *identity.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "name is required")
			return
		}

		doc := store.Doctor{
			ID:              ids.EntityID("dr"),
			Name:            req.Name,
			Specializations: req.Specializations,
			Experience:      req.Experience,
			Rating:          req.Rating,
			Location:        req.Location,
			Phone:           req.Phone,
			Email:           req.Email,
			Bio:             req.Bio,
		}
		st.Dispatch(store.AddDoctor{Doctor: doc})
		writeJSON(w, http.StatusCreated, doc)
	}
}

func getDoctorHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := st.State().DoctorByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "doctor_not_found", "no doctor with this id")
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func updateDoctorHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := st.State().DoctorByID(id); !ok {
			writeError(w, http.StatusNotFound, "doctor_not_found", "no doctor with this id")
			return
		}

		var req UpdateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		next := st.Dispatch(store.UpdateDoctor{ID: id, Patch: store.DoctorPatch{
			Name:            req.Name,
			Specializations: req.Specializations,
			Experience:      req.Experience,
			Rating:          req.Rating,
			Location:        req.Location,
			Phone:           req.Phone,
			Email:           req.Email,
			Bio:             req.Bio,
		}})
		doc, _ := next.DoctorByID(id)
		writeJSON(w, http.StatusOK, doc)
	}
}

func deleteDoctorHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := st.State().DoctorByID(id); !ok {
			writeError(w, http.StatusNotFound, "doctor_not_found", "no doctor with this id")
			return
		}
		st.Dispatch(store.DeleteDoctor{ID: id})
		w.WriteHeader(http.StatusNoContent)
	}
}

// Owners and pets

func getOwnerHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := st.State().OwnerByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "owner_not_found", "no pet owner with this id")
			return
		}
		writeJSON(w, http.StatusOK, owner)
	}
}

func upsertOwnerHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpsertOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var next store.AppState
		if _, ok := st.State().OwnerByID(id); ok {
			next = st.Dispatch(store.UpdatePetOwner{ID: id, Patch: store.PetOwnerPatch{
				Name:    &req.Name,
				Phone:   &req.Phone,
				Email:   &req.Email,
				Address: &req.Address,
			}})
		} else {
			next = st.Dispatch(store.AddPetOwner{Owner: store.PetOwner{
				ID:      id,
				Name:    req.Name,
				Phone:   req.Phone,
				Email:   req.Email,
				Address: req.Address,
				Pets:    []store.Pet{},
			}})
		}

		owner, _ := next.OwnerByID(id)
		writeJSON(w, http.StatusOK, owner)
	}
}

func createPetHandler(st *store.Store, ids *identity.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := chi.URLParam(r, "id")

		var req CreatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "name is required")
			return
		}
		if req.Age < 0 {
			writeError(w, http.StatusBadRequest, "invalid_age", "age must not be negative")
			return
		}

		pet := store.Pet{
			ID:      ids.EntityID("pet"),
			Name:    req.Name,
			Type:    req.Type,
			Breed:   req.Breed,
			Age:     req.Age,
			OwnerID: ownerID,
		}
		st.Dispatch(store.AddPet{OwnerID: ownerID, Pet: pet})
		writeJSON(w, http.StatusCreated, pet)
	}
}

func updatePetHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := chi.URLParam(r, "id")
		petID := chi.URLParam(r, "petId")
		if _, ok := st.State().PetByID(ownerID, petID); !ok {
			writeError(w, http.StatusNotFound, "pet_not_found", "no such pet for this owner")
			return
		}

		var req UpdatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Age != nil && *req.Age < 0 {
			writeError(w, http.StatusBadRequest, "invalid_age", "age must not be negative")
			return
		}

		next := st.Dispatch(store.UpdatePet{OwnerID: ownerID, PetID: petID, Patch: store.PetPatch{
			Name:  req.Name,
			Type:  req.Type,
			Breed: req.Breed,
			Age:   req.Age,
		}})
		pet, _ := next.PetByID(ownerID, petID)
		writeJSON(w, http.StatusOK, pet)
	}
}

func deletePetHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := chi.URLParam(r, "id")
		petID := chi.URLParam(r, "petId")
		if _, ok := st.State().PetByID(ownerID, petID); !ok {
			writeError(w, http.StatusNotFound, "pet_not_found", "no such pet for this owner")
			return
		}
		st.Dispatch(store.DeletePet{OwnerID: ownerID, PetID: petID})
		w.WriteHeader(http.StatusNoContent)
	}
}

// Schedules and slots

func regenerateScheduleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := chi.URLParam(r, "id")

		var req RegenerateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		templates := make([]store.Schedule, len(req.Templates))
		for i, t := range req.Templates {
			templates[i] = store.Schedule{
				DoctorID:        doctorID,
				DayOfWeek:       t.DayOfWeek,
				StartTime:       t.StartTime,
				EndTime:         t.EndTime,
				SlotDuration:    t.SlotDuration,
				Specializations: t.Specializations,
				IsRecurring:     t.IsRecurring,
			}
		}

		slots, err := svc.Regenerate(r.Context(), schedule.RegenerateInput{
			DoctorID:  doctorID,
			Templates: templates,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RegenerateScheduleResponse{
			DoctorID:  doctorID,
			Slots:     len(slots),
			Templates: len(templates),
		})
	}
}

func listSchedulesHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, st.State().SchedulesForDoctor(chi.URLParam(r, "id")))
	}
}

func listSlotsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyAvailable := r.URL.Query().Get("available") == "true"
		writeJSON(w, http.StatusOK, st.State().SlotsForDoctor(chi.URLParam(r, "id"), onlyAvailable))
	}
}

// Appointments

func bookAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Book(r.Context(), booking.BookInput{
			OwnerID: req.OwnerID,
			PetID:   req.PetID,
			SlotID:  req.SlotID,
			Reason:  req.Reason,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := st.State()
		if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
			writeJSON(w, http.StatusOK, state.AppointmentsForOwner(ownerID))
			return
		}
		if doctorID := r.URL.Query().Get("doctor_id"); doctorID != "" {
			writeJSON(w, http.StatusOK, state.AppointmentsForDoctor(doctorID))
			return
		}
		writeJSON(w, http.StatusOK, state.Appointments)
	}
}

func getAppointmentHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, ok := st.State().AppointmentByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "appointment_not_found", "no appointment with this id")
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func completeAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Complete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func cancelAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func updateNotesHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateNotesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		appt, err := svc.UpdateNotes(r.Context(), chi.URLParam(r, "id"), req.Notes)
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

// Error mapping

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrPetRequired),
		errors.Is(err, booking.ErrSlotRequired),
		errors.Is(err, booking.ErrReasonRequired):
		writeError(w, http.StatusBadRequest, "missing_field", err.Error())
	case errors.Is(err, booking.ErrOwnerNotFound):
		writeError(w, http.StatusNotFound, "owner_not_found", err.Error())
	case errors.Is(err, booking.ErrPetNotFound):
		writeError(w, http.StatusNotFound, "pet_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, schedule.ErrInvalidSlotDuration),
		errors.Is(err, schedule.ErrInvalidTimeWindow),
		errors.Is(err, schedule.ErrInvalidDayOfWeek):
		writeError(w, http.StatusBadRequest, "invalid_template", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
