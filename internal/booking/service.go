package booking

import (
	"context"
	"errors"
	"time"

	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/logging"
	"github.com/petpractice/vet-scheduler/internal/store"
)

var (
	ErrPetRequired             = errors.New("a pet must be selected")
	ErrSlotRequired            = errors.New("a time slot must be selected")
	ErrReasonRequired          = errors.New("a visit reason is required")
	ErrOwnerNotFound           = errors.New("pet owner not found")
	ErrPetNotFound             = errors.New("pet not found for this owner")
	ErrSlotNotFound            = errors.New("time slot not found")
	ErrSlotUnavailable         = errors.New("time slot is no longer available")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
)

// Service converts an owner's selection into a persisted appointment while
// consuming the chosen slot.
type Service struct {
	store  *store.Store
	ids    *identity.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewService(st *store.Store, ids *identity.Generator, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:  st,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock fixes the creation timestamp source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type BookInput struct {
	OwnerID string
	PetID   string
	SlotID  string
	Reason  string
}

// Book validates the selection and dispatches one BookSlot transition.
// Appointment insert and slot consumption are visible together or not at
// all; any precondition failure leaves the state untouched.
func (s *Service) Book(ctx context.Context, in BookInput) (*store.Appointment, error) {
	if in.PetID == "" {
		return nil, ErrPetRequired
	}
	if in.SlotID == "" {
		return nil, ErrSlotRequired
	}
	if in.Reason == "" {
		return nil, ErrReasonRequired
	}

	state := s.store.State()
	if _, ok := state.OwnerByID(in.OwnerID); !ok {
		return nil, ErrOwnerNotFound
	}
	if _, ok := state.PetByID(in.OwnerID, in.PetID); !ok {
		return nil, ErrPetNotFound
	}
	slot, ok := state.SlotByID(in.SlotID)
	if !ok {
		return nil, ErrSlotNotFound
	}
	if !slot.IsAvailable {
		return nil, ErrSlotUnavailable
	}

	appt := store.Appointment{
		ID:         s.ids.AppointmentID(),
		DoctorID:   slot.DoctorID,
		PetOwnerID: in.OwnerID,
		PetID:      in.PetID,
		SlotID:     in.SlotID,
		Reason:     in.Reason,
		Status:     store.StatusScheduled,
		CreatedAt:  s.now().Format(time.RFC3339),
	}

	next := s.store.Dispatch(store.BookSlot{Appointment: appt})

	// The reducer refuses the transition when the slot was consumed between
	// the check above and the dispatch.
	if _, ok := next.AppointmentByID(appt.ID); !ok {
		return nil, ErrSlotUnavailable
	}

	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", appt.DoctorID,
		"slot_id", appt.SlotID,
	)

	return &appt, nil
}

// Complete moves a scheduled appointment to completed.
func (s *Service) Complete(ctx context.Context, id string) (*store.Appointment, error) {
	return s.transition(id, store.StatusCompleted)
}

// Cancel moves a scheduled appointment to cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*store.Appointment, error) {
	return s.transition(id, store.StatusCancelled)
}

// UpdateNotes replaces the appointment's notes without touching its status.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*store.Appointment, error) {
	if _, ok := s.store.State().AppointmentByID(id); !ok {
		return nil, ErrAppointmentNotFound
	}
	next := s.store.Dispatch(store.UpdateAppointment{
		ID:    id,
		Patch: store.AppointmentPatch{Notes: &notes},
	})
	updated, _ := next.AppointmentByID(id)
	return &updated, nil
}

func (s *Service) transition(id string, to store.AppointmentStatus) (*store.Appointment, error) {
	appt, ok := s.store.State().AppointmentByID(id)
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if appt.Status != store.StatusScheduled {
		return nil, ErrInvalidStatusTransition
	}

	next := s.store.Dispatch(store.UpdateAppointment{
		ID:    id,
		Patch: store.AppointmentPatch{Status: &to},
	})

	updated, _ := next.AppointmentByID(id)
	s.logger.Info("appointment status changed", "appointment_id", id, "status", string(to))
	return &updated, nil
}
