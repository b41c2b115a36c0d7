package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/logging"
	"github.com/petpractice/vet-scheduler/internal/store"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// Service regenerates a doctor's bookable slots from weekly templates.
type Service struct {
	store       *store.Store
	ids         *identity.Generator
	logger      *logging.Logger
	horizonDays int
	now         func() time.Time
}

func NewService(st *store.Store, ids *identity.Generator, logger *logging.Logger, horizonDays int) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Service{
		store:       st,
		ids:         ids,
		logger:      logger,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// WithClock fixes the generation instant; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type RegenerateInput struct {
	DoctorID  string
	Templates []store.Schedule

	// PreserveBooked folds the doctor's already-consumed slots back into the
	// replacement set so rolling regeneration never orphans an appointment's
	// slot. Manual regeneration leaves it false and replaces everything.
	PreserveBooked bool
}

// Regenerate expands the templates over the horizon and swaps the doctor's
// slots and templates in one dispatch. Other doctors' slots are never
// touched, and no intermediate cleared state is observable. The returned
// slots are the doctor's slot set after the swap.
func (s *Service) Regenerate(ctx context.Context, in RegenerateInput) ([]store.TimeSlot, error) {
	if _, ok := s.store.State().DoctorByID(in.DoctorID); !ok {
		return nil, ErrDoctorNotFound
	}

	templates := make([]store.Schedule, len(in.Templates))
	for i, tpl := range in.Templates {
		tpl.DoctorID = in.DoctorID
		templates[i] = tpl
	}

	slots, err := Expand(s.now(), s.horizonDays, templates, s.ids)
	if err != nil {
		return nil, err
	}

	next := s.store.Dispatch(store.ReplaceDoctorSlots{
		DoctorID:       in.DoctorID,
		Slots:          slots,
		Schedules:      templates,
		PreserveBooked: in.PreserveBooked,
	})
	result := next.SlotsForDoctor(in.DoctorID, false)

	s.logger.Info("schedule regenerated",
		"doctor_id", in.DoctorID,
		"templates", len(templates),
		"slots", len(result),
	)

	return result, nil
}

// RollHorizon re-expands every doctor's recurring templates with
// PreserveBooked set, so the rolling slot window keeps moving forward without
// dropping any appointment's consumed slot.
func (s *Service) RollHorizon(ctx context.Context) {
	state := s.store.State()
	for _, doc := range state.Doctors {
		templates := recurringTemplates(state.SchedulesForDoctor(doc.ID))
		if len(templates) == 0 {
			continue
		}

		slots, err := s.Regenerate(ctx, RegenerateInput{
			DoctorID:       doc.ID,
			Templates:      templates,
			PreserveBooked: true,
		})
		if err != nil {
			s.logger.Warn("horizon roll failed", "doctor_id", doc.ID, "error", err)
			continue
		}
		s.logger.Info("horizon rolled", "doctor_id", doc.ID, "slots", len(slots))
	}
}

// RunHorizonRoller rolls once, then again on every interval tick until ctx is
// cancelled. It must share the Store that serves bookings: the whole state
// document is persisted wholesale, so a second process rolling over its own
// stale copy would overwrite bookings it never saw.
func (s *Service) RunHorizonRoller(ctx context.Context, interval time.Duration) {
	s.RollHorizon(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RollHorizon(ctx)
		}
	}
}

func recurringTemplates(templates []store.Schedule) []store.Schedule {
	out := []store.Schedule{}
	for _, tpl := range templates {
		if tpl.IsRecurring {
			out = append(out, tpl)
		}
	}
	return out
}
