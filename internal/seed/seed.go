package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/logging"
	"github.com/petpractice/vet-scheduler/internal/schedule"
	"github.com/petpractice/vet-scheduler/internal/store"
)

var specializations = []string{
	"General Checkup",
	"Dental Care",
	"Skin Conditions",
	"Behavioral Issues",
	"Surgery",
	"Emergency Care",
	"Vaccination",
	"Grooming",
}

// Seeder fills an empty store with an initial doctor roster, one pet owner,
// and each doctor's generated slots. Everything goes through the ordinary
// action set; there is no special-cased seeding path in the core.
type Seeder struct {
	store     *store.Store
	schedules *schedule.Service
	ids       *identity.Generator
	logger    *logging.Logger
}

func New(st *store.Store, schedules *schedule.Service, ids *identity.Generator, logger *logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Seeder{store: st, schedules: schedules, ids: ids, logger: logger}
}

// Apply seeds the store unless doctors already exist.
func (s *Seeder) Apply(ctx context.Context, doctorCount int) error {
	if len(s.store.State().Doctors) > 0 {
		s.logger.Info("seed skipped, roster already populated")
		return nil
	}
	if doctorCount <= 0 {
		doctorCount = 4
	}

	for i := 0; i < doctorCount; i++ {
		doc := s.fakeDoctor()
		s.store.Dispatch(store.AddDoctor{Doctor: doc})

		if _, err := s.schedules.Regenerate(ctx, schedule.RegenerateInput{
			DoctorID:  doc.ID,
			Templates: weekdayTemplates(doc),
		}); err != nil {
			return fmt.Errorf("generate slots for %s: %w", doc.ID, err)
		}
	}

	owner := s.fakeOwner()
	s.store.Dispatch(store.AddPetOwner{Owner: owner})

	s.logger.Info("seed complete", "doctors", doctorCount, "owner_id", owner.ID)
	return nil
}

func (s *Seeder) fakeDoctor() store.Doctor {
	specs := pickSpecializations(2 + gofakeit.Number(0, 1))
	name := gofakeit.Name()
	return store.Doctor{
		ID:              s.ids.EntityID("dr"),
		Name:            name,
		Specializations: specs,
		Experience:      gofakeit.Number(2, 20),
		Rating:          float64(gofakeit.Number(36, 50)) / 10,
		Location:        gofakeit.City() + " Veterinary Clinic",
		Phone:           gofakeit.Phone(),
		Email:           gofakeit.Email(),
		Bio:             fmt.Sprintf("Dr. %s focuses on %s and %s.", name, specs[0], specs[1]),
	}
}

func (s *Seeder) fakeOwner() store.PetOwner {
	ownerID := s.ids.EntityID("owner")
	return store.PetOwner{
		ID:      ownerID,
		Name:    gofakeit.Name(),
		Phone:   gofakeit.Phone(),
		Email:   gofakeit.Email(),
		Address: gofakeit.Address().Address,
		Pets: []store.Pet{
			{
				ID:      s.ids.EntityID("pet"),
				Name:    gofakeit.PetName(),
				Type:    "Dog",
				Breed:   gofakeit.Dog(),
				Age:     gofakeit.Number(1, 12),
				OwnerID: ownerID,
			},
			{
				ID:      s.ids.EntityID("pet"),
				Name:    gofakeit.PetName(),
				Type:    "Cat",
				Breed:   gofakeit.Cat(),
				Age:     gofakeit.Number(1, 15),
				OwnerID: ownerID,
			},
		},
	}
}

// weekdayTemplates builds a Monday/Wednesday/Friday 09:00-17:00 rule carrying
// the doctor's specializations.
func weekdayTemplates(doc store.Doctor) []store.Schedule {
	templates := make([]store.Schedule, 0, 3)
	for _, dow := range []int{1, 3, 5} {
		templates = append(templates, store.Schedule{
			DoctorID:        doc.ID,
			DayOfWeek:       dow,
			StartTime:       "09:00",
			EndTime:         "17:00",
			SlotDuration:    30,
			Specializations: doc.Specializations,
			IsRecurring:     true,
		})
	}
	return templates
}

func pickSpecializations(n int) []string {
	if n > len(specializations) {
		n = len(specializations)
	}
	picked := make([]string, 0, n)
	used := map[int]struct{}{}
	for len(picked) < n {
		i := gofakeit.Number(0, len(specializations)-1)
		if _, dup := used[i]; dup {
			continue
		}
		used[i] = struct{}{}
		picked = append(picked, specializations[i])
	}
	return picked
}
