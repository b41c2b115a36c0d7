package store

import "slices"

type UserType string

const (
	UserDoctor   UserType = "doctor"
	UserPetOwner UserType = "petowner"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsTerminal reports whether no further status transition is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Doctor struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specializations []string `json:"specializations"`
	Experience      int      `json:"experience"`
	Rating          float64  `json:"rating"`
	Location        string   `json:"location"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	Bio             string   `json:"bio"`
}

type Pet struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Breed   string `json:"breed"`
	Age     int    `json:"age"`
	OwnerID string `json:"ownerId"`
}

type PetOwner struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Pets    []Pet  `json:"pets"`
}

// Schedule is a recurring weekly availability rule, not a concrete booking.
type Schedule struct {
	DoctorID        string   `json:"doctorId"`
	DayOfWeek       int      `json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime       string   `json:"startTime"` // "HH:MM"
	EndTime         string   `json:"endTime"`   // "HH:MM"
	SlotDuration    int      `json:"slotDuration"`
	Specializations []string `json:"specializations"`
	IsRecurring     bool     `json:"isRecurring"`
}

// TimeSlot is one concrete, independently bookable unit of time.
type TimeSlot struct {
	ID             string `json:"id"`
	DoctorID       string `json:"doctorId"`
	Date           string `json:"date"`      // "YYYY-MM-DD"
	StartTime      string `json:"startTime"` // "HH:MM"
	EndTime        string `json:"endTime"`   // "HH:MM"
	IsAvailable    bool   `json:"isAvailable"`
	Specialization string `json:"specialization,omitempty"`
}

// SemanticKey identifies a slot by what it offers rather than by record
// identity. Two generation runs over the same template produce slots with
// equal semantic keys but distinct IDs.
func (s TimeSlot) SemanticKey() string {
	spec := s.Specialization
	if spec == "" {
		spec = "none"
	}
	return s.DoctorID + "-" + s.Date + "-" + s.StartTime + "-" + spec
}

type Appointment struct {
	ID         string            `json:"id"`
	DoctorID   string            `json:"doctorId"`
	PetOwnerID string            `json:"petOwnerId"`
	PetID      string            `json:"petId"`
	SlotID     string            `json:"slotId"`
	Reason     string            `json:"reason"`
	Status     AppointmentStatus `json:"status"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  string            `json:"createdAt"`
}

// AppState is the whole state tree. It is persisted wholesale as a single
// document and only ever replaced, never mutated in place.
type AppState struct {
	CurrentUserType UserType      `json:"currentUserType,omitempty"`
	CurrentUserID   string        `json:"currentUserId,omitempty"`
	Doctors         []Doctor      `json:"doctors"`
	PetOwners       []PetOwner    `json:"petOwners"`
	Appointments    []Appointment `json:"appointments"`
	TimeSlots       []TimeSlot    `json:"timeSlots"`
	Schedules       []Schedule    `json:"schedules"`
}

// clone returns a state sharing no slice backing arrays with the receiver,
// so callers can hold or mutate what they read without touching the tree.
func (s AppState) clone() AppState {
	doctors := slices.Clone(s.Doctors)
	for i := range doctors {
		doctors[i].Specializations = slices.Clone(doctors[i].Specializations)
	}
	s.Doctors = doctors

	owners := slices.Clone(s.PetOwners)
	for i := range owners {
		owners[i].Pets = slices.Clone(owners[i].Pets)
	}
	s.PetOwners = owners

	s.Appointments = slices.Clone(s.Appointments)
	s.TimeSlots = slices.Clone(s.TimeSlots)

	schedules := slices.Clone(s.Schedules)
	for i := range schedules {
		schedules[i].Specializations = slices.Clone(schedules[i].Specializations)
	}
	s.Schedules = schedules

	return s
}

func emptyState() AppState {
	return AppState{
		Doctors:      []Doctor{},
		PetOwners:    []PetOwner{},
		Appointments: []Appointment{},
		TimeSlots:    []TimeSlot{},
		Schedules:    []Schedule{},
	}
}
