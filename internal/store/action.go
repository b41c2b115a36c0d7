package store

// Action is the closed set of state transitions. The interface is sealed:
// only types in this package implement it, so the reducer's type switch
// covers every kind that can ever be dispatched.
type Action interface {
	isAction()
}

type SetUser struct {
	UserType UserType
	UserID   string
}

type AddDoctor struct {
	Doctor Doctor
}

// DoctorPatch carries a partial update; nil fields are left untouched.
type DoctorPatch struct {
	Name            *string
	Specializations *[]string
	Experience      *int
	Rating          *float64
	Location        *string
	Phone           *string
	Email           *string
	Bio             *string
}

type UpdateDoctor struct {
	ID    string
	Patch DoctorPatch
}

type DeleteDoctor struct {
	ID string
}

type AddPetOwner struct {
	Owner PetOwner
}

type PetOwnerPatch struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

type UpdatePetOwner struct {
	ID    string
	Patch PetOwnerPatch
}

type AddPet struct {
	OwnerID string
	Pet     Pet
}

type PetPatch struct {
	Name  *string
	Type  *string
	Breed *string
	Age   *int
}

type UpdatePet struct {
	OwnerID string
	PetID   string
	Patch   PetPatch
}

type DeletePet struct {
	OwnerID string
	PetID   string
}

type AddAppointment struct {
	Appointment Appointment
}

type AppointmentPatch struct {
	Status *AppointmentStatus
	Notes  *string
}

type UpdateAppointment struct {
	ID    string
	Patch AppointmentPatch
}

type AddTimeSlots struct {
	Slots []TimeSlot
}

type ClearTimeSlots struct{}

type TimeSlotPatch struct {
	IsAvailable *bool
}

type UpdateTimeSlot struct {
	ID    string
	Patch TimeSlotPatch
}

type UpsertSchedules struct {
	DoctorID  string
	Schedules []Schedule
}

// ReplaceDoctorSlots swaps out one doctor's slots and templates in a single
// transition: the doctor's prior slots are dropped, the new slots are merged
// in, and the template set is replaced. Other doctors' slots are untouched,
// and no intermediate cleared state is ever observable.
//
// PreserveBooked folds the doctor's consumed slots from the state being
// replaced back into the new set, dropping any incoming slot with the same
// semantic key. The fold runs inside the transition, so a booking can never
// slip between reading the slot set and replacing it.
type ReplaceDoctorSlots struct {
	DoctorID       string
	Slots          []TimeSlot
	Schedules      []Schedule
	PreserveBooked bool
}

// BookSlot inserts an appointment and consumes its slot atomically. Readers
// see both changes or neither.
type BookSlot struct {
	Appointment Appointment
}

type LoadState struct {
	State AppState
}

type Logout struct{}

func (SetUser) isAction()            {}
func (AddDoctor) isAction()          {}
func (UpdateDoctor) isAction()       {}
func (DeleteDoctor) isAction()       {}
func (AddPetOwner) isAction()        {}
func (UpdatePetOwner) isAction()     {}
func (AddPet) isAction()             {}
func (UpdatePet) isAction()          {}
func (DeletePet) isAction()          {}
func (AddAppointment) isAction()     {}
func (UpdateAppointment) isAction()  {}
func (AddTimeSlots) isAction()       {}
func (ClearTimeSlots) isAction()     {}
func (UpdateTimeSlot) isAction()     {}
func (UpsertSchedules) isAction()    {}
func (ReplaceDoctorSlots) isAction() {}
func (BookSlot) isAction()           {}
func (LoadState) isAction()          {}
func (Logout) isAction()             {}
