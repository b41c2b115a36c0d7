package store

import "slices"

// Reduce applies one action to a state and returns the next state. It is
// pure and total: every action value yields a defined result, invalid or
// unknown actions reduce to the unchanged state, and the input state is
// never mutated.
func Reduce(state AppState, action Action) AppState {
	switch a := action.(type) {
	case SetUser:
		state.CurrentUserType = a.UserType
		state.CurrentUserID = a.UserID
		// A pet owner id seen for the first time gets an empty profile so
		// pet and booking actions always have an owner record to target.
		if a.UserType == UserPetOwner && findOwner(state.PetOwners, a.UserID) < 0 {
			state.PetOwners = append(slices.Clone(state.PetOwners), PetOwner{ID: a.UserID, Pets: []Pet{}})
		}
		return state

	case AddDoctor:
		state.Doctors = append(slices.Clone(state.Doctors), a.Doctor)
		return state

	case UpdateDoctor:
		doctors := slices.Clone(state.Doctors)
		for i := range doctors {
			if doctors[i].ID == a.ID {
				applyDoctorPatch(&doctors[i], a.Patch)
			}
		}
		state.Doctors = doctors
		return state

	case DeleteDoctor:
		state.Doctors = slices.DeleteFunc(slices.Clone(state.Doctors), func(d Doctor) bool {
			return d.ID == a.ID
		})
		// Cascade to the doctor's templates and still-open slots. Consumed
		// slots stay so existing appointments keep a resolvable slot ref.
		state.Schedules = slices.DeleteFunc(slices.Clone(state.Schedules), func(s Schedule) bool {
			return s.DoctorID == a.ID
		})
		state.TimeSlots = slices.DeleteFunc(slices.Clone(state.TimeSlots), func(s TimeSlot) bool {
			return s.DoctorID == a.ID && s.IsAvailable
		})
		return state

	case AddPetOwner:
		state.PetOwners = append(slices.Clone(state.PetOwners), a.Owner)
		return state

	case UpdatePetOwner:
		owners := slices.Clone(state.PetOwners)
		for i := range owners {
			if owners[i].ID == a.ID {
				applyOwnerPatch(&owners[i], a.Patch)
			}
		}
		state.PetOwners = owners
		return state

	case AddPet:
		owners := slices.Clone(state.PetOwners)
		idx := findOwner(owners, a.OwnerID)
		if idx < 0 {
			owners = append(owners, PetOwner{ID: a.OwnerID, Pets: []Pet{a.Pet}})
		} else {
			owners[idx].Pets = append(slices.Clone(owners[idx].Pets), a.Pet)
		}
		state.PetOwners = owners
		return state

	case UpdatePet:
		owners := slices.Clone(state.PetOwners)
		idx := findOwner(owners, a.OwnerID)
		if idx < 0 {
			return state
		}
		pets := slices.Clone(owners[idx].Pets)
		for i := range pets {
			if pets[i].ID == a.PetID {
				applyPetPatch(&pets[i], a.Patch)
			}
		}
		owners[idx].Pets = pets
		state.PetOwners = owners
		return state

	case DeletePet:
		owners := slices.Clone(state.PetOwners)
		idx := findOwner(owners, a.OwnerID)
		if idx < 0 {
			return state
		}
		owners[idx].Pets = slices.DeleteFunc(slices.Clone(owners[idx].Pets), func(p Pet) bool {
			return p.ID == a.PetID
		})
		state.PetOwners = owners
		return state

	case AddAppointment:
		state.Appointments = append(slices.Clone(state.Appointments), a.Appointment)
		return state

	case UpdateAppointment:
		appts := slices.Clone(state.Appointments)
		for i := range appts {
			if appts[i].ID == a.ID {
				applyAppointmentPatch(&appts[i], a.Patch)
			}
		}
		state.Appointments = appts
		return state

	case AddTimeSlots:
		state.TimeSlots = mergeSlots(state.TimeSlots, a.Slots)
		return state

	case ClearTimeSlots:
		state.TimeSlots = []TimeSlot{}
		return state

	case UpdateTimeSlot:
		slots := slices.Clone(state.TimeSlots)
		for i := range slots {
			if slots[i].ID == a.ID && a.Patch.IsAvailable != nil {
				slots[i].IsAvailable = *a.Patch.IsAvailable
			}
		}
		state.TimeSlots = slots
		return state

	case UpsertSchedules:
		state.Schedules = replaceSchedules(state.Schedules, a.DoctorID, a.Schedules)
		return state

	case ReplaceDoctorSlots:
		incoming := a.Slots
		if a.PreserveBooked {
			incoming = foldBookedSlots(state.TimeSlots, a.DoctorID, incoming)
		}
		kept := slices.DeleteFunc(slices.Clone(state.TimeSlots), func(s TimeSlot) bool {
			return s.DoctorID == a.DoctorID
		})
		state.TimeSlots = mergeSlots(kept, incoming)
		state.Schedules = replaceSchedules(state.Schedules, a.DoctorID, a.Schedules)
		return state

	case BookSlot:
		idx := -1
		for i := range state.TimeSlots {
			if state.TimeSlots[i].ID == a.Appointment.SlotID {
				idx = i
				break
			}
		}
		if idx < 0 || !state.TimeSlots[idx].IsAvailable {
			return state
		}
		slots := slices.Clone(state.TimeSlots)
		slots[idx].IsAvailable = false
		state.TimeSlots = slots
		state.Appointments = append(slices.Clone(state.Appointments), a.Appointment)
		return state

	case LoadState:
		next := emptyState()
		next.CurrentUserType = a.State.CurrentUserType
		next.CurrentUserID = a.State.CurrentUserID
		if a.State.Doctors != nil {
			next.Doctors = a.State.Doctors
		}
		if a.State.PetOwners != nil {
			next.PetOwners = a.State.PetOwners
		}
		if a.State.Appointments != nil {
			next.Appointments = a.State.Appointments
		}
		if a.State.TimeSlots != nil {
			next.TimeSlots = a.State.TimeSlots
		}
		if a.State.Schedules != nil {
			next.Schedules = a.State.Schedules
		}
		return next

	case Logout:
		state.CurrentUserType = ""
		state.CurrentUserID = ""
		return state

	default:
		return state
	}
}

// mergeSlots appends only slots whose id is not already present, so repeated
// generation runs can never duplicate a slot record.
func mergeSlots(existing, incoming []TimeSlot) []TimeSlot {
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[s.ID] = struct{}{}
	}
	out := slices.Clone(existing)
	for _, s := range incoming {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// foldBookedSlots keeps the doctor's consumed slots ahead of freshly
// generated ones and drops any generated slot that would re-offer the same
// doctor+date+time+spec while an appointment still references it.
func foldBookedSlots(current []TimeSlot, doctorID string, generated []TimeSlot) []TimeSlot {
	booked := []TimeSlot{}
	taken := map[string]struct{}{}
	for _, slot := range current {
		if slot.DoctorID != doctorID || slot.IsAvailable {
			continue
		}
		booked = append(booked, slot)
		taken[slot.SemanticKey()] = struct{}{}
	}
	if len(booked) == 0 {
		return generated
	}

	out := booked
	for _, slot := range generated {
		if _, dup := taken[slot.SemanticKey()]; dup {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func replaceSchedules(existing []Schedule, doctorID string, next []Schedule) []Schedule {
	out := slices.DeleteFunc(slices.Clone(existing), func(s Schedule) bool {
		return s.DoctorID == doctorID
	})
	return append(out, next...)
}

func findOwner(owners []PetOwner, id string) int {
	for i := range owners {
		if owners[i].ID == id {
			return i
		}
	}
	return -1
}

func applyDoctorPatch(d *Doctor, p DoctorPatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Specializations != nil {
		d.Specializations = *p.Specializations
	}
	if p.Experience != nil {
		d.Experience = *p.Experience
	}
	if p.Rating != nil {
		d.Rating = *p.Rating
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Bio != nil {
		d.Bio = *p.Bio
	}
}

func applyOwnerPatch(o *PetOwner, p PetOwnerPatch) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Phone != nil {
		o.Phone = *p.Phone
	}
	if p.Email != nil {
		o.Email = *p.Email
	}
	if p.Address != nil {
		o.Address = *p.Address
	}
}

func applyPetPatch(pet *Pet, p PetPatch) {
	if p.Name != nil {
		pet.Name = *p.Name
	}
	if p.Type != nil {
		pet.Type = *p.Type
	}
	if p.Breed != nil {
		pet.Breed = *p.Breed
	}
	if p.Age != nil {
		pet.Age = *p.Age
	}
}

func applyAppointmentPatch(ap *Appointment, p AppointmentPatch) {
	// Completed and cancelled are terminal. A status patch out of a terminal
	// state is dropped so no action in the closed set can reopen one.
	if p.Status != nil && !ap.Status.IsTerminal() {
		ap.Status = *p.Status
	}
	if p.Notes != nil {
		ap.Notes = *p.Notes
	}
}
