package store

// Read helpers used by services and handlers. They operate on a state value
// and never mutate it.

func (s AppState) DoctorByID(id string) (Doctor, bool) {
	for _, d := range s.Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}

func (s AppState) OwnerByID(id string) (PetOwner, bool) {
	for _, o := range s.PetOwners {
		if o.ID == id {
			return o, true
		}
	}
	return PetOwner{}, false
}

func (s AppState) PetByID(ownerID, petID string) (Pet, bool) {
	owner, ok := s.OwnerByID(ownerID)
	if !ok {
		return Pet{}, false
	}
	for _, p := range owner.Pets {
		if p.ID == petID {
			return p, true
		}
	}
	return Pet{}, false
}

func (s AppState) SlotByID(id string) (TimeSlot, bool) {
	for _, slot := range s.TimeSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

func (s AppState) AppointmentByID(id string) (Appointment, bool) {
	for _, a := range s.Appointments {
		if a.ID == id {
			return a, true
		}
	}
	return Appointment{}, false
}

// SlotsForDoctor returns the doctor's slots, optionally only bookable ones.
func (s AppState) SlotsForDoctor(doctorID string, onlyAvailable bool) []TimeSlot {
	out := []TimeSlot{}
	for _, slot := range s.TimeSlots {
		if slot.DoctorID != doctorID {
			continue
		}
		if onlyAvailable && !slot.IsAvailable {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func (s AppState) SchedulesForDoctor(doctorID string) []Schedule {
	out := []Schedule{}
	for _, sc := range s.Schedules {
		if sc.DoctorID == doctorID {
			out = append(out, sc)
		}
	}
	return out
}

func (s AppState) AppointmentsForOwner(ownerID string) []Appointment {
	out := []Appointment{}
	for _, a := range s.Appointments {
		if a.PetOwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out
}

func (s AppState) AppointmentsForDoctor(doctorID string) []Appointment {
	out := []Appointment{}
	for _, a := range s.Appointments {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out
}
