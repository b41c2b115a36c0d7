package api

type SessionRequest struct {
	UserType string `json:"user_type"`
	UserID   string `json:"user_id"`
}

type CreateDoctorRequest struct {
	Name            string   `json:"name"`
	Specializations []string `json:"specializations"`
	Experience      int      `json:"experience"`
	Rating          float64  `json:"rating"`
	Location        string   `json:"location"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	Bio             string   `json:"bio"`
}

type UpdateDoctorRequest struct {
	Name            *string   `json:"name,omitempty"`
	Specializations *[]string `json:"specializations,omitempty"`
	Experience      *int      `json:"experience,omitempty"`
	Rating          *float64  `json:"rating,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
}

type UpsertOwnerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type CreatePetRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Breed string `json:"breed"`
	Age   int    `json:"age"`
}

type UpdatePetRequest struct {
	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Breed *string `json:"breed,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

type ScheduleTemplateRequest struct {
	DayOfWeek       int      `json:"day_of_week"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	SlotDuration    int      `json:"slot_duration"`
	Specializations []string `json:"specializations"`
	IsRecurring     bool     `json:"is_recurring"`
}

type RegenerateScheduleRequest struct {
	Templates []ScheduleTemplateRequest `json:"templates"`
}

type RegenerateScheduleResponse struct {
	DoctorID  string `json:"doctor_id"`
	Slots     int    `json:"slots"`
	Templates int    `json:"templates"`
}

type BookAppointmentRequest struct {
	OwnerID string `json:"owner_id"`
	PetID   string `json:"pet_id"`
	SlotID  string `json:"slot_id"`
	Reason  string `json:"reason"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
