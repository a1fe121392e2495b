package appointments

import (
	"strings"
	"time"
)

// Appointment represents a booking request made by a user for a patient.
// patientId is a plain back-reference; deleting the patient afterwards
// leaves the appointment orphaned.
type Appointment struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	PatientID          string    `json:"patientId"`
	PrimaryPhysician   string    `json:"primaryPhysician"`
	Schedule           *string   `json:"schedule,omitempty"`
	Reason             string    `json:"reason"`
	Note               *string   `json:"note,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// CreateAppointmentRequest carries the creation field set. Status is not a
// caller input; every new appointment starts pending. Schedule is required
// here even though the column is nullable: only a later confirm without a
// slot may clear it.
type CreateAppointmentRequest struct {
	UserID           string  `json:"userId"`
	PatientID        string  `json:"patientId"`
	PrimaryPhysician string  `json:"primaryPhysician"`
	Schedule         *string `json:"schedule,omitempty"`
	Reason           string  `json:"reason"`
	Note             *string `json:"note,omitempty"`
}

// Validate checks structural field presence. Anything beyond presence is
// the caller's responsibility.
func (r *CreateAppointmentRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"userId", r.UserID},
		{"patientId", r.PatientID},
		{"primaryPhysician", r.PrimaryPhysician},
		{"reason", r.Reason},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &MissingFieldError{Field: field.name}
		}
	}
	if r.Schedule == nil || strings.TrimSpace(*r.Schedule) == "" {
		return &MissingFieldError{Field: "schedule"}
	}
	return nil
}

// UpdateAppointmentRequest is a sparse patch: nil fields are left
// unchanged. Status is never touched by a plain update.
type UpdateAppointmentRequest struct {
	PrimaryPhysician *string `json:"primaryPhysician,omitempty"`
	Schedule         *string `json:"schedule,omitempty"`
	Reason           *string `json:"reason,omitempty"`
	Note             *string `json:"note,omitempty"`
}

// Counts is the per-status aggregate over the full appointment list.
type Counts struct {
	Scheduled int `json:"scheduled"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}
