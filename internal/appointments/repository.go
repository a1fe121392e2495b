package appointments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
// Point lookups return (nil, nil) when no record exists. Patch operations
// (Patch, SetScheduled, SetCancelled) return ErrNotFound for a missing id
// because they mutate a record that must already be there.
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	Patch(ctx context.Context, id string, patch *UpdateAppointmentRequest) (*Appointment, error)
	SetScheduled(ctx context.Context, id string, schedule *string) (*Appointment, error)
	SetCancelled(ctx context.Context, id string, reason *string) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	FirstByUserID(ctx context.Context, userID string) (*Appointment, error)
	FirstByPatientID(ctx context.Context, patientID string) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository with
// insertion order preserved for the first-match lookups.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
	order        []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[string]*Appointment)}
}

// Create inserts a new appointment with status pending.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt := &Appointment{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		PatientID:        req.PatientID,
		PrimaryPhysician: req.PrimaryPhysician,
		Schedule:         req.Schedule,
		Reason:           req.Reason,
		Note:             req.Note,
		Status:           StatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	r.mu.Lock()
	r.appointments[appt.ID] = appt
	r.order = append(r.order, appt.ID)
	r.mu.Unlock()

	return appt, nil
}

// Patch applies a sparse update. Status and cancellation reason are never
// touched here.
func (r *InMemoryRepository) Patch(ctx context.Context, id string, patch *UpdateAppointmentRequest) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := *appt
	if patch.PrimaryPhysician != nil {
		updated.PrimaryPhysician = *patch.PrimaryPhysician
	}
	if patch.Schedule != nil {
		updated.Schedule = patch.Schedule
	}
	if patch.Reason != nil {
		updated.Reason = *patch.Reason
	}
	if patch.Note != nil {
		updated.Note = patch.Note
	}
	r.appointments[id] = &updated
	return &updated, nil
}

// SetScheduled marks the appointment scheduled and overwrites the stored
// schedule with the given value, nil included. Passing nil clears it.
func (r *InMemoryRepository) SetScheduled(ctx context.Context, id string, schedule *string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := *appt
	updated.Status = ToScheduled(appt.Status)
	updated.Schedule = schedule
	r.appointments[id] = &updated
	return &updated, nil
}

// SetCancelled marks the appointment cancelled and stores the reason. The
// latest reason always wins, cancelling twice included.
func (r *InMemoryRepository) SetCancelled(ctx context.Context, id string, reason *string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := *appt
	updated.Status = ToCancelled(appt.Status)
	updated.CancellationReason = reason
	r.appointments[id] = &updated
	return &updated, nil
}

// GetByID retrieves an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return appt, nil
}

// FirstByUserID returns the earliest-inserted appointment the user created.
func (r *InMemoryRepository) FirstByUserID(ctx context.Context, userID string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if a, ok := r.appointments[id]; ok && a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

// FirstByPatientID returns the earliest-inserted appointment for the patient.
func (r *InMemoryRepository) FirstByPatientID(ctx context.Context, patientID string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if a, ok := r.appointments[id]; ok && a.PatientID == patientID {
			return a, nil
		}
	}
	return nil, nil
}

// List returns every appointment in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Appointment{}
	for _, id := range r.order {
		if a, ok := r.appointments[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Delete removes an appointment. Deleting a missing id is a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return nil
	}
	delete(r.appointments, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
