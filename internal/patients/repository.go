package patients

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for patient storage.
// Point lookups return (nil, nil) when no record exists; absence is a
// result, not an error.
type Repository interface {
	Create(ctx context.Context, fields *PatientFields) (*Patient, error)
	Replace(ctx context.Context, id string, fields *PatientFields) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	FirstByUserID(ctx context.Context, userID string) (*Patient, error)
	ListByUserID(ctx context.Context, userID string) ([]*Patient, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository. The
// insertion order of records is preserved so first-match lookups behave
// like the indexed store.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
	order    []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]*Patient)}
}

// Create inserts a new patient record.
func (r *InMemoryRepository) Create(ctx context.Context, fields *PatientFields) (*Patient, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	patient := fromFields(uuid.New().String(), time.Now().UTC(), fields)

	r.mu.Lock()
	r.patients[patient.ID] = patient
	r.order = append(r.order, patient.ID)
	r.mu.Unlock()

	return patient, nil
}

// Replace overwrites every field of an existing record.
func (r *InMemoryRepository) Replace(ctx context.Context, id string, fields *PatientFields) (*Patient, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.patients[id]
	if !ok {
		// Replacing a missing record affects nothing; the id is echoed
		// back like every other write.
		return fromFields(id, time.Time{}, fields), nil
	}
	patient := fromFields(id, existing.CreatedAt, fields)
	r.patients[id] = patient
	return patient, nil
}

// GetByID retrieves a patient by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	return patient, nil
}

// FirstByUserID returns the earliest-inserted patient created by the user.
func (r *InMemoryRepository) FirstByUserID(ctx context.Context, userID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if p, ok := r.patients[id]; ok && p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

// ListByUserID returns all patients created by the user, newest first.
func (r *InMemoryRepository) ListByUserID(ctx context.Context, userID string) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Patient{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if p, ok := r.patients[r.order[i]]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Delete removes a patient record. Deleting a missing id is a no-op.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return nil
	}
	delete(r.patients, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func fromFields(id string, createdAt time.Time, f *PatientFields) *Patient {
	return &Patient{
		ID:                     id,
		UserID:                 f.UserID,
		Name:                   f.Name,
		Email:                  f.Email,
		Phone:                  f.Phone,
		BirthDate:              f.BirthDate,
		Gender:                 f.Gender,
		Address:                f.Address,
		Occupation:             f.Occupation,
		EmergencyContactName:   f.EmergencyContactName,
		EmergencyContactNumber: f.EmergencyContactNumber,
		PrimaryPhysician:       f.PrimaryPhysician,
		InsuranceProvider:      f.InsuranceProvider,
		InsurancePolicyNumber:  f.InsurancePolicyNumber,
		Allergies:              f.Allergies,
		CurrentMedication:      f.CurrentMedication,
		FamilyMedicalHistory:   f.FamilyMedicalHistory,
		PastMedicalHistory:     f.PastMedicalHistory,
		IdentificationType:     f.IdentificationType,
		IdentificationNumber:   f.IdentificationNumber,
		IdentificationDocument: f.IdentificationDocument,
		TreatmentConsent:       f.TreatmentConsent,
		DisclosureConsent:      f.DisclosureConsent,
		PrivacyConsent:         f.PrivacyConsent,
		CreatedAt:              createdAt,
	}
}
