package patients

import (
	"context"

	"github.com/carepulse/booking-platform/internal/users"
	"github.com/carepulse/booking-platform/pkg/logging"
)

// Service owns the patient operations. The caller identity is an explicit
// parameter on the gated operations rather than ambient state, so the
// authorization rule is testable without a simulated session.
type Service struct {
	repo   Repository
	users  users.Repository
	logger *logging.Logger
}

// NewService constructs a patients service.
func NewService(repo Repository, userRepo users.Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("patients: repository required")
	}
	if userRepo == nil {
		panic("patients: users repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, users: userRepo, logger: logger}
}

// Create inserts a patient record. callerID must identify an authenticated
// user; the supplied fields are stored verbatim once validated.
func (s *Service) Create(ctx context.Context, callerID string, fields *PatientFields) (*Patient, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}

	patient, err := s.repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("patient created", "patient_id", patient.ID, "user_id", patient.UserID, "caller_id", callerID)
	return patient, nil
}

// Update replaces every field of the patient record. Same authentication
// gate as Create.
func (s *Service) Update(ctx context.Context, callerID, patientID string, fields *PatientFields) (*Patient, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}

	patient, err := s.repo.Replace(ctx, patientID, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("patient updated", "patient_id", patientID, "caller_id", callerID)
	return patient, nil
}

// GetByID returns the patient or nil when the id is unknown.
func (s *Service) GetByID(ctx context.Context, patientID string) (*Patient, error) {
	if patientID == "" {
		return nil, nil
	}
	return s.repo.GetByID(ctx, patientID)
}

// FirstByUserID returns the earliest patient the user created, or nil when
// the user record does not exist or has no patients.
func (s *Service) FirstByUserID(ctx context.Context, userID string) (*Patient, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return s.repo.FirstByUserID(ctx, userID)
}

// ListByUserID returns every patient the user created, newest first. The
// result is nil (not an empty list) when the user record does not exist.
func (s *Service) ListByUserID(ctx context.Context, userID string) ([]*Patient, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return s.repo.ListByUserID(ctx, userID)
}

// Remove hard-deletes the patient record. There is no existence check and
// no cascade to appointments that reference the patient.
func (s *Service) Remove(ctx context.Context, patientID string) error {
	if err := s.repo.Delete(ctx, patientID); err != nil {
		return err
	}
	s.logger.Info("patient removed", "patient_id", patientID)
	return nil
}
