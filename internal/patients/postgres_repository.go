package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// patientsDB is the subset of pgxpool.Pool the repository needs. Narrowed
// so pgxmock can stand in during tests.
type patientsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db patientsDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db patientsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const patientColumns = `
	id, user_id, name, email, phone, birth_date, gender, address, occupation,
	emergency_contact_name, emergency_contact_number, primary_physician,
	insurance_provider, insurance_policy_number, allergies, current_medication,
	family_medical_history, past_medical_history, identification_type,
	identification_number, identification_document,
	treatment_consent, disclosure_consent, privacy_consent, created_at
`

// Create inserts a new patient row.
func (r *PostgresRepository) Create(ctx context.Context, fields *PatientFields) (*Patient, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO patients (
			id, user_id, name, email, phone, birth_date, gender, address, occupation,
			emergency_contact_name, emergency_contact_number, primary_physician,
			insurance_provider, insurance_policy_number, allergies, current_medication,
			family_medical_history, past_medical_history, identification_type,
			identification_number, identification_document,
			treatment_consent, disclosure_consent, privacy_consent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query, append([]any{id}, fieldArgs(fields)...)...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}

	patient := fromFields(id.String(), createdAt, fields)
	return patient, nil
}

// Replace overwrites every field of an existing row. Replacing a missing id
// touches zero rows and is not surfaced as an error.
func (r *PostgresRepository) Replace(ctx context.Context, id string, fields *PatientFields) (*Patient, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE patients SET
			user_id = $2, name = $3, email = $4, phone = $5, birth_date = $6,
			gender = $7, address = $8, occupation = $9,
			emergency_contact_name = $10, emergency_contact_number = $11,
			primary_physician = $12, insurance_provider = $13,
			insurance_policy_number = $14, allergies = $15,
			current_medication = $16, family_medical_history = $17,
			past_medical_history = $18, identification_type = $19,
			identification_number = $20, identification_document = $21,
			treatment_consent = $22, disclosure_consent = $23, privacy_consent = $24
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, append([]any{id}, fieldArgs(fields)...)...); err != nil {
		return nil, fmt.Errorf("patients: update failed: %w", err)
	}

	return fromFields(id, time.Time{}, fields), nil
}

// GetByID fetches a patient by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	return scanPatient(row)
}

// FirstByUserID fetches the earliest-inserted patient created by the user.
func (r *PostgresRepository) FirstByUserID(ctx context.Context, userID string) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, userID)
	return scanPatient(row)
}

// ListByUserID fetches all patients created by the user, newest first.
func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]*Patient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Patient{}
	for rows.Next() {
		patient, err := scanPatientRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: row iteration failed: %w", err)
	}
	return out, nil
}

// Delete removes a patient row. Deleting a missing id is a no-op; no
// referencing appointments are touched.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("patients: delete failed: %w", err)
	}
	return nil
}

func fieldArgs(f *PatientFields) []any {
	return []any{
		f.UserID,
		f.Name,
		f.Email,
		f.Phone,
		f.BirthDate,
		f.Gender,
		f.Address,
		f.Occupation,
		f.EmergencyContactName,
		f.EmergencyContactNumber,
		f.PrimaryPhysician,
		f.InsuranceProvider,
		f.InsurancePolicyNumber,
		f.Allergies,
		f.CurrentMedication,
		f.FamilyMedicalHistory,
		f.PastMedicalHistory,
		f.IdentificationType,
		f.IdentificationNumber,
		f.IdentificationDocument,
		f.TreatmentConsent,
		f.DisclosureConsent,
		f.PrivacyConsent,
	}
}

type patientScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row pgx.Row) (*Patient, error) {
	patient, err := scanPatientRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return patient, nil
}

func scanPatientRow(row patientScanner) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.BirthDate,
		&p.Gender,
		&p.Address,
		&p.Occupation,
		&p.EmergencyContactName,
		&p.EmergencyContactNumber,
		&p.PrimaryPhysician,
		&p.InsuranceProvider,
		&p.InsurancePolicyNumber,
		&p.Allergies,
		&p.CurrentMedication,
		&p.FamilyMedicalHistory,
		&p.PastMedicalHistory,
		&p.IdentificationType,
		&p.IdentificationNumber,
		&p.IdentificationDocument,
		&p.TreatmentConsent,
		&p.DisclosureConsent,
		&p.PrivacyConsent,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
