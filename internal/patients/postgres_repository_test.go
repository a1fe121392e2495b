package patients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreatePatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO patients`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	repo := NewPostgresRepositoryWithDB(mock)
	patient, err := repo.Create(context.Background(), validFields("user-1"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if patient.ID == "" {
		t.Fatal("expected generated id")
	}
	if !patient.CreatedAt.Equal(createdAt) {
		t.Fatalf("CreatedAt = %s, want %s", patient.CreatedAt, createdAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreatePatientValidation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	fields := validFields("user-1")
	fields.DisclosureConsent = false
	repo := NewPostgresRepositoryWithDB(mock)
	if _, err := repo.Create(context.Background(), fields); !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("expected ErrConsentRequired, got %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM patients WHERE id`).
		WithArgs("missing-id").
		WillReturnRows(patientRows())

	repo := NewPostgresRepositoryWithDB(mock)
	patient, err := repo.GetByID(context.Background(), "missing-id")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if patient != nil {
		t.Fatalf("expected nil for missing patient, got %+v", patient)
	}
}

func TestPostgresFirstByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	rows := patientRows().AddRow(patientRowValues("patient-1", "user-1", "Earliest")...)
	mock.ExpectQuery(`ORDER BY created_at ASC, id ASC\s+LIMIT 1`).
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	patient, err := repo.FirstByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FirstByUserID returned error: %v", err)
	}
	if patient == nil || patient.Name != "Earliest" {
		t.Fatalf("unexpected patient: %+v", patient)
	}
}

func TestPostgresListByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	rows := patientRows().
		AddRow(patientRowValues("patient-2", "user-1", "Newest")...).
		AddRow(patientRowValues("patient-1", "user-1", "Oldest")...)
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	list, err := repo.ListByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUserID returned error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Newest" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPostgresDeletePatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM patients`).
		WithArgs("patient-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewPostgresRepositoryWithDB(mock)
	if err := repo.Delete(context.Background(), "patient-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func patientRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "name", "email", "phone", "birth_date", "gender",
		"address", "occupation", "emergency_contact_name", "emergency_contact_number",
		"primary_physician", "insurance_provider", "insurance_policy_number",
		"allergies", "current_medication", "family_medical_history",
		"past_medical_history", "identification_type", "identification_number",
		"identification_document", "treatment_consent", "disclosure_consent",
		"privacy_consent", "created_at",
	})
}

func patientRowValues(id, userID, name string) []any {
	return []any{
		id, userID, name, "maria@example.com", "+15552223333", "1990-04-12",
		GenderFemale, "12 Main St", "Teacher", "Luis Gonzalez", "+15554445555",
		"Dr. Adams", "BlueCross", "BC-998877",
		(*string)(nil), (*string)(nil), (*string)(nil),
		(*string)(nil), (*string)(nil), (*string)(nil),
		[]string(nil), true, true, true, time.Now().UTC(),
	}
}
