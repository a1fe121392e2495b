package users

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Jane Doe", "patient", "jane@example.com", "+15550001111", "hashed").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	repo := NewPostgresRepositoryWithDB(mock)
	user, err := repo.Create(context.Background(), &CreateUserRequest{
		Name:         "Jane Doe",
		Role:         "patient",
		Email:        "jane@example.com",
		PhoneNumber:  "+15550001111",
		PasswordHash: "hashed",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated id")
	}
	if !user.CreatedAt.Equal(createdAt) {
		t.Fatalf("CreatedAt = %s, want %s", user.CreatedAt, createdAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateUserValidation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Create(context.Background(), &CreateUserRequest{
		Name:         "",
		Email:        "jane@example.com",
		PasswordHash: "hashed",
	})
	if err != ErrMissingName {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, role, email, phone_number, password_hash, created_at`).
		WithArgs("missing-id").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "role", "email", "phone_number", "password_hash", "created_at"}))

	repo := NewPostgresRepositoryWithDB(mock)
	user, err := repo.GetByID(context.Background(), "missing-id")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for missing user, got %+v", user)
	}
}

func TestPostgresGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "name", "role", "email", "phone_number", "password_hash", "created_at"}).
		AddRow("user-1", "Jane Doe", "patient", "jane@example.com", "+15550001111", "hashed", createdAt)
	mock.ExpectQuery(`SELECT id, name, role, email, phone_number, password_hash, created_at`).
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	user, err := repo.GetByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user == nil || user.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "hashed" {
		t.Fatalf("expected password hash to round-trip, got %q", user.PasswordHash)
	}
}
