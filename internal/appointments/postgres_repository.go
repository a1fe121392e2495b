package appointments

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

// appointmentsDB is the subset of pgxpool.Pool the repository needs.
// Narrowed so pgxmock can stand in during tests.
type appointmentsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db appointmentsDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db appointmentsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `
	id, user_id, patient_id, primary_physician, schedule, reason, note,
	cancellation_reason, status, created_at
`

// Create inserts a new appointment row with status pending.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO appointments (id, user_id, patient_id, primary_physician, schedule, reason, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRow(ctx, query,
		id, req.UserID, req.PatientID, req.PrimaryPhysician,
		req.Schedule, req.Reason, req.Note, StatusPending,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	return &Appointment{
		ID:               id.String(),
		UserID:           req.UserID,
		PatientID:        req.PatientID,
		PrimaryPhysician: req.PrimaryPhysician,
		Schedule:         req.Schedule,
		Reason:           req.Reason,
		Note:             req.Note,
		Status:           StatusPending,
		CreatedAt:        createdAt,
	}, nil
}

// Patch applies a sparse update; nil fields keep their stored values.
func (r *PostgresRepository) Patch(ctx context.Context, id string, patch *UpdateAppointmentRequest) (*Appointment, error) {
	query := `
		UPDATE appointments SET
			primary_physician = COALESCE($2, primary_physician),
			schedule = COALESCE($3, schedule),
			reason = COALESCE($4, reason),
			note = COALESCE($5, note)
		WHERE id = $1
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query, id, patch.PrimaryPhysician, patch.Schedule, patch.Reason, patch.Note)
	return scanPatched(row)
}

// SetScheduled flips status to scheduled and overwrites the schedule column
// with the given value. nil writes NULL; the old slot is never kept. The
// current row is read first so the transition helper decides the new status.
func (r *PostgresRepository) SetScheduled(ctx context.Context, id string, schedule *string) (*Appointment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	query := `
		UPDATE appointments SET status = $2, schedule = $3
		WHERE id = $1
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query, id, ToScheduled(current.Status), schedule)
	return scanPatched(row)
}

// SetCancelled flips status to cancelled and stores the reason.
func (r *PostgresRepository) SetCancelled(ctx context.Context, id string, reason *string) (*Appointment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	query := `
		UPDATE appointments SET status = $2, cancellation_reason = $3
		WHERE id = $1
		RETURNING ` + appointmentColumns
	row := r.db.QueryRow(ctx, query, id, ToCancelled(current.Status), reason)
	return scanPatched(row)
}

// GetByID fetches an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

// FirstByUserID fetches the earliest-inserted appointment created by the user.
func (r *PostgresRepository) FirstByUserID(ctx context.Context, userID string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, userID)
	return scanAppointment(row)
}

// FirstByPatientID fetches the earliest-inserted appointment for the patient.
func (r *PostgresRepository) FirstByPatientID(ctx context.Context, patientID string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, patientID)
	return scanAppointment(row)
}

// List fetches every appointment, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Appointment{}
	for rows.Next() {
		appt, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: row iteration failed: %w", err)
	}
	return out, nil
}

// Delete removes an appointment row. Missing ids are a silent no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	return nil
}

type appointmentScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	appt, err := scanAppointmentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// scanPatched is scanAppointment with the patch-path absence contract: a
// RETURNING clause that hits zero rows means the id does not exist.
func scanPatched(row pgx.Row) (*Appointment, error) {
	appt, err := scanAppointmentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update failed: %w", err)
	}
	return appt, nil
}

func scanAppointmentRow(row appointmentScanner) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.PatientID,
		&a.PrimaryPhysician,
		&a.Schedule,
		&a.Reason,
		&a.Note,
		&a.CancellationReason,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
