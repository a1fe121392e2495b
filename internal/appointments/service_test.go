package appointments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/carepulse/booking-platform/internal/notify"
	"github.com/carepulse/booking-platform/internal/patients"
	"github.com/carepulse/booking-platform/pkg/logging"
)

type recordingSender struct {
	sent []notify.EmailMessage
}

func (r *recordingSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func strPtr(s string) *string { return &s }

func validRequest() *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		UserID:           "user-1",
		PatientID:        "patient-1",
		PrimaryPhysician: "Dr. Adams",
		Schedule:         strPtr("2026-09-15T10:00:00Z"),
		Reason:           "Annual checkup",
	}
}

func newTestService(t *testing.T) (*Service, *patients.InMemoryRepository, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	patientRepo := patients.NewInMemoryRepository()
	svc := NewService(
		NewInMemoryRepository(),
		patientRepo,
		notify.NewService(sender, "", logging.Default()),
		nil,
		logging.Default(),
	)
	return svc, patientRepo, sender
}

func createPatient(t *testing.T, repo *patients.InMemoryRepository) *patients.Patient {
	t.Helper()
	patient, err := repo.Create(context.Background(), &patients.PatientFields{
		UserID:                 "user-1",
		Name:                   "Maria Gonzalez",
		Email:                  "maria@example.com",
		Phone:                  "+15552223333",
		BirthDate:              "1990-04-12",
		Gender:                 patients.GenderFemale,
		Address:                "12 Main St",
		Occupation:             "Teacher",
		EmergencyContactName:   "Luis Gonzalez",
		EmergencyContactNumber: "+15554445555",
		PrimaryPhysician:       "Dr. Adams",
		InsuranceProvider:      "BlueCross",
		InsurancePolicyNumber:  "BC-998877",
		TreatmentConsent:       true,
		DisclosureConsent:      true,
		PrivacyConsent:         true,
	})
	if err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}
	return patient
}

func TestCreateStartsPending(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if appt.Status != StatusPending {
		t.Fatalf("new appointment status = %q, want pending", appt.Status)
	}
	if appt.CancellationReason != nil {
		t.Fatal("new appointment must have no cancellation reason")
	}

	got, err := svc.GetByID(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil || got.Status != StatusPending {
		t.Fatalf("stored appointment = %+v", got)
	}
}

func TestCreateMissingField(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.Reason = ""
	_, err := svc.Create(context.Background(), req)
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "reason" {
		t.Fatalf("expected missing reason error, got %v", err)
	}
}

func TestCreateRequiresSchedule(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.Schedule = nil
	_, err := svc.Create(context.Background(), req)
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "schedule" {
		t.Fatalf("expected missing schedule error, got %v", err)
	}

	req = validRequest()
	req.Schedule = strPtr("   ")
	if _, err := svc.Create(context.Background(), req); !errors.As(err, &missing) || missing.Field != "schedule" {
		t.Fatalf("expected missing schedule error for blank slot, got %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected create must not persist, got %d appointments", len(list))
	}
}

func TestScheduleSetsStatusAndSlot(t *testing.T) {
	svc, patientRepo, _ := newTestService(t)
	patient := createPatient(t, patientRepo)

	req := validRequest()
	req.PatientID = patient.ID
	appt, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Schedule(context.Background(), appt.ID, strPtr("2026-10-01T09:00:00Z"))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Fatalf("status = %q, want scheduled", got.Status)
	}
	if got.Schedule == nil || *got.Schedule != "2026-10-01T09:00:00Z" {
		t.Fatalf("schedule = %v", got.Schedule)
	}
}

func TestScheduleWithoutSlotClearsStoredSchedule(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if appt.Schedule == nil {
		t.Fatal("fixture should carry an initial schedule")
	}

	got, err := svc.Schedule(context.Background(), appt.ID, nil)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Fatalf("status = %q, want scheduled", got.Status)
	}
	if got.Schedule != nil {
		t.Fatalf("schedule must be cleared when confirming without a slot, got %q", *got.Schedule)
	}
}

func TestScheduleReopensCancelled(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), appt.ID, strPtr("No show")); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	got, err := svc.Schedule(context.Background(), appt.ID, strPtr("2026-11-01T09:00:00Z"))
	if err != nil {
		t.Fatalf("Schedule after cancel failed: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Fatalf("status = %q, want scheduled", got.Status)
	}
}

func TestCancelIsIdempotentWithLatestReason(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), appt.ID, strPtr("Patient unavailable")); err != nil {
		t.Fatalf("first Cancel failed: %v", err)
	}
	got, err := svc.Cancel(context.Background(), appt.ID, strPtr("Physician unavailable"))
	if err != nil {
		t.Fatalf("second Cancel failed: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}
	if got.CancellationReason == nil || *got.CancellationReason != "Physician unavailable" {
		t.Fatalf("expected second reason to win, got %v", got.CancellationReason)
	}
}

func TestScheduleUnknownAppointment(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Schedule(context.Background(), "ghost", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), "ghost", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "ghost", &UpdateAppointmentRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Update(context.Background(), appt.ID, &UpdateAppointmentRequest{
		PrimaryPhysician: strPtr("Dr. Brown"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.PrimaryPhysician != "Dr. Brown" {
		t.Fatalf("physician = %q", got.PrimaryPhysician)
	}
	if got.Reason != "Annual checkup" {
		t.Fatalf("reason must be untouched, got %q", got.Reason)
	}
	if got.Status != StatusPending {
		t.Fatalf("status must be untouched by update, got %q", got.Status)
	}
}

func TestRemoveEchoesIDAndIgnoresMissing(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	id, err := svc.Remove(context.Background(), appt.ID)
	if err != nil || id != appt.ID {
		t.Fatalf("Remove = %q, %v", id, err)
	}

	// Deleting an id that never existed is a silent no-op.
	id, err = svc.Remove(context.Background(), "ghost")
	if err != nil || id != "ghost" {
		t.Fatalf("Remove of missing id = %q, %v", id, err)
	}
}

func TestFirstByUserIDInsertionOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	first := validRequest()
	first.Reason = "First booking"
	second := validRequest()
	second.Reason = "Second booking"

	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.FirstByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FirstByUserID failed: %v", err)
	}
	if got == nil || got.Reason != "First booking" {
		t.Fatalf("expected earliest appointment, got %+v", got)
	}

	got, err = svc.FirstByPatientID(context.Background(), "patient-1")
	if err != nil {
		t.Fatalf("FirstByPatientID failed: %v", err)
	}
	if got == nil || got.Reason != "First booking" {
		t.Fatalf("expected earliest appointment, got %+v", got)
	}

	got, err = svc.FirstByUserID(context.Background(), "ghost")
	if err != nil || got != nil {
		t.Fatalf("expected nil for unknown user, got %+v, %v", got, err)
	}
}

func TestCountsMatchesList(t *testing.T) {
	svc, _, _ := newTestService(t)

	ids := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		appt, err := svc.Create(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, appt.ID)
	}
	// 2 scheduled, 1 cancelled, 3 left pending.
	for _, id := range ids[:2] {
		if _, err := svc.Schedule(context.Background(), id, strPtr("2026-10-01T09:00:00Z")); err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
	}
	if _, err := svc.Cancel(context.Background(), ids[2], strPtr("No show")); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	counts, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Scheduled != 2 || counts.Cancelled != 1 || counts.Pending != 3 {
		t.Fatalf("counts = %+v", counts)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if counts.Scheduled+counts.Pending+counts.Cancelled != len(list) {
		t.Fatalf("count sum %d != list length %d", counts.Scheduled+counts.Pending+counts.Cancelled, len(list))
	}
}

func TestScheduleSendsPatientEmail(t *testing.T) {
	svc, patientRepo, sender := newTestService(t)
	patient := createPatient(t, patientRepo)

	req := validRequest()
	req.PatientID = patient.ID
	appt, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Schedule(context.Background(), appt.ID, strPtr("2026-10-01T09:00:00Z")); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	if sender.sent[0].To != "maria@example.com" {
		t.Errorf("email to %q", sender.sent[0].To)
	}
	if !strings.Contains(sender.sent[0].Body, "2026-10-01T09:00:00Z") {
		t.Errorf("email body missing slot: %q", sender.sent[0].Body)
	}

	if _, err := svc.Cancel(context.Background(), appt.ID, strPtr("Physician unavailable")); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected cancellation email, got %d messages", len(sender.sent))
	}
	if !strings.Contains(sender.sent[1].Body, "Physician unavailable") {
		t.Errorf("cancellation email missing reason: %q", sender.sent[1].Body)
	}
}

func TestScheduleSkipsEmailForOrphanedPatient(t *testing.T) {
	svc, _, sender := newTestService(t)

	// patient-1 was never created; the reference is dangling.
	appt, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Schedule(context.Background(), appt.ID, nil); err != nil {
		t.Fatalf("Schedule must succeed despite missing patient: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no email for orphaned reference, got %d", len(sender.sent))
	}
}
