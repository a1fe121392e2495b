package appointments

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carepulse/booking-platform/internal/notify"
	"github.com/carepulse/booking-platform/internal/observability/metrics"
	"github.com/carepulse/booking-platform/internal/patients"
	"github.com/carepulse/booking-platform/pkg/logging"
)

var appointmentsTracer = otel.Tracer("carepulse.internal.appointments")

// Service owns the appointment lifecycle. Schedule and cancel send a
// best-effort patient email; a notification failure never fails the write.
type Service struct {
	repo     Repository
	patients patients.Repository
	notifier *notify.Service
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService constructs an appointments service. notifier and bookingMetrics
// may be nil; both degrade to no-ops.
func NewService(repo Repository, patientRepo patients.Repository, notifier *notify.Service, bookingMetrics *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		patients: patientRepo,
		notifier: notifier,
		metrics:  bookingMetrics,
		logger:   logger,
	}
}

// Create books a new appointment. Status always starts pending and the
// cancellation reason always starts empty, regardless of input.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.create")
	defer span.End()
	start := time.Now()

	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveCreate("error")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("carepulse.appointment_id", appt.ID),
		attribute.String("carepulse.patient_id", appt.PatientID),
	)
	s.metrics.ObserveCreate("ok")
	s.metrics.ObserveLatency("create", time.Since(start).Seconds())
	s.logger.Info("appointment created", "appointment_id", appt.ID, "user_id", appt.UserID, "patient_id", appt.PatientID)
	return appt, nil
}

// Update applies a sparse patch to the mutable fields. Status is untouched.
func (s *Service) Update(ctx context.Context, id string, patch *UpdateAppointmentRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.update")
	defer span.End()
	span.SetAttributes(attribute.String("carepulse.appointment_id", id))

	appt, err := s.repo.Patch(ctx, id, patch)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("appointment updated", "appointment_id", id)
	return appt, nil
}

// Schedule confirms the appointment. The stored schedule is overwritten
// with the given value even when it is nil, so scheduling without a new
// slot clears the old one.
func (s *Service) Schedule(ctx context.Context, id string, schedule *string) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.schedule")
	defer span.End()
	span.SetAttributes(attribute.String("carepulse.appointment_id", id))
	start := time.Now()

	appt, err := s.repo.SetScheduled(ctx, id, schedule)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition(string(StatusScheduled), "error")
		return nil, err
	}
	s.metrics.ObserveTransition(string(StatusScheduled), "ok")
	s.metrics.ObserveLatency("schedule", time.Since(start).Seconds())
	s.logger.Info("appointment scheduled", "appointment_id", id)

	s.notifyScheduled(ctx, appt)
	return appt, nil
}

// Cancel cancels the appointment and records the reason. The latest reason
// wins, cancelling an already-cancelled appointment included.
func (s *Service) Cancel(ctx context.Context, id string, reason *string) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("carepulse.appointment_id", id))
	start := time.Now()

	appt, err := s.repo.SetCancelled(ctx, id, reason)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition(string(StatusCancelled), "error")
		return nil, err
	}
	s.metrics.ObserveTransition(string(StatusCancelled), "ok")
	s.metrics.ObserveLatency("cancel", time.Since(start).Seconds())
	s.logger.Info("appointment cancelled", "appointment_id", id)

	s.notifyCancelled(ctx, appt)
	return appt, nil
}

// Remove hard-deletes the appointment and echoes the id. No existence
// check; deleting an unknown id is a no-op.
func (s *Service) Remove(ctx context.Context, id string) (string, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.remove")
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return "", err
	}
	s.logger.Info("appointment removed", "appointment_id", id)
	return id, nil
}

// GetByID returns the appointment or nil when the id is empty or unknown.
func (s *Service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	if id == "" {
		return nil, nil
	}
	return s.repo.GetByID(ctx, id)
}

// FirstByUserID returns the earliest appointment the user created, or nil.
func (s *Service) FirstByUserID(ctx context.Context, userID string) (*Appointment, error) {
	return s.repo.FirstByUserID(ctx, userID)
}

// FirstByPatientID returns the earliest appointment for the patient, or nil.
func (s *Service) FirstByPatientID(ctx context.Context, patientID string) (*Appointment, error) {
	return s.repo.FirstByPatientID(ctx, patientID)
}

// List returns every appointment, oldest first.
func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.repo.List(ctx)
}

// Counts tallies appointments per status by scanning the full list. The
// aggregate is recomputed on every call, never cached, so the sum always
// equals the list length.
func (s *Service) Counts(ctx context.Context) (*Counts, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.counts")
	defer span.End()

	list, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	counts := &Counts{}
	for _, appt := range list {
		switch appt.Status {
		case StatusScheduled:
			counts.Scheduled++
		case StatusPending:
			counts.Pending++
		case StatusCancelled:
			counts.Cancelled++
		}
	}
	return counts, nil
}

func (s *Service) notifyScheduled(ctx context.Context, appt *Appointment) {
	data, ok := s.emailData(ctx, appt)
	if !ok {
		return
	}
	if err := s.notifier.NotifyAppointmentScheduled(ctx, data); err != nil {
		s.logger.Error("scheduled notification failed", "error", err, "appointment_id", appt.ID)
	}
}

func (s *Service) notifyCancelled(ctx context.Context, appt *Appointment) {
	data, ok := s.emailData(ctx, appt)
	if !ok {
		return
	}
	if err := s.notifier.NotifyAppointmentCancelled(ctx, data); err != nil {
		s.logger.Error("cancelled notification failed", "error", err, "appointment_id", appt.ID)
	}
}

// emailData resolves the patient behind the appointment. Orphaned patient
// references just skip the notification.
func (s *Service) emailData(ctx context.Context, appt *Appointment) (notify.AppointmentEmail, bool) {
	if s.notifier == nil || s.patients == nil {
		return notify.AppointmentEmail{}, false
	}
	patient, err := s.patients.GetByID(ctx, appt.PatientID)
	if err != nil {
		s.logger.Error("patient lookup for notification failed", "error", err, "patient_id", appt.PatientID)
		return notify.AppointmentEmail{}, false
	}
	if patient == nil {
		s.logger.Warn("appointment references missing patient, skipping notification", "appointment_id", appt.ID, "patient_id", appt.PatientID)
		return notify.AppointmentEmail{}, false
	}

	data := notify.AppointmentEmail{
		AppointmentID:    appt.ID,
		PatientName:      patient.Name,
		PatientEmail:     patient.Email,
		PrimaryPhysician: appt.PrimaryPhysician,
		Reason:           appt.Reason,
	}
	if appt.Schedule != nil {
		data.Schedule = *appt.Schedule
	}
	if appt.CancellationReason != nil {
		data.CancellationReason = *appt.CancellationReason
	}
	return data, true
}
