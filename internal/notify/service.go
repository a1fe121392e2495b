package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/carepulse/booking-platform/pkg/logging"
)

// AppointmentEmail carries the appointment details a notification needs.
// Plain fields keep this package free of a dependency on the appointments
// domain types.
type AppointmentEmail struct {
	AppointmentID      string
	PatientName        string
	PatientEmail       string
	PrimaryPhysician   string
	Schedule           string // human-entered slot text, may be empty
	Reason             string
	CancellationReason string
}

// Service sends appointment lifecycle emails to patients.
type Service struct {
	email   EmailSender
	baseURL string
	logger  *logging.Logger
}

// NewService creates a notification service. A nil sender disables sending;
// every notify call becomes a logged no-op. publicBaseURL, when set, is used
// to build the manage-appointment link in email bodies.
func NewService(email EmailSender, publicBaseURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:   email,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  logger,
	}
}

// appointmentLink builds the patient-facing URL for an appointment, or ""
// when no public base URL is configured.
func (s *Service) appointmentLink(id string) string {
	if s.baseURL == "" || id == "" {
		return ""
	}
	return fmt.Sprintf("%s/appointments/%s", s.baseURL, id)
}

// NotifyAppointmentScheduled emails the patient that their appointment has
// been confirmed.
func (s *Service) NotifyAppointmentScheduled(ctx context.Context, data AppointmentEmail) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping scheduled notification")
		return nil
	}
	if data.PatientEmail == "" {
		s.logger.Debug("notify: patient has no email, skipping scheduled notification")
		return nil
	}

	scheduleLine := data.Schedule
	if scheduleLine == "" {
		scheduleLine = "to be confirmed"
	}

	linkLine := ""
	linkHTML := ""
	if link := s.appointmentLink(data.AppointmentID); link != "" {
		linkLine = fmt.Sprintf("\nManage your appointment: %s\n", link)
		linkHTML = fmt.Sprintf(`<p><a href=%q style="color: #10b981;">Manage your appointment</a></p>`, link)
	}

	subject := "Your appointment is confirmed"
	body := fmt.Sprintf(`Hi %s,

Your appointment with %s has been scheduled.

When: %s
Reason: %s
%s
We look forward to seeing you.

— CarePulse`, data.PatientName, data.PrimaryPhysician, scheduleLine, data.Reason, linkLine)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #10b981;">Appointment Confirmed</h2>
<p>Hi <strong>%s</strong>, your appointment with <strong>%s</strong> has been scheduled.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>When:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Reason:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
%s<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— CarePulse</p>
</div>`, data.PatientName, data.PrimaryPhysician, scheduleLine, data.Reason, linkHTML)

	msg := EmailMessage{
		To:      data.PatientEmail,
		ToName:  data.PatientName,
		Subject: subject,
		Body:    body,
		HTML:    html,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send scheduled email", "error", err, "to", data.PatientEmail)
		return fmt.Errorf("notify: scheduled email: %w", err)
	}
	s.logger.Info("notify: scheduled email sent", "to", data.PatientEmail)
	return nil
}

// NotifyAppointmentCancelled emails the patient that their appointment was
// cancelled, including the reason the staff recorded.
func (s *Service) NotifyAppointmentCancelled(ctx context.Context, data AppointmentEmail) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping cancelled notification")
		return nil
	}
	if data.PatientEmail == "" {
		s.logger.Debug("notify: patient has no email, skipping cancelled notification")
		return nil
	}

	linkLine := ""
	linkHTML := ""
	if link := s.appointmentLink(data.AppointmentID); link != "" {
		linkLine = fmt.Sprintf("\nView the appointment: %s\n", link)
		linkHTML = fmt.Sprintf(`<p><a href=%q style="color: #ef4444;">View the appointment</a></p>`, link)
	}

	subject := "Your appointment has been cancelled"
	body := fmt.Sprintf(`Hi %s,

Your appointment with %s has been cancelled.

Reason: %s
%s
Please reach out if you would like to rebook.

— CarePulse`, data.PatientName, data.PrimaryPhysician, data.CancellationReason, linkLine)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #ef4444;">Appointment Cancelled</h2>
<p>Hi <strong>%s</strong>, your appointment with <strong>%s</strong> has been cancelled.</p>
<p style="background: #fef2f2; padding: 12px; border-radius: 8px; border-left: 4px solid #ef4444;">%s</p>
%s<p>Please reach out if you would like to rebook.</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— CarePulse</p>
</div>`, data.PatientName, data.PrimaryPhysician, data.CancellationReason, linkHTML)

	msg := EmailMessage{
		To:      data.PatientEmail,
		ToName:  data.PatientName,
		Subject: subject,
		Body:    body,
		HTML:    html,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send cancelled email", "error", err, "to", data.PatientEmail)
		return fmt.Errorf("notify: cancelled email: %w", err)
	}
	s.logger.Info("notify: cancelled email sent", "to", data.PatientEmail)
	return nil
}
