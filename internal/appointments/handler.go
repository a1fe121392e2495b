package appointments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carepulse/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create handles POST /appointments requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "failed to create appointment")
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Update handles PATCH /appointments/{appointmentID} requests. Fields left
// out of the body keep their stored values; status is never touched.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Update(r.Context(), chi.URLParam(r, "appointmentID"), &patch)
	if err != nil {
		h.writeError(w, err, "failed to update appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

type scheduleRequest struct {
	Schedule *string `json:"schedule"`
}

// Schedule handles POST /appointments/{appointmentID}/schedule requests.
// Omitting schedule from the body (or the body itself) clears the stored
// slot while confirming.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Schedule(r.Context(), chi.URLParam(r, "appointmentID"), req.Schedule)
	if err != nil {
		h.writeError(w, err, "failed to schedule appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

type cancelRequest struct {
	CancellationReason *string `json:"cancellationReason"`
}

// Cancel handles POST /appointments/{appointmentID}/cancel requests.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Cancel(r.Context(), chi.URLParam(r, "appointmentID"), req.CancellationReason)
	if err != nil {
		h.writeError(w, err, "failed to cancel appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Remove handles DELETE /appointments/{appointmentID} requests and echoes
// the deleted id.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.Remove(r.Context(), chi.URLParam(r, "appointmentID"))
	if err != nil {
		h.writeError(w, err, "failed to remove appointment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// GetByID handles GET /appointments/{appointmentID} requests. Absent
// records are a JSON null body, not an error.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
	if err != nil {
		h.writeError(w, err, "failed to get appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// FirstByUserID handles GET /users/{userID}/appointments/first requests.
func (h *Handler) FirstByUserID(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.FirstByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err, "failed to get appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// FirstByPatientID handles GET /patients/{patientID}/appointments/first requests.
func (h *Handler) FirstByPatientID(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.FirstByPatientID(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		h.writeError(w, err, "failed to get appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// ListAll handles GET /admin/appointments requests.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err, "failed to list appointments")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Counts handles GET /admin/appointments/counts requests.
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		h.writeError(w, err, "failed to count appointments")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var missing *MissingFieldError
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &missing):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(fallback, "error", err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
