package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carepulse/booking-platform/internal/session"
	"github.com/carepulse/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for patients
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new patients handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create handles POST /patients requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var fields PatientFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	callerID, _ := session.UserIDFromContext(r.Context())
	patient, err := h.service.Create(r.Context(), callerID, &fields)
	if err != nil {
		h.writeError(w, err, "failed to create patient")
		return
	}

	writeJSON(w, http.StatusCreated, patient)
}

// Update handles PUT /patients/{patientID} requests. The full field set is
// required: this is a whole-record replace, not a sparse patch.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	var fields PatientFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	callerID, _ := session.UserIDFromContext(r.Context())
	patient, err := h.service.Update(r.Context(), callerID, patientID, &fields)
	if err != nil {
		h.writeError(w, err, "failed to update patient")
		return
	}

	writeJSON(w, http.StatusOK, patient)
}

// GetByID handles GET /patients/{patientID} requests. Absent records are a
// JSON null body, not an error.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.GetByID(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		h.logger.Error("failed to get patient", "error", err)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// FirstByUserID handles GET /users/{userID}/patients/first requests.
func (h *Handler) FirstByUserID(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.FirstByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.logger.Error("failed to get first patient", "error", err)
		http.Error(w, "failed to get first patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// ListByUserID handles GET /users/{userID}/patients requests. A missing
// user yields a JSON null body; a user without patients yields [].
func (h *Handler) ListByUserID(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Remove handles DELETE /patients/{patientID} requests
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "patientID")); err != nil {
		h.logger.Error("failed to remove patient", "error", err)
		http.Error(w, "failed to remove patient", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var missing *MissingFieldError
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidGender), errors.Is(err, ErrConsentRequired), errors.As(err, &missing):
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
