package files

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carepulse/booking-platform/internal/patients"
	"github.com/carepulse/booking-platform/pkg/logging"
)

const maxDocumentSize = 10 << 20 // 10 MiB

// Handler handles HTTP requests for identification documents
type Handler struct {
	store    *Store
	patients patients.Repository
	logger   *logging.Logger
}

// NewHandler creates a new documents handler
func NewHandler(store *Store, patientRepo patients.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, patients: patientRepo, logger: logger}
}

// Upload handles POST /patients/{patientID}/documents requests. The file
// goes to object storage and its key is appended to the patient's
// identificationDocument list.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.store.Enabled() {
		http.Error(w, "document storage not configured", http.StatusServiceUnavailable)
		return
	}

	patientID := chi.URLParam(r, "patientID")
	patient, err := h.patients.GetByID(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to load patient for document upload", "error", err)
		http.Error(w, "failed to upload document", http.StatusInternalServerError)
		return
	}
	if patient == nil {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	key, err := h.store.Upload(r.Context(), patientID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("document upload failed", "error", err, "patient_id", patientID)
		http.Error(w, "failed to upload document", http.StatusInternalServerError)
		return
	}

	fields := patient.Fields()
	fields.IdentificationDocument = append(fields.IdentificationDocument, key)
	updated, err := h.patients.Replace(r.Context(), patientID, fields)
	if err != nil {
		h.logger.Error("failed to attach document to patient", "error", err, "patient_id", patientID)
		http.Error(w, "failed to upload document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"key":                    key,
		"identificationDocument": updated.IdentificationDocument,
	})
}
