package handler

import (
	"encoding/json"
	"net/http"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/service"

	"github.com/rs/zerolog"
)

// RecordHandler handles shopping-record HTTP requests. The payload nests the
// full store and product objects; creation runs the ingestion cascade.
type RecordHandler struct {
	service service.RecordService
	logger  zerolog.Logger
}

// NewRecordHandler creates a new shopping-record handler.
func NewRecordHandler(svc service.RecordService, logger zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		service: svc,
		logger:  logger.With().Str("handler", "record").Logger(),
	}
}

// List handles GET /api/shopping-records requests. Records come back ordered
// by ascending purchase date.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// GetByID handles GET /api/shopping-records/{id} requests.
func (h *RecordHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	record, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Create handles POST /api/shopping-records requests.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ShoppingRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	record, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// Update handles PUT /api/shopping-records/{id} requests.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Patch handles PATCH /api/shopping-records/{id} requests.
func (h *RecordHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *RecordHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	var req model.ShoppingRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	record, err := h.service.Update(r.Context(), id, &req, partial)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /api/shopping-records/{id} requests.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
