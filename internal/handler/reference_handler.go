package handler

import (
	"encoding/json"
	"net/http"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/service"

	"github.com/rs/zerolog"
)

// ReferenceHandler serves the CRUD surface for one reference-entity
// collection. The four collections share this implementation; updates for a
// single-field row are the same whether full or partial.
type ReferenceHandler struct {
	service service.ReferenceService
	logger  zerolog.Logger
}

// NewReferenceHandler creates a handler for the service's reference kind.
func NewReferenceHandler(svc service.ReferenceService, logger zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		service: svc,
		logger:  logger.With().Str("handler", svc.Kind().Singular).Logger(),
	}
}

// List handles GET /api/{collection} requests.
func (h *ReferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, refs)
}

// GetByID handles GET /api/{collection}/{id} requests.
func (h *ReferenceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	ref, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

// Create handles POST /api/{collection} requests.
func (h *ReferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	ref, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, ref)
}

// Update handles PUT and PATCH /api/{collection}/{id} requests.
func (h *ReferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	var req model.ReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	ref, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

// Patch handles PATCH requests; identical to Update for single-field rows.
func (h *ReferenceHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.Update(w, r)
}

// Delete handles DELETE /api/{collection}/{id} requests.
func (h *ReferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
