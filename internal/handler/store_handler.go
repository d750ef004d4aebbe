package handler

import (
	"encoding/json"
	"net/http"

	"shopping-ledger/internal/model"
	"shopping-ledger/internal/service"

	"github.com/rs/zerolog"
)

// StoreHandler handles store-related HTTP requests.
type StoreHandler struct {
	service service.StoreService
	logger  zerolog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(svc service.StoreService, logger zerolog.Logger) *StoreHandler {
	return &StoreHandler{
		service: svc,
		logger:  logger.With().Str("handler", "store").Logger(),
	}
}

// List handles GET /api/stores requests.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stores)
}

// GetByID handles GET /api/stores/{id} requests.
func (h *StoreHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	store, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, store)
}

// Create handles POST /api/stores requests.
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	store, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, store)
}

// Update handles PUT /api/stores/{id} requests.
func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Patch handles PATCH /api/stores/{id} requests.
func (h *StoreHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *StoreHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid id", h.logger)
		return
	}

	var req model.StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	store, err := h.service.Update(r.Context(), id, &req, partial)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, store)
}

// Delete handles DELETE /api/stores/{id} requests.
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
