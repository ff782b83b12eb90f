package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lifin-backend/internal/services"
)

type AlokasiHandler struct {
	allocation *services.AllocationService
}

func NewAlokasiHandler(allocation *services.AllocationService) *AlokasiHandler {
	return &AlokasiHandler{allocation: allocation}
}

type alokasiRequest struct {
	Jenjang string `json:"jenjang"`
	Total   int64  `json:"total"`
}

// Calculate splits a monthly budget by school tier.
func (h *AlokasiHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req alokasiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_BODY", "Invalid request body", r))
		return
	}

	alloc, err := h.allocation.Calculate(req.Jenjang, req.Total)
	if err != nil {
		if errors.Is(err, services.ErrUnknownJenjang) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"jenjang": "Jenjang must be SD, SMP, SMA or UMUM"}, r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"total": "Total must not be negative"}, r))
		return
	}

	writeJSON(w, http.StatusOK, alloc)
}
