package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"lifin-backend/internal/services"
)

type recommender interface {
	Recommend(ctx context.Context, total int64) ([]services.ProductIdea, error)
}

type ProdukHandler struct {
	recommend recommender
}

func NewProdukHandler(recommend recommender) *ProdukHandler {
	return &ProdukHandler{recommend: recommend}
}

type produkRequest struct {
	Total int64 `json:"total"`
}

// Recommend asks the LLM for four product ideas within the given budget.
func (h *ProdukHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req produkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_BODY", "Invalid request body", r))
		return
	}

	if req.Total <= 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"total": "Total must be greater than zero"}, r))
		return
	}

	ideas, err := h.recommend.Recommend(r.Context(), req.Total)
	if err != nil {
		log.Printf("Product recommendation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Gagal mendapatkan rekomendasi produk.", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"produk": ideas})
}
