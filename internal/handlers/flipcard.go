package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"lifin-backend/internal/repository"
)

type FlipcardHandler struct {
	flipcardRepo *repository.FlipcardRepo
}

func NewFlipcardHandler(flipcardRepo *repository.FlipcardRepo) *FlipcardHandler {
	return &FlipcardHandler{flipcardRepo: flipcardRepo}
}

func (h *FlipcardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.flipcardRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load flipcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flipcards": cards})
}

// Random serves the daily "Tahukah Kamu?" card.
func (h *FlipcardHandler) Random(w http.ResponseWriter, r *http.Request) {
	card, err := h.flipcardRepo.Random(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No flipcards available", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load flipcard", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}
