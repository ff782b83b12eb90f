package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lifin-backend/internal/repository"
)

type NewsHandler struct {
	newsRepo *repository.NewsRepo
}

func NewNewsHandler(newsRepo *repository.NewsRepo) *NewsHandler {
	return &NewsHandler{newsRepo: newsRepo}
}

// List returns all articles newest first. The frontend renders the first
// one as the featured card.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.newsRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load articles", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"berita": articles})
}

func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_ID", "Invalid article ID", r))
		return
	}

	article, err := h.newsRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Article not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load article", r))
		return
	}

	writeJSON(w, http.StatusOK, article)
}
