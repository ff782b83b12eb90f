package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"lifin-backend/internal/middleware"
	"lifin-backend/internal/models"
	"lifin-backend/internal/repository"
	"lifin-backend/internal/services"
)

var validLevels = map[string]bool{
	models.LevelBeginner:       true,
	models.LevelSmartSpender:   true,
	models.LevelFutureInvestor: true,
}

type UserHandler struct {
	userRepo *repository.UserRepo
	lessons  *services.LessonService
}

func NewUserHandler(userRepo *repository.UserRepo, lessons *services.LessonService) *UserHandler {
	return &UserHandler{userRepo: userRepo, lessons: lessons}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load user", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpdateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_BODY", "Invalid request body", r))
		return
	}

	req.Nama = strings.TrimSpace(req.Nama)
	if req.Nama == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"nama": "Nama is required"}, r))
		return
	}

	if err := h.userRepo.UpdateName(r.Context(), userID, req.Nama); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to update name", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"nama": req.Nama})
}

func (h *UserHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpdateLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_BODY", "Invalid request body", r))
		return
	}

	if !validLevels[req.Level] {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"level": "Unknown level"}, r))
		return
	}

	if err := h.userRepo.UpdateLevel(r.Context(), userID, req.Level); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to update level", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"level": req.Level})
}

// CompleteLesson marks a lesson done and persists the resulting level and
// progress in one write.
func (h *UserHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CompleteLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_BODY", "Invalid request body", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load user", r))
		return
	}

	if err := h.lessons.Advance(user, req.Nomor); err != nil {
		switch {
		case errors.Is(err, services.ErrLessonLocked):
			writeJSON(w, http.StatusForbidden, errorResp("LESSON_LOCKED", "Selesaikan materi sebelumnya dulu ya!", r))
		default:
			writeJSON(w, http.StatusBadRequest, errorResp("INVALID_LESSON", "Invalid lesson number", r))
		}
		return
	}

	if err := h.userRepo.SaveProgress(r.Context(), userID, user.Level, user.Progress); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to save progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":    user.Level,
		"progress": user.Progress,
	})
}

func (h *UserHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.userRepo.ResetProgress(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to reset progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"level": models.LevelBeginner})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
