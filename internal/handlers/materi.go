package handlers

import (
	"net/http"

	"lifin-backend/internal/middleware"
	"lifin-backend/internal/repository"
	"lifin-backend/internal/services"
)

type MateriHandler struct {
	userRepo *repository.UserRepo
	lessons  *services.LessonService
}

func NewMateriHandler(userRepo *repository.UserRepo, lessons *services.LessonService) *MateriHandler {
	return &MateriHandler{userRepo: userRepo, lessons: lessons}
}

// Overview returns the caller's current level with its ten lessons and
// unlock states.
func (h *MateriHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load user", r))
		return
	}

	overview, err := h.lessons.Overview(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to build materi overview", r))
		return
	}

	writeJSON(w, http.StatusOK, overview)
}
