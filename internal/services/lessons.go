package services

import (
	"errors"
	"fmt"

	"lifin-backend/internal/assets"
	"lifin-backend/internal/models"
)

const lessonsPerLevel = 10

// levelOrder is the promotion ladder. Lesson numbers are global: 1-10 is
// Beginner, 11-20 Smart Spender, 21-30 Future Investor.
var levelOrder = []string{
	models.LevelBeginner,
	models.LevelSmartSpender,
	models.LevelFutureInvestor,
}

// levelTitles are the display names shown on the materi page.
var levelTitles = map[string]string{
	models.LevelBeginner:       "BEGINNER",
	models.LevelSmartSpender:   "SMART SPENDER",
	models.LevelFutureInvestor: "INVESTOR CILIK",
}

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrLessonLocked = errors.New("lesson is locked")
)

// LessonService decides which lessons a student may open and when they move
// up a level.
type LessonService struct {
	library *assets.Library
}

func NewLessonService(library *assets.Library) *LessonService {
	return &LessonService{library: library}
}

func levelIndex(level string) int {
	for i, l := range levelOrder {
		if l == level {
			return i
		}
	}
	return -1
}

// windowStart is the highest lesson number before the level's window, so a
// fresh level has completed == windowStart.
func windowStart(idx int) int {
	return idx * lessonsPerLevel
}

// completed returns the highest completed lesson number within a level.
// A level the student never entered reports its window start.
func completed(user *models.User, idx int) int {
	level := levelOrder[idx]
	if n, ok := user.Progress[level]; ok && n > windowStart(idx) {
		return n
	}
	return windowStart(idx)
}

// Advance records lesson completion and applies it to the user in place.
// Completing the last lesson of a level promotes to the next level. The
// caller persists the mutated user.
func (s *LessonService) Advance(user *models.User, nomor int) error {
	if nomor < 1 || nomor > len(levelOrder)*lessonsPerLevel {
		return fmt.Errorf("lesson %d does not exist", nomor)
	}

	idx := (nomor - 1) / lessonsPerLevel
	level := levelOrder[idx]

	userIdx := levelIndex(user.Level)
	if userIdx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, user.Level)
	}
	if idx > userIdx {
		return fmt.Errorf("%w: lesson %d belongs to %s", ErrLessonLocked, nomor, level)
	}

	// A lesson opens once every lesson before it is done.
	if nomor > completed(user, idx)+1 {
		return fmt.Errorf("%w: lesson %d", ErrLessonLocked, nomor)
	}

	if user.Progress == nil {
		user.Progress = make(map[string]int)
	}
	if nomor > user.Progress[level] {
		user.Progress[level] = nomor
	}

	// Finishing the tenth lesson of the student's current level moves them up.
	if idx == userIdx && nomor%lessonsPerLevel == 0 && userIdx+1 < len(levelOrder) {
		next := levelOrder[userIdx+1]
		user.Level = next
		if user.Progress[next] < nomor {
			user.Progress[next] = nomor
		}
	}

	return nil
}

// Overview builds the materi page payload for the user's current level.
func (s *LessonService) Overview(user *models.User) (models.LevelOverview, error) {
	idx := levelIndex(user.Level)
	if idx < 0 {
		return models.LevelOverview{}, fmt.Errorf("%w: %q", ErrUnknownLevel, user.Level)
	}

	lessons, err := s.library.Lessons()
	if err != nil {
		return models.LevelOverview{}, fmt.Errorf("loading materi catalog: %w", err)
	}

	start := windowStart(idx)
	done := completed(user, idx)

	overview := models.LevelOverview{
		Level:   user.Level,
		Title:   levelTitles[user.Level],
		Percent: float64(done-start) / lessonsPerLevel * 100,
	}
	if overview.Percent < 0 {
		overview.Percent = 0
	}
	if overview.Percent > 100 {
		overview.Percent = 100
	}

	for _, lesson := range lessons {
		if lesson.Nomor <= start || lesson.Nomor > start+lessonsPerLevel {
			continue
		}
		overview.Lessons = append(overview.Lessons, models.LessonStatus{
			Nomor:  lesson.Nomor,
			Judul:  lesson.Judul,
			Locked: lesson.Nomor > done+1,
		})
	}

	return overview, nil
}
