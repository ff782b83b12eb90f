package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson levels, ten lessons each. Completing the last lesson of a level
// promotes the student to the next one.
const (
	LevelBeginner       = "Beginner"
	LevelSmartSpender   = "Smart Spender"
	LevelFutureInvestor = "Future Investor"
)

type User struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Nama      string         `json:"nama"`
	Jenjang   string         `json:"jenjang"` // SD | SMP | SMA | UMUM
	Level     string         `json:"level"`
	Progress  map[string]int `json:"progress"` // level -> highest completed lesson number
	CreatedAt time.Time      `json:"created_at"`
}

type UpdateNameRequest struct {
	Nama string `json:"nama"`
}

type UpdateLevelRequest struct {
	Level string `json:"level"`
}

type CompleteLessonRequest struct {
	Nomor int `json:"nomor"`
}
