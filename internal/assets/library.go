package assets

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lifin-backend/internal/models"
)

const defaultSystemPrompt = "You are a helpful assistant."

// Library loads the chat and lesson assets from the data directory. Each
// asset is read at most once per process and cached; subsequent calls are
// pure lookups, so concurrent readers never contend after first population.
type Library struct {
	dir string

	promptOnce sync.Once
	prompt     string

	bankOnce sync.Once
	bank     map[string][]string
	bankErr  error

	lessonsOnce sync.Once
	lessons     []models.Lesson
	lessonsErr  error
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// SystemPrompt returns the Finny persona prompt. A missing or unreadable
// prompt file falls back to a neutral default so chat stays functional.
func (l *Library) SystemPrompt() string {
	l.promptOnce.Do(func() {
		data, err := os.ReadFile(filepath.Join(l.dir, "finny-system-prompt.txt"))
		if err != nil {
			log.Printf("assets: failed to load system prompt: %v", err)
			l.prompt = defaultSystemPrompt
			return
		}
		l.prompt = strings.TrimSpace(string(data))
		if l.prompt == "" {
			l.prompt = defaultSystemPrompt
		}
	})
	return l.prompt
}

// QuickQuestions returns the question bank keyed by lesson title.
func (l *Library) QuickQuestions() (map[string][]string, error) {
	l.bankOnce.Do(func() {
		data, err := os.ReadFile(filepath.Join(l.dir, "pertanyaan-kilat.json"))
		if err != nil {
			l.bankErr = fmt.Errorf("read quick questions: %w", err)
			return
		}
		if err := json.Unmarshal(data, &l.bank); err != nil {
			l.bankErr = fmt.Errorf("parse quick questions: %w", err)
		}
	})
	return l.bank, l.bankErr
}

// Lessons returns the materi catalog in lesson-number order.
func (l *Library) Lessons() ([]models.Lesson, error) {
	l.lessonsOnce.Do(func() {
		data, err := os.ReadFile(filepath.Join(l.dir, "materi.json"))
		if err != nil {
			l.lessonsErr = fmt.Errorf("read materi catalog: %w", err)
			return
		}
		if err := json.Unmarshal(data, &l.lessons); err != nil {
			l.lessonsErr = fmt.Errorf("parse materi catalog: %w", err)
		}
	})
	return l.lessons, l.lessonsErr
}
