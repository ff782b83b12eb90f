package models

// Lesson is one entry of the materi catalog.
type Lesson struct {
	Nomor int    `json:"nomor"`
	Judul string `json:"judul"`
}

// LessonStatus is a catalog entry annotated with the caller's unlock state.
type LessonStatus struct {
	Nomor  int    `json:"nomor"`
	Judul  string `json:"judul"`
	Locked bool   `json:"locked"`
}

// LevelOverview is the materi page payload for one student: the ten lessons
// of their current level plus the completion percentage within it.
type LevelOverview struct {
	Level   string         `json:"level"`
	Title   string         `json:"title"`
	Percent float64        `json:"percent"`
	Lessons []LessonStatus `json:"lessons"`
}
