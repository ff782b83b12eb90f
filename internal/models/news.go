package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is one financial-news item shown on the berita page.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Judul       string    `json:"judul"`
	Penulis     string    `json:"penulis"`
	LinkFoto    *string   `json:"link_foto"`
	Konten      string    `json:"konten"`
	PublishedAt time.Time `json:"tanggal"`
}
