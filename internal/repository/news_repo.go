package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifin-backend/internal/models"
)

type NewsRepo struct {
	pool *pgxpool.Pool
}

func NewNewsRepo(pool *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{pool: pool}
}

func (r *NewsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article := &models.Article{}
	query := `SELECT id, judul, penulis, link_foto, konten, published_at
		FROM berita WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID, &article.Judul, &article.Penulis, &article.LinkFoto, &article.Konten, &article.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// List returns all articles newest first; the first one is the featured item.
func (r *NewsRepo) List(ctx context.Context) ([]models.Article, error) {
	query := `SELECT id, judul, penulis, link_foto, konten, published_at
		FROM berita ORDER BY published_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Judul, &a.Penulis, &a.LinkFoto, &a.Konten, &a.PublishedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
