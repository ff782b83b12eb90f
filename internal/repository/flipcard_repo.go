package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lifin-backend/internal/models"
)

type FlipcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlipcardRepo(pool *pgxpool.Pool) *FlipcardRepo {
	return &FlipcardRepo{pool: pool}
}

func (r *FlipcardRepo) List(ctx context.Context) ([]models.Flipcard, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, head, info FROM flipcards")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flipcard
	for rows.Next() {
		var c models.Flipcard
		if err := rows.Scan(&c.ID, &c.Head, &c.Info); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Random returns one card for the dashboard's financial-fact flip card.
func (r *FlipcardRepo) Random(ctx context.Context) (*models.Flipcard, error) {
	card := &models.Flipcard{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, head, info FROM flipcards ORDER BY random() LIMIT 1",
	).Scan(&card.ID, &card.Head, &card.Info)
	if err != nil {
		return nil, err
	}
	return card, nil
}
