package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifin-backend/internal/models"
)

type UserRepo struct {
	pool   *pgxpool.Pool
	events *Publisher
}

func NewUserRepo(pool *pgxpool.Pool, events *Publisher) *UserRepo {
	return &UserRepo{pool: pool, events: events}
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	var progressRaw []byte

	query := `SELECT id, email, nama, jenjang, level, progress, created_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Nama, &user.Jenjang, &user.Level, &progressRaw, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(progressRaw, &user.Progress); err != nil {
		return nil, fmt.Errorf("failed to decode progress for user %s: %w", id, err)
	}
	return user, nil
}

func (r *UserRepo) UpdateName(ctx context.Context, userID uuid.UUID, nama string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET nama = $1 WHERE id = $2", nama, userID)
	if err != nil {
		return err
	}
	r.events.Publish(ctx, "users", "updated", userID)
	return nil
}

func (r *UserRepo) UpdateLevel(ctx context.Context, userID uuid.UUID, level string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET level = $1 WHERE id = $2", level, userID)
	if err != nil {
		return err
	}
	r.events.Publish(ctx, "users", "updated", userID)
	return nil
}

// SaveProgress persists the level and progress map together, since a lesson
// completion can promote the student to the next level in the same write.
func (r *UserRepo) SaveProgress(ctx context.Context, userID uuid.UUID, level string, progress map[string]int) error {
	progressRaw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		"UPDATE users SET level = $1, progress = $2 WHERE id = $3",
		level, progressRaw, userID,
	)
	if err != nil {
		return err
	}
	r.events.Publish(ctx, "users", "updated", userID)
	return nil
}

// ResetProgress puts the student back at the start of the Beginner level.
func (r *UserRepo) ResetProgress(ctx context.Context, userID uuid.UUID) error {
	progress := map[string]int{
		models.LevelBeginner:       0,
		models.LevelSmartSpender:   0,
		models.LevelFutureInvestor: 0,
	}
	return r.SaveProgress(ctx, userID, models.LevelBeginner, progress)
}
