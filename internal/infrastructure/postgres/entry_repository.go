package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
)

type habitEntryRepository struct {
	pool *pgxpool.Pool
}

// NewHabitEntryRepository creates a new PostgreSQL habit entry repository
func NewHabitEntryRepository(pool *pgxpool.Pool) repository.HabitEntryRepository {
	return &habitEntryRepository{pool: pool}
}

func (r *habitEntryRepository) Create(ctx context.Context, entry *entity.HabitEntry) error {
	query := `
		INSERT INTO habit_entries (
			id, habit_id, date, progress, completed
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.HabitID, entry.Date, entry.Progress, entry.Completed,
	)

	if err != nil {
		return fmt.Errorf("failed to create habit entry: %w", err)
	}

	return nil
}

func (r *habitEntryRepository) GetByHabitIDInRange(ctx context.Context, habitID uuid.UUID, start, end time.Time) ([]*entity.HabitEntry, error) {
	query := `
		SELECT id, habit_id, date, progress, completed
		FROM habit_entries
		WHERE habit_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.HabitEntry
	for rows.Next() {
		entry := &entity.HabitEntry{}
		err := rows.Scan(&entry.ID, &entry.HabitID, &entry.Date, &entry.Progress, &entry.Completed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit entries: %w", err)
	}

	return entries, nil
}

func (r *habitEntryRepository) DeleteByHabitID(ctx context.Context, habitID uuid.UUID) error {
	query := `DELETE FROM habit_entries WHERE habit_id = $1`

	_, err := r.pool.Exec(ctx, query, habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit entries: %w", err)
	}

	return nil
}
