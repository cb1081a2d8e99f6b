package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
)

const habitColumns = `
	id, user_id, title, description, frequency,
	progress, completed, streak, last_completed_date,
	deleted, created_at, updated_at`

type habitRepository struct {
	pool *pgxpool.Pool
}

// NewHabitRepository creates a new PostgreSQL habit repository
func NewHabitRepository(pool *pgxpool.Pool) repository.HabitRepository {
	return &habitRepository{pool: pool}
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	habit := &entity.Habit{}
	err := row.Scan(
		&habit.ID, &habit.UserID, &habit.Title, &habit.Description, &habit.Frequency,
		&habit.Progress, &habit.Completed, &habit.Streak, &habit.LastCompletedDate,
		&habit.Deleted, &habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return habit, nil
}

func (r *habitRepository) Create(ctx context.Context, habit *entity.Habit) error {
	query := `
		INSERT INTO habits (
			id, user_id, title, description, frequency,
			progress, completed, streak, last_completed_date,
			deleted, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12
		)
	`

	_, err := r.pool.Exec(ctx, query,
		habit.ID, habit.UserID, habit.Title, habit.Description, habit.Frequency,
		habit.Progress, habit.Completed, habit.Streak, habit.LastCompletedDate,
		habit.Deleted, habit.CreatedAt, habit.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

func (r *habitRepository) GetByID(ctx context.Context, habitID uuid.UUID, includeDeleted bool) (*entity.Habit, error) {
	query := `SELECT` + habitColumns + `
		FROM habits
		WHERE id = $1
	`
	if !includeDeleted {
		query += " AND deleted = FALSE"
	}

	habit, err := scanHabit(r.pool.QueryRow(ctx, query, habitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) GetByIDAndUserID(ctx context.Context, habitID, userID uuid.UUID, includeDeleted bool) (*entity.Habit, error) {
	query := `SELECT` + habitColumns + `
		FROM habits
		WHERE id = $1 AND user_id = $2
	`
	if !includeDeleted {
		query += " AND deleted = FALSE"
	}

	habit, err := scanHabit(r.pool.QueryRow(ctx, query, habitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*entity.Habit, error) {
	query := `SELECT` + habitColumns + `
		FROM habits
		WHERE user_id = $1
	`
	if !includeDeleted {
		query += " AND deleted = FALSE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	var habits []*entity.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) GetByUserIDAndTitle(ctx context.Context, userID uuid.UUID, title string) (*entity.Habit, error) {
	// Includes soft-deleted rows so a recreated habit can restore the old one.
	query := `SELECT` + habitColumns + `
		FROM habits
		WHERE user_id = $1 AND title = $2
	`

	habit, err := scanHabit(r.pool.QueryRow(ctx, query, userID, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get habit by title: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *entity.Habit) error {
	query := `
		UPDATE habits SET
			title = $1,
			description = $2,
			frequency = $3,
			progress = $4,
			completed = $5,
			streak = $6,
			last_completed_date = $7,
			deleted = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := r.pool.Exec(ctx, query,
		habit.Title, habit.Description, habit.Frequency,
		habit.Progress, habit.Completed, habit.Streak, habit.LastCompletedDate,
		habit.Deleted, time.Now().UTC(), habit.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *habitRepository) UpdateProgress(ctx context.Context, habitID uuid.UUID, progress int32) error {
	query := `
		UPDATE habits SET
			progress = $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, progress, time.Now().UTC(), habitID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *habitRepository) SoftDelete(ctx context.Context, habitID uuid.UUID) error {
	query := `
		UPDATE habits SET
			deleted = TRUE,
			updated_at = $1
		WHERE id = $2 AND deleted = FALSE
	`

	result, err := r.pool.Exec(ctx, query, time.Now().UTC(), habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *habitRepository) HardDelete(ctx context.Context, habitID uuid.UUID) error {
	query := `DELETE FROM habits WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, habitID)
	if err != nil {
		return fmt.Errorf("failed to hard delete habit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
