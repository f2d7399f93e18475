package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/repository"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCourseRepository реализация репозитория курсов через PostgreSQL
type PostgresCourseRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCourseRepository создает новый репозиторий курсов через PostgreSQL
func NewPostgresCourseRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db, log: log}
}

// GetByID возвращает курс по ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Course, error) {
	query := `
		SELECT id, name, description, preview_url, owner_id, updated_at
		FROM courses
		WHERE id = $1
	`

	var course domain.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.PreviewURL,
		&course.OwnerID,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Course{}, repository.ErrNotFound
		}
		return domain.Course{}, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

// GetByOwner возвращает курсы владельца, отсортированные по названию
func (r *PostgresCourseRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Course, error) {
	query := `
		SELECT id, name, description, preview_url, owner_id, updated_at
		FROM courses
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var course domain.Course
		err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Description,
			&course.PreviewURL,
			&course.OwnerID,
			&course.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// Create создает новый курс
func (r *PostgresCourseRepository) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	query := `
		INSERT INTO courses (id, name, description, preview_url, owner_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		course.ID,
		course.Name,
		course.Description,
		course.PreviewURL,
		course.OwnerID,
	).Scan(&course.UpdatedAt)
	if err != nil {
		return domain.Course{}, fmt.Errorf("failed to create course: %w", err)
	}

	return course, nil
}

// Update обновляет курс. updated_at выставляется базой и возвращается
// в той же команде: атомарное обновление с перечитыванием для проверки
// кулдауна уведомлений.
func (r *PostgresCourseRepository) Update(ctx context.Context, course domain.Course) (domain.Course, error) {
	query := `
		UPDATE courses
		SET name = $2, description = $3, preview_url = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		course.ID,
		course.Name,
		course.Description,
		course.PreviewURL,
	).Scan(&course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Course{}, repository.ErrNotFound
		}
		return domain.Course{}, fmt.Errorf("failed to update course: %w", err)
	}

	return course, nil
}

// Delete удаляет курс
func (r *PostgresCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByOwner удаляет все курсы владельца
func (r *PostgresCourseRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM courses WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete courses by owner: %w", err)
	}
	return nil
}
