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

// PostgresLessonRepository реализация репозитория уроков через PostgreSQL
type PostgresLessonRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresLessonRepository создает новый репозиторий уроков через PostgreSQL
func NewPostgresLessonRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresLessonRepository {
	return &PostgresLessonRepository{db: db, log: log}
}

// GetByID возвращает урок по ID
func (r *PostgresLessonRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lesson, error) {
	query := `
		SELECT id, name, description, preview_url, video_url, course_id, owner_id
		FROM lessons
		WHERE id = $1
	`

	var lesson domain.Lesson
	err := r.db.QueryRow(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.Name,
		&lesson.Description,
		&lesson.PreviewURL,
		&lesson.VideoURL,
		&lesson.CourseID,
		&lesson.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lesson{}, repository.ErrNotFound
		}
		return domain.Lesson{}, fmt.Errorf("failed to get lesson: %w", err)
	}

	return lesson, nil
}

// GetByOwner возвращает уроки владельца, отсортированные по названию
func (r *PostgresLessonRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Lesson, error) {
	query := `
		SELECT id, name, description, preview_url, video_url, course_id, owner_id
		FROM lessons
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.Name,
			&lesson.Description,
			&lesson.PreviewURL,
			&lesson.VideoURL,
			&lesson.CourseID,
			&lesson.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}

	return lessons, nil
}

// GetByCourse возвращает уроки курса, отсортированные по названию
func (r *PostgresLessonRepository) GetByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	query := `
		SELECT id, name, description, preview_url, video_url, course_id, owner_id
		FROM lessons
		WHERE course_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.Name,
			&lesson.Description,
			&lesson.PreviewURL,
			&lesson.VideoURL,
			&lesson.CourseID,
			&lesson.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}

	return lessons, nil
}

// Create создает новый урок
func (r *PostgresLessonRepository) Create(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error) {
	query := `
		INSERT INTO lessons (id, name, description, preview_url, video_url, course_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		lesson.ID,
		lesson.Name,
		lesson.Description,
		lesson.PreviewURL,
		lesson.VideoURL,
		lesson.CourseID,
		lesson.OwnerID,
	)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson, nil
}

// Update обновляет существующий урок
func (r *PostgresLessonRepository) Update(ctx context.Context, lesson domain.Lesson) (domain.Lesson, error) {
	query := `
		UPDATE lessons
		SET name = $2, description = $3, preview_url = $4, video_url = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		lesson.ID,
		lesson.Name,
		lesson.Description,
		lesson.PreviewURL,
		lesson.VideoURL,
	)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Lesson{}, repository.ErrNotFound
	}

	return lesson, nil
}

// Delete удаляет урок
func (r *PostgresLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByCourse удаляет все уроки курса
func (r *PostgresLessonRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE course_id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete lessons by course: %w", err)
	}
	return nil
}

// DeleteByOwner удаляет все уроки владельца
func (r *PostgresLessonRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete lessons by owner: %w", err)
	}
	return nil
}
