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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionRepository реализация реестра подписок через PostgreSQL
type PostgresSubscriptionRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresSubscriptionRepository создает новый реестр подписок через PostgreSQL
func NewPostgresSubscriptionRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db, log: log}
}

// GetByUserAndCourse возвращает подписку пользователя на курс
func (r *PostgresSubscriptionRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (domain.Subscription, error) {
	query := `
		SELECT id, user_id, course_id, created_at
		FROM subscriptions
		WHERE user_id = $1 AND course_id = $2
	`

	var sub domain.Subscription
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.CourseID,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, repository.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

// GetByCourse возвращает все подписки на курс
func (r *PostgresSubscriptionRepository) GetByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Subscription, error) {
	query := `
		SELECT id, user_id, course_id, created_at
		FROM subscriptions
		WHERE course_id = $1
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		err := rows.Scan(&sub.ID, &sub.UserID, &sub.CourseID, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}

// Create создает подписку; уникальность (user, course) обеспечивает
// ограничение базы
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	query := `
		INSERT INTO subscriptions (id, user_id, course_id, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, sub.ID, sub.UserID, sub.CourseID).Scan(&sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.Subscription{}, repository.ErrDuplicate
		}
		return domain.Subscription{}, fmt.Errorf("failed to create subscription: %w", err)
	}

	return sub, nil
}

// Delete удаляет подписку
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByCourse удаляет все подписки на курс
func (r *PostgresSubscriptionRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE course_id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete subscriptions by course: %w", err)
	}
	return nil
}

// DeleteByUser удаляет все подписки пользователя
func (r *PostgresSubscriptionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete subscriptions by user: %w", err)
	}
	return nil
}
