package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dhoini/course-platform/internal/domain"
	"github.com/Dhoini/course-platform/internal/repository"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPaymentRepository реализация реестра платежей через PostgreSQL
type PostgresPaymentRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresPaymentRepository создает новый реестр платежей через PostgreSQL
func NewPostgresPaymentRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db, log: log}
}

const paymentColumns = `id, user_id, course_id, lesson_id, amount, method, status,
	stripe_product_id, stripe_price_id, stripe_session_id, created_at`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.CourseID,
		&p.LessonID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.StripeProductID,
		&p.StripePriceID,
		&p.StripeSessionID,
		&p.CreatedAt,
	)
	return p, err
}

// GetByID возвращает платеж по ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, repository.ErrNotFound
		}
		return domain.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

// GetByUser возвращает платежи пользователя с фильтрацией и сортировкой
func (r *PostgresPaymentRepository) GetByUser(ctx context.Context, userID uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		query += ` AND course_id = $` + strconv.Itoa(len(args))
	}
	if filter.LessonID != nil {
		args = append(args, *filter.LessonID)
		query += ` AND lesson_id = $` + strconv.Itoa(len(args))
	}
	if filter.Method != "" {
		args = append(args, filter.Method)
		query += ` AND method = $` + strconv.Itoa(len(args))
	}

	if filter.OrderByDesc {
		query += ` ORDER BY created_at DESC`
	} else {
		query += ` ORDER BY created_at`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// GetBySession возвращает платеж по ID сессии Stripe и пользователю
func (r *PostgresPaymentRepository) GetBySession(ctx context.Context, sessionID string, userID uuid.UUID) (domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE stripe_session_id = $1 AND ($2::uuid = '00000000-0000-0000-0000-000000000000' OR user_id = $2)`

	p, err := scanPayment(r.db.QueryRow(ctx, query, sessionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, repository.ErrNotFound
		}
		return domain.Payment{}, fmt.Errorf("failed to get payment by session: %w", err)
	}

	return p, nil
}

// Create создает новый платеж
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	query := `
		INSERT INTO payments (id, user_id, course_id, lesson_id, amount, method, status,
			stripe_product_id, stripe_price_id, stripe_session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		payment.ID,
		payment.UserID,
		payment.CourseID,
		payment.LessonID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.StripeProductID,
		payment.StripePriceID,
		payment.StripeSessionID,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// Update обновляет существующий платеж
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, stripe_product_id = $3, stripe_price_id = $4, stripe_session_id = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Status,
		payment.StripeProductID,
		payment.StripePriceID,
		payment.StripeSessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatusIfPending переводит платеж в конечный статус условным
// обновлением: конкурирующие пути сверки не затирают уже установленный
// конечный статус. Возвращает true, если переход состоялся.
func (r *PostgresPaymentRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Либо платеж не найден, либо уже в конечном статусе
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check payment existence: %w", err)
		}
		if !exists {
			return false, repository.ErrNotFound
		}
		return false, nil
	}

	return true, nil
}

// DeleteByUser удаляет все платежи пользователя
func (r *PostgresPaymentRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete payments by user: %w", err)
	}
	return nil
}

// DetachCourse обнуляет ссылку на удаленный курс
func (r *PostgresPaymentRepository) DetachCourse(ctx context.Context, courseID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE payments SET course_id = NULL WHERE course_id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("failed to detach course from payments: %w", err)
	}
	return nil
}

// DetachLesson обнуляет ссылку на удаленный урок
func (r *PostgresPaymentRepository) DetachLesson(ctx context.Context, lessonID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE payments SET lesson_id = NULL WHERE lesson_id = $1`, lessonID)
	if err != nil {
		return fmt.Errorf("failed to detach lesson from payments: %w", err)
	}
	return nil
}
