package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
	"github.com/syncpay/guardianpay/internal/models"
	"github.com/syncpay/guardianpay/internal/utils/mapping"
	"github.com/syncpay/guardianpay/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
	parentRepo  portsrepo.ParentTransactionSupport
	studentRepo portsrepo.StudentTransactionSupport
}

// newPgxPaymentRepository creates a repository for settlement records. The
// parent and student repositories are injected so a settlement can compose
// their transactional operations into one unit of work.
func newPgxPaymentRepository(pool *pgxpool.Pool, parentRepo portsrepo.ParentTransactionSupport, studentRepo portsrepo.StudentTransactionSupport) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		parentRepo:     parentRepo,
		studentRepo:    studentRepo,
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, parent_id, student_id, original_amount, adjusted_amount, dynamic_rate, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.ParentID, &m.StudentID,
		&m.OriginalAmount, &m.AdjustedAmount, &m.DynamicRate, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePaymentAttempt writes the settlement record directly on the pool so
// the row is committed regardless of what happens to the settlement that
// follows it.
func (r *PgxPaymentRepository) SavePaymentAttempt(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID, m.ParentID, m.StudentID,
		m.OriginalAmount, m.AdjustedAmount, m.DynamicRate, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment attempt %s: %w", m.PaymentID, err)
	}
	return nil
}

// ExecuteSettlement moves the money for one settlement inside a single
// transaction. Parent rows are locked in deterministic order, each debit is
// guarded against driving a balance negative, the student is credited, and
// the record flips to SUCCESS. Any failure rolls the whole transfer back
// and the record stays FAILED.
func (r *PgxPaymentRepository) ExecuteSettlement(ctx context.Context, payment domain.Payment, debits map[string]decimal.Decimal, credit decimal.Decimal) (*domain.Payment, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	parentIDs := make([]string, 0, len(debits))
	for parentID := range debits {
		parentIDs = append(parentIDs, parentID)
	}

	if _, err := r.parentRepo.FindParentsByIDsForUpdate(ctx, tx, parentIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actorID := payment.LastUpdatedBy

	if err := r.parentRepo.DebitParentsInTx(ctx, tx, debits, actorID, now); err != nil {
		return nil, err
	}

	if err := r.studentRepo.CreditStudentInTx(ctx, tx, payment.StudentID, credit, actorID, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE payments
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $4;
	`
	tag, err := tx.Exec(ctx, query, models.PaymentSuccess, now, actorID, payment.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to promote payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, payment.PaymentID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	promoted := payment
	promoted.Status = domain.PaymentSuccess
	promoted.LastUpdatedAt = now
	promoted.LastUpdatedBy = actorID
	return &promoted, nil
}

// FindPaymentByID retrieves a specific settlement record.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}

	payment := mapping.ToDomainPayment(*m)
	return &payment, nil
}

// ListPayments retrieves settlement records newest first with token-based
// pagination.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, payment_id) < ($1, $2)`
		args = append(args, createdAt, lastID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, payment_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0, limit)
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read payments: %w", err)
	}

	var newNextToken *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.PaymentID)
		newNextToken = &token
	}

	return payments, newNextToken, nil
}
