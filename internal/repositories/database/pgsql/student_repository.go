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
)

type PgxStudentRepository struct {
	BaseRepository
}

// newPgxStudentRepository creates a new repository for student data.
func newPgxStudentRepository(pool *pgxpool.Pool) portsrepo.StudentRepositoryFacade {
	return &PgxStudentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StudentRepositoryFacade = (*PgxStudentRepository)(nil)

const studentColumns = `student_id, user_id, balance, created_at, created_by, last_updated_at, last_updated_by`

// SaveStudent inserts the student, its user row, and its parent links in
// one unit of work.
func (r *PgxStudentRepository) SaveStudent(ctx context.Context, user domain.User, student domain.Student) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := saveUserInTx(ctx, tx, user); err != nil {
		return err
	}

	m := mapping.ToModelStudent(student)
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, query,
		m.StudentID, m.UserID, m.Balance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save student %s: %w", m.StudentID, err)
	}

	linkQuery := `INSERT INTO parent_student (student_id, parent_id, linked_at) VALUES ($1, $2, $3);`
	for i, parentID := range student.ParentIDs {
		// Offset keeps link order stable even within one timestamp tick.
		linkedAt := student.CreatedAt.Add(time.Duration(i) * time.Microsecond)
		if _, err := tx.Exec(ctx, linkQuery, m.StudentID, parentID, linkedAt); err != nil {
			return fmt.Errorf("failed to link parent %s to student %s: %w", parentID, m.StudentID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindStudentByID retrieves a student with its linked parent IDs in link
// order.
func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1;`

	var m models.Student
	err := r.Pool.QueryRow(ctx, query, studentID).Scan(
		&m.StudentID, &m.UserID, &m.Balance,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: student %s", apperrors.ErrNotFound, studentID)
		}
		return nil, fmt.Errorf("failed to find student %s: %w", studentID, err)
	}

	linkQuery := `SELECT parent_id FROM parent_student WHERE student_id = $1 ORDER BY linked_at, parent_id;`
	rows, err := r.Pool.Query(ctx, linkQuery, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parent links for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var parentIDs []string
	for rows.Next() {
		var parentID string
		if err := rows.Scan(&parentID); err != nil {
			return nil, fmt.Errorf("failed to scan parent link: %w", err)
		}
		parentIDs = append(parentIDs, parentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parent links: %w", err)
	}

	student := mapping.ToDomainStudent(m, parentIDs)
	return &student, nil
}

// CreditStudentInTx locks the student row and increases its balance within
// the transaction.
func (r *PgxStudentRepository) CreditStudentInTx(ctx context.Context, tx pgx.Tx, studentID string, amount decimal.Decimal, actorID string, now time.Time) error {
	// Lock first so concurrent settlements serialize on the student row.
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM students WHERE student_id = $1 FOR UPDATE;`, studentID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: student %s", apperrors.ErrNotFound, studentID)
		}
		return fmt.Errorf("failed to lock student %s: %w", studentID, err)
	}

	query := `
		UPDATE students
		SET balance = balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE student_id = $4;
	`
	if _, err := tx.Exec(ctx, query, amount, now, actorID, studentID); err != nil {
		return fmt.Errorf("failed to credit student %s: %w", studentID, err)
	}
	return nil
}
