package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

type PgxParentRepository struct {
	BaseRepository
}

// newPgxParentRepository creates a new repository for parent data.
func newPgxParentRepository(pool *pgxpool.Pool) portsrepo.ParentRepositoryFacade {
	return &PgxParentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ParentRepositoryFacade = (*PgxParentRepository)(nil)

const parentColumns = `parent_id, user_id, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanParent(row pgx.Row) (*models.Parent, error) {
	var m models.Parent
	err := row.Scan(
		&m.ParentID, &m.UserID, &m.Balance,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveParent inserts the parent and its user row in one unit of work.
func (r *PgxParentRepository) SaveParent(ctx context.Context, user domain.User, parent domain.Parent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := saveUserInTx(ctx, tx, user); err != nil {
		return err
	}

	m := mapping.ToModelParent(parent)
	query := `
		INSERT INTO parents (` + parentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, query,
		m.ParentID, m.UserID, m.Balance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save parent %s: %w", m.ParentID, err)
	}

	return r.Commit(ctx, tx)
}

// FindParentByID retrieves a specific parent.
func (r *PgxParentRepository) FindParentByID(ctx context.Context, parentID string) (*domain.Parent, error) {
	query := `SELECT ` + parentColumns + ` FROM parents WHERE parent_id = $1;`

	m, err := scanParent(r.Pool.QueryRow(ctx, query, parentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: parent %s", apperrors.ErrNotFound, parentID)
		}
		return nil, fmt.Errorf("failed to find parent %s: %w", parentID, err)
	}

	parent := mapping.ToDomainParent(*m)
	return &parent, nil
}

// FindParentsByStudentID retrieves the parents linked to a student, in
// link order.
func (r *PgxParentRepository) FindParentsByStudentID(ctx context.Context, studentID string) ([]domain.Parent, error) {
	query := `
		SELECT p.parent_id, p.user_id, p.balance, p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM parents p
		JOIN parent_student ps ON ps.parent_id = p.parent_id
		WHERE ps.student_id = $1
		ORDER BY ps.linked_at, p.parent_id;
	`
	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parents for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var parents []domain.Parent
	for rows.Next() {
		m, err := scanParent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parent row: %w", err)
		}
		parents = append(parents, mapping.ToDomainParent(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parent rows: %w", err)
	}

	return parents, nil
}

// FindParentsByIDsForUpdate selects parents and locks their rows for
// update within the transaction. IDs are sorted before locking so
// concurrent settlements acquire locks in a consistent order.
func (r *PgxParentRepository) FindParentsByIDsForUpdate(ctx context.Context, tx pgx.Tx, parentIDs []string) (map[string]domain.Parent, error) {
	ids := make([]string, len(parentIDs))
	copy(ids, parentIDs)
	sort.Strings(ids)

	query := `SELECT ` + parentColumns + ` FROM parents WHERE parent_id = ANY($1) ORDER BY parent_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock parent rows: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Parent, len(ids))
	for rows.Next() {
		m, err := scanParent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked parent row: %w", err)
		}
		locked[m.ParentID] = mapping.ToDomainParent(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locked parent rows: %w", err)
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: parent %s", apperrors.ErrNotFound, id)
		}
	}

	return locked, nil
}

// DebitParentsInTx decreases parent balances within the transaction. The
// WHERE clause re-checks the balance under lock; a debit that would go
// negative matches no row and fails the whole unit of work.
func (r *PgxParentRepository) DebitParentsInTx(ctx context.Context, tx pgx.Tx, debits map[string]decimal.Decimal, actorID string, now time.Time) error {
	query := `
		UPDATE parents
		SET balance = balance - $1, last_updated_at = $2, last_updated_by = $3
		WHERE parent_id = $4 AND balance >= $1;
	`
	for parentID, amount := range debits {
		tag, err := tx.Exec(ctx, query, amount, now, actorID, parentID)
		if err != nil {
			return fmt.Errorf("failed to debit parent %s: %w", parentID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: debit %s exceeds balance of parent %s", apperrors.ErrInsufficientFunds, amount.String(), parentID)
		}
	}
	return nil
}
