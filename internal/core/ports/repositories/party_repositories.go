package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/syncpay/guardianpay/internal/core/domain"
)

// StudentReader defines read operations for student data.
type StudentReader interface {
	// FindStudentByID retrieves a student, including its linked parent IDs
	// in link order.
	FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error)
}

// StudentWriter defines write operations for student data.
type StudentWriter interface {
	// SaveStudent persists a new student together with its user row and
	// parent links in a single unit of work.
	SaveStudent(ctx context.Context, user domain.User, student domain.Student) error
}

// StudentTransactionSupport defines student operations that participate in
// a caller-owned database transaction.
type StudentTransactionSupport interface {
	// CreditStudentInTx locks the student row and increases its balance
	// within the given transaction.
	CreditStudentInTx(ctx context.Context, tx pgx.Tx, studentID string, amount decimal.Decimal, actorID string, now time.Time) error
}

// StudentRepositoryFacade combines all student-related repository interfaces.
type StudentRepositoryFacade interface {
	StudentReader
	StudentWriter
	StudentTransactionSupport
}

// ParentReader defines read operations for parent data.
type ParentReader interface {
	// FindParentByID retrieves a specific parent.
	FindParentByID(ctx context.Context, parentID string) (*domain.Parent, error)

	// FindParentsByStudentID retrieves the parents linked to a student, in
	// link order.
	FindParentsByStudentID(ctx context.Context, studentID string) ([]domain.Parent, error)
}

// ParentWriter defines write operations for parent data.
type ParentWriter interface {
	// SaveParent persists a new parent together with its user row.
	SaveParent(ctx context.Context, user domain.User, parent domain.Parent) error
}

// ParentTransactionSupport defines parent operations that participate in a
// caller-owned database transaction.
type ParentTransactionSupport interface {
	// FindParentsByIDsForUpdate selects parents and locks their rows for
	// update within the transaction. Every requested ID must resolve.
	FindParentsByIDsForUpdate(ctx context.Context, tx pgx.Tx, parentIDs []string) (map[string]domain.Parent, error)

	// DebitParentsInTx decreases parent balances within the transaction.
	// A debit that would take a balance below zero fails the whole unit.
	DebitParentsInTx(ctx context.Context, tx pgx.Tx, debits map[string]decimal.Decimal, actorID string, now time.Time) error
}

// ParentRepositoryFacade combines all parent-related repository interfaces.
type ParentRepositoryFacade interface {
	ParentReader
	ParentWriter
	ParentTransactionSupport
}
