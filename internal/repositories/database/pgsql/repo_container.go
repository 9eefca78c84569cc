package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all pgsql-backed repositories. The payment
// repository receives the parent and student repositories so a settlement
// can compose their transactional operations.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	parentRepo := newPgxParentRepository(pool)
	studentRepo := newPgxStudentRepository(pool)

	return &portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(pool),
		StudentRepo: studentRepo,
		ParentRepo:  parentRepo,
		PaymentRepo: newPgxPaymentRepository(pool, parentRepo, studentRepo),
	}
}
