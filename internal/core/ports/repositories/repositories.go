package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes transaction control to repositories that
// compose multi-row writes into a single all-or-nothing unit of work.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// RepositoryProvider bundles all repository facades for injection into the
// service container.
type RepositoryProvider struct {
	UserRepo    UserRepositoryFacade
	StudentRepo StudentRepositoryFacade
	ParentRepo  ParentRepositoryFacade
	PaymentRepo PaymentRepositoryFacade
}
