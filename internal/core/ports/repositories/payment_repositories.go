package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/syncpay/guardianpay/internal/core/domain"
)

// PaymentReader defines read operations for settlement records.
type PaymentReader interface {
	// FindPaymentByID retrieves a specific settlement record.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of settlement records, newest
	// first, using token-based pagination.
	ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentWriter defines write operations for settlement records.
type PaymentWriter interface {
	// SavePaymentAttempt durably commits a FAILED settlement record in its
	// own scope, independent of any surrounding unit of work. The write
	// survives a later abort of the settlement itself.
	SavePaymentAttempt(ctx context.Context, payment domain.Payment) error
}

// SettlementExecutor applies the balance transfer of one settlement as a
// single all-or-nothing unit: parent rows are locked and debited, the
// student is credited, and the settlement record is promoted to SUCCESS.
// On any failure nothing is observable and the record stays FAILED.
type SettlementExecutor interface {
	ExecuteSettlement(ctx context.Context, payment domain.Payment, debits map[string]decimal.Decimal, credit decimal.Decimal) (*domain.Payment, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
	SettlementExecutor
}
