package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/syncpay/guardianpay/internal/core/domain"
	"github.com/syncpay/guardianpay/internal/dto"
)

// PaymentRecorderFacade writes the audit trail of settlement attempts.
type PaymentRecorderFacade interface {
	// RecordAttempt durably commits a FAILED settlement record before any
	// balance is touched. The write is independent of the settlement's own
	// unit of work and survives its abort.
	RecordAttempt(ctx context.Context, parentID, studentID string, originalAmount, adjustedAmount, dynamicRate decimal.Decimal, actorID string) (*domain.Payment, error)
}

// PaymentSvcFacade is the settlement engine surface consumed by handlers.
type PaymentSvcFacade interface {
	// ProcessPayment executes one settlement attempt end-to-end and returns
	// the resulting settlement record. The record exists, with status
	// FAILED, even when an error is returned after the attempt was
	// durably recorded.
	ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*domain.Payment, error)

	// GetPaymentByID retrieves a single settlement record.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a page of settlement records, newest first.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
}
