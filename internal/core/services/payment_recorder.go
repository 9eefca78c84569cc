package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syncpay/guardianpay/internal/core/domain"
	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
	portssvc "github.com/syncpay/guardianpay/internal/core/ports/services"
	"github.com/syncpay/guardianpay/internal/middleware"
)

// paymentRecorder writes the audit trail of settlement attempts.
type paymentRecorder struct {
	paymentRepo portsrepo.PaymentWriter
}

// NewPaymentRecorder creates a new recorder backed by the payment store.
func NewPaymentRecorder(paymentRepo portsrepo.PaymentWriter) portssvc.PaymentRecorderFacade {
	return &paymentRecorder{paymentRepo: paymentRepo}
}

var _ portssvc.PaymentRecorderFacade = (*paymentRecorder)(nil)

// RecordAttempt creates the settlement record with status FAILED and
// commits it immediately, outside the settlement's unit of work. A later
// abort of the settlement leaves this record in place as the durable trail
// of the attempt.
func (r *paymentRecorder) RecordAttempt(ctx context.Context, parentID, studentID string, originalAmount, adjustedAmount, dynamicRate decimal.Decimal, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:      uuid.NewString(),
		ParentID:       parentID,
		StudentID:      studentID,
		OriginalAmount: originalAmount,
		AdjustedAmount: adjustedAmount,
		DynamicRate:    dynamicRate,
		Status:         domain.PaymentFailed,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}

	if err := r.paymentRepo.SavePaymentAttempt(ctx, payment); err != nil {
		logger.Error("Failed to record settlement attempt", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to record settlement attempt: %w", err)
	}

	logger.Debug("Settlement attempt recorded", slog.String("payment_id", payment.PaymentID))
	return &payment, nil
}
