package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
	portssvc "github.com/syncpay/guardianpay/internal/core/ports/services"
	"github.com/syncpay/guardianpay/internal/dto"
	"github.com/syncpay/guardianpay/internal/middleware"
)

const defaultPaymentPageSize = 20

// paymentService orchestrates one settlement attempt end-to-end: rate
// calculation, the durable FAILED record, the parent-count branch, and the
// all-or-nothing balance transfer.
type paymentService struct {
	studentRepo portsrepo.StudentReader
	parentRepo  portsrepo.ParentReader
	paymentRepo portsrepo.PaymentRepositoryFacade
	recorder    portssvc.PaymentRecorderFacade
}

// NewPaymentService creates a new settlement engine.
func NewPaymentService(studentRepo portsrepo.StudentReader, parentRepo portsrepo.ParentReader, paymentRepo portsrepo.PaymentRepositoryFacade, recorder portssvc.PaymentRecorderFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		studentRepo: studentRepo,
		parentRepo:  parentRepo,
		paymentRepo: paymentRepo,
		recorder:    recorder,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// ProcessPayment executes a settlement request. Each call is one linear
// attempt with no retries and no deduplication: invoking it twice with the
// same input produces two settlement records and two deductions.
func (s *paymentService) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	student, err := s.studentRepo.FindStudentByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %s", apperrors.ErrNotFound, req.StudentID)
		}
		logger.Error("Failed to load student for settlement", slog.String("error", err.Error()), slog.String("student_id", req.StudentID))
		return nil, fmt.Errorf("failed to load student %s: %w", req.StudentID, err)
	}

	parents, err := s.parentRepo.FindParentsByStudentID(ctx, student.StudentID)
	if err != nil {
		logger.Error("Failed to load linked parents", slog.String("error", err.Error()), slog.String("student_id", student.StudentID))
		return nil, fmt.Errorf("failed to load parents for student %s: %w", student.StudentID, err)
	}

	dynamicRate := CalculateDynamicRate(req.Amount, len(parents))
	adjustedAmount := ApplyDynamicRate(req.Amount, dynamicRate)

	// HTTP callers always carry an identity in ctx; the fallback covers
	// direct service callers without AuthMiddleware in front of them.
	actorID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		actorID = req.ParentID
	}

	// The attempt is committed FAILED before any balance is touched. It
	// stays behind as the audit trail whatever happens next.
	payment, err := s.recorder.RecordAttempt(ctx, req.ParentID, req.StudentID, req.Amount, adjustedAmount, dynamicRate, actorID)
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("payment_id", payment.PaymentID))

	switch len(parents) {
	case 1:
		return s.settleSingleParent(ctx, logger, parents[0], *payment, req.Amount)
	case 2:
		return s.settleSharedStudent(ctx, logger, parents, *payment, req.Amount)
	default:
		logger.Warn("Settlement rejected: unsupported parent count", slog.Int("parent_count", len(parents)))
		return payment, fmt.Errorf("%w: student %s has %d linked parents", apperrors.ErrInvalidParentCount, student.StudentID, len(parents))
	}
}

// settleSingleParent debits the sole parent by the adjusted amount and
// credits the student by the unadjusted amount; the surcharge is retained,
// not credited forward.
func (s *paymentService) settleSingleParent(ctx context.Context, logger *slog.Logger, parent domain.Parent, payment domain.Payment, realAmount decimal.Decimal) (*domain.Payment, error) {
	if parent.ParentID != payment.ParentID {
		return &payment, fmt.Errorf("%w: parent %s is not linked to student %s", apperrors.ErrInvalidRelationship, payment.ParentID, payment.StudentID)
	}

	if payment.AdjustedAmount.GreaterThan(parent.Balance) {
		return &payment, fmt.Errorf("%w: adjusted amount %s exceeds parent balance %s", apperrors.ErrInsufficientFunds, payment.AdjustedAmount.String(), parent.Balance.String())
	}

	debits := map[string]decimal.Decimal{parent.ParentID: payment.AdjustedAmount}
	settled, err := s.paymentRepo.ExecuteSettlement(ctx, payment, debits, realAmount)
	if err != nil {
		logger.Error("Single-parent settlement aborted", slog.String("error", err.Error()))
		return &payment, err
	}

	logger.Info("Settlement completed", slog.String("parent_id", parent.ParentID), slog.String("adjusted_amount", payment.AdjustedAmount.String()))
	return settled, nil
}

// settleSharedStudent splits the adjusted amount across both parents per
// the contribution policy, then applies the transfer.
func (s *paymentService) settleSharedStudent(ctx context.Context, logger *slog.Logger, parents []domain.Parent, payment domain.Payment, realAmount decimal.Decimal) (*domain.Payment, error) {
	var initiating, second *domain.Parent
	for i := range parents {
		if parents[i].ParentID == payment.ParentID {
			initiating = &parents[i]
		} else {
			second = &parents[i]
		}
	}

	if initiating == nil || second == nil {
		return &payment, fmt.Errorf("%w: parent %s is not linked to student %s", apperrors.ErrInvalidRelationship, payment.ParentID, payment.StudentID)
	}

	combined := initiating.Balance.Add(second.Balance)
	if payment.AdjustedAmount.GreaterThan(combined) {
		return &payment, fmt.Errorf("%w: adjusted amount %s exceeds combined balance %s", apperrors.ErrInsufficientFunds, payment.AdjustedAmount.String(), combined.String())
	}

	breakdown, err := CalculateContribution(initiating.Balance, second.Balance, payment.AdjustedAmount)
	if err != nil {
		// Policy failures propagate unchanged; the FAILED record remains.
		return &payment, err
	}

	debits := map[string]decimal.Decimal{
		initiating.ParentID: breakdown.InitiatingShare,
		second.ParentID:     breakdown.SecondShare,
	}
	settled, err := s.paymentRepo.ExecuteSettlement(ctx, payment, debits, realAmount)
	if err != nil {
		logger.Error("Shared-student settlement aborted", slog.String("error", err.Error()))
		return &payment, err
	}

	logger.Info("Settlement completed",
		slog.String("initiating_share", breakdown.InitiatingShare.String()),
		slog.String("second_share", breakdown.SecondShare.String()),
	)
	return settled, nil
}

// GetPaymentByID retrieves a single settlement record.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a page of settlement records, newest first.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPaymentPageSize
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}

	return &dto.ListPaymentsResponse{
		Payments:  dto.ToPaymentResponses(payments),
		NextToken: nextToken,
	}, nil
}
