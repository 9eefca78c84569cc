package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/syncpay/guardianpay/internal/core/domain"
)

// ProcessPaymentRequest is the validated settlement input: which parent is
// initiating, for which student, and the unadjusted amount.
type ProcessPaymentRequest struct {
	ParentID  string          `json:"parentId" binding:"required"`
	StudentID string          `json:"studentId" binding:"required"`
	Amount    decimal.Decimal `json:"paymentAmount" binding:"gt=0"`
}

// PaymentResponse is the wire form of a settlement record.
type PaymentResponse struct {
	PaymentID      string          `json:"paymentID"`
	ParentID       string          `json:"parentId"`
	StudentID      string          `json:"studentId"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	AdjustedAmount decimal.Decimal `json:"adjustedAmount"`
	DynamicRate    decimal.Decimal `json:"dynamicRate"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AppResponse wraps every payment endpoint reply: a status line plus the
// settlement record involved, when one exists.
type AppResponse struct {
	Status string           `json:"status"`
	Data   *PaymentResponse `json:"data,omitempty"`
}

// ListPaymentsParams holds the pagination inputs for listing settlements.
type ListPaymentsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse is a page of settlement records.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain payment to its wire form.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		ParentID:       p.ParentID,
		StudentID:      p.StudentID,
		OriginalAmount: p.OriginalAmount,
		AdjustedAmount: p.AdjustedAmount,
		DynamicRate:    p.DynamicRate,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of domain payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
