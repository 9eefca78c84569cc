package domain

import "github.com/shopspring/decimal"

// PaymentStatus indicates the outcome recorded for a settlement attempt.
type PaymentStatus string

const (
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentSuccess PaymentStatus = "SUCCESS"
)

// Payment is the durable audit record of one settlement attempt. It is
// created with status FAILED before any balance is touched and promoted to
// SUCCESS only after every balance write has been accepted. It is never
// deleted.
type Payment struct {
	PaymentID      string          `json:"paymentID"` // Primary key (UUID)
	ParentID       string          `json:"parentID"`  // Initiating parent
	StudentID      string          `json:"studentID"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	AdjustedAmount decimal.Decimal `json:"adjustedAmount"` // originalAmount * (1 + dynamicRate)
	DynamicRate    decimal.Decimal `json:"dynamicRate"`
	Status         PaymentStatus   `json:"status"`
	AuditFields
}

// ContributionBreakdown is the two-way split of an adjusted amount across
// the initiating and second parent. Shares are rounded to 2 decimal places
// and sum to the adjusted amount rounded the same way.
type ContributionBreakdown struct {
	InitiatingShare decimal.Decimal `json:"initiatingShare"`
	SecondShare     decimal.Decimal `json:"secondShare"`
}
