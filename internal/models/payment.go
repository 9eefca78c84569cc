package models

import "github.com/shopspring/decimal"

// PaymentStatus mirrors domain.PaymentStatus at the storage layer.
type PaymentStatus string

const (
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentSuccess PaymentStatus = "SUCCESS"
)

// Payment is the database representation of a settlement record row.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	ParentID       string          `db:"parent_id"`
	StudentID      string          `db:"student_id"`
	OriginalAmount decimal.Decimal `db:"original_amount"`
	AdjustedAmount decimal.Decimal `db:"adjusted_amount"`
	DynamicRate    decimal.Decimal `db:"dynamic_rate"`
	Status         PaymentStatus   `db:"status"`
	AuditFields
}
