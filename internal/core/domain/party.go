package domain

import "github.com/shopspring/decimal"

// Student is the beneficiary of a settlement. Its balance only ever
// increases, and only by the unadjusted request amount of a successful
// settlement.
type Student struct {
	StudentID string          `json:"studentID"` // Primary key (UUID)
	UserID    string          `json:"userID"`    // FK -> users.user_id
	Balance   decimal.Decimal `json:"balance"`   // Non-negative
	ParentIDs []string        `json:"parentIDs"` // Linked parents, in link order
	AuditFields
}

// Parent funds settlements on behalf of linked students. Its balance only
// ever decreases, and never below zero.
type Parent struct {
	ParentID string          `json:"parentID"` // Primary key (UUID)
	UserID   string          `json:"userID"`   // FK -> users.user_id
	Balance  decimal.Decimal `json:"balance"`  // Non-negative
	AuditFields
}
