package models

import "github.com/shopspring/decimal"

// Student is the database representation of a student row.
type Student struct {
	StudentID string          `db:"student_id"`
	UserID    string          `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	AuditFields
}

// Parent is the database representation of a parent row.
type Parent struct {
	ParentID string          `db:"parent_id"`
	UserID   string          `db:"user_id"`
	Balance  decimal.Decimal `db:"balance"`
	AuditFields
}
