package models

// User is the database representation of a user row.
type User struct {
	UserID       string `db:"user_id"`
	Email        string `db:"email"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	AuditFields
}
