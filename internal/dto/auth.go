package dto

import (
	"github.com/shopspring/decimal"
	"github.com/syncpay/guardianpay/internal/core/domain"
)

// RegisterRequest is the sign-up payload for students and parents. Role is
// parsed into domain.Role once at the boundary.
type RegisterRequest struct {
	FirstName       string          `json:"firstName" binding:"required"`
	LastName        string          `json:"lastName" binding:"required"`
	Email           string          `json:"email" binding:"required,email"`
	Role            string          `json:"role" binding:"required,oneof=STUDENT PARENT"`
	Password        string          `json:"password" binding:"required,min=8"`
	ConfirmPassword string          `json:"confirmPassword" binding:"required,eqfield=Password"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"` // Initial balance
	FamilyIDs       []string        `json:"familyIds"`             // Parent IDs, students only
}

// AdminRegisterRequest is the sign-up payload for admins. Admins carry no
// balance.
type AdminRegisterRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterResponse confirms a created account.
type RegisterResponse struct {
	UserID    string `json:"userID"`
	FirstName string `json:"firstName"`
	Role      string `json:"role"`
	Message   string `json:"message"`
}

// ToRegisterResponse builds the confirmation payload for a created user.
func ToRegisterResponse(u *domain.User, message string) RegisterResponse {
	return RegisterResponse{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		Role:      string(u.Role),
		Message:   message,
	}
}
