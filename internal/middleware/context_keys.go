package middleware

import (
	"context"

	"github.com/syncpay/guardianpay/internal/core/domain"
)

// userIDKey holds the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// userRoleKey holds the authenticated user's role in the request context.
const userRoleKey = contextKey("userRole")

// GetUserIDFromCtx retrieves the authenticated user ID from the context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// GetUserRoleFromCtx retrieves the authenticated user's role from the
// context. The role was parsed into the closed domain.Role set when the
// token was issued.
func GetUserRoleFromCtx(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.Role)
	return role, ok
}
