package services

import (
	"context"

	"github.com/syncpay/guardianpay/internal/core/domain"
	"github.com/syncpay/guardianpay/internal/dto"
)

// AuthSvcFacade covers registration and sign-in.
type AuthSvcFacade interface {
	// RegisterParent creates a parent account with an initial balance.
	RegisterParent(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// RegisterStudent creates a student account linked to the parents named
	// in req.FamilyIDs. Every ID must resolve to an existing parent.
	RegisterStudent(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// RegisterAdmin creates an admin account.
	RegisterAdmin(ctx context.Context, req dto.AdminRegisterRequest) (*domain.User, error)

	// Login verifies credentials and issues a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error)
}
