package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
	portssvc "github.com/syncpay/guardianpay/internal/core/ports/services"
	"github.com/syncpay/guardianpay/internal/dto"
	"github.com/syncpay/guardianpay/internal/middleware"
	"github.com/syncpay/guardianpay/internal/utils"
	"github.com/syncpay/guardianpay/pkg/config"
)

var (
	ErrEmptyFamilyIDs = errors.New("familyIds must not be empty for student registration")
	ErrBadCredentials = errors.New("wrong email or password")
)

// authService handles registration and sign-in.
type authService struct {
	userRepo    portsrepo.UserRepositoryFacade
	studentRepo portsrepo.StudentWriter
	parentRepo  portsrepo.ParentRepositoryFacade
	cfg         *config.Config
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, studentRepo portsrepo.StudentWriter, parentRepo portsrepo.ParentRepositoryFacade, cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		parentRepo:  parentRepo,
		cfg:         cfg,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// RegisterParent creates a parent account with an initial balance.
func (s *authService) RegisterParent(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.buildUser(ctx, req.FirstName, req.LastName, req.Email, req.Password, domain.RoleParent)
	if err != nil {
		return nil, err
	}

	parent := domain.Parent{
		ParentID:    uuid.NewString(),
		UserID:      user.UserID,
		Balance:     req.Amount,
		AuditFields: user.AuditFields,
	}

	if err := s.parentRepo.SaveParent(ctx, *user, parent); err != nil {
		logger.Error("Failed to save parent", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save parent: %w", err)
	}

	logger.Info("Parent registered", slog.String("parent_id", parent.ParentID))
	return user, nil
}

// RegisterStudent creates a student account linked to the parents named in
// req.FamilyIDs. Every ID must resolve to an existing parent. Settlement
// later requires exactly 1 or 2 links; registration only requires at least
// one.
func (s *authService) RegisterStudent(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.FamilyIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyFamilyIDs)
	}

	parentIDs := uniqueStrings(req.FamilyIDs)
	for _, parentID := range parentIDs {
		if _, err := s.parentRepo.FindParentByID(ctx, parentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s", apperrors.ErrNotFound, parentID)
			}
			logger.Error("Failed to resolve parent for student registration", slog.String("error", err.Error()), slog.String("parent_id", parentID))
			return nil, fmt.Errorf("failed to resolve parent %s: %w", parentID, err)
		}
	}

	user, err := s.buildUser(ctx, req.FirstName, req.LastName, req.Email, req.Password, domain.RoleStudent)
	if err != nil {
		return nil, err
	}

	student := domain.Student{
		StudentID:   uuid.NewString(),
		UserID:      user.UserID,
		Balance:     req.Amount,
		ParentIDs:   parentIDs,
		AuditFields: user.AuditFields,
	}

	if err := s.studentRepo.SaveStudent(ctx, *user, student); err != nil {
		logger.Error("Failed to save student", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save student: %w", err)
	}

	logger.Info("Student registered", slog.String("student_id", student.StudentID), slog.Int("parent_count", len(parentIDs)))
	return user, nil
}

// RegisterAdmin creates an admin account. Admins carry no balance.
func (s *authService) RegisterAdmin(ctx context.Context, req dto.AdminRegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.buildUser(ctx, req.FirstName, req.LastName, req.Email, req.Password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		logger.Error("Failed to save admin", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save admin: %w", err)
	}

	logger.Info("Admin registered", slog.String("user_id", user.UserID))
	return user, nil
}

// Login verifies credentials and issues a signed access token.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, ErrBadCredentials)
		}
		logger.Error("Failed to load user for login", slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, ErrBadCredentials)
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign access token", slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	logger.Info("User signed in", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return token, user, nil
}

// buildUser performs the duplicate-email check and assembles a user with a
// hashed password. The role is already a typed value; no string dispatch
// happens past this point.
func (s *authService) buildUser(ctx context.Context, firstName, lastName, email, password string, role domain.Role) (*domain.User, error) {
	_, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrDuplicate, email)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	return &domain.User{
		UserID:       userID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Role:         role,
		AuditFields:  domain.NewAuditFields(userID, now),
	}, nil
}

// uniqueStrings returns the unique strings from the input, preserving order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
