package services

import (
	"context"
	"errors"
	"strings"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/adapters/persistence/repositories"
	"campus-visitpass/internal/config"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/jwt"
	"campus-visitpass/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// CompleteEmail expands a bare identifier into a full institutional
// email address. Identifiers already containing "@" pass through.
func (s *AuthService) CompleteEmail(identifier string) string {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" || strings.Contains(identifier, "@") {
		return identifier
	}
	return identifier + "@" + s.cfg.Auth.EmailDomain
}

// Login authenticates a user for the requested role and issues a session token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	role := domain.Role(input.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	email := s.CompleteEmail(input.Identifier)

	user, err := s.userRepo.GetByEmailAndRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a bad password so login does not leak
			// which accounts exist.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateSessionToken(
		user.ID, user.Email, user.Name, user.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.Issuer, s.cfg.JWT.SessionDays,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// VerifySession validates a session token and returns the caller identity.
// Any malformed, expired, or tampered token yields ErrTokenInvalid.
func (s *AuthService) VerifySession(tokenString string) (*domain.Identity, error) {
	claims, err := jwt.ValidateSessionToken(tokenString, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims.Identity(), nil
}

// GetProfile returns the current user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return domain.ErrInvalidCredentials
	}

	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}
