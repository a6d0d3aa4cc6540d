package usecases

import (
	"context"
	"errors"
	"strings"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/domain/repositories"
	"assembly-directory.backend/pkg/crypto"
	"assembly-directory.backend/pkg/jwt"
)

var checkPassword = crypto.CheckPassword

// AuthUsecase handles admin login and token verification
type AuthUsecase struct {
	adminRepo  repositories.AdminRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(adminRepo repositories.AdminRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		adminRepo:  adminRepo,
		jwtService: jwtService,
	}
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password both fail with ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.ErrInvalidCredentials
	}

	admin, err := u.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPassword(input.Password, admin.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := u.jwtService.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     admin,
	}, nil
}

// Verify checks signature and expiry only; no store lookup happens here.
func (u *AuthUsecase) Verify(token string) (*entities.AdminIdentity, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}
	return &entities.AdminIdentity{
		ID:    claims.AdminID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
