package service

import (
	"context"
	"strings"

	"hostelhub/config"
	"hostelhub/internal/auth"
	"hostelhub/internal/domain"
	"hostelhub/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	cfg   *config.JWTConfig
	users UserRepository
}

func NewAuthService(cfg *config.JWTConfig, users UserRepository) *AuthService {
	return &AuthService{cfg: cfg, users: users}
}

// Login checks credentials and returns the user with a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil || u.PasswordHash == "" {
		return nil, "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthorized
	}
	if !u.IsStaff() {
		return nil, "", domain.ErrUnauthorized
	}
	token, err := auth.IssueAccessToken(s.cfg, auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
