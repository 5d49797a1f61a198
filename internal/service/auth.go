package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/wisechats/leadboard/api/internal/auth"
	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
)

// ErrEmailAlreadyExists is returned when registration hits an existing email.
var ErrEmailAlreadyExists = errors.New("email already exists")

// AuthService coordinates credential validation and token issuance.
type AuthService struct {
	users repository.UsersRepository
	jwt   *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwtManager}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", errors.New("invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return "", err
	}

	return token, nil
}

// Register provisions a regular account and returns a JWT for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, string(hashed), entity.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return "", ErrEmailAlreadyExists
		}
		return "", err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return "", err
	}

	return token, nil
}
