package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"metacircle/metasync/internal/auth"
	"metacircle/metasync/internal/models/dtos"
	"metacircle/metasync/internal/store"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords;
// the API never distinguishes the two.
var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	store     store.Store
	jwtSecret string
}

func NewAuthService(st store.Store, jwtSecret string) *AuthService {
	return &AuthService{store: st, jwtSecret: jwtSecret}
}

// HashPassword prepares a plaintext credential for storage. The store only
// ever sees the hash.
func (s *AuthService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginReq) (*dtos.LoginResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &dtos.LoginResponse{Token: token, User: user}, nil
}
