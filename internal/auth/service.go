package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"homeleads/internal/jwttoken"
	"homeleads/internal/platform/config"
	"homeleads/pkg/apperrors"
	"homeleads/pkg/sentinel"
)

// Service authenticates admin users and issues session tokens.
type Service struct {
	store    Store
	tokens   *jwttoken.Service
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(store Store, tokens *jwttoken.Service, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

// Login verifies credentials and returns a signed session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "email and password are required")
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, Name: user.Name}, nil
}

// SeedInitialAdmin creates the configured admin user when the table is
// empty. A missing seed config on an empty table is an error: the admin
// surface would be unreachable.
func (s *Service) SeedInitialAdmin(ctx context.Context, seed config.AdminSeed) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if seed.Email == "" || seed.Password == "" {
		return errors.New("no admin users exist and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(seed.Email)),
		PasswordHash: string(hash),
		Name:         seed.Name,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "seeded initial admin user", "email", user.Email)
	return nil
}
