package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"homeleads/internal/jwttoken"
	"homeleads/internal/platform/config"
	"homeleads/internal/platform/logger"
	"homeleads/pkg/apperrors"
)

type AuthServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	tokens  *jwttoken.Service
	service *Service
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.tokens = jwttoken.NewService("test-signing-key", "homeleads", "homeleads-admin")
	s.service = NewService(s.store, s.tokens, time.Hour, logger.New())
}

func (s *AuthServiceSuite) seed() {
	err := s.service.SeedInitialAdmin(context.Background(), config.AdminSeed{
		Email:    "agent@example.com",
		Password: "correct horse battery staple",
		Name:     "Agent",
	})
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestSeedThenLogin() {
	s.seed()

	resp, err := s.service.Login(context.Background(), LoginRequest{
		Email:    "Agent@Example.com",
		Password: "correct horse battery staple",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal("Agent", resp.Name)

	claims, err := s.tokens.Validate(resp.Token)
	s.Require().NoError(err)
	s.Equal("agent@example.com", claims.Email)
}

func (s *AuthServiceSuite) TestSeedIsIdempotent() {
	s.seed()
	s.seed()

	count, err := s.store.Count(context.Background())
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *AuthServiceSuite) TestSeedRequiredOnEmptyTable() {
	err := s.service.SeedInitialAdmin(context.Background(), config.AdminSeed{})
	s.Error(err)
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	s.seed()

	_, err := s.service.Login(context.Background(), LoginRequest{
		Email:    "agent@example.com",
		Password: "wrong",
	})
	s.True(apperrors.Is(err, apperrors.CodeUnauthorized))
}

func (s *AuthServiceSuite) TestLoginUnknownEmailSameError() {
	s.seed()

	_, wrongPass := s.service.Login(context.Background(), LoginRequest{
		Email: "agent@example.com", Password: "wrong",
	})
	_, unknown := s.service.Login(context.Background(), LoginRequest{
		Email: "nobody@example.com", Password: "wrong",
	})
	s.Equal(wrongPass.Error(), unknown.Error())
}

func (s *AuthServiceSuite) TestLoginValidation() {
	_, err := s.service.Login(context.Background(), LoginRequest{})
	s.True(apperrors.Is(err, apperrors.CodeInvalidInput))
}

func (s *AuthServiceSuite) TestExpiredTokenRejected() {
	s.seed()
	service := NewService(s.store, s.tokens, -time.Minute, logger.New())

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "agent@example.com",
		Password: "correct horse battery staple",
	})
	s.Require().NoError(err)

	_, err = s.tokens.Validate(resp.Token)
	s.True(apperrors.Is(err, apperrors.CodeUnauthorized))
}
