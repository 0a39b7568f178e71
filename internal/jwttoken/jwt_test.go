package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeleads/pkg/apperrors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-key", "homeleads", "homeleads-admin")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "agent@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "homeleads", claims.Issuer)
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("test-key", "homeleads", "homeleads-admin")

	token, err := svc.GenerateToken(uuid.New(), "agent@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestValidateWrongKey(t *testing.T) {
	svc := NewService("test-key", "homeleads", "homeleads-admin")
	other := NewService("other-key", "homeleads", "homeleads-admin")

	token, err := svc.GenerateToken(uuid.New(), "agent@example.com", time.Hour)
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-key", "homeleads", "homeleads-admin")

	_, err := svc.Validate("not.a.token")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}
