package usecase

import (
	"testing"
	"time"

	"user-auth/internal/data/entity"
	"user-auth/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() utils.JWTConfig {
	return utils.JWTConfig{
		AccessSecret:     "access-secret-for-tests",
		RefreshSecret:    "refresh-secret-for-tests",
		AccessTTLMinutes: 15,
		RefreshTTLDays:   7,
	}
}

func testUser() *entity.User {
	now := time.Now()
	return &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         "Test User",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$irrelevant",
	}
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.Email, claims.Email)
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	user := testUser()

	token, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestTokenService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	user := testUser()

	accessToken, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	refreshToken, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	// An access token never verifies as a refresh token and vice versa
	_, err = svc.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecretFails(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	other := NewTokenService(utils.JWTConfig{
		AccessSecret:     "a-different-secret",
		RefreshSecret:    "another-different-secret",
		AccessTTLMinutes: 15,
		RefreshTTLDays:   7,
	})

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_ExpiredTokenFails(t *testing.T) {
	config := testJWTConfig()
	config.AccessTTLMinutes = -1 // already expired at issue time
	svc := NewTokenService(config)
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MalformedTokenFails(t *testing.T) {
	svc := NewTokenService(testJWTConfig())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = svc.VerifyRefreshToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
