package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		BCryptCost:                  4,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(), now)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_Validation(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)

	cfg = testAuthConfig()
	cfg.TokenLifetimeMinutes = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.AccessTokenLifetime())
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return fixedTime })
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Errors(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, func() time.Time { return issued })
	userID := uuid.New()

	access, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-that-is-long-enough-too"
	other, err := newHMACJWTService(otherCfg, func() time.Time { return issued })
	require.NoError(t, err)
	foreign, err := other.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		now      time.Time
		expected error
	}{
		{name: "expired", token: access, now: issued.Add(2 * time.Hour), expected: ErrExpiredToken},
		{name: "within clock skew", token: access, now: issued.Add(61 * time.Minute), expected: nil},
		{name: "malformed", token: "not-a-token", now: issued, expected: ErrInvalidToken},
		{name: "wrong signature", token: foreign, now: issued, expected: ErrInvalidToken},
		{name: "refresh token", token: refresh, now: issued, expected: ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, func() time.Time { return tt.now })
			_, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := jwtCustomClaims{
		UserID:    uuid.New(),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := newTestService(t, time.Now)
	_, err = svc.ValidateToken(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return issued })
	userID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)
	access, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, issued.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = svc.ValidateRefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	later := newTestService(t, func() time.Time { return issued.Add(25 * time.Hour) })
	_, err = later.ValidateRefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)

	_, err = svc.ValidateRefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	v := NewBcryptVerifier(4)
	hash, err := v.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, v.Compare(hash, "correct horse"))
	assert.Error(t, v.Compare(hash, "wrong horse"))

	assert.Equal(t, 10, NewBcryptVerifier(0).cost)
}
