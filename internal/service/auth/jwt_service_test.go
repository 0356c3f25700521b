package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/config"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestJWTService(secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	return newHMACJWTService(secret, lifetime, now)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("accepts day lifetimes", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetime: "30d"})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, svc.(*hmacJWTService).tokenLifetime)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetime: "1h"})
		assert.Error(t, err)
	})

	t.Run("rejects bad lifetime", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetime: "forever"})
		assert.Error(t, err)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()
	svc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), userID, domain.RoleProvider)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.ID)
	assert.Equal(t, domain.RoleProvider, claims.Role)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.TokenID)

	other, err := svc.GenerateToken(context.Background(), userID, domain.RoleProvider)
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(context.Background(), other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.TokenID, otherClaims.TokenID, "every token gets its own jti")
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	signed := func(t *testing.T, claims jwt.Claims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), userID, domain.RoleClient)
				return svc, token
			},
		},
		{
			name: "within clock skew after expiry",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID, domain.RoleClient)
				valSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime.Add(tokenLifetime+time.Minute)))
				return valSvc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID, domain.RoleClient)
				valSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime.Add(tokenLifetime+time.Hour)))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "issued in the future",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime.Add(time.Hour)))
				token, _ := genSvc.GenerateToken(context.Background(), userID, domain.RoleClient)
				valSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				return valSvc, token
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID, domain.RoleClient)
				valSvc := newTestJWTService(wrongSecret, tokenLifetime, fixedClock(fixedTime))
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unsigned token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
					UserID: userID,
					Role:   string(domain.RoleClient),
					RegisteredClaims: jwt.RegisteredClaims{
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unknown role",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token := signed(t, jwtCustomClaims{
					UserID: userID,
					Role:   "admin",
					RegisteredClaims: jwt.RegisteredClaims{
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
				return newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidRoleClaim,
		},
		{
			name: "missing expiry",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token := signed(t, jwtCustomClaims{
					UserID:           userID,
					Role:             string(domain.RoleClient),
					RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(fixedTime)},
				})
				return newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing subject id",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token := signed(t, jwtCustomClaims{
					Role: string(domain.RoleClient),
					RegisteredClaims: jwt.RegisteredClaims{
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
				return newTestJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, userID, claims.ID)
			}
		})
	}
}
