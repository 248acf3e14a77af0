package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Towet-Tum/Authentications/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:       42,
		Username: "testuser",
		Email:    "testuser@example.com",
		Role:     model.RoleTenant,
	}
}

func TestJWTService_AccessTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)

	token, err := svc.GenerateAccessToken(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, model.RoleTenant, claims.Role)
	assert.Equal(t, "testuser@example.com", claims.Email)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RefreshTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)

	jti, token, expiresAt, err := svc.GenerateRefreshToken(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(DefaultRefreshTokenTTL), expiresAt, time.Minute)

	claims, err := svc.ValidateRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, model.RoleTenant, claims.Role)
}

func TestJWTService_AccessFromClaims(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)

	_, refresh, _, err := svc.GenerateRefreshToken(testUser())
	assert.NoError(t, err)

	refreshClaims, err := svc.ValidateRefreshToken(refresh)
	assert.NoError(t, err)

	access, err := svc.AccessFromClaims(refreshClaims)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, refreshClaims.Role, claims.Role)
	assert.Equal(t, refreshClaims.Email, claims.Email)
	assert.Equal(t, refreshClaims.UserID, claims.UserID)
	// Derived access tokens get their own JTI.
	assert.NotEqual(t, refreshClaims.ID, claims.ID)
}

func TestJWTService_ValidateToken_Failures(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)
	otherSvc := NewJWTService("other-secret", 0, 0)
	expiredSvc := NewJWTService("test-secret", time.Nanosecond, time.Nanosecond)

	valid, err := svc.GenerateAccessToken(testUser())
	assert.NoError(t, err)
	expired, err := expiredSvc.GenerateAccessToken(testUser())
	assert.NoError(t, err)
	foreign, err := otherSvc.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: valid, wantErr: false},
		{name: "garbage string", token: "invalidtoken", wantErr: true},
		{name: "empty string", token: "", wantErr: true},
		{name: "expired token", token: expired, wantErr: true},
		{name: "wrong secret", token: foreign, wantErr: true},
		{name: "tampered payload", token: tamper(valid), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJWTService_ValidateRefreshToken_RejectsAccessTokens(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)

	access, err := svc.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

// tamper flips a character in the token payload so the signature no
// longer matches.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
