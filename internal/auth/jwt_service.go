package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Towet-Tum/Authentications/internal/model"
)

const (
	// DefaultAccessTokenTTL is the duration for which access tokens are valid.
	DefaultAccessTokenTTL = 15 * time.Minute
	// DefaultRefreshTokenTTL is the duration for which refresh tokens are valid.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token classes carried in the token_type claim. Refresh operations
// refuse access-class tokens and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents JWT claims. Role, email, and id are snapshots of
// the user at issuance time and are never updated retroactively.
type Claims struct {
	TokenType string `json:"token_type"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	UserID    string `json:"id"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT service with the given secret.
// Non-positive TTLs fall back to the defaults.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *JWTService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// GenerateAccessToken mints a short-lived access token carrying the
// user's role, email, and id.
func (s *JWTService) GenerateAccessToken(user *model.User) (string, error) {
	return s.generateAccessToken(user.Role, user.Email, strconv.FormatUint(uint64(user.ID), 10))
}

// AccessFromClaims mints an access token from the claims of a validated
// refresh token, propagating the issuance-time role/email/id snapshot.
func (s *JWTService) AccessFromClaims(claims *Claims) (string, error) {
	return s.generateAccessToken(claims.Role, claims.Email, claims.UserID)
}

func (s *JWTService) generateAccessToken(role, email, userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		TokenType: TokenTypeAccess,
		Role:      role,
		Email:     email,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GenerateRefreshToken mints a refresh token bound to the user. The JTI
// is returned separately for the ledger and blacklist.
func (s *JWTService) GenerateRefreshToken(user *model.User) (jti string, token string, expiresAt time.Time, err error) {
	now := time.Now()
	jti = uuid.New().String()
	expiresAt = now.Add(s.refreshTTL)
	userID := strconv.FormatUint(uint64(user.ID), 10)
	claims := &Claims{
		TokenType: TokenTypeRefresh,
		Role:      user.Role,
		Email:     user.Email,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = tokenObj.SignedString(s.secret)
	return jti, token, expiresAt, err
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ValidateRefreshToken validates a token and requires it to be
// refresh-class with a JTI.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, errors.New("token has wrong type")
	}
	if claims.ID == "" {
		return nil, errors.New("token ID not found")
	}
	return claims, nil
}
