package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Towet-Tum/Authentications/internal/audit"
	"github.com/Towet-Tum/Authentications/internal/auth"
	apperrors "github.com/Towet-Tum/Authentications/internal/errors"
	"github.com/Towet-Tum/Authentications/internal/model"
	"github.com/Towet-Tum/Authentications/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the attributes accepted at registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Phone     string
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	auditor    audit.Recorder
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, auditor audit.Recorder) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		auditor:    auditor,
	}
}

// Register creates a new user with a hashed password and issues a token pair.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, *TokenPair, error) {
	if !model.ValidRole(in.Role) {
		return nil, nil, apperrors.ErrInvalidRole
	}

	// Check uniqueness before hitting the DB constraints so duplicates
	// surface as validation errors rather than driver errors.
	if existing, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, nil, apperrors.ErrUserExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check email existence: %w", err)
	}
	if existing, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, nil, apperrors.ErrUserExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check username existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		PasswordHash: string(hashedPassword),
		Role:         in.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration may have taken the username/email
		// between the pre-check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, apperrors.ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.auditor.Record(ctx, audit.ActionRegister, fmt.Sprintf("Registered new user: %s", user.Username), user)

	return user, pair, nil
}

// Login authenticates by email and password and issues a token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// issuePair mints a refresh token, records it in the ledger, and derives
// an access token carrying the user's current role, email, and id.
func (s *authService) issuePair(ctx context.Context, user *model.User) (*TokenPair, error) {
	jti, refreshToken, expiresAt, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("validate issued refresh token: %w", err)
	}

	accessToken, err := s.jwtService.AccessFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.tokenStore.RecordIssued(ctx, jti, user.ID, claims.IssuedAt.Time, expiresAt); err != nil {
		return nil, fmt.Errorf("record refresh token: %w", err)
	}

	return &TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Refresh validates a refresh token and returns a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return "", apperrors.ErrTokenRevoked
	}

	accessToken, err := s.jwtService.AccessFromClaims(claims)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Verify checks a token's structure, signature, and expiry. Refresh
// tokens are additionally checked against the blacklist so a revoked
// token verifies as invalid.
func (s *authService) Verify(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if claims.TokenType == auth.TokenTypeRefresh && claims.ID != "" {
		revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
		if err != nil {
			return fmt.Errorf("check blacklist: %w", err)
		}
		if revoked {
			return apperrors.ErrTokenRevoked
		}
	}
	return nil
}

// Logout revokes a refresh token by blacklisting its JTI. A second
// logout with the same token fails with ErrTokenRevoked.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	userID64, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		// The id claim is minted as a decimal user id; anything else
		// did not come from this issuer.
		return apperrors.ErrInvalidToken
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID, uint(userID64), claims.ExpiresAt.Time); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.ActionLogout, fmt.Sprintf("Logged out user id %s", claims.UserID), nil)
	return nil
}
