package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Towet-Tum/Authentications/internal/cache"
	apperrors "github.com/Towet-Tum/Authentications/internal/errors"
	"github.com/Towet-Tum/Authentications/internal/model"
	"github.com/Towet-Tum/Authentications/internal/repository"
)

const blacklistKeyPrefix = "blacklist:refresh_token:"

// TokenStoreInterface defines the interface for refresh-token ledger and
// blacklist operations.
type TokenStoreInterface interface {
	RecordIssued(ctx context.Context, jti string, userID uint, issuedAt, expiresAt time.Time) error
	Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenStore keeps authoritative blacklist state in MySQL and mirrors
// revoked JTIs into redis with a TTL matching the token's remaining
// lifetime. Redis misses fall through to the database.
type TokenStore struct {
	repo  repository.TokenRepository
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(repo repository.TokenRepository, cache *cache.Client) *TokenStore {
	return &TokenStore{repo: repo, cache: cache}
}

// RecordIssued writes a ledger row for a freshly issued refresh token.
func (s *TokenStore) RecordIssued(ctx context.Context, jti string, userID uint, issuedAt, expiresAt time.Time) error {
	return s.repo.RecordIssued(ctx, &model.RefreshTokenRecord{
		JTI:       jti,
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	})
}

// Revoke blacklists a refresh token by JTI. Unknown JTIs return
// ErrTokenNotFound and already-blacklisted ones ErrTokenRevoked, so a
// second revocation stays invalid rather than idempotently successful.
func (s *TokenStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	if _, err := s.repo.FindIssued(ctx, jti); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTokenNotFound
		}
		return err
	}

	revoked, err := s.IsRevoked(ctx, jti)
	if err != nil {
		return err
	}
	if revoked {
		return apperrors.ErrTokenRevoked
	}

	now := time.Now()
	entry := &model.BlacklistedToken{
		JTI:           jti,
		UserID:        userID,
		BlacklistedAt: now,
		ExpiresAt:     expiresAt,
	}
	if err := s.repo.Blacklist(ctx, entry); err != nil {
		// A concurrent revoke may have inserted the row first; anything
		// else is a real store failure and must surface as one.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrTokenRevoked
		}
		return err
	}

	if ttl := time.Until(expiresAt); ttl > 0 {
		_ = s.cache.Set(ctx, blacklistKeyPrefix+jti, []byte("1"), ttl)
	}
	return nil
}

// IsRevoked reports whether a JTI is blacklisted, consulting redis
// first and the database on a miss.
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if data, _ := s.cache.Get(ctx, blacklistKeyPrefix+jti); data != nil {
		return true, nil
	}
	return s.repo.IsBlacklisted(ctx, jti)
}
