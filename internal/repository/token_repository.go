package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Towet-Tum/Authentications/internal/model"
)

// TokenRepository defines persistence for the refresh-token ledger and
// the revocation blacklist. Both tables are keyed by JTI.
type TokenRepository interface {
	RecordIssued(ctx context.Context, rec *model.RefreshTokenRecord) error
	FindIssued(ctx context.Context, jti string) (*model.RefreshTokenRecord, error)
	Blacklist(ctx context.Context, entry *model.BlacklistedToken) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// RecordIssued writes a ledger row for a freshly minted refresh token.
func (r *tokenRepository) RecordIssued(ctx context.Context, rec *model.RefreshTokenRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// FindIssued looks up the ledger row for a JTI.
func (r *tokenRepository) FindIssued(ctx context.Context, jti string) (*model.RefreshTokenRecord, error) {
	var rec model.RefreshTokenRecord
	if err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Blacklist inserts a revocation row. Inserting an already-blacklisted
// JTI fails on the primary key, which callers surface as an invalid token.
func (r *tokenRepository) Blacklist(ctx context.Context, entry *model.BlacklistedToken) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// IsBlacklisted reports whether a JTI has a revocation row.
func (r *tokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BlacklistedToken{}).
		Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired removes ledger and blacklist rows whose tokens have
// expired. Expired tokens fail signature-time checks, so the rows are
// only bookkeeping at that point.
func (r *tokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.RefreshTokenRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	purged := res.RowsAffected
	res = r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.BlacklistedToken{})
	if res.Error != nil {
		return purged, res.Error
	}
	return purged + res.RowsAffected, nil
}
