package model

import "time"

// RefreshTokenRecord is the ledger of issued refresh tokens, keyed by JTI.
// A row is written at issuance so a revocation can always be tied back to
// the user it was minted for.
type RefreshTokenRecord struct {
	JTI       string    `json:"jti" gorm:"primaryKey;size:36"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// BlacklistedToken marks a refresh token JTI as revoked. Refresh and verify
// must refuse any token whose JTI has a row here.
type BlacklistedToken struct {
	JTI           string    `json:"jti" gorm:"primaryKey;size:36"`
	UserID        uint      `json:"user_id" gorm:"index"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"index"`
}
