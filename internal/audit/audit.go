package audit

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Towet-Tum/Authentications/internal/model"
)

// Audit actions recorded by the auth flow.
const (
	ActionRegister = "register"
	ActionLogout   = "logout"
)

// Entry is a persisted record of a notable auth event.
type Entry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Action    string    `json:"action" gorm:"size:50;not null;index"`
	Message   string    `json:"message" gorm:"size:512;not null"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Username  string    `json:"username" gorm:"size:150"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorder records notable events. Recording never fails the calling
// operation; implementations swallow and log their own errors.
type Recorder interface {
	Record(ctx context.Context, action, message string, user *model.User)
}

type dbRecorder struct {
	db *gorm.DB
}

// NewRecorder creates a Recorder that persists entries via GORM.
func NewRecorder(db *gorm.DB) Recorder {
	return &dbRecorder{db: db}
}

func (r *dbRecorder) Record(ctx context.Context, action, message string, user *model.User) {
	entry := &Entry{
		Action:  action,
		Message: message,
	}
	if user != nil {
		entry.UserID = user.ID
		entry.Username = user.Username
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("audit: record %s: %v", action, err)
	}
}

// NopRecorder discards all entries. Used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, action, message string, user *model.User) {}
