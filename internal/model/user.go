package model

import "time"

// Roles a user account may hold.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

// ValidRole reports whether role is one of the permitted values.
func ValidRole(role string) bool {
	switch role {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// User represents an account on the rental platform.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `json:"first_name,omitempty" gorm:"size:150"`
	LastName     string    `json:"last_name,omitempty" gorm:"size:150"`
	Phone        string    `json:"phone,omitempty" gorm:"size:32"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
