package model

import "time"

// Book is a catalog entry surfaced in the admin listing.
type Book struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Author    string    `json:"author" gorm:"size:255;not null"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
