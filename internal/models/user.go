package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultUserLevel = "novice"

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Username     string    `gorm:"size:32;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Level        string    `gorm:"size:32;not null;default:novice" json:"level"`
	Experience   int       `gorm:"not null;default:0" json:"experience"`
	Avatar       *string   `gorm:"size:512" json:"avatar"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Level == "" {
		u.Level = DefaultUserLevel
	}
	return nil
}

// Snapshot copies the user fields that recipes and comments embed
func (u *User) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{
		ID:       u.ID,
		Username: u.Username,
		Level:    u.Level,
		Avatar:   u.Avatar,
	}
}

// AuthorSnapshot is copied from the author at creation time and never
// refreshed afterwards.
type AuthorSnapshot struct {
	ID       uuid.UUID `gorm:"type:varchar(36);not null;index" json:"id"`
	Username string    `gorm:"size:32;not null" json:"username"`
	Level    string    `gorm:"size:32;not null;default:novice" json:"level"`
	Avatar   *string   `gorm:"size:512" json:"avatar"`
}
