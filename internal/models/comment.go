package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxCommentLength = 2000

// Comment is a flat record; replies point at their parent through ParentID
// and the tree is assembled by the client.
type Comment struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Author    AuthorSnapshot `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	RecipeID  uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"recipeId"`
	ParentID  *uuid.UUID     `gorm:"type:varchar(36);index" json:"parentId"`
	Likes     int64          `gorm:"not null;default:0;check:likes >= 0" json:"likes"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Author.Level == "" {
		c.Author.Level = DefaultUserLevel
	}
	return nil
}
