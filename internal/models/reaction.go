package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records that a user liked a recipe, or a comment on it.
// CommentID is uuid.Nil for recipe likes so the composite unique index
// also covers them (NULLs never collide in a unique index).
type Like struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_target,priority:1" json:"userId"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_target,priority:2;index" json:"recipeId"`
	CommentID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_target,priority:3;index" json:"commentId"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type Collect struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_collects_user_recipe,priority:1" json:"userId"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_collects_user_recipe,priority:2;index" json:"recipeId"`
}

func (c *Collect) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Rating keeps each user's latest vote on a recipe
type Rating struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_recipe,priority:1" json:"userId"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_recipe,priority:2;index" json:"recipeId"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// All lists every model for AutoMigrate, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&Comment{},
		&Like{},
		&Collect{},
		&Rating{},
	}
}
