package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

const (
	MinRating = 1
	MaxRating = 5
)

// InteractionService maintains likes, collects and ratings together with the
// counters cached on recipes and comments.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// counter identifies the cached counter column a toggle adjusts
type counter struct {
	table    string
	column   string
	id       uuid.UUID
	recipeID uuid.UUID
	resource string
}

// ToggleLike likes the recipe, or removes the like when one exists
func (s *InteractionService) ToggleLike(ctx context.Context, userID, recipeID uuid.UUID) (*types.ToggleResult, error) {
	target := counter{table: "recipes", column: "likes", id: recipeID, recipeID: recipeID, resource: "recipe"}
	return s.toggle(ctx, target,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("user_id = ? AND recipe_id = ? AND comment_id = ?", userID, recipeID, uuid.Nil).
				Delete(&models.Like{})
		},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: userID, RecipeID: recipeID, CommentID: uuid.Nil})
		},
	)
}

// ToggleCollect adds the recipe to the user's collection, or removes it
func (s *InteractionService) ToggleCollect(ctx context.Context, userID, recipeID uuid.UUID) (*types.ToggleResult, error) {
	target := counter{table: "recipes", column: "collects", id: recipeID, recipeID: recipeID, resource: "recipe"}
	return s.toggle(ctx, target,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Collect{})
		},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Collect{UserID: userID, RecipeID: recipeID})
		},
	)
}

// ToggleCommentLike likes a comment. The comment must belong to recipeID.
func (s *InteractionService) ToggleCommentLike(ctx context.Context, userID, recipeID, commentID uuid.UUID) (*types.ToggleResult, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).
		Where("id = ? AND recipe_id = ?", commentID, recipeID).
		First(&comment).Error
	if err != nil {
		return nil, database.MapError(err, "comment")
	}

	target := counter{table: "comments", column: "likes", id: commentID, recipeID: recipeID, resource: "comment"}
	return s.toggle(ctx, target,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("user_id = ? AND recipe_id = ? AND comment_id = ?", userID, recipeID, commentID).
				Delete(&models.Like{})
		},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: userID, RecipeID: recipeID, CommentID: commentID})
		},
	)
}

// toggle deletes the caller's reaction row if present and inserts it
// otherwise, moving the counter in the same transaction. An insert that hits
// the unique index means a concurrent request already reacted, so the counter
// is left alone.
func (s *InteractionService) toggle(ctx context.Context, target counter, remove, insert func(tx *gorm.DB) *gorm.DB) (*types.ToggleResult, error) {
	result := &types.ToggleResult{}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		// the recipe row lock serializes against DeleteRecipe's cascade
		if err := lockRow(tx, "recipes", target.recipeID, "recipe"); err != nil {
			return err
		}
		if target.table != "recipes" {
			if err := lockRow(tx, target.table, target.id, target.resource); err != nil {
				return err
			}
		}

		removed := remove(tx)
		if removed.Error != nil {
			return fmt.Errorf("failed to remove reaction: %w", removed.Error)
		}

		if removed.RowsAffected > 0 {
			err := tx.Table(target.table).
				Where("id = ? AND "+target.column+" > 0", target.id).
				UpdateColumn(target.column, gorm.Expr(target.column+" - 1")).Error
			if err != nil {
				return fmt.Errorf("failed to decrement %s: %w", target.column, err)
			}
		} else {
			inserted := insert(tx)
			if inserted.Error != nil {
				return fmt.Errorf("failed to add reaction: %w", inserted.Error)
			}
			result.Active = true
			if inserted.RowsAffected > 0 {
				err := tx.Table(target.table).
					Where("id = ?", target.id).
					UpdateColumn(target.column, gorm.Expr(target.column+" + 1")).Error
				if err != nil {
					return fmt.Errorf("failed to increment %s: %w", target.column, err)
				}
			}
		}

		return tx.Table(target.table).
			Select(target.column).
			Where("id = ?", target.id).
			Scan(&result.Count).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockRow locks table's row id for the rest of the transaction, returning a
// not found error naming resource when the row is gone
func lockRow(tx *gorm.DB, table string, id uuid.UUID, resource string) error {
	var ids []uuid.UUID
	err := tx.Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", resource, err)
	}
	if len(ids) == 0 {
		return types.NewNotFoundError(resource)
	}
	return nil
}

// Rate records the user's vote on a recipe. A first vote joins the running
// average; a repeat vote replaces the user's previous value.
func (s *InteractionService) Rate(ctx context.Context, userID, recipeID uuid.UUID, value int) (*types.RateResult, error) {
	if value < MinRating || value > MaxRating {
		return nil, types.NewValidationError("rating must be an integer between %d and %d", MinRating, MaxRating)
	}

	var result *types.RateResult
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx.Clauses(clause.Locking{Strength: "UPDATE"}), recipeID)
		if err != nil {
			return err
		}

		var previous models.Rating
		err = tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&previous).Error
		if err != nil && !database.IsNotFound(err) {
			return fmt.Errorf("failed to load rating: %w", err)
		}
		revote := err == nil && recipe.RatingCount > 0

		sum := recipe.Rating * float64(recipe.RatingCount)
		count := recipe.RatingCount
		if revote {
			sum += float64(value - previous.Value)
			if err := tx.Model(&previous).Update("value", value).Error; err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
		} else {
			sum += float64(value)
			count++
			if err == nil {
				// stale row left over from a reset counter
				if err := tx.Model(&previous).Update("value", value).Error; err != nil {
					return fmt.Errorf("failed to update rating: %w", err)
				}
			} else if err := tx.Create(&models.Rating{UserID: userID, RecipeID: recipeID, Value: value}).Error; err != nil {
				return fmt.Errorf("failed to store rating: %w", err)
			}
		}

		average := clampRating(sum / float64(count))
		err = tx.Model(&models.Recipe{}).
			Where("id = ?", recipeID).
			UpdateColumns(map[string]interface{}{"rating": average, "rating_count": count}).Error
		if err != nil {
			return fmt.Errorf("failed to update recipe rating: %w", err)
		}

		result = &types.RateResult{Rating: average, RatingCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ViewerState reports whether the user liked or collected the recipe and
// the value they rated it, if any.
func (s *InteractionService) ViewerState(ctx context.Context, userID, recipeID uuid.UUID) (*types.ViewerState, error) {
	db := s.db.WithContext(ctx)
	state := &types.ViewerState{}

	var likes int64
	if err := db.Model(&models.Like{}).
		Where("user_id = ? AND recipe_id = ? AND comment_id = ?", userID, recipeID, uuid.Nil).
		Count(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to load like state: %w", err)
	}
	state.Liked = likes > 0

	var collects int64
	if err := db.Model(&models.Collect{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&collects).Error; err != nil {
		return nil, fmt.Errorf("failed to load collect state: %w", err)
	}
	state.Collected = collects > 0

	var rating models.Rating
	err := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error
	switch {
	case err == nil:
		state.Rating = &rating.Value
	case !database.IsNotFound(err):
		return nil, fmt.Errorf("failed to load rating state: %w", err)
	}

	return state, nil
}

func clampRating(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(MaxRating, r))
}
