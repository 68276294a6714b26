package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

const (
	SortNewest  = "newest"
	SortPopular = "popular"
	SortRating  = "rating"
)

var sortOrders = map[string]string{
	SortNewest:  "recipes.created_at DESC, recipes.id DESC",
	SortPopular: "recipes.likes DESC, recipes.created_at DESC, recipes.id DESC",
	SortRating:  "recipes.rating DESC, recipes.rating_count DESC, recipes.created_at DESC, recipes.id DESC",
}

// likeEscaper makes a search term match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// editableColumns are the recipe columns a partial update may write
var editableColumns = []string{
	"title", "cover_image", "cooking_time", "difficulty", "cost_level", "servings",
	"tags", "safety_level", "materials", "steps", "season", "updated_at",
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe stores a recipe authored by author, snapshotting the author's
// current username, level and avatar.
func (s *RecipeService) CreateRecipe(ctx context.Context, author *models.User, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	season, err := models.ParseSeason(req.Season)
	if err != nil {
		return nil, types.NewValidationError("%s", err.Error())
	}

	recipe := &models.Recipe{
		Title:       strings.TrimSpace(req.Title),
		Author:      author.Snapshot(),
		CoverImage:  optionalString(req.CoverImage),
		Tags:        cleanTags(req.Tags),
		SafetyLevel: strings.TrimSpace(req.SafetyLevel),
		Materials:   materialsFromInput(req.Materials),
		Steps:       stepsFromInput(req.Steps),
		Season:      season,
	}
	applyMetadata(&recipe.Metadata, req.Metadata)
	recipe.ApplyDefaults()

	if err := recipe.Validate(); err != nil {
		return nil, types.NewValidationError("%s", err.Error())
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return findRecipe(s.db.WithContext(ctx), id)
}

// UpdateRecipe merges the non-nil fields of req into the recipe. Only the
// author may update it.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var updated *models.Recipe
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		recipe, err := lockOwnedRecipe(tx, id, userID)
		if err != nil {
			return err
		}

		if err := applyUpdate(recipe, req); err != nil {
			return err
		}
		if err := recipe.Validate(); err != nil {
			return types.NewValidationError("%s", err.Error())
		}

		if err := tx.Model(recipe).Select(editableColumns).Updates(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		updated = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRecipe permanently removes a recipe together with its comments and
// reactions. Only the author may delete it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := lockOwnedRecipe(tx, id, userID); err != nil {
			return err
		}

		for _, model := range []interface{}{&models.Like{}, &models.Collect{}, &models.Rating{}, &models.Comment{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependents: %w", err)
			}
		}

		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NewNotFoundError("recipe")
		}
		return nil
	})
}

// ListRecipes returns one page of recipes matching q and the total match count
func (s *RecipeService) ListRecipes(ctx context.Context, q types.RecipeListQuery) ([]models.Recipe, int64, error) {
	base, err := s.filtered(s.db.WithContext(ctx).Model(&models.Recipe{}), q)
	if err != nil {
		return nil, 0, err
	}
	return s.page(base, q, sortOrders[normalizeSort(q.Sort)])
}

// ListCollected returns the recipes userID collected, most recent first
func (s *RecipeService) ListCollected(ctx context.Context, userID uuid.UUID, q types.RecipeListQuery) ([]models.Recipe, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN collects ON collects.recipe_id = recipes.id").
		Where("collects.user_id = ?", userID)
	return s.page(base, q, "collects.created_at DESC, recipes.id DESC")
}

// SetCoverImage replaces the recipe's cover image
func (s *RecipeService) SetCoverImage(ctx context.Context, id, userID uuid.UUID, imageURL string) (*models.Recipe, error) {
	if !models.IsImageURL(imageURL) {
		return nil, types.NewValidationError("imageUrl must be an http(s) URL")
	}

	var updated *models.Recipe
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		recipe, err := lockOwnedRecipe(tx, id, userID)
		if err != nil {
			return err
		}
		recipe.CoverImage = &imageURL
		if err := tx.Model(recipe).Update("cover_image", imageURL).Error; err != nil {
			return fmt.Errorf("failed to update cover image: %w", err)
		}
		updated = recipe
		return nil
	})
	return updated, err
}

// SetStepImage attaches an image to the step at stepIndex
func (s *RecipeService) SetStepImage(ctx context.Context, id, userID uuid.UUID, stepIndex int, imageURL string) (*models.Recipe, error) {
	if !models.IsImageURL(imageURL) {
		return nil, types.NewValidationError("imageUrl must be an http(s) URL")
	}

	var updated *models.Recipe
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		recipe, err := lockOwnedRecipe(tx, id, userID)
		if err != nil {
			return err
		}
		if stepIndex < 0 || stepIndex >= len(recipe.Steps) {
			return types.NewValidationError("invalid step index")
		}

		steps := make(models.JSONList[models.Step], len(recipe.Steps))
		copy(steps, recipe.Steps)
		steps[stepIndex].Image = &imageURL
		recipe.Steps = steps

		if err := tx.Model(recipe).Update("steps", steps).Error; err != nil {
			return fmt.Errorf("failed to update step image: %w", err)
		}
		updated = recipe
		return nil
	})
	return updated, err
}

func (s *RecipeService) filtered(query *gorm.DB, q types.RecipeListQuery) (*gorm.DB, error) {
	season, err := models.ParseSeason(q.Season)
	if err != nil {
		return nil, types.NewValidationError("%s", err.Error())
	}
	if season != nil {
		query = query.Where("recipes.season = ?", *season)
	}

	if q.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *q.AuthorID)
	}

	if term := strings.ToLower(strings.TrimSpace(q.Query)); term != "" {
		like := "%" + likeEscaper.Replace(term) + "%"
		query = query.Where(`(LOWER(recipes.title) LIKE ? ESCAPE '\' OR LOWER(recipes.author_username) LIKE ? ESCAPE '\')`, like, like)
	}

	if tag := strings.TrimSpace(q.Tag); tag != "" {
		if s.db.Dialector.Name() == "postgres" {
			encoded, err := json.Marshal([]string{tag})
			if err != nil {
				return nil, err
			}
			query = query.Where("recipes.tags @> ?::jsonb", string(encoded))
		} else {
			query = query.Where("EXISTS (SELECT 1 FROM json_each(recipes.tags) WHERE json_each.value = ?)", tag)
		}
	}

	return query, nil
}

func (s *RecipeService) page(base *gorm.DB, q types.RecipeListQuery, order string) ([]models.Recipe, int64, error) {
	q.Normalize()
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	recipes := []models.Recipe{}
	if err := base.Select("recipes.*").
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

func findRecipe(db *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NewNotFoundError("recipe")
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// lockOwnedRecipe loads the recipe for update and checks that userID wrote it
func lockOwnedRecipe(tx *gorm.DB, id, userID uuid.UUID) (*models.Recipe, error) {
	recipe, err := findRecipe(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
	if err != nil {
		return nil, err
	}
	if recipe.Author.ID != userID {
		return nil, types.NewForbiddenError("only the author can modify this recipe")
	}
	return recipe, nil
}

func applyUpdate(recipe *models.Recipe, req *types.UpdateRecipeRequest) error {
	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.CoverImage != nil {
		recipe.CoverImage = optionalString(*req.CoverImage)
	}
	applyMetadata(&recipe.Metadata, req.Metadata)
	if req.Tags != nil {
		recipe.Tags = cleanTags(*req.Tags)
	}
	if req.SafetyLevel != nil {
		recipe.SafetyLevel = strings.TrimSpace(*req.SafetyLevel)
	}
	if req.Materials != nil {
		recipe.Materials = materialsFromInput(*req.Materials)
	}
	if req.Steps != nil {
		recipe.Steps = stepsFromInput(*req.Steps)
	}
	if req.Season != nil {
		season, err := models.ParseSeason(*req.Season)
		if err != nil {
			return types.NewValidationError("%s", err.Error())
		}
		recipe.Season = season
	}
	recipe.ApplyDefaults()
	return nil
}

func applyMetadata(meta *models.RecipeMetadata, in *types.RecipeMetadataInput) {
	if in == nil {
		return
	}
	if in.CookingTime != nil {
		meta.CookingTime = *in.CookingTime
	}
	if v := strings.TrimSpace(in.Difficulty); v != "" {
		meta.Difficulty = v
	}
	if v := strings.TrimSpace(in.CostLevel); v != "" {
		meta.CostLevel = v
	}
	if v := strings.TrimSpace(in.Servings); v != "" {
		meta.Servings = v
	}
}

func cleanTags(tags []string) models.JSONList[string] {
	out := models.JSONList[string]{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func materialsFromInput(in []types.MaterialInput) models.JSONList[models.Material] {
	out := make(models.JSONList[models.Material], 0, len(in))
	for _, m := range in {
		out = append(out, models.Material{
			Name:   strings.TrimSpace(m.Name),
			Amount: strings.TrimSpace(m.Amount),
		})
	}
	return out
}

func stepsFromInput(in []types.StepInput) models.JSONList[models.Step] {
	out := make(models.JSONList[models.Step], 0, len(in))
	for _, st := range in {
		step := models.Step{Description: strings.TrimSpace(st.Description)}
		if st.Image != nil {
			step.Image = optionalString(*st.Image)
		}
		out = append(out, step)
	}
	return out
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeSort(sort string) string {
	if _, ok := sortOrders[sort]; ok {
		return sort
	}
	return SortNewest
}
