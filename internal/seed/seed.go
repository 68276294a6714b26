// Package seed loads the sample users and recipes used for local development.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/models"
)

// DefaultPassword is given to every seeded user unless overridden
const DefaultPassword = "password123"

//go:embed data.yaml
var embedded []byte

type Data struct {
	Users   []UserData   `yaml:"users"`
	Recipes []RecipeData `yaml:"recipes"`
}

type UserData struct {
	Username   string `yaml:"username"`
	Email      string `yaml:"email"`
	Level      string `yaml:"level"`
	Experience int    `yaml:"experience"`
}

type RecipeData struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Metadata struct {
		CookingTime int    `yaml:"cookingTime"`
		Difficulty  string `yaml:"difficulty"`
		CostLevel   string `yaml:"costLevel"`
		Servings    string `yaml:"servings"`
	} `yaml:"metadata"`
	Tags        []string          `yaml:"tags"`
	SafetyLevel string            `yaml:"safetyLevel"`
	Materials   []models.Material `yaml:"materials"`
	Steps       []string          `yaml:"steps"`
	Likes       int64             `yaml:"likes"`
	Collects    int64             `yaml:"collects"`
	Rating      float64           `yaml:"rating"`
	RatingCount int               `yaml:"ratingCount"`
	Season      string            `yaml:"season"`
}

// Options controls a seeding run
type Options struct {
	// Password is hashed for every new user; DefaultPassword when empty
	Password string
	// Reset wipes users, recipes and reactions before seeding
	Reset bool
}

// Result counts the rows a run created
type Result struct {
	Users   int
	Recipes int
}

// Load parses the embedded data set
func Load() (*Data, error) {
	return Parse(embedded)
}

// Parse decodes a data set and checks that every recipe names a known author
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	known := make(map[string]bool, len(data.Users))
	for _, u := range data.Users {
		known[u.Username] = true
	}
	for _, r := range data.Recipes {
		if !known[r.Author] {
			return nil, fmt.Errorf("recipe %q: unknown author %q", r.Title, r.Author)
		}
		if _, err := models.ParseSeason(r.Season); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.Title, err)
		}
	}
	return &data, nil
}

// Run inserts data into db. Users whose email already exists and recipes
// whose author already has one with the same title are left alone, so
// repeated runs are harmless.
func Run(ctx context.Context, db *gorm.DB, data *Data, opts Options, log *slog.Logger) (*Result, error) {
	password := opts.Password
	if password == "" {
		password = DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res := &Result{}
	err = database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if opts.Reset {
			if err := reset(tx); err != nil {
				return err
			}
			log.Info("cleared existing data")
		}

		authors := make(map[string]*models.User, len(data.Users))
		for _, u := range data.Users {
			user, created, err := ensureUser(tx, u, string(hash))
			if err != nil {
				return err
			}
			if created {
				res.Users++
				log.Info("created user", "username", user.Username, "email", user.Email)
			} else {
				log.Info("user already exists, skipping", "email", user.Email)
			}
			authors[u.Username] = user
		}

		for _, r := range data.Recipes {
			created, err := ensureRecipe(tx, r, authors[r.Author])
			if err != nil {
				return err
			}
			if created {
				res.Recipes++
				log.Info("created recipe", "title", r.Title)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func reset(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []interface{}{
		&models.Rating{}, &models.Collect{}, &models.Like{},
		&models.Comment{}, &models.Recipe{}, &models.User{},
	} {
		if err := all.Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", m, err)
		}
	}
	return nil
}

func ensureUser(tx *gorm.DB, u UserData, hash string) (*models.User, bool, error) {
	var existing models.User
	err := tx.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !database.IsNotFound(err) {
		return nil, false, fmt.Errorf("failed to look up %s: %w", u.Email, err)
	}

	user := &models.User{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		Level:        u.Level,
		Experience:   u.Experience,
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", u.Email, err)
	}
	return user, true, nil
}

func ensureRecipe(tx *gorm.DB, r RecipeData, author *models.User) (bool, error) {
	var count int64
	if err := tx.Model(&models.Recipe{}).
		Where("title = ? AND author_id = ?", r.Title, author.ID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up recipe %q: %w", r.Title, err)
	}
	if count > 0 {
		return false, nil
	}

	season, _ := models.ParseSeason(r.Season)
	steps := make(models.JSONList[models.Step], len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = models.Step{Description: s}
	}

	recipe := &models.Recipe{
		Title:  r.Title,
		Author: author.Snapshot(),
		Metadata: models.RecipeMetadata{
			CookingTime: r.Metadata.CookingTime,
			Difficulty:  r.Metadata.Difficulty,
			CostLevel:   r.Metadata.CostLevel,
			Servings:    r.Metadata.Servings,
		},
		Tags:        r.Tags,
		SafetyLevel: r.SafetyLevel,
		Materials:   r.Materials,
		Steps:       steps,
		Likes:       r.Likes,
		Collects:    r.Collects,
		Rating:      r.Rating,
		RatingCount: r.RatingCount,
		Season:      season,
	}
	if err := recipe.Validate(); err != nil {
		return false, fmt.Errorf("recipe %q: %w", r.Title, err)
	}
	if err := tx.Create(recipe).Error; err != nil {
		return false, fmt.Errorf("failed to create recipe %q: %w", r.Title, err)
	}
	return true, nil
}
