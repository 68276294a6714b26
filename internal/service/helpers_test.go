package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/models"
)

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRecipe(t *testing.T, db *gorm.DB, author *models.User, mutate ...func(*models.Recipe)) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:  fmt.Sprintf("recipe %s", uuid.NewString()[:8]),
		Author: author.Snapshot(),
		Steps: models.JSONList[models.Step]{
			{Description: "crack the egg"},
			{Description: "microwave for two minutes"},
		},
	}
	for _, m := range mutate {
		m(recipe)
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func createdAt(ts time.Time) func(*models.Recipe) {
	return func(r *models.Recipe) {
		r.CreatedAt = ts
	}
}

func reloadRecipe(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Recipe {
	t.Helper()
	var recipe models.Recipe
	require.NoError(t, db.First(&recipe, "id = ?", id).Error)
	return &recipe
}
