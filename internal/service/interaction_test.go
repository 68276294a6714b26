package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/testdb"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

func TestToggleLike(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	recipe := createRecipe(t, db, author, func(r *models.Recipe) { r.Likes = 7 })

	liked, err := svc.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, liked.Active)
	assert.Equal(t, int64(8), liked.Count)

	unliked, err := svc.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Active)
	assert.Equal(t, int64(7), unliked.Count)
	assert.Equal(t, int64(7), reloadRecipe(t, db, recipe.ID).Likes)

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Count(&rows).Error)
	assert.Zero(t, rows)

	_, err = svc.ToggleLike(ctx, fan.ID, uuid.New())
	assert.True(t, types.IsKind(err, types.KindNotFound))
}

func TestToggleLikeNeverGoesNegative(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	recipe := createRecipe(t, db, author)

	// a like row whose increment was lost
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	res, err := svc.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Zero(t, res.Count)
}

func TestToggleLikeConcurrent(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	recipe := createRecipe(t, db, author)

	const fans = 8
	users := make([]*models.User, fans)
	for i := range users {
		users[i] = createUser(t, db, "fan"+uuid.NewString()[:6])
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, id, recipe.ID)
			assert.NoError(t, err)
		}(u.ID)
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.Equal(t, int64(fans), rows)
	assert.Equal(t, rows, reloadRecipe(t, db, recipe.ID).Likes)
}

func TestTogglesRacingDeleteLeaveNoOrphans(t *testing.T) {
	tests := []struct {
		name   string
		toggle func(svc *service.InteractionService, userID, recipeID, commentID uuid.UUID) error
	}{
		{"like", func(svc *service.InteractionService, userID, recipeID, _ uuid.UUID) error {
			_, err := svc.ToggleLike(context.Background(), userID, recipeID)
			return err
		}},
		{"collect", func(svc *service.InteractionService, userID, recipeID, _ uuid.UUID) error {
			_, err := svc.ToggleCollect(context.Background(), userID, recipeID)
			return err
		}},
		{"comment like", func(svc *service.InteractionService, userID, recipeID, commentID uuid.UUID) error {
			_, err := svc.ToggleCommentLike(context.Background(), userID, recipeID, commentID)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testdb.NewSQLite(t)
			svc := service.NewInteractionService(db)
			recipeSvc := service.NewRecipeService(db)
			ctx := context.Background()

			author := createUser(t, db, "chef")
			recipe := createRecipe(t, db, author)
			comment, err := service.NewCommentService(db).AddComment(ctx, author, recipe.ID, &types.CreateCommentRequest{Content: "enjoy"})
			require.NoError(t, err)

			users := make([]*models.User, 8)
			for i := range users {
				users[i] = createUser(t, db, "fan"+uuid.NewString()[:6])
			}

			var wg sync.WaitGroup
			for _, u := range users {
				wg.Add(1)
				go func(id uuid.UUID) {
					defer wg.Done()
					if err := tt.toggle(svc, id, recipe.ID, comment.ID); err != nil {
						assert.True(t, types.IsKind(err, types.KindNotFound), err)
					}
				}(u.ID)
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, recipeSvc.DeleteRecipe(ctx, recipe.ID, author.ID))
			}()
			wg.Wait()

			var likes, collects int64
			require.NoError(t, db.Model(&models.Like{}).Where("recipe_id = ?", recipe.ID).Count(&likes).Error)
			require.NoError(t, db.Model(&models.Collect{}).Where("recipe_id = ?", recipe.ID).Count(&collects).Error)
			assert.Zero(t, likes)
			assert.Zero(t, collects)

			err = tt.toggle(svc, users[0].ID, recipe.ID, comment.ID)
			assert.True(t, types.IsKind(err, types.KindNotFound))
		})
	}
}

func TestToggleCollect(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	recipe := createRecipe(t, db, author)

	res, err := svc.ToggleCollect(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, int64(1), res.Count)

	state, err := svc.ViewerState(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, state.Collected)
	assert.False(t, state.Liked)
	assert.Nil(t, state.Rating)

	res, err = svc.ToggleCollect(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Zero(t, res.Count)
}

func TestToggleCommentLike(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	commentSvc := service.NewCommentService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	recipe := createRecipe(t, db, author)
	otherRecipe := createRecipe(t, db, author)

	comment, err := commentSvc.AddComment(ctx, author, recipe.ID, &types.CreateCommentRequest{Content: "enjoy"})
	require.NoError(t, err)

	// a recipe like and a comment like by the same user coexist
	_, err = svc.ToggleLike(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	res, err := svc.ToggleCommentLike(ctx, fan.ID, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, int64(1), res.Count)
	assert.Equal(t, int64(1), reloadRecipe(t, db, recipe.ID).Likes)

	_, err = svc.ToggleCommentLike(ctx, fan.ID, otherRecipe.ID, comment.ID)
	assert.True(t, types.IsKind(err, types.KindNotFound))

	res, err = svc.ToggleCommentLike(ctx, fan.ID, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Zero(t, res.Count)
}

func TestRate(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	recipe := createRecipe(t, db, author, func(r *models.Recipe) {
		r.Rating = 4.0
		r.RatingCount = 1
	})

	res, err := svc.Rate(ctx, fan.ID, recipe.ID, 5)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, res.Rating, 1e-9)
	assert.Equal(t, 2, res.RatingCount)

	stored := reloadRecipe(t, db, recipe.ID)
	assert.InDelta(t, 4.5, stored.Rating, 1e-9)
	assert.Equal(t, 2, stored.RatingCount)

	t.Run("re-rating replaces the previous vote", func(t *testing.T) {
		res, err := svc.Rate(ctx, fan.ID, recipe.ID, 1)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, res.Rating, 1e-9)
		assert.Equal(t, 2, res.RatingCount)

		state, err := svc.ViewerState(ctx, fan.ID, recipe.ID)
		require.NoError(t, err)
		require.NotNil(t, state.Rating)
		assert.Equal(t, 1, *state.Rating)
	})

	t.Run("out of range", func(t *testing.T) {
		for _, v := range []int{0, 6, -1} {
			_, err := svc.Rate(ctx, fan.ID, recipe.ID, v)
			assert.True(t, types.IsKind(err, types.KindValidation), "value %d", v)
		}
	})

	t.Run("missing recipe", func(t *testing.T) {
		_, err := svc.Rate(ctx, fan.ID, uuid.New(), 3)
		assert.True(t, types.IsKind(err, types.KindNotFound))
	})
}

func TestRateStaysInRange(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewInteractionService(db)
	ctx := context.Background()

	author := createUser(t, db, "chef")
	recipe := createRecipe(t, db, author)

	for i, v := range []int{5, 5, 1, 3, 5, 1, 1} {
		user := createUser(t, db, "rater"+uuid.NewString()[:6])
		res, err := svc.Rate(ctx, user.ID, recipe.ID, v)
		require.NoError(t, err)
		assert.Equal(t, i+1, res.RatingCount)
		assert.GreaterOrEqual(t, res.Rating, 0.0)
		assert.LessOrEqual(t, res.Rating, 5.0)
	}
	assert.InDelta(t, 3.0, reloadRecipe(t, db, recipe.ID).Rating, 1e-9)
}
