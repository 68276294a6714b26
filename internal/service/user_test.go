package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/testdb"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

func TestUpdateAvatar(t *testing.T) {
	db := testdb.NewSQLite(t)
	userSvc := service.NewUserService(db)
	ctx := context.Background()

	user := createUser(t, db, "chef")
	recipe := createRecipe(t, db, user)

	updated, err := userSvc.UpdateAvatar(ctx, user.ID, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	require.NotNil(t, updated.Avatar)
	assert.Equal(t, "https://cdn.example.com/a.png", *updated.Avatar)

	// snapshots taken before the change keep the old avatar
	assert.Nil(t, reloadRecipe(t, db, recipe.ID).Author.Avatar)

	_, err = userSvc.UpdateAvatar(ctx, user.ID, "ftp://example.com/a.png")
	assert.True(t, types.IsKind(err, types.KindValidation))

	_, err = userSvc.UpdateAvatar(ctx, uuid.New(), "https://cdn.example.com/a.png")
	assert.True(t, types.IsKind(err, types.KindNotFound))
}

func TestGetProfile(t *testing.T) {
	db := testdb.NewSQLite(t)
	userSvc := service.NewUserService(db)
	user := createUser(t, db, "chef")

	profile, err := userSvc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = userSvc.GetProfile(context.Background(), uuid.New())
	assert.True(t, types.IsKind(err, types.KindNotFound))
}
