package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"mallfinder-be/internal/model"
	"mallfinder-be/internal/repository/implementation"
	"mallfinder-be/pkg/database"
	"mallfinder-be/pkg/identity"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedQueryRepositoryPostgres(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, gormDB.AutoMigrate(&model.SavedQuerySet{}))

	repo := implementation.NewSavedQueryRepository(gormDB)
	ctx := context.Background()

	// Fresh user per run so reruns don't collide
	userID := identity.OpaqueID("integration-" + uuid.New().String())
	defer gormDB.Where("user_id = ?", userID).Delete(&model.SavedQuerySet{})

	t.Run("Create assigns sequential ids", func(t *testing.T) {
		idA, err := repo.Create(ctx, userID, "first", []string{"Zara"}, "Springfield")
		require.NoError(t, err)
		assert.Equal(t, 1, idA)

		idB, err := repo.Create(ctx, userID, "second", []string{"Lush"}, "Springfield")
		require.NoError(t, err)
		assert.Equal(t, 2, idB)
	})

	t.Run("Ids stay stable across deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, userID, 1))

		q, err := repo.Get(ctx, userID, 2)
		require.NoError(t, err)
		assert.Equal(t, "second", q.Name)

		idC, err := repo.Create(ctx, userID, "third", nil, "")
		require.NoError(t, err)
		assert.Equal(t, 3, idC)
	})

	t.Run("Mutations round-trip through JSONB", func(t *testing.T) {
		require.NoError(t, repo.Rename(ctx, userID, 2, "renamed"))
		require.NoError(t, repo.ReplaceStores(ctx, userID, 2, []string{"H&M", "Zara"}))

		q, err := repo.Get(ctx, userID, 2)
		require.NoError(t, err)
		assert.Equal(t, "renamed", q.Name)
		assert.Equal(t, []string{"H&M", "Zara"}, q.Stores)
	})
}
