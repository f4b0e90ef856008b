package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/social-service/internal/adapters/secondary/repository/storetest"
	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "social_test.db"))
	require.NoError(t, err, "open db")
	require.NoError(t, RunMigrations(context.Background(), db), "run migrations")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepository(db)
}

func TestStoreSuite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store {
		return newTestRepository(t)
	})
}

func TestInsertInteractionRejectsFollowKind(t *testing.T) {
	repo := newTestRepository(t)
	author := storetest.SeedUser(t, repo, "author")
	post := storetest.SeedPost(t, repo, author)

	err := repo.InsertInteraction(context.Background(), domain.NewEdge(author.ID, post.ID, domain.KindFollow))
	assert.ErrorIs(t, err, domain.ErrInvalidRelationship)
}

func TestForeignKeyFailureKeepsCause(t *testing.T) {
	repo := newTestRepository(t)
	fan := storetest.SeedUser(t, repo, "fan")

	err := repo.InsertInteraction(context.Background(), domain.NewEdge(fan.ID, "missing-post", domain.KindLike))
	require.ErrorIs(t, err, domain.ErrStorageFailure)

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "insert like", storageErr.Op)
	assert.Contains(t, storageErr.Err.Error(), "FOREIGN KEY")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "twice.db"))
	require.NoError(t, err)

	require.NoError(t, RunMigrations(context.Background(), db))
	require.NoError(t, RunMigrations(context.Background(), db))
}
