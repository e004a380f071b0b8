package repository

import (
	"context"
	"testing"
	"time"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/cache"
	"github.com/olagu/console/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_SaveFind(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(kvstore.NewMemoryStore())

	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	for i := 0; i < 12; i++ {
		id, err := repo.NextID(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, &domain.Post{ID: id, GameID: "G", Status: domain.PostStatusPending}))
	}

	got, err := repo.FindByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 12)
	for i, p := range all {
		assert.Equal(t, int64(i+1), p.ID)
	}
}

func TestPostRepository_FindAllMalformed(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, CollectionPosts, "1", "not an object"))

	_, err := NewPostRepository(store).FindAll(ctx)
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestDonationRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(kvstore.NewMemoryStore())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "b", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "a", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "c", CreatedAt: base.Add(-time.Hour)}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, d := range all {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(cache.NewMemoryService())

	_, err := repo.Find(ctx, "sid")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, repo.Save(ctx, "sid", &domain.StoredCredential{Token: "t", Username: "alice"}, time.Minute))
	got, err := repo.Find(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)

	require.NoError(t, repo.Delete(ctx, "sid"))
	require.NoError(t, repo.Delete(ctx, "sid"))
	_, err = repo.Find(ctx, "sid")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}
