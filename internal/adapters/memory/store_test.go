package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalist/backend/internal/adapters/memory"
	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/repositories"
)

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Accounts()

	saved, err := repo.Save(ctx, &entities.Account{ID: "a1", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "a1", saved.ID)

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestStore_SaveGeneratesMissingID(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Amenities()

	saved, err := repo.Save(ctx, &entities.Amenity{Name: "Wi-Fi"})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Wi-Fi", got.Name)
}

func TestStore_GetAbsentIsNilNotError(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Listings()

	got, err := repo.GetByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveReplacesExisting(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Amenities()

	_, err := repo.Save(ctx, &entities.Amenity{ID: "am1", Name: "Wifi"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &entities.Amenity{ID: "am1", Name: "Pool"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "am1")
	require.NoError(t, err)
	assert.Equal(t, "Pool", got.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Reviews()

	for i := 0; i < 5; i++ {
		_, err := repo.Save(ctx, &entities.Review{ID: fmt.Sprintf("r%d", i), Text: "ok"})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, review := range all {
		assert.Equal(t, fmt.Sprintf("r%d", i), review.ID)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Reviews()

	_, err := repo.Save(ctx, &entities.Review{ID: "r1", Text: "ok"})
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)

	removed, err = repo.Delete(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_FindByField(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.Accounts()

	_, err := repo.Save(ctx, &entities.Account{ID: "a1", Email: "first@x.com"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &entities.Account{ID: "a2", Email: "second@x.com"})
	require.NoError(t, err)

	finder, ok := repo.(repositories.AccountFieldFinder)
	require.True(t, ok)

	found, err := finder.FindByField(ctx, "email", "second@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a2", found.ID)

	missing, err := finder.FindByField(ctx, "email", "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ReturnedEntitiesAreDetached(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Listings()

	lat := 37.7
	_, err := repo.Save(ctx, &entities.Listing{ID: "l1", Name: "Loft", Latitude: &lat, AmenityIDs: []string{"am1"}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	got.Name = "Mutated"
	*got.Latitude = -10
	got.AmenityIDs[0] = "other"

	fresh, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Loft", fresh.Name)
	assert.Equal(t, 37.7, *fresh.Latitude)
	assert.Equal(t, []string{"am1"}, fresh.AmenityIDs)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.Reviews()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("g%d-r%d", g, i)
				if _, err := repo.Save(ctx, &entities.Review{ID: id, Text: "ok"}); err != nil {
					t.Error(err)
					return
				}
				if _, err := repo.GetByID(ctx, id); err != nil {
					t.Error(err)
					return
				}
				if _, err := repo.List(ctx); err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8*50)
}
