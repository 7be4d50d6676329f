package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

func TestMemoryUnitRepositorySemantics(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()

	// Absent unit reads as (nil, nil), not an error.
	doc, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, doc)

	require.NoError(t, repo.Set(ctx, "u1", models.Document{models.FieldID: "u1", "rent": 1200}))

	// Partial update merges fields.
	require.NoError(t, repo.Update(ctx, "u1", models.Document{"rent": 1300, "notes": "call"}))
	doc, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1300, doc["rent"])
	require.Equal(t, "call", doc["notes"])

	// Updating a missing unit is an error, unlike Set.
	err = repo.Update(ctx, "missing", models.Document{"rent": 1})
	require.ErrorIs(t, err, utils.ErrUnitNotFound)
}

func TestMemoryUnitRepositoryReturnsClones(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()
	require.NoError(t, repo.Set(ctx, "u1", models.Document{models.FieldID: "u1", "rent": 1200}))

	doc, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	doc["rent"] = 9999

	again, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1200, again["rent"], "caller mutations must not leak into the store")
}

func TestMemoryUnitRepositoryListIsSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Set(ctx, id, models.Document{models.FieldID: id}))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a", all[0].ID())
	require.Equal(t, "b", all[1].ID())
	require.Equal(t, "c", all[2].ID())
}

func TestMemoryUnitRepositoryDeleteAllPastBatchLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()

	// More documents than one committed batch may hold.
	for i := 0; i < 1203; i++ {
		id := fmt.Sprintf("u%04d", i)
		require.NoError(t, repo.Set(ctx, id, models.Document{models.FieldID: id}))
	}

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1203, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestMemoryFailureRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFailureRepository()

	f := &models.GeocodingFailure{UnitData: models.Document{models.FieldID: "u1"}, Reason: "Geocoding failed"}
	require.NoError(t, repo.Add(ctx, f))
	require.NotEmpty(t, f.ID, "an id is assigned on add")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, f.ID))
	err = repo.Delete(ctx, f.ID)
	require.ErrorIs(t, err, utils.ErrFailureNotFound)
}
