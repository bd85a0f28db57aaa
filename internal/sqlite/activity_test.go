package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/domain/activity"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertDocument(t, db, "d1", "tenant1")

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		DocumentID:   "d1",
		ActivityType: activity.TypeDocumentCreated,
		Summary:      "Created document",
		Details:      `{"id":"d1"}`,
	}
	entry2 := &activity.ActivityEntry{
		DocumentID:   "d1",
		ActivityType: activity.TypeItemsIngested,
		Summary:      "Ingested items",
		Details:      `{"total":3}`,
	}

	require.NoError(t, repo.Log(ctx, "tenant1", entry1))
	require.NoError(t, repo.Log(ctx, "tenant1", entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{DocumentID: "d1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
}

func TestActivityRepository_FiltersAndTenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertDocument(t, db, "d1", "tenant1")

	repo := NewActivityRepository(db)
	itemID := "i1"
	entry := &activity.ActivityEntry{
		DocumentID:   "d1",
		ItemID:       &itemID,
		ActivityType: activity.TypeItemStatusChanged,
		Summary:      "item i1 marked done",
	}
	require.NoError(t, repo.Log(ctx, "tenant1", entry))
	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		DocumentID:   "d1",
		ActivityType: activity.TypeCalendarExported,
		Summary:      "exported calendar",
	}))

	activityType := activity.TypeItemStatusChanged
	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{
		DocumentID:   "d1",
		ItemID:       &itemID,
		ActivityType: &activityType,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ItemID)
	require.Equal(t, "i1", *entries[0].ItemID)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, "tenant2", activity.ListActivityOptions{DocumentID: "d1"})
	require.NoError(t, err)
	require.Len(t, entries, 0)
}
