package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/repository/mocks"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		DocumentID:   "doc1",
		ActivityType: activity.TypeItemsIngested,
		Summary:      "ingested 3 items",
	}

	repo.On("Log", ctx, tenantID, entry).Return(nil)
	repo.On("List", ctx, tenantID, activity.ListActivityOptions{DocumentID: "doc1", Limit: 50}).
		Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, tenantID, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, tenantID, activity.ListActivityOptions{DocumentID: "doc1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogRejectsIncompleteEntries(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)

	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", &activity.ActivityEntry{
		ActivityType: activity.TypeDocumentCreated,
	}), activity.ErrInvalidInput)
}

func TestActivityService_LogWrapsRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	err := svc.Log(ctx, "tenant1", &activity.ActivityEntry{
		DocumentID:   "doc1",
		ActivityType: activity.TypeCalendarExported,
	})
	require.ErrorContains(t, err, "logging activity: disk full")
}

func TestDetails(t *testing.T) {
	require.JSONEq(t, `{"status":"done"}`, activity.Details(map[string]string{"status": "done"}))
}
