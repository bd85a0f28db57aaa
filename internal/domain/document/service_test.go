package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/repository"
	"github.com/ganot/docflow/internal/repository/mocks"
)

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.DocumentRepository{}
	activities := &mocks.ActivityRepository{}
	repo.On("Create", ctx, tenantID, mock.Anything).Return(nil)
	activities.On("Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeDocumentCreated
	})).Return(nil)

	svc := document.NewService(repo, activities, nil)
	doc, err := svc.Create(ctx, tenantID, document.CreateRequest{
		Title:    "  Edital 03/2026  ",
		BaseDate: "15/01/2026",
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	assert.Equal(t, "Edital 03/2026", doc.Title)
	assert.Equal(t, document.SourcePasted, doc.SourceType)
	require.NotNil(t, doc.BaseDate)
	assert.Equal(t, "2026-01-15", doc.BaseDate.String())
	activities.AssertExpectations(t)
}

func TestDocumentService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := document.NewService(&mocks.DocumentRepository{}, nil, nil)

	tests := []struct {
		name string
		req  document.CreateRequest
	}{
		{"short title", document.CreateRequest{Title: "ab"}},
		{"unknown source", document.CreateRequest{Title: "Edital", SourceType: "docx"}},
		{"invalid base date", document.CreateRequest{Title: "Edital", BaseDate: "31/02/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "tenant1", tt.req)
			require.ErrorIs(t, err, document.ErrInvalidInput)
		})
	}
}

func TestDocumentService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.DocumentRepository{}
	repo.On("Get", ctx, "tenant1", "missing").Return((*document.Document)(nil), repository.ErrNotFound)

	svc := document.NewService(repo, nil, nil)
	_, err := svc.Get(ctx, "tenant1", "missing")
	require.ErrorIs(t, err, document.ErrDocumentNotFound)
}
