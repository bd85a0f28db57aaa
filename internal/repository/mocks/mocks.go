package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
)

// DocumentRepository is a mock for document.Repository.
type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Create(ctx context.Context, tenantID string, doc *document.Document) error {
	args := m.Called(ctx, tenantID, doc)
	return args.Error(0)
}

func (m *DocumentRepository) Get(ctx context.Context, tenantID, id string) (*document.Document, error) {
	args := m.Called(ctx, tenantID, id)
	if doc, ok := args.Get(0).(*document.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) List(ctx context.Context, tenantID string) ([]document.DocumentSummary, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]document.DocumentSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ItemRepository is a mock for item.Repository.
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) ReplaceForDocument(ctx context.Context, tenantID, documentID string, items []item.Item) error {
	args := m.Called(ctx, tenantID, documentID, items)
	return args.Error(0)
}

func (m *ItemRepository) Get(ctx context.Context, tenantID, id string) (*item.Item, error) {
	args := m.Called(ctx, tenantID, id)
	if it, ok := args.Get(0).(*item.Item); ok {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) List(ctx context.Context, tenantID string, opts item.ListOptions) ([]item.Item, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]item.Item); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ItemRepository) UpdateStatus(ctx context.Context, tenantID, id string, status item.Status, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, id, status, updatedAt)
	return args.Error(0)
}

// SearchRepository is a mock for item.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, tenantID, documentID, query string, opts item.SearchOptions) ([]item.SearchResult, error) {
	args := m.Called(ctx, tenantID, documentID, query, opts)
	if list, ok := args.Get(0).([]item.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
