package item

import (
	"context"
	"time"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
)

// Repository provides persistence for items.
type Repository interface {
	// ReplaceForDocument atomically swaps the item set of a document.
	ReplaceForDocument(ctx context.Context, tenantID, documentID string, items []Item) error
	Get(ctx context.Context, tenantID, id string) (*Item, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Item, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status Status, updatedAt time.Time) error
}

// DocumentRepository loads the document an item batch belongs to.
type DocumentRepository interface {
	Get(ctx context.Context, tenantID, id string) (*document.Document, error)
}

// ActivityRepository receives item activity entries.
type ActivityRepository = activity.Sink

// SearchRepository performs full-text search.
type SearchRepository interface {
	Search(ctx context.Context, tenantID, documentID, query string, opts SearchOptions) ([]SearchResult, error)
}
