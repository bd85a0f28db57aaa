package document

import (
	"context"

	"github.com/ganot/docflow/internal/domain/activity"
)

// Repository provides persistence for documents.
type Repository interface {
	Create(ctx context.Context, tenantID string, doc *Document) error
	Get(ctx context.Context, tenantID, id string) (*Document, error)
	List(ctx context.Context, tenantID string) ([]DocumentSummary, error)
}

// ActivityRepository receives document activity entries.
type ActivityRepository = activity.Sink
