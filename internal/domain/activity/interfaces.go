package activity

import "context"

// Sink records activity entries. The document and item services write to it.
type Sink interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
}

// Repository persists and queries the activity log.
type Repository interface {
	Sink
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}
