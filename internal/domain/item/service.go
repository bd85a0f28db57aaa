package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/events"
	"github.com/ganot/docflow/internal/relative"
	"github.com/ganot/docflow/internal/repository"
)

// Service handles item business logic.
type Service struct {
	items      Repository
	documents  DocumentRepository
	activities ActivityRepository
	search     SearchRepository
	logger     *slog.Logger
}

// NewService creates a new item service.
func NewService(
	items Repository,
	documents DocumentRepository,
	activities ActivityRepository,
	search SearchRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		items:      items,
		documents:  documents,
		activities: activities,
		search:     search,
		logger:     logger,
	}
}

// IngestRequest carries an extraction batch for one document.
type IngestRequest struct {
	DocumentID string
	Drafts     []Draft
}

// IngestSummary reports how the dates of an ingested batch were obtained.
// NeedsBaseDate is set when a relative date stayed unresolved, which a
// document base date may fix.
type IngestSummary struct {
	Total         int  `json:"total"`
	Dated         int  `json:"dated"`
	Explicit      int  `json:"explicit"`
	Anchored      int  `json:"anchored"`
	FromBase      int  `json:"from_base_date"`
	Unresolved    int  `json:"unresolved"`
	Conditional   int  `json:"conditional"`
	Passes        int  `json:"passes"`
	NeedsBaseDate bool `json:"needs_base_date"`
}

// IngestResult is the outcome of Ingest.
type IngestResult struct {
	Items   []Item        `json:"items"`
	Summary IngestSummary `json:"summary"`
}

// Ingest validates and normalizes an extraction batch and replaces the
// document's items with it. Upstream ids are only used to keep the batch
// coherent; stored items get fresh ids.
func (s *Service) Ingest(ctx context.Context, tenantID string, req IngestRequest) (*IngestResult, error) {
	doc, err := s.loadDocument(ctx, tenantID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := ValidateDrafts(req.Drafts); err != nil {
		return nil, err
	}

	items, res := normalize(req.Drafts, doc.BaseDate)

	now := time.Now()
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].TenantID = tenantID
		items[i].DocumentID = doc.ID
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}

	if err := s.items.ReplaceForDocument(ctx, tenantID, doc.ID, items); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("storing items: %w", err)
	}

	summary := summarize(items, res.Passes)
	if s.activities != nil {
		_ = s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
			DocumentID:   doc.ID,
			ActivityType: activity.TypeItemsIngested,
			Summary:      fmt.Sprintf("ingested %d items", summary.Total),
			Details:      activity.Details(summary),
		})
	}
	if s.logger != nil {
		s.logger.Info("items ingested",
			"document", doc.ID,
			"items", summary.Total,
			"resolved", summary.Anchored+summary.FromBase,
			"unresolved", summary.Unresolved,
			"passes", summary.Passes,
		)
	}

	return &IngestResult{Items: items, Summary: summary}, nil
}

// Get returns an item by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Item, error) {
	it, err := s.items.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// List returns items based on options, ordered by due date.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Item, error) {
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.items.List(ctx, tenantID, opts)
}

// SetStatus marks an item pending or done.
func (s *Service) SetStatus(ctx context.Context, tenantID, id string, status Status) (*Item, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	updated := *current
	updated.Status = status
	updated.UpdatedAt = time.Now()

	if err := s.items.UpdateStatus(ctx, tenantID, id, status, updated.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("updating item status: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
			DocumentID:   updated.DocumentID,
			ItemID:       &updated.ID,
			ActivityType: activity.TypeItemStatusChanged,
			Summary:      fmt.Sprintf("item %s marked %s", updated.ID, status),
			Details:      activity.Details(map[string]Status{"from": current.Status, "to": status}),
		})
	}

	return &updated, nil
}

// Search runs full-text search over the items of a document. An empty
// documentID searches every document of the tenant.
func (s *Service) Search(ctx context.Context, tenantID, documentID, query string, opts SearchOptions) ([]SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search repository not configured")
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	return s.search.Search(ctx, tenantID, documentID, query, opts)
}

// Timeline projects the stored items of a document into ordered events.
func (s *Service) Timeline(ctx context.Context, tenantID, documentID string) (*document.Document, []events.Event, error) {
	doc, err := s.loadDocument(ctx, tenantID, documentID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.items.List(ctx, tenantID, ListOptions{DocumentID: doc.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("listing items: %w", err)
	}

	return doc, Events(items), nil
}

// Events projects already resolved items into timeline events.
func Events(items []Item) []events.Event {
	resolved := make([]relative.Resolved, len(items))
	for i, it := range items {
		resolved[i] = it.Resolved()
	}
	return events.Project(resolved)
}

// Resolve validates and normalizes a batch without storing it.
func Resolve(drafts []Draft, base *calendar.Date) ([]Item, IngestSummary, error) {
	if err := ValidateDrafts(drafts); err != nil {
		return nil, IngestSummary{}, err
	}
	items, res := normalize(drafts, base)
	return items, summarize(items, res.Passes), nil
}

// Checklist returns a document with its items in checklist order.
func (s *Service) Checklist(ctx context.Context, tenantID, documentID string) (*document.Document, []Item, error) {
	doc, err := s.loadDocument(ctx, tenantID, documentID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.List(ctx, tenantID, ListOptions{DocumentID: doc.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("listing items: %w", err)
	}
	return doc, items, nil
}

// RecordExport logs that a document was exported in the given format.
func (s *Service) RecordExport(ctx context.Context, tenantID, documentID string, kind activity.ActivityType, count int) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
		DocumentID:   documentID,
		ActivityType: kind,
		Summary:      fmt.Sprintf("exported %d entries", count),
	})
}

func (s *Service) loadDocument(ctx context.Context, tenantID, documentID string) (*document.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document_id is required", ErrInvalidInput)
	}
	doc, err := s.documents.Get(ctx, tenantID, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, document.ErrDocumentNotFound) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return doc, nil
}

func summarize(items []Item, passes int) IngestSummary {
	sum := IngestSummary{Total: len(items), Passes: passes}
	for _, it := range items {
		if it.DueDate != nil {
			sum.Dated++
		}
		if it.Conditional {
			sum.Conditional++
		}
		switch it.RelativeSource {
		case relative.SourceExplicitDate:
			sum.Explicit++
		case relative.SourceAnchorItem:
			sum.Anchored++
		case relative.SourceBaseDate:
			sum.FromBase++
		case relative.SourceUnresolved:
			sum.Unresolved++
			if it.DueDateRaw != "" && it.Confidence == relative.ConfidenceUncertain {
				sum.NeedsBaseDate = true
			}
		}
	}
	return sum
}

// ParseBaseDate reads an optional caller-supplied base date.
func ParseBaseDate(s string) (*calendar.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, ok := calendar.Parse(s)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidInput, document.ErrInvalidBaseDate, s)
	}
	return &d, nil
}
