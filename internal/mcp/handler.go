package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/events"
	"github.com/ganot/docflow/internal/export"
)

// DocumentService defines document operations needed by MCP.
type DocumentService interface {
	Create(ctx context.Context, tenantID string, req document.CreateRequest) (*document.Document, error)
	Get(ctx context.Context, tenantID, id string) (*document.Document, error)
	List(ctx context.Context, tenantID string) ([]document.DocumentSummary, error)
}

// ItemService defines item operations needed by MCP.
type ItemService interface {
	Ingest(ctx context.Context, tenantID string, req item.IngestRequest) (*item.IngestResult, error)
	Get(ctx context.Context, tenantID, id string) (*item.Item, error)
	List(ctx context.Context, tenantID string, opts item.ListOptions) ([]item.Item, error)
	SetStatus(ctx context.Context, tenantID, id string, status item.Status) (*item.Item, error)
	Search(ctx context.Context, tenantID, documentID, query string, opts item.SearchOptions) ([]item.SearchResult, error)
	Timeline(ctx context.Context, tenantID, documentID string) (*document.Document, []events.Event, error)
	RecordExport(ctx context.Context, tenantID, documentID string, kind activity.ActivityType, count int)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP tool calls to domain services. The SDK server and
// the plain JSON-RPC endpoint share it.
type Handler struct {
	documents    DocumentService
	items        ItemService
	activity     ActivityService
	calendarName string
	now          func() time.Time
}

// NewHandler creates a new MCP handler. calendarName overrides the document
// title in exported calendar names when set.
func NewHandler(documents DocumentService, items ItemService, activitySvc ActivityService, calendarName string) *Handler {
	return &Handler{
		documents:    documents,
		items:        items,
		activity:     activitySvc,
		calendarName: calendarName,
		now:          time.Now,
	}
}

// Handle decodes params for the named tool and runs it.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_document":
		var req CreateDocumentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.createDocument(ctx, tenantID, req)
	case "list_documents":
		return h.listDocuments(ctx, tenantID)
	case "get_document":
		var req GetDocumentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getDocument(ctx, tenantID, req)
	case "ingest_items":
		var req IngestItemsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ingestItems(ctx, tenantID, req)
	case "list_items":
		var req ListItemsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.listItems(ctx, tenantID, req)
	case "search_items":
		var req SearchItemsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.searchItems(ctx, tenantID, req)
	case "set_item_status":
		var req SetItemStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.setItemStatus(ctx, tenantID, req)
	case "get_timeline":
		var req GetTimelineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getTimeline(ctx, tenantID, req)
	case "export_calendar":
		var req ExportCalendarParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.exportCalendar(ctx, tenantID, req)
	case "resolve_dates":
		var req ResolveDatesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.resolveDates(req)
	case "build_events":
		var req BuildEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.buildEvents(req)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getRecentActivity(ctx, tenantID, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (h *Handler) createDocument(ctx context.Context, tenantID string, req CreateDocumentParams) (*document.Document, error) {
	doc, err := h.documents.Create(ctx, tenantID, document.CreateRequest{
		Title:      req.Title,
		SourceType: document.SourceType(req.SourceType),
		BaseDate:   req.BaseDate,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return doc, nil
}

func (h *Handler) listDocuments(ctx context.Context, tenantID string) (*DocumentListResponse, error) {
	docs, err := h.documents.List(ctx, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	if docs == nil {
		docs = []document.DocumentSummary{}
	}
	return &DocumentListResponse{Documents: docs}, nil
}

func (h *Handler) getDocument(ctx context.Context, tenantID string, req GetDocumentParams) (*DocumentResponse, error) {
	doc, err := h.documents.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := h.items.List(ctx, tenantID, item.ListOptions{DocumentID: doc.ID})
	if err != nil {
		return nil, mapError(err)
	}
	return &DocumentResponse{Document: *doc, Items: nonNilItems(items)}, nil
}

func (h *Handler) ingestItems(ctx context.Context, tenantID string, req IngestItemsParams) (*item.IngestResult, error) {
	res, err := h.items.Ingest(ctx, tenantID, item.IngestRequest{
		DocumentID: req.DocumentID,
		Drafts:     req.Items,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (h *Handler) listItems(ctx context.Context, tenantID string, req ListItemsParams) (*ItemListResponse, error) {
	items, err := h.items.List(ctx, tenantID, item.ListOptions{
		DocumentID: req.DocumentID,
		Status:     statusFilter(req.Status),
		Types:      req.Types,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &ItemListResponse{Items: nonNilItems(items)}, nil
}

func (h *Handler) searchItems(ctx context.Context, tenantID string, req SearchItemsParams) (*SearchResponse, error) {
	results, err := h.items.Search(ctx, tenantID, req.DocumentID, req.Query, item.SearchOptions{
		Status: statusFilter(req.Status),
		Types:  req.Types,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	if results == nil {
		results = []item.SearchResult{}
	}
	return &SearchResponse{Results: results}, nil
}

func (h *Handler) setItemStatus(ctx context.Context, tenantID string, req SetItemStatusParams) (*item.Item, error) {
	it, err := h.items.SetStatus(ctx, tenantID, req.ID, item.Status(req.Status))
	if err != nil {
		return nil, mapError(err)
	}
	return it, nil
}

func (h *Handler) getTimeline(ctx context.Context, tenantID string, req GetTimelineParams) (*TimelineResponse, error) {
	doc, evs, err := h.items.Timeline(ctx, tenantID, req.DocumentID)
	if err != nil {
		return nil, mapError(err)
	}
	return &TimelineResponse{DocumentID: doc.ID, Title: doc.Title, Events: nonNilEvents(evs)}, nil
}

func (h *Handler) exportCalendar(ctx context.Context, tenantID string, req ExportCalendarParams) (*CalendarResponse, error) {
	doc, evs, err := h.items.Timeline(ctx, tenantID, req.DocumentID)
	if err != nil {
		return nil, mapError(err)
	}

	name := doc.Title
	if h.calendarName != "" {
		name = h.calendarName
	}
	content := export.Calendar(evs, export.Options{Name: name, Now: h.now()})
	h.items.RecordExport(ctx, tenantID, doc.ID, activity.TypeCalendarExported, len(evs))

	return &CalendarResponse{
		Filename:   export.Filename(doc.Title),
		EventCount: len(evs),
		Content:    content,
	}, nil
}

func (h *Handler) resolveDates(req ResolveDatesParams) (*ResolveDatesResponse, error) {
	base, err := item.ParseBaseDate(req.BaseDate)
	if err != nil {
		return nil, mapError(err)
	}
	items, summary, err := item.Resolve(req.Items, base)
	if err != nil {
		return nil, mapError(err)
	}
	return &ResolveDatesResponse{Items: items, Summary: summary}, nil
}

func (h *Handler) buildEvents(req BuildEventsParams) (*BuildEventsResponse, error) {
	base, err := item.ParseBaseDate(req.BaseDate)
	if err != nil {
		return nil, mapError(err)
	}
	items, _, err := item.Resolve(req.Items, base)
	if err != nil {
		return nil, mapError(err)
	}
	return &BuildEventsResponse{Events: nonNilEvents(item.Events(items))}, nil
}

func (h *Handler) getRecentActivity(ctx context.Context, tenantID string, req GetRecentActivityParams) (*ActivityResponse, error) {
	opts := activity.ListActivityOptions{
		DocumentID: req.DocumentID,
		ItemID:     req.ItemID,
		Limit:      req.Limit,
	}
	if req.Type != "" {
		typ := activity.ActivityType(req.Type)
		opts.ActivityType = &typ
	}
	entries, err := h.activity.GetRecentActivity(ctx, tenantID, opts)
	if err != nil {
		return nil, mapError(err)
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	return &ActivityResponse{Entries: entries}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func statusFilter(s string) *item.Status {
	if s == "" {
		return nil
	}
	status := item.Status(s)
	return &status
}

func nonNilItems(items []item.Item) []item.Item {
	if items == nil {
		return []item.Item{}
	}
	return items
}

func nonNilEvents(evs []events.Event) []events.Event {
	if evs == nil {
		return []events.Event{}
	}
	return evs
}
