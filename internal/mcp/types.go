package mcp

import (
	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/events"
)

type CreateDocumentParams struct {
	Title      string `json:"title" jsonschema:"document title, at least 3 characters"`
	SourceType string `json:"source_type,omitempty" jsonschema:"pdf or pasted (default pasted)"`
	BaseDate   string `json:"base_date,omitempty" jsonschema:"publication date used as fallback anchor, YYYY-MM-DD or DD/MM/YYYY"`
}

type GetDocumentParams struct {
	ID string `json:"id" jsonschema:"document id"`
}

type ListDocumentsParams struct{}

type IngestItemsParams struct {
	DocumentID string       `json:"document_id" jsonschema:"document the items were extracted from"`
	Items      []item.Draft `json:"items" jsonschema:"extracted items; replaces the current items of the document"`
}

type ListItemsParams struct {
	DocumentID string      `json:"document_id,omitempty" jsonschema:"restrict to one document"`
	Status     string      `json:"status,omitempty" jsonschema:"pending or done"`
	Types      []item.Type `json:"types,omitempty" jsonschema:"filter by item types"`
	Limit      int         `json:"limit,omitempty" jsonschema:"maximum number of items"`
	Offset     int         `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type SearchItemsParams struct {
	DocumentID string      `json:"document_id,omitempty" jsonschema:"restrict to one document"`
	Query      string      `json:"query" jsonschema:"words to look for in title, description and evidence"`
	Status     string      `json:"status,omitempty" jsonschema:"pending or done"`
	Types      []item.Type `json:"types,omitempty" jsonschema:"filter by item types"`
	Limit      int         `json:"limit,omitempty" jsonschema:"maximum number of results"`
	Offset     int         `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type SetItemStatusParams struct {
	ID     string `json:"id" jsonschema:"item id"`
	Status string `json:"status" jsonschema:"pending or done"`
}

type GetTimelineParams struct {
	DocumentID string `json:"document_id" jsonschema:"document id"`
}

type ExportCalendarParams struct {
	DocumentID string `json:"document_id" jsonschema:"document id"`
}

type ResolveDatesParams struct {
	Items    []item.Draft `json:"items" jsonschema:"extracted items to resolve"`
	BaseDate string       `json:"base_date,omitempty" jsonschema:"fallback anchor date, YYYY-MM-DD or DD/MM/YYYY"`
}

type BuildEventsParams struct {
	Items    []item.Draft `json:"items" jsonschema:"extracted items to resolve and project"`
	BaseDate string       `json:"base_date,omitempty" jsonschema:"fallback anchor date, YYYY-MM-DD or DD/MM/YYYY"`
}

type GetRecentActivityParams struct {
	DocumentID string  `json:"document_id,omitempty" jsonschema:"document id to filter by"`
	ItemID     *string `json:"item_id,omitempty" jsonschema:"item id to filter by"`
	Type       string  `json:"type,omitempty" jsonschema:"activity type to filter by"`
	Limit      int     `json:"limit,omitempty" jsonschema:"maximum number of entries (default 50)"`
}

type DocumentListResponse struct {
	Documents []document.DocumentSummary `json:"documents"`
}

type DocumentResponse struct {
	Document document.Document `json:"document"`
	Items    []item.Item       `json:"items"`
}

type ItemListResponse struct {
	Items []item.Item `json:"items"`
}

type SearchResponse struct {
	Results []item.SearchResult `json:"results"`
}

type TimelineResponse struct {
	DocumentID string         `json:"document_id"`
	Title      string         `json:"title"`
	Events     []events.Event `json:"events"`
}

type CalendarResponse struct {
	Filename   string `json:"filename"`
	EventCount int    `json:"event_count"`
	Content    string `json:"content"`
}

type ResolveDatesResponse struct {
	Items   []item.Item        `json:"items"`
	Summary item.IngestSummary `json:"summary"`
}

type BuildEventsResponse struct {
	Events []events.Event `json:"events"`
}

type ActivityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}
