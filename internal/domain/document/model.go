package document

import (
	"time"

	"github.com/ganot/docflow/internal/calendar"
)

// SourceType records how the document text reached the system.
type SourceType string

const (
	SourcePDF    SourceType = "pdf"
	SourcePasted SourceType = "pasted"
)

// Document is a regulatory text whose obligations are tracked as items.
type Document struct {
	ID         string         `json:"id"`
	TenantID   string         `json:"tenant_id"`
	Title      string         `json:"title"`
	SourceType SourceType     `json:"source_type"`
	BaseDate   *calendar.Date `json:"base_date,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DocumentSummary is a lightweight representation for listing.
// UnresolvedCount counts items whose relative date could not be resolved.
type DocumentSummary struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	SourceType      SourceType     `json:"source_type"`
	BaseDate        *calendar.Date `json:"base_date,omitempty"`
	ItemCount       int            `json:"item_count"`
	DoneCount       int            `json:"done_count"`
	DatedCount      int            `json:"dated_count"`
	UnresolvedCount int            `json:"unresolved_count"`
	CreatedAt       time.Time      `json:"created_at"`
}
