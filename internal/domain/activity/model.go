package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeDocumentCreated   ActivityType = "document_created"
	TypeItemsIngested     ActivityType = "items_ingested"
	TypeItemStatusChanged ActivityType = "item_status_changed"
	TypeCalendarExported  ActivityType = "calendar_exported"
	TypeChecklistExported ActivityType = "checklist_exported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	DocumentID   string       `json:"document_id"`
	ItemID       *string      `json:"item_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
