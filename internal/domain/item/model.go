package item

import (
	"time"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/relative"
)

// Type classifies an extracted obligation.
type Type string

const (
	TypeTask        Type = "task"
	TypeDeadline    Type = "deadline"
	TypeRequiredDoc Type = "required_doc"
	TypeWarning     Type = "warning"
)

// Status is the checklist state of an item.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Draft is an item as supplied by the extraction step, before validation.
type Draft struct {
	ID              string              `json:"id"`
	Type            Type                `json:"type"`
	Title           string              `json:"title"`
	Description     string              `json:"description,omitempty"`
	DueDate         string              `json:"due_date,omitempty"`
	DueDateRaw      string              `json:"due_date_raw,omitempty"`
	Conditional     bool                `json:"conditional,omitempty"`
	Dependencies    []string            `json:"dependencies,omitempty"`
	EvidenceSnippet string              `json:"evidence_snippet"`
	EvidenceRef     string              `json:"evidence_ref,omitempty"`
	Confidence      relative.Confidence `json:"confidence"`
}

// Item is a validated, date-resolved obligation of a document.
type Item struct {
	ID                  string              `json:"id"`
	TenantID            string              `json:"tenant_id,omitempty"`
	DocumentID          string              `json:"document_id,omitempty"`
	Type                Type                `json:"type"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	DueDate             *calendar.Date      `json:"due_date"`
	DueDateRaw          string              `json:"due_date_raw,omitempty"`
	Conditional         bool                `json:"conditional"`
	Dependencies        []string            `json:"dependencies"`
	EvidenceSnippet     string              `json:"evidence_snippet"`
	EvidenceRef         string              `json:"evidence_ref,omitempty"`
	Confidence          relative.Confidence `json:"confidence"`
	Status              Status              `json:"status"`
	RelativeRule        relative.Rule       `json:"relative_rule,omitempty"`
	RelativeAnchorText  string              `json:"relative_anchor_text,omitempty"`
	RelativeWindowStart *calendar.Date      `json:"relative_window_start_date,omitempty"`
	RelativeSource      relative.Source     `json:"relative_source"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ItemRef is a lightweight reference to an item
type ItemRef struct {
	ID         string              `json:"id"`
	DocumentID string              `json:"document_id"`
	Type       Type                `json:"type"`
	Title      string              `json:"title"`
	DueDate    *calendar.Date      `json:"due_date"`
	Status     Status              `json:"status"`
	Confidence relative.Confidence `json:"confidence"`
}

// SearchResult represents a search hit with relevance
type SearchResult struct {
	Item    ItemRef `json:"item"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet,omitempty"`
}

// Ref returns the lightweight reference of it.
func (it Item) Ref() ItemRef {
	return ItemRef{
		ID:         it.ID,
		DocumentID: it.DocumentID,
		Type:       it.Type,
		Title:      it.Title,
		DueDate:    it.DueDate,
		Status:     it.Status,
		Confidence: it.Confidence,
	}
}

// Draft converts it back into extraction input, keeping the resolved date.
func (it Item) Draft() Draft {
	d := Draft{
		ID:              it.ID,
		Type:            it.Type,
		Title:           it.Title,
		Description:     it.Description,
		DueDateRaw:      it.DueDateRaw,
		Conditional:     it.Conditional,
		Dependencies:    append([]string(nil), it.Dependencies...),
		EvidenceSnippet: it.EvidenceSnippet,
		EvidenceRef:     it.EvidenceRef,
		Confidence:      it.Confidence,
	}
	if it.DueDate != nil {
		d.DueDate = it.DueDate.String()
	}
	return d
}

// Resolved exposes the stored resolution of it to the event projector.
func (it Item) Resolved() relative.Resolved {
	r := relative.Resolved{
		Item: relative.Item{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Evidence:    it.EvidenceSnippet,
			DueDateRaw:  it.DueDateRaw,
			Conditional: it.Conditional,
			Confidence:  it.Confidence,
		},
		Due:         it.DueDate,
		Rule:        it.RelativeRule,
		AnchorText:  it.RelativeAnchorText,
		WindowStart: it.RelativeWindowStart,
		Source:      it.RelativeSource,
	}
	if it.DueDate != nil {
		r.Item.DueDate = it.DueDate.String()
	}
	return r
}
