// Package events projects resolved items into the ordered list of calendar
// events shown on a document timeline and written to calendar exports.
package events

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/relative"
	"github.com/ganot/docflow/internal/textnorm"
)

// Kind distinguishes deadlines from synthetic window openings.
type Kind string

const (
	KindDeadline    Kind = "deadline"
	KindWindowStart Kind = "window_start"
)

const (
	untitled          = "Sem titulo"
	windowStartSuffix = "-window-start"
)

var windowCue = regexp.MustCompile(`\bate\s+\d{1,3}\s*(dias?|d|horas?|h)\s*(uteis|corridos)?\s*(apos|a partir de|depois de|contados?)`)

// Event is a dated entry of a document timeline.
type Event struct {
	ID           string              `json:"id"`
	SourceItemID string              `json:"source_item_id"`
	Kind         Kind                `json:"event_kind"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      calendar.Date       `json:"due_date"`
	DueDateRaw   string              `json:"due_date_raw,omitempty"`
	Evidence     string              `json:"evidence_snippet"`
	Conditional  bool                `json:"conditional"`
	Confidence   relative.Confidence `json:"confidence"`
}

// Build resolves items against each other and base, then projects them.
func Build(items []relative.Item, base *calendar.Date) []Event {
	return Project(relative.Resolve(items, base).Items)
}

// Project turns already resolved items into events. Items without a due date
// produce nothing; window rules whose window opens before the deadline also
// produce a window_start event. The result is sorted by date, with window
// openings before deadlines on the same day and then by title.
func Project(items []relative.Resolved) []Event {
	out := make([]Event, 0, len(items))
	for _, it := range items {
		if it.Due == nil {
			continue
		}

		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = untitled
		}
		deadline := Event{
			ID:           it.ID,
			SourceItemID: it.ID,
			Kind:         KindDeadline,
			Title:        title,
			Description:  strings.TrimSpace(it.Description),
			DueDate:      *it.Due,
			DueDateRaw:   it.DueDateRaw,
			Evidence:     strings.TrimSpace(it.Evidence),
			Conditional:  it.Conditional,
			Confidence:   it.Confidence.OrMedium(),
		}
		out = append(out, deadline)

		if it.WindowStart == nil || *it.WindowStart == *it.Due || !IsWindowRule(it.DueDateRaw) {
			continue
		}
		start := deadline
		start.ID = it.ID + windowStartSuffix
		start.Kind = KindWindowStart
		start.Title = "Inicio do prazo: " + title
		start.Description = fmt.Sprintf("Prazo aberto em %s e encerramento em %s.", it.WindowStart.Label(), it.Due.Label())
		start.DueDate = *it.WindowStart
		out = append(out, start)
	}

	slices.SortStableFunc(out, compare)
	return out
}

// IsWindowRule reports whether a date phrase reads "ate N unidades apos ...".
func IsWindowRule(raw string) bool {
	return windowCue.MatchString(textnorm.Normalize(raw))
}

func compare(a, b Event) int {
	if c := a.DueDate.Compare(b.DueDate); c != 0 {
		return c
	}
	if a.Kind != b.Kind {
		if a.Kind == KindWindowStart {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Title, b.Title)
}
