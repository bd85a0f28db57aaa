// Package relative resolves Portuguese relative-date expressions ("ate 10
// dias uteis apos a publicacao do resultado") against the other items of a
// document and computes the calendar dates they describe.
package relative

import "github.com/ganot/docflow/internal/calendar"

// Unit is the granularity of a relative offset.
type Unit string

const (
	UnitDays         Unit = "days"
	UnitBusinessDays Unit = "business_days"
	UnitHours        Unit = "hours"
)

// Rule is the shape of a relative expression.
type Rule string

const (
	RuleNone        Rule = ""
	RuleWindowAfter Rule = "window_after"
	RuleAfter       Rule = "after"
	RuleBefore      Rule = "before"
)

// Source records how a resolved item obtained its due date.
type Source string

const (
	SourceNone         Source = "none"
	SourceExplicitDate Source = "explicit_date"
	SourceAnchorItem   Source = "anchor_item"
	SourceBaseDate     Source = "base_date"
	SourceUnresolved   Source = "unresolved"
)

// Confidence is the certainty attached to an extracted item.
type Confidence string

const (
	ConfidenceHigh      Confidence = "high"
	ConfidenceMedium    Confidence = "medium"
	ConfidenceLow       Confidence = "low"
	ConfidenceUncertain Confidence = "uncertain"
)

// Valid reports whether c is one of the recognized levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceUncertain:
		return true
	}
	return false
}

// OrMedium returns c, or medium when c is not a recognized level.
func (c Confidence) OrMedium() Confidence {
	if c.Valid() {
		return c
	}
	return ConfidenceMedium
}

// Instruction is a parsed relative expression.
type Instruction struct {
	Amount     int
	Unit       Unit
	Rule       Rule
	AnchorText string
}

// Apply moves anchor by the instruction's offset. Before rules count
// backwards; every other rule counts forwards.
func (in Instruction) Apply(anchor calendar.Date) calendar.Date {
	amount := in.Amount
	if in.Rule == RuleBefore {
		amount = -amount
	}

	switch in.Unit {
	case UnitHours:
		return anchor.AddHours(amount)
	case UnitBusinessDays:
		return anchor.AddBusinessDays(amount)
	default:
		return anchor.AddDays(amount)
	}
}

// Item is the engine input. DueDate holds the absolute date as written
// (ISO or DD/MM/YYYY); DueDateRaw holds the free-text date phrase.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Evidence    string     `json:"evidence_snippet,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	DueDateRaw  string     `json:"due_date_raw,omitempty"`
	Conditional bool       `json:"conditional"`
	Confidence  Confidence `json:"confidence"`
}

// Resolved is an Item enriched with its resolution outcome. Due shadows the
// embedded Item.DueDate when encoded as JSON.
//
// Due is nil only when no date could be derived; Source is never
// SourceUnresolved while Due is set.
type Resolved struct {
	Item
	Due         *calendar.Date `json:"due_date"`
	Rule        Rule           `json:"relative_rule,omitempty"`
	AnchorText  string         `json:"relative_anchor_text,omitempty"`
	WindowStart *calendar.Date `json:"relative_window_start_date,omitempty"`
	Source      Source         `json:"relative_source"`
}
