package item

import (
	"strings"
	"unicode/utf8"
)

// MinEvidenceChars is the shortest evidence snippet accepted from extraction.
const MinEvidenceChars = 20

// ValidateDraft checks the fields extraction must always supply.
func ValidateDraft(index int, d Draft) error {
	if strings.TrimSpace(d.ID) == "" {
		return &ValidationError{Index: index, Field: "id", Reason: "is required"}
	}
	if !d.Type.Valid() {
		return &ValidationError{Index: index, Field: "type", Reason: "must be task, deadline, required_doc or warning"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Index: index, Field: "title", Reason: "is required"}
	}
	if utf8.RuneCountInString(d.EvidenceSnippet) < MinEvidenceChars {
		return &ValidationError{Index: index, Field: "evidence_snippet", Reason: "must have at least 20 characters"}
	}
	if !d.Confidence.Valid() {
		return &ValidationError{Index: index, Field: "confidence", Reason: "must be high, medium, low or uncertain"}
	}
	return nil
}

// ValidateDrafts validates a whole batch. Ids must be unique within it.
func ValidateDrafts(drafts []Draft) error {
	if len(drafts) == 0 {
		return &ValidationError{Index: 0, Field: "items", Reason: "must not be empty"}
	}
	seen := make(map[string]struct{}, len(drafts))
	for i, d := range drafts {
		if err := ValidateDraft(i, d); err != nil {
			return err
		}
		if _, dup := seen[d.ID]; dup {
			return &ValidationError{Index: i, Field: "id", Reason: "is duplicated in the batch"}
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

// Valid reports whether t is a known item type.
func (t Type) Valid() bool {
	switch t {
	case TypeTask, TypeDeadline, TypeRequiredDoc, TypeWarning:
		return true
	}
	return false
}

// Valid reports whether s is a known checklist status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}
