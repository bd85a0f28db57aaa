package item

import (
	"regexp"
	"strings"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/relative"
	"github.com/ganot/docflow/internal/textnorm"
)

const (
	conditionalNote       = "Possui clausula condicional no texto-fonte."
	unresolvedAnchorNote  = "Referencia temporal nao resolvida automaticamente: "
	unresolvedGenericNote = "Referencia temporal relativa nao resolvida automaticamente."
)

// conditionalTerms mark clauses that make an obligation depend on
// something else. They are matched as whole words of the folded text.
var conditionalTerms = regexp.MustCompile(
	`\b(?:exceto|salvo|conforme|retificado|retificacao|desde que|caso|se|mediante|errata|anexo)\b`,
)

// HasConditionalLanguage reports whether text contains a conditional term.
func HasConditionalLanguage(text string) bool {
	return conditionalTerms.MatchString(textnorm.Normalize(text))
}

// Normalize prepares a validated batch for storage: it flags conditional
// items, resolves relative dates against the batch and base, and adjusts
// confidence and dependency notes according to how each date was obtained.
// Dependency notes are not duplicated when it runs again on its own output.
func Normalize(drafts []Draft, base *calendar.Date) []Item {
	items, _ := normalize(drafts, base)
	return items
}

func normalize(drafts []Draft, base *calendar.Date) ([]Item, relative.Result) {
	prepared := make([]Draft, len(drafts))
	inputs := make([]relative.Item, len(drafts))
	for i, d := range drafts {
		d = withConditionalRules(d)
		prepared[i] = d
		inputs[i] = relative.Item{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Evidence:    d.EvidenceSnippet,
			DueDate:     d.DueDate,
			DueDateRaw:  d.DueDateRaw,
			Conditional: d.Conditional,
			Confidence:  d.Confidence,
		}
	}

	res := relative.Resolve(inputs, base)

	items := make([]Item, len(prepared))
	for i, d := range prepared {
		r := res.Items[i]
		it := Item{
			ID:                  d.ID,
			Type:                d.Type,
			Title:               d.Title,
			Description:         d.Description,
			DueDate:             r.Due,
			DueDateRaw:          r.DueDateRaw,
			Conditional:         d.Conditional,
			Dependencies:        d.Dependencies,
			EvidenceSnippet:     d.EvidenceSnippet,
			EvidenceRef:         d.EvidenceRef,
			Confidence:          d.Confidence,
			Status:              StatusPending,
			RelativeRule:        r.Rule,
			RelativeAnchorText:  r.AnchorText,
			RelativeWindowStart: r.WindowStart,
			RelativeSource:      r.Source,
		}

		if (r.Source == relative.SourceAnchorItem || r.Source == relative.SourceBaseDate) &&
			it.Confidence == relative.ConfidenceUncertain {
			it.Confidence = relative.ConfidenceLow
		}

		if it.DueDate == nil && relative.ContainsExpression(r.Item) {
			it.Confidence = relative.ConfidenceUncertain
			note := unresolvedGenericNote
			if r.AnchorText != "" {
				note = unresolvedAnchorNote + r.AnchorText
			}
			it.Dependencies = appendUnique(it.Dependencies, note)
		}

		items[i] = it
	}
	return items, res
}

func withConditionalRules(d Draft) Draft {
	d.Description = textnorm.Compact(d.Description)
	d.DueDateRaw = textnorm.Compact(d.DueDateRaw)
	d.Dependencies = append([]string{}, d.Dependencies...)
	if HasConditionalLanguage(strings.Join([]string{d.Title, d.Description, d.EvidenceSnippet}, " ")) {
		d.Conditional = true
	}
	if d.Conditional && len(d.Dependencies) == 0 {
		d.Dependencies = []string{conditionalNote}
	}
	return d
}

// appendUnique appends note unless a dependency with the same folded text
// is already present.
func appendUnique(deps []string, note string) []string {
	target := textnorm.Normalize(note)
	for _, dep := range deps {
		if textnorm.Normalize(dep) == target {
			return deps
		}
	}
	return append(deps, note)
}
