package relative

import (
	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/textnorm"
)

// Result is the outcome of Resolve.
type Result struct {
	// Items holds one entry per input item, in input order.
	Items []Resolved
	// Passes is the number of anchor-matching passes executed. It never
	// exceeds max(1, len(items)).
	Passes int
}

// Unresolved returns the items that carry a relative expression but no date.
func (r Result) Unresolved() []Resolved {
	var out []Resolved
	for _, it := range r.Items {
		if it.Source == SourceUnresolved {
			out = append(out, it)
		}
	}
	return out
}

// Resolve derives a due date for every item it can. Absolute and explicitly
// written dates are taken first; relative expressions are then resolved in
// repeated passes, since an item resolved in one pass may anchor another in
// the next. The loop stops when a pass makes no progress or after
// max(1, len(items)) passes. base is the last-resort anchor and may be nil.
//
// The input slice is not modified.
func Resolve(items []Item, base *calendar.Date) Result {
	resolved := make([]Resolved, len(items))
	pending := make(map[int]struct{})

	for i, item := range items {
		item.DueDateRaw = textnorm.Compact(item.DueDateRaw)
		r := Resolved{Item: item, Source: SourceNone}

		if d, ok := calendar.Parse(item.DueDate); ok {
			r.Due = &d
		} else if d, ok := calendar.FirstMention(item.DueDateRaw); ok {
			r.Due = &d
		}
		if r.Due != nil {
			r.Source = SourceExplicitDate
			r.DueDate = r.Due.String()
		} else {
			r.DueDate = ""
			pending[i] = struct{}{}
		}
		resolved[i] = r
	}

	maxPasses := max(1, len(items))
	passes := 0
	for passes < maxPasses && len(pending) > 0 {
		passes++
		pool := candidatePool(resolved)
		progressed := false

		for i := range resolved {
			if _, ok := pending[i]; !ok {
				continue
			}
			r := &resolved[i]

			in, ok := FindInstruction(r.Item)
			if !ok {
				continue
			}
			r.Rule = in.Rule
			r.AnchorText = in.AnchorText

			anchor, ok := ResolveAnchor(in.AnchorText, pool.except(i), base)
			if !ok {
				r.Source = SourceUnresolved
				continue
			}

			due := in.Apply(anchor.Date)
			r.Due = &due
			r.DueDate = due.String()
			r.Source = anchor.Source
			if in.Rule == RuleWindowAfter {
				start := anchor.Date
				r.WindowStart = &start
			}
			delete(pending, i)
			progressed = true
		}

		if !progressed {
			break
		}
	}

	for i := range pending {
		r := &resolved[i]
		if ContainsExpression(r.Item) {
			r.Source = SourceUnresolved
		}
	}

	return Result{Items: resolved, Passes: passes}
}

type pool struct {
	candidates []Candidate
	owners     []int
}

// candidatePool snapshots every dated item. Items resolved during a pass
// become candidates from the next pass on.
func candidatePool(items []Resolved) pool {
	var p pool
	for i, it := range items {
		if it.Due == nil {
			continue
		}
		p.candidates = append(p.candidates, NewCandidate(it.Item, *it.Due))
		p.owners = append(p.owners, i)
	}
	return p
}

func (p pool) except(index int) []Candidate {
	out := make([]Candidate, 0, len(p.candidates))
	for j, c := range p.candidates {
		if p.owners[j] != index {
			out = append(out, c)
		}
	}
	return out
}
