package relative

import (
	"strings"
	"unicode/utf8"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/textnorm"
)

// Scoring constants for anchor matching. A candidate's score is the share of
// anchor tokens found in its text plus PhraseBonus when the whole anchor
// phrase appears verbatim.
const (
	// ShortAnchorThreshold applies to anchors of one or two tokens, which
	// need near-total coverage to be trusted.
	ShortAnchorThreshold = 0.45
	// LongAnchorThreshold applies to anchors of three or more tokens.
	LongAnchorThreshold = 0.34
	// PhraseBonus is added when the normalized anchor phrase is a substring
	// of the candidate text.
	PhraseBonus = 0.45

	shortAnchorTokens   = 2
	minPhraseBonusChars = 8
	minTokenChars       = 3
)

var stopWords = map[string]struct{}{
	"a": {}, "ao": {}, "aos": {}, "apos": {}, "as": {}, "ate": {}, "com": {},
	"contados": {}, "corridos": {}, "da": {}, "das": {}, "de": {}, "do": {},
	"dos": {}, "e": {}, "em": {}, "na": {}, "nas": {}, "no": {}, "nos": {},
	"o": {}, "os": {}, "ou": {}, "para": {}, "pela": {}, "pelas": {},
	"pelo": {}, "pelos": {}, "por": {}, "que": {}, "se": {}, "sem": {},
	"uma": {}, "um": {},
}

// genericBaseTerms refer to the document itself, so the base date is a
// reasonable anchor for them.
var genericBaseTerms = map[string]struct{}{
	"edital": {}, "documento": {}, "publicacao": {}, "publicado": {},
	"divulgacao": {}, "divulgado": {},
}

// Candidate is a dated item that a relative expression may point at.
type Candidate struct {
	ID   string
	Date calendar.Date
	// Text is the ForMatch form of title, description, evidence and date
	// phrase.
	Text string
}

// NewCandidate builds the searchable candidate for a dated item.
func NewCandidate(item Item, date calendar.Date) Candidate {
	return Candidate{
		ID:   item.ID,
		Date: date,
		Text: textnorm.ForMatch(strings.Join([]string{item.Title, item.Description, item.Evidence, item.DueDateRaw}, " ")),
	}
}

// Anchor is a resolved anchor date and where it came from.
type Anchor struct {
	Date   calendar.Date
	Source Source
}

// ResolveAnchor finds the date an anchor phrase refers to. It tries, in
// order: a date written in the phrase, the best scoring candidate, the base
// date for generic document references, and a lone candidate for short
// anchors. base may be nil.
func ResolveAnchor(anchorText string, candidates []Candidate, base *calendar.Date) (Anchor, bool) {
	if d, ok := calendar.FirstMention(anchorText); ok {
		return Anchor{Date: d, Source: SourceExplicitDate}, true
	}

	tokens := anchorTokens(anchorText)
	if len(tokens) == 0 {
		if base != nil {
			return Anchor{Date: *base, Source: SourceBaseDate}, true
		}
		return Anchor{}, false
	}

	phrase := textnorm.ForMatch(anchorText)
	if best, ok := bestCandidate(tokens, phrase, candidates); ok {
		threshold := LongAnchorThreshold
		if len(tokens) <= shortAnchorTokens {
			threshold = ShortAnchorThreshold
		}
		if best.score >= threshold && best.hits >= min(shortAnchorTokens, len(tokens)) {
			return Anchor{Date: best.date, Source: SourceAnchorItem}, true
		}
	}

	if base != nil && hasGenericTerm(tokens) {
		return Anchor{Date: *base, Source: SourceBaseDate}, true
	}

	if len(candidates) == 1 && len(tokens) <= shortAnchorTokens {
		return Anchor{Date: candidates[0].Date, Source: SourceAnchorItem}, true
	}

	return Anchor{}, false
}

type scored struct {
	score float64
	hits  int
	date  calendar.Date
}

// bestCandidate returns the highest scoring candidate with at least one hit.
// Ties keep the earlier candidate.
func bestCandidate(tokens []string, phrase string, candidates []Candidate) (scored, bool) {
	var (
		best  scored
		found bool
	)
	for _, c := range candidates {
		hits := 0
		for _, token := range tokens {
			if strings.Contains(c.Text, token) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		score := float64(hits) / float64(len(tokens))
		if utf8.RuneCountInString(phrase) >= minPhraseBonusChars && strings.Contains(c.Text, phrase) {
			score += PhraseBonus
		}
		if !found || score > best.score {
			best = scored{score: score, hits: hits, date: c.Date}
			found = true
		}
	}
	return best, found
}

// anchorTokens returns the distinct significant words of an anchor phrase.
func anchorTokens(anchorText string) []string {
	fields := strings.Fields(textnorm.ForMatch(anchorText))
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenChars || digitsOnlyToken.MatchString(f) {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

func hasGenericTerm(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := genericBaseTerms[t]; ok {
			return true
		}
	}
	return false
}
