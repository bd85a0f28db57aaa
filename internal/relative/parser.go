package relative

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ganot/docflow/internal/textnorm"
)

const (
	offsetPattern = `(\d{1,3})\s*(dias?|d|horas?|h)\s*(uteis|corridos)?\s*`
	afterPattern  = `(?:apos|a\s+partir\s+de|depois\s+de|contados?\s+(?:da|do|de))\s+(.+)`
)

var (
	trailingPunct   = regexp.MustCompile(`[;,.]+$`)
	trailingClause  = regexp.MustCompile(`\s+(?:e|ou)\s+(?:que|quando|se)\b.*$`)
	leadingArticle  = regexp.MustCompile(`^(?:da|do|de|a|o)\s+`)
	digitsOnlyToken = regexp.MustCompile(`^\d+$`)
)

type pattern struct {
	rule Rule
	re   *regexp.Regexp
}

// Patterns are tried in order; the first match decides the rule.
var patterns = []pattern{
	{rule: RuleWindowAfter, re: regexp.MustCompile(`\bate\s+` + offsetPattern + afterPattern)},
	{rule: RuleAfter, re: regexp.MustCompile(offsetPattern + afterPattern)},
	{rule: RuleBefore, re: regexp.MustCompile(offsetPattern + `antes\s+de\s+(.+)`)},
}

// ParseInstruction detects a relative expression in text. The first
// matching pattern wins; a zero amount invalidates the text entirely.
func ParseInstruction(text string) (Instruction, bool) {
	normalized := textnorm.ForMatch(text)
	if normalized == "" {
		return Instruction{}, false
	}

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}

		amount, err := strconv.Atoi(m[1])
		if err != nil || amount <= 0 {
			return Instruction{}, false
		}
		return Instruction{
			Amount:     amount,
			Unit:       parseUnit(m[2], m[3]),
			Rule:       p.rule,
			AnchorText: cleanAnchor(m[4]),
		}, true
	}
	return Instruction{}, false
}

// FindInstruction scans the item's date phrase, description, evidence and
// title in that order and returns the first instruction found.
func FindInstruction(item Item) (Instruction, bool) {
	for _, segment := range sourceSegments(item) {
		if in, ok := ParseInstruction(segment); ok {
			return in, true
		}
	}
	return Instruction{}, false
}

// ContainsExpression reports whether any text field of item holds a
// relative expression.
func ContainsExpression(item Item) bool {
	_, ok := FindInstruction(item)
	return ok
}

func sourceSegments(item Item) []string {
	segments := make([]string, 0, 4)
	for _, s := range []string{item.DueDateRaw, item.Description, item.Evidence, item.Title} {
		if s = textnorm.Compact(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func parseUnit(unit, qualifier string) Unit {
	if strings.HasPrefix(unit, "h") {
		return UnitHours
	}
	if strings.Contains(qualifier, "ute") {
		return UnitBusinessDays
	}
	return UnitDays
}

func cleanAnchor(s string) string {
	s = trailingPunct.ReplaceAllString(s, "")
	s = trailingClause.ReplaceAllString(s, "")
	s = leadingArticle.ReplaceAllString(s, "")
	return textnorm.Compact(s)
}
