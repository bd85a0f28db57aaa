// Package export renders document timelines as iCalendar files and
// checklists as CSV.
package export

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/events"
	"github.com/ganot/docflow/internal/textnorm"
)

const (
	prodID       = "-//DocFlow Actions//MVP//PT-BR"
	uidDomain    = "docflow-actions"
	crlf         = "\r\n"
	lineOctets   = 75
	summaryLimit = 120
	descLimit    = 240
	evidLimit    = 280
	slugLimit    = 64
	defaultSlug  = "documento"
	fallbackName = "Tarefa"
)

var (
	segmentBreak = regexp.MustCompile(`[.!?]\s+|\s+-\s+|\n`)
	compareClean = regexp.MustCompile(`[^\p{L}\p{N} ]`)
	slugClean    = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugDashes   = regexp.MustCompile(`-+`)

	icsEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\r\n", `\n`, "\n", `\n`)
)

// Options controls calendar rendering.
type Options struct {
	// Name is appended to "DocFlow " in the calendar name.
	Name string
	// Now sets DTSTAMP; zero means the current time.
	Now time.Time
}

// Calendar renders events as an RFC 5545 calendar with one all-day VEVENT
// per event. Content lines longer than 75 octets are folded.
func Calendar(evs []events.Event, opts Options) string {
	day := calendar.Today()
	if !opts.Now.IsZero() {
		day = calendar.FromTime(opts.Now)
	}
	stamp := day.Compact() + "T000000Z"

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"X-WR-CALNAME:DocFlow " + escape(opts.Name),
	}
	for _, ev := range evs {
		summary := buildSummary(ev.Title, ev.Description)
		description := buildDescription(summary, ev.Description, ev.Evidence)

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+ev.ID+"@"+uidDomain,
			"DTSTAMP:"+stamp,
			"DTSTART;VALUE=DATE:"+ev.DueDate.Compact(),
			"SUMMARY:"+escape(summary),
		)
		if description != "" {
			lines = append(lines, "DESCRIPTION:"+escape(description))
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(fold(line))
		b.WriteString(crlf)
	}
	return b.String()
}

// fold splits a content line into chunks of at most 75 octets joined by
// CRLF and a single space, never cutting inside a UTF-8 sequence.
func fold(line string) string {
	if len(line) <= lineOctets {
		return line
	}
	var b strings.Builder
	limit := lineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString(crlf + " ")
		line = line[cut:]
		limit = lineOctets - 1
	}
	b.WriteString(line)
	return b.String()
}

// Filename returns the download name for a document calendar.
func Filename(title string) string {
	return "DocFlow-" + slug(title) + ".ics"
}

func slug(title string) string {
	s := textnorm.StripMarks(title)
	s = slugClean.ReplaceAllString(s, " ")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")
	if s == "" {
		return defaultSlug
	}
	if len(s) > slugLimit {
		s = s[:slugLimit]
	}
	return s
}

func escape(s string) string {
	return icsEscaper.Replace(s)
}

func buildSummary(title, description string) string {
	if t := textnorm.Compact(strings.Join(uniqueSegments(title), " - ")); t != "" {
		return truncateAtWord(t, summaryLimit)
	}
	if d := truncateAtWord(textnorm.Compact(strings.Join(uniqueSegments(description), " ")), summaryLimit); d != "" {
		return d
	}
	return fallbackName
}

func buildDescription(summary, description, evidence string) string {
	desc := textnorm.Compact(strings.Join(uniqueSegments(description), " "))
	evid := textnorm.Compact(strings.Join(uniqueSegments(evidence), " "))

	var lines []string
	if desc != "" && !redundant(summary, desc) {
		lines = append(lines, truncateAtWord(desc, descLimit))
	}
	reference := desc
	if reference == "" {
		reference = summary
	}
	if evid != "" && !redundant(reference, evid) {
		lines = append(lines, "Evidencia: "+truncateAtWord(evid, evidLimit))
	}
	return strings.Join(lines, "\n")
}

// uniqueSegments splits s into sentences and dash-separated parts, dropping
// any part whose comparable form repeats, contains or is contained in an
// earlier one.
func uniqueSegments(s string) []string {
	var accepted, keys []string
	for _, seg := range splitSegments(s) {
		seg = textnorm.Compact(seg)
		key := compareKey(seg)
		if key == "" {
			continue
		}
		dup := false
		for _, k := range keys {
			if k == key || strings.Contains(k, key) || strings.Contains(key, k) {
				dup = true
				break
			}
		}
		if !dup {
			accepted = append(accepted, seg)
			keys = append(keys, key)
		}
	}
	return accepted
}

// splitSegments breaks after sentence punctuation, around " - " and at
// newlines. Sentence punctuation stays with its sentence.
func splitSegments(s string) []string {
	var out []string
	last := 0
	for _, loc := range segmentBreak.FindAllStringIndex(s, -1) {
		end := loc[0]
		if c := s[loc[0]]; c == '.' || c == '!' || c == '?' {
			end++
		}
		out = append(out, s[last:end])
		last = loc[1]
	}
	return append(out, s[last:])
}

func compareKey(s string) string {
	return textnorm.Compact(compareClean.ReplaceAllString(textnorm.Fold(s), " "))
}

func redundant(base, candidate string) bool {
	if base == "" || candidate == "" {
		return false
	}
	b, c := compareKey(base), compareKey(candidate)
	return b == c || strings.Contains(b, c) || strings.Contains(c, b)
}

// truncateAtWord cuts s to at most limit runes, backing up to the last
// space, and marks the cut with "...".
func truncateAtWord(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	cut := string([]rune(s)[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
