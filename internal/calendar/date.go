// Package calendar provides a timezone-free calendar day and the day,
// business-day and hour arithmetic used to resolve relative deadlines.
package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	isoLayout = "2006-01-02"
	brLayout  = "02/01/2006"
)

var (
	isoExact = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	brExact  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

	isoMention = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	brMention  = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)
)

// Date is a calendar day. All arithmetic happens in UTC so that local
// timezone offsets never move a deadline to a neighbouring day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the normalized date for year, month and day. Out-of-range
// values roll over the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in UTC.
func FromTime(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current UTC calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Label formats d as DD/MM/YYYY.
func (d Date) Label() string {
	return d.Time().Format(brLayout)
}

// Compact formats d as YYYYMMDD.
func (d Date) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	return d.Time().Compare(other.Time())
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts both ISO and
// Brazilian layouts.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, ok := Parse(string(data))
	if !ok {
		return fmt.Errorf("invalid date %q", string(data))
	}
	*d = parsed
	return nil
}

// Parse reads a whole-string date in YYYY-MM-DD or DD/MM/YYYY layout after
// collapsing whitespace. Impossible dates such as 2026-02-30 are rejected.
func Parse(s string) (Date, bool) {
	raw := strings.Join(strings.Fields(s), " ")
	if raw == "" {
		return Date{}, false
	}
	if m := isoExact.FindStringSubmatch(raw); m != nil {
		return fromParts(m[1], m[2], m[3])
	}
	if m := brExact.FindStringSubmatch(raw); m != nil {
		return fromParts(m[3], m[2], m[1])
	}
	return Date{}, false
}

// ParsePtr is Parse for optional fields: unparseable input yields nil.
func ParsePtr(s string) *Date {
	d, ok := Parse(s)
	if !ok {
		return nil
	}
	return &d
}

// Mentions returns every valid date written in s, in ISO or Brazilian
// layout, ordered by position and without repeats.
func Mentions(s string) []Date {
	source := strings.Join(strings.Fields(s), " ")
	if source == "" {
		return nil
	}

	type hit struct {
		index int
		date  Date
	}
	var hits []hit
	for _, loc := range isoMention.FindAllStringSubmatchIndex(source, -1) {
		if d, ok := fromParts(source[loc[2]:loc[3]], source[loc[4]:loc[5]], source[loc[6]:loc[7]]); ok {
			hits = append(hits, hit{index: loc[0], date: d})
		}
	}
	for _, loc := range brMention.FindAllStringSubmatchIndex(source, -1) {
		if d, ok := fromParts(source[loc[6]:loc[7]], source[loc[4]:loc[5]], source[loc[2]:loc[3]]); ok {
			hits = append(hits, hit{index: loc[0], date: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].index < hits[j].index })

	seen := make(map[Date]struct{}, len(hits))
	dates := make([]Date, 0, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.date]; ok {
			continue
		}
		seen[h.date] = struct{}{}
		dates = append(dates, h.date)
	}
	return dates
}

// FirstMention returns the earliest date written in s.
func FirstMention(s string) (Date, bool) {
	dates := Mentions(s)
	if len(dates) == 0 {
		return Date{}, false
	}
	return dates[0], true
}

func fromParts(year, month, day string) (Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Date{}, false
	}
	dd, err := strconv.Atoi(day)
	if err != nil {
		return Date{}, false
	}
	t, err := time.Parse(isoLayout, fmt.Sprintf("%04d-%02d-%02d", y, m, dd))
	if err != nil {
		return Date{}, false
	}
	return FromTime(t), true
}
