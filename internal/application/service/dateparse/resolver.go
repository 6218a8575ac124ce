// Package dateparse resolves free-text date expressions into calendar dates.
// It understands Russian and English natural-language tokens (сегодня,
// завтра, weekday names, "через N дней") as well as explicit DD.MM.YYYY,
// DD.MM and YYYY-MM-DD forms. A HH:MM substring anywhere in the text sets
// the clock-time component.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ksumarshmallow/calbot/internal/types"
	"github.com/ksumarshmallow/calbot/internal/types/interfaces"
)

// Resolver implements interfaces.DateResolver
type Resolver struct {
	now func() time.Time
}

// NewResolver creates a resolver using the system clock
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverWithClock creates a resolver with an injected clock, for tests
func NewResolverWithClock(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

var _ interfaces.DateResolver = (*Resolver)(nil)

// relative day-offset keywords, Russian and English
var dayOffsets = map[string]int{
	"сегодня":     0,
	"today":       0,
	"завтра":      1,
	"tomorrow":    1,
	"послезавтра": 2,
}

// weekday names including Russian accusative forms ("в пятницу")
var weekdays = map[string]time.Weekday{
	"понедельник": time.Monday,
	"вторник":     time.Tuesday,
	"среда":       time.Wednesday,
	"среду":       time.Wednesday,
	"четверг":     time.Thursday,
	"пятница":     time.Friday,
	"пятницу":     time.Friday,
	"суббота":     time.Saturday,
	"субботу":     time.Saturday,
	"воскресенье": time.Sunday,
	"monday":      time.Monday,
	"tuesday":     time.Tuesday,
	"wednesday":   time.Wednesday,
	"thursday":    time.Thursday,
	"friday":      time.Friday,
	"saturday":    time.Saturday,
	"sunday":      time.Sunday,
}

var (
	dottedDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})(?:\.(\d{4}))?$`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	clockRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// Resolve extracts the leftmost date expression from text. ok is false when
// no expression is found.
func (r *Resolver) Resolve(text string) (types.ResolvedDate, bool) {
	today := midnight(r.now())

	tokens := tokenize(text)
	var resolved types.ResolvedDate
	found := false

	for i := 0; i < len(tokens) && !found; i++ {
		tok := tokens[i]

		if off, ok := dayOffsets[tok]; ok {
			resolved.Date = today.AddDate(0, 0, off)
			found = true
			continue
		}
		if wd, ok := weekdays[tok]; ok {
			resolved.Date = nextWeekday(today, wd)
			found = true
			continue
		}
		if d, ok := parseExplicit(tok, today); ok {
			resolved.Date = d
			found = true
			continue
		}
		if d, ok := parseRelative(tokens, i, today); ok {
			resolved.Date = d
			found = true
		}
	}

	if !found {
		return types.ResolvedDate{}, false
	}

	if clock, ok := findClock(text); ok {
		resolved.Clock = clock
		resolved.HasTime = true
	}
	return resolved, true
}

// tokenize lowercases and splits on whitespace and punctuation, keeping
// the date separators '.', '-' and ':' inside tokens
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(c rune) bool {
		if c == '.' || c == '-' || c == ':' {
			return false
		}
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nextWeekday returns the nearest occurrence of wd on or after today;
// the same weekday today resolves to today
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, offset)
}

// parseExplicit handles DD.MM.YYYY, DD.MM and YYYY-MM-DD tokens
func parseExplicit(tok string, today time.Time) (time.Time, bool) {
	if m := dottedDateRe.FindStringSubmatch(tok); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		return buildDate(year, month, day, today)
	}
	if m := isoDateRe.FindStringSubmatch(tok); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return buildDate(year, month, day, today)
	}
	return time.Time{}, false
}

// buildDate validates the calendar components by round-tripping them
func buildDate(year, month, day int, today time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

// parseRelative handles "через N дней", "через неделю", "in N days",
// "in a week" starting at tokens[i]
func parseRelative(tokens []string, i int, today time.Time) (time.Time, bool) {
	if tokens[i] != "через" && tokens[i] != "in" {
		return time.Time{}, false
	}
	if i+1 >= len(tokens) {
		return time.Time{}, false
	}
	next := tokens[i+1]

	if next == "неделю" || (next == "a" && i+2 < len(tokens) && strings.HasPrefix(tokens[i+2], "week")) {
		return today.AddDate(0, 0, 7), true
	}

	n, err := strconv.Atoi(next)
	if err != nil || n < 0 || i+2 >= len(tokens) {
		return time.Time{}, false
	}
	unit := tokens[i+2]
	switch {
	case strings.HasPrefix(unit, "дн") || unit == "день" || strings.HasPrefix(unit, "day"):
		return today.AddDate(0, 0, n), true
	case strings.HasPrefix(unit, "недел") || strings.HasPrefix(unit, "week"):
		return today.AddDate(0, 0, 7*n), true
	}
	return time.Time{}, false
}

// findClock locates the first valid HH:MM substring anywhere in text
func findClock(text string) (string, bool) {
	for _, m := range clockRe.FindAllStringSubmatch(text, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format(types.TimeLayout), true
		}
	}
	return "", false
}
