package locale

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateGrammar is one date-token convention.
type DateGrammar struct {
	Name  string
	exact *regexp.Regexp
	find  *regexp.Regexp
	// index of the year, month and day submatches
	y, m, d int
}

var (
	// DMY is day.month.year with an optional trailing dot: 05.02.2026 or 5.2.2026.
	DMY = DateGrammar{
		Name:  "day.month.year",
		exact: regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})\.?$`),
		find:  regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`),
		y:     3, m: 2, d: 1,
	}
	// YMD is year.month.day: 2026.02.05.
	YMD = DateGrammar{
		Name:  "year.month.day",
		exact: regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})\.?$`),
		find:  regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`),
		y:     1, m: 2, d: 3,
	}
	// DMYSlash is day/month/year: 05/02/2026.
	DMYSlash = DateGrammar{
		Name:  "day/month/year",
		exact: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
		find:  regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`),
		y:     3, m: 2, d: 1,
	}
)

// Parse converts the whole token s. Empty input yields nil and no error.
func (g DateGrammar) Parse(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	m := g.exact.FindStringSubmatch(s)
	if m == nil {
		return nil, &Error{Kind: ErrMalformedDate, Grammar: g.Name, Input: s}
	}
	return g.build(m, s)
}

// Find returns the first date of this grammar inside free text.
// Text without a token yields nil and no error.
func (g DateGrammar) Find(s string) (*time.Time, error) {
	m := g.find.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	return g.build(m, m[0])
}

// FindAll returns every calendar-valid date of this grammar inside s, in order.
func (g DateGrammar) FindAll(s string) []time.Time {
	var out []time.Time
	for _, m := range g.find.FindAllStringSubmatch(s, -1) {
		t, err := g.build(m, m[0])
		if err == nil {
			out = append(out, *t)
		}
	}
	return out
}

func (g DateGrammar) build(m []string, input string) (*time.Time, error) {
	year, _ := strconv.Atoi(m[g.y])
	month, _ := strconv.Atoi(m[g.m])
	day, _ := strconv.Atoi(m[g.d])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil, &Error{Kind: ErrMalformedDate, Grammar: g.Name, Input: input}
	}
	return &t, nil
}

// ParseDateDMY parses a day.month.year token.
func ParseDateDMY(s string) (*time.Time, error) { return DMY.Parse(s) }

// ParseDateYMD parses a year.month.day token.
func ParseDateYMD(s string) (*time.Time, error) { return YMD.Parse(s) }

// ParseDateDMYSlash parses a day/month/year token.
func ParseDateDMYSlash(s string) (*time.Time, error) { return DMYSlash.Parse(s) }
