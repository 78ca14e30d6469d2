// Package locale parses the amount and date tokens printed on bank statements.
//
// Every parser distinguishes three outcomes: a value, "no value" (empty input
// or a lone dash), and a typed error for a token that does not fit its grammar.
package locale

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedAmount is returned for amount tokens outside their grammar.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrMalformedDate is returned for date tokens outside their grammar or calendar.
	ErrMalformedDate = errors.New("malformed date")
)

// Error carries the offending token and the grammar it was checked against.
type Error struct {
	Kind    error
	Grammar string
	Input   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %q is not %s", e.Kind, e.Input, e.Grammar)
}

func (e *Error) Unwrap() error { return e.Kind }

// Grammar is one decimal-separator convention.
type Grammar struct {
	Name      string
	Thousands byte
	Decimal   byte
	pattern   *regexp.Regexp
}

var (
	// European amounts use a dot for thousands and a comma for decimals: 1.234,56.
	European = Grammar{
		Name:      "european",
		Thousands: '.',
		Decimal:   ',',
		pattern:   regexp.MustCompile(`^-?(\d{1,3}(\.\d{3})+|\d+)(,\d{1,2})?$`),
	}
	// International amounts use a comma for thousands and a dot for decimals: 1,234.56.
	International = Grammar{
		Name:      "international",
		Thousands: ',',
		Decimal:   '.',
		pattern:   regexp.MustCompile(`^-?(\d{1,3}(,\d{3})+|\d+)(\.\d{1,2})?$`),
	}
)

// Parse converts s according to g. Internal whitespace is ignored.
// An empty token or a lone dash yields an invalid NullDecimal and no error.
func (g Grammar) Parse(s string) (decimal.NullDecimal, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if compact == "" || compact == "-" {
		return decimal.NullDecimal{}, nil
	}
	if !g.pattern.MatchString(compact) {
		return decimal.NullDecimal{}, &Error{Kind: ErrMalformedAmount, Grammar: g.Name, Input: s}
	}

	canonical := strings.ReplaceAll(compact, string(g.Thousands), "")
	canonical = strings.Replace(canonical, string(g.Decimal), ".", 1)
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.NullDecimal{}, &Error{Kind: ErrMalformedAmount, Grammar: g.Name, Input: s}
	}
	return decimal.NewNullDecimal(d.Round(2)), nil
}

// ParseAmountEU parses a European-grammar amount.
func ParseAmountEU(s string) (decimal.NullDecimal, error) { return European.Parse(s) }

// ParseAmountIntl parses an International-grammar amount.
func ParseAmountIntl(s string) (decimal.NullDecimal, error) { return International.Parse(s) }
