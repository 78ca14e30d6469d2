// Package importer turns bank statement documents into model.Statements.
// Each supported bank has one Parser; a Registry maps bank codes to parsers.
package importer

import (
	"sort"

	"github.com/izvod-dev/izvod/internal/model"
)

// Parser converts one bank's statement document into a Statement.
type Parser interface {
	Bank() model.Bank
	Parse(data []byte) (model.Statement, error)
}

// Registry holds parsers keyed by bank code.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate bank code.
func (r *Registry) Register(p Parser) {
	code := p.Bank().Code
	if _, ok := r.parsers[code]; ok {
		panic("duplicate parser for bank: " + code)
	}
	r.parsers[code] = p
}

// Get returns the parser for a bank code, or nil.
func (r *Registry) Get(code string) Parser {
	return r.parsers[code]
}

// Banks lists the registered banks ordered by code.
func (r *Registry) Banks() []model.Bank {
	out := make([]model.Bank, 0, len(r.parsers))
	for _, p := range r.parsers {
		out = append(out, p.Bank())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Parse dispatches data to the parser registered for code. Failures are
// returned as *ParseError together with an empty Statement.
func (r *Registry) Parse(code string, data []byte) (model.Statement, error) {
	p := r.Get(code)
	if p == nil {
		return model.Statement{}, &ParseError{Bank: code, Err: ErrUnsupportedBank}
	}
	stmt, err := p.Parse(data)
	if err != nil {
		return model.Statement{}, &ParseError{Bank: code, Err: err}
	}
	return stmt, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&HipotekarnaParser{})
	r.Register(&NLBParser{})
	r.Register(&PrvaParser{})
	r.Register(&ErsteParser{})
	r.Register(&UCBParser{})
	r.Register(&LovcenParser{})
	r.Register(&ZapadParser{})
	r.Register(&ZiraatParser{})
	r.Register(&AdriaticParser{})
	return r
}
