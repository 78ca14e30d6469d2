package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedBank is returned when no parser is registered for a bank code.
	ErrUnsupportedBank = errors.New("no parser for bank")
	// ErrStructure is returned when a document lacks the anchors its bank
	// layout always carries, or cannot be read at all.
	ErrStructure = errors.New("unrecognized document structure")
)

// ParseError is a failed parse of one document.
type ParseError struct {
	Bank string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bank %s: %v", e.Bank, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func structural(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}
