// Package ingest runs the statement inbox: it discovers documents under
// <input>/<bank code>/, parses them, writes the results, archives the sources
// and records every outcome in a ledger.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/izvod-dev/izvod/internal/model"
)

// Pending is a document waiting in the inbox.
type Pending struct {
	Bank model.Bank
	Path string
}

// Name returns the document's file name.
func (p Pending) Name() string { return filepath.Base(p.Path) }

// ExtensionsFunc returns the accepted extensions for a bank code.
type ExtensionsFunc func(code string) []string

// Scan lists the documents under root ordered by bank code, then file name.
// Missing bank directories are skipped. Files whose extension is not
// accepted for their bank are ignored.
func Scan(root string, banks []model.Bank, extensions ExtensionsFunc) ([]Pending, error) {
	var out []Pending
	for _, bank := range banks {
		dir := filepath.Join(root, bank.Code)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		exts := extensions(bank.Code)
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if !accepted(e.Name(), exts) {
				continue
			}
			out = append(out, Pending{Bank: bank, Path: filepath.Join(dir, e.Name())})
		}
	}
	slices.SortStableFunc(out, func(a, b Pending) int {
		if c := strings.Compare(a.Bank.Code, b.Bank.Code); c != 0 {
			return c
		}
		return strings.Compare(a.Name(), b.Name())
	})
	return out, nil
}

func accepted(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
