package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/izvod-dev/izvod/internal/export"
	"github.com/izvod-dev/izvod/internal/model"
	"github.com/izvod-dev/izvod/internal/output"
)

// Parser parses one document for a bank code.
type Parser interface {
	Parse(code string, data []byte) (model.Statement, error)
}

// Options configure a Processor.
type Options struct {
	Input      string
	Processed  string
	Output     string
	LogDir     string // empty disables the ledger
	Workers    int
	Export     bool
	Encoding   export.Encoding
	Extensions ExtensionsFunc
}

// Result is the outcome for one document.
type Result struct {
	Pending
	Statement  model.Statement
	JSONPath   string
	ExportPath string
	Archived   string
	Err        error
}

// Summary describes one ingest pass.
type Summary struct {
	RunID   string
	Results []Result
}

// Parsed returns the number of documents delivered.
func (s Summary) Parsed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of documents left in the inbox.
func (s Summary) Failed() int { return len(s.Results) - s.Parsed() }

// Processor runs ingest passes over an inbox.
type Processor struct {
	parser Parser
	banks  []model.Bank
	opts   Options
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewProcessor creates a processor for banks. A zero Workers runs one
// document at a time.
func NewProcessor(parser Parser, banks []model.Bank, opts Options, log *zap.Logger) *Processor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Extensions == nil {
		opts.Extensions = bankExtensions(banks)
	}
	return &Processor{
		parser: parser,
		banks:  banks,
		opts:   opts,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Run performs one pass: parse every pending document, then deliver the
// successes and record every outcome. A failed document stays in the inbox.
func (p *Processor) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: p.newID()}
	log := p.log.With(zap.String("run_id", summary.RunID))

	pending, err := Scan(p.opts.Input, p.banks, p.opts.Extensions)
	if err != nil {
		return summary, fmt.Errorf("scanning inbox: %w", err)
	}
	if len(pending) == 0 {
		log.Debug("inbox empty")
		return summary, nil
	}

	results := make([]Result, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, doc := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.parse(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	entries := make([]Entry, 0, len(results))
	for i := range results {
		r := &results[i]
		if r.Err == nil {
			r.Err = p.deliver(r)
		}
		fields := []zap.Field{
			zap.String("file", r.Path),
			zap.String("bank", r.Bank.Code),
		}
		entry := Entry{
			Timestamp: p.now().UTC(),
			RunID:     summary.RunID,
			Bank:      r.Bank.Code,
			File:      r.Name(),
		}
		if r.Err != nil {
			entry.Status = StatusError
			entry.Error = r.Err.Error()
			log.Warn("statement failed", append(fields, zap.Error(r.Err))...)
		} else {
			entry.Status = StatusOK
			entry.Transactions = len(r.Statement.Transactions)
			log.Info("statement parsed", append(fields, zap.Int("transactions", entry.Transactions))...)
		}
		entries = append(entries, entry)
	}
	summary.Results = results

	if p.opts.LogDir != "" {
		if err := AppendLedger(p.opts.LogDir, entries); err != nil {
			return summary, fmt.Errorf("writing ingest log: %w", err)
		}
	}
	log.Info("ingest pass finished",
		zap.Int("parsed", summary.Parsed()),
		zap.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (p *Processor) parse(doc Pending) Result {
	r := Result{Pending: doc}
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		r.Err = fmt.Errorf("reading %s: %w", doc.Name(), err)
		return r
	}
	r.Statement, r.Err = p.parser.Parse(doc.Bank.Code, data)
	return r
}

// deliver writes the outputs for a parsed document and archives its source.
func (p *Processor) deliver(r *Result) error {
	dir := filepath.Join(p.opts.Output, r.Bank.Code)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	base := strings.TrimSuffix(r.Name(), filepath.Ext(r.Name()))

	r.JSONPath = filepath.Join(dir, base+".json")
	if err := writeFile(r.JSONPath, func(w io.Writer) error {
		return output.WriteJSON(w, r.Statement)
	}); err != nil {
		return err
	}

	if p.opts.Export {
		r.ExportPath = filepath.Join(dir, base+".1c.txt")
		opts := export.Options{Created: p.now(), Encoding: p.opts.Encoding}
		if err := writeFile(r.ExportPath, func(w io.Writer) error {
			return export.Write1C(w, []model.Statement{r.Statement}, opts)
		}); err != nil {
			return err
		}
	}

	archived, err := archive(r.Path, filepath.Join(p.opts.Processed, r.Bank.Code))
	if err != nil {
		return err
	}
	r.Archived = archived
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// archive moves src into dir. An existing file of the same name is kept and
// the new one gets a _1, _2, ... suffix.
func archive(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}
	dst := freeName(dir, filepath.Base(src))
	if err := os.Rename(src, dst); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return "", fmt.Errorf("archiving %s: %w", filepath.Base(src), err)
		}
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("archiving %s: %w", filepath.Base(src), err)
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("removing %s: %w", filepath.Base(src), err)
		}
	}
	return dst, nil
}

func freeName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func bankExtensions(banks []model.Bank) ExtensionsFunc {
	return func(code string) []string {
		for _, b := range banks {
			if b.Code == code {
				return b.Extensions()
			}
		}
		return nil
	}
}
