package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status is the outcome of one document.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Entry is one row in the ingest ledger.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	Bank         string
	File         string
	Status       Status
	Transactions int
	Error        string
}

// LedgerHeader is the CSV header for ingest-log.csv.
const LedgerHeader = "timestamp,run_id,bank,file,status,transactions,error"

// LedgerFile is the ledger's file name inside the log directory.
const LedgerFile = "ingest-log.csv"

const (
	numFields       = 7
	colTimestamp    = 0
	colRunID        = 1
	colBank         = 2
	colFile         = 3
	colStatus       = 4
	colTransactions = 5
	colError        = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colBank] = e.Bank
	row[colFile] = e.File
	row[colStatus] = string(e.Status)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	n, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}

	return Entry{
		Timestamp:    ts,
		RunID:        record[colRunID],
		Bank:         record[colBank],
		File:         record[colFile],
		Status:       Status(record[colStatus]),
		Transactions: n,
		Error:        record[colError],
	}, nil
}

// AppendLedger writes entries to <dir>/ingest-log.csv, creating the file and
// header if needed.
func AppendLedger(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, LedgerFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(LedgerHeader, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadLedger returns all entries from <dir>/ingest-log.csv.
// Returns an empty slice if the file does not exist.
func ReadLedger(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, LedgerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
