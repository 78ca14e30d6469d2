package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 2, 7, 9, 30, 0, 0, time.UTC)

	entries := []Entry{
		{Timestamp: ts, RunID: "run-1", Bank: "530", File: "izvod.pdf", Status: StatusOK, Transactions: 12},
		{Timestamp: ts, RunID: "run-1", Bank: "570", File: "bad.pdf", Status: StatusError, Error: "bank 570: unrecognized document structure, with comma"},
	}
	require.NoError(t, AppendLedger(dir, entries))

	got, err := ReadLedger(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entries[0], got[0])
	assert.Equal(t, entries[1], got[1])
}

func TestLedgerAppend(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 2, 7, 9, 30, 0, 0, time.UTC)

	require.NoError(t, AppendLedger(dir, []Entry{{Timestamp: ts, RunID: "a", Status: StatusOK}}))
	require.NoError(t, AppendLedger(dir, []Entry{{Timestamp: ts, RunID: "b", Status: StatusOK}}))

	data, err := os.ReadFile(filepath.Join(dir, LedgerFile))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), LedgerHeader), "header written once")

	got, err := ReadLedger(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RunID)
	assert.Equal(t, "b", got[1].RunID)
}

func TestReadLedger_Missing(t *testing.T) {
	got, err := ReadLedger(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "short"})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"yesterday", "r", "530", "f", "ok", "1", ""})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"2026-02-07T09:30:00Z", "r", "530", "f", "ok", "many", ""})
	require.Error(t, err)
}
