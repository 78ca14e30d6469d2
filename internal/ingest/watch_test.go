package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_FirstPassAndStop(t *testing.T) {
	ws := newWorkspace(t)
	ws.drop(t, "565", "a.pdf", "statement")
	p := newTestProcessor(parserFunc(okUnlessBad), ws.options())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, time.Hour) }()

	archived := filepath.Join(ws.processed, "565", "a.pdf")
	assert.Eventually(t, func() bool {
		_, err := ReadLedger(ws.logs)
		return err == nil && fileExists(archived)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_PicksUpLaterFiles(t *testing.T) {
	ws := newWorkspace(t)
	p := newTestProcessor(parserFunc(okUnlessBad), ws.options())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, time.Second) }()

	ws.drop(t, "580", "late.pdf", "statement")
	assert.Eventually(t, func() bool {
		return fileExists(filepath.Join(ws.output, "580", "late.json"))
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatch_InvalidInterval(t *testing.T) {
	p := newTestProcessor(parserFunc(okUnlessBad), newWorkspace(t).options())
	require.Error(t, p.Watch(context.Background(), 0))
}
