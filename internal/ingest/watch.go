package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Watch runs a pass immediately and then every interval until ctx is
// cancelled. A pass still running when the next one is due is not overlapped.
func (p *Processor) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}

	clog := cronLogger{p.log.Sugar()}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	job := cron.FuncJob(func() { p.pass(ctx) })
	if _, err := c.AddJob("@every "+interval.String(), job); err != nil {
		return fmt.Errorf("scheduling ingest: %w", err)
	}

	p.log.Info("watching inbox", zap.String("input", p.opts.Input), zap.Duration("interval", interval))
	p.pass(ctx)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	p.log.Info("watch stopped")
	return nil
}

func (p *Processor) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.Run(ctx); err != nil && ctx.Err() == nil {
		p.log.Error("ingest pass failed", zap.Error(err))
	}
}

// cronLogger routes scheduler messages into zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
