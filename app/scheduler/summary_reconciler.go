// Package scheduler runs periodic background jobs
package scheduler

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	businessflow "github.com/amirphl/helper-registry/business_flow"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SummaryReconciler periodically repairs employee summaries left behind by
// partial writes
type SummaryReconciler struct {
	flow     businessflow.SummaryReconcileFlow
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
}

// NewSummaryReconciler creates a reconciler that runs every interval
func NewSummaryReconciler(flow businessflow.SummaryReconcileFlow, interval time.Duration, logger *log.Logger) *SummaryReconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SummaryReconciler{
		flow:     flow,
		interval: interval,
		timeout:  interval,
		logger:   logger,
	}
}

// NewJobLogger returns a logger writing to stdout and, when path is set, to a
// rotating file. The returned func closes the file.
func NewJobLogger(prefix, path string) (*log.Logger, func()) {
	flags := log.LstdFlags | log.Lmicroseconds | log.LUTC
	if path == "" {
		return log.New(os.Stdout, prefix, flags), func() {}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger := log.New(os.Stdout, prefix, flags)
		logger.Printf("failed to create log dir, logging to stdout only: %v", err)
		return logger, func() {}
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	return log.New(io.MultiWriter(os.Stdout, file), prefix, flags), func() { _ = file.Close() }
}

// Start launches the reconcile loop in a background goroutine and returns a stop function
func (s *SummaryReconciler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (s *SummaryReconciler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	report, err := s.flow.Reconcile(ctx)
	if err != nil {
		s.logger.Printf("reconciler: run failed: %v", err)
		return
	}
	if report.Skipped {
		s.logger.Printf("reconciler: another instance holds the lock, skipped")
		return
	}
	if report.Upserted > 0 || report.Deleted > 0 {
		s.logger.Printf("reconciler: helpers=%d summaries=%d upserted=%d deleted=%d took=%dms",
			report.Helpers, report.Summaries, report.Upserted, report.Deleted, report.DurationMs)
	}
}
