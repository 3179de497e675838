// Package warmer periodically rebuilds the cached knowledge base pages so
// that readers rarely pay for a cold handbook resolution.
package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Target rebuilds and stores every cached page.
type Target interface {
	Warm(ctx context.Context) error
}

// Warmer runs Target.Warm on a fixed interval.
type Warmer struct {
	scheduler *gocron.Scheduler
	target    Target
	timeout   time.Duration
	logger    *zap.Logger
}

// New returns a Warmer for target. Each run is bounded by timeout.
func New(target Target, timeout time.Duration, logger *zap.Logger) *Warmer {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Warmer{
		scheduler: s,
		target:    target,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules a warm-up every interval, the first one immediately,
// without blocking.
func (w *Warmer) Start(every time.Duration) error {
	if _, err := w.scheduler.Every(every).Do(w.run); err != nil {
		return fmt.Errorf("schedule cache warm-up: %w", err)
	}
	w.scheduler.StartAsync()
	w.logger.Info("cache warmer started", zap.Duration("every", every))
	return nil
}

// Stop cancels future runs.
func (w *Warmer) Stop() {
	w.scheduler.Stop()
	w.logger.Info("cache warmer stopped")
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.target.Warm(ctx); err != nil {
		w.logger.Error("cache warm-up failed", zap.Error(err))
		return
	}
	w.logger.Debug("cache warm-up done", zap.Duration("took", time.Since(start)))
}
