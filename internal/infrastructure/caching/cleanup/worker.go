// Package cleanup provides background worker
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
)

// Worker expires idle carts and purges revoked sessions past their expiry.
type Worker struct {
	carts    interfaces.CartCache
	sessions user.SessionRepository
	config   *Config
	reporter *Reporter
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(carts interfaces.CartCache, sessions user.SessionRepository, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		carts:    carts,
		sessions: sessions,
		config:   config,
		reporter: NewReporter(carts),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Reporter returns the reporter that accumulates this worker's passes.
func (w *Worker) Reporter() *Reporter {
	return w.reporter
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cleanup worker started", "interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// Result summarises one cleanup pass.
type Result struct {
	CartsExpired   int           `json:"cartsExpired"`
	SessionsPurged int64         `json:"sessionsPurged"`
	CartsRemaining int           `json:"cartsRemaining"`
	Duration       time.Duration `json:"duration"`
}

// RunOnce performs a single cleanup pass.
func (w *Worker) RunOnce(ctx context.Context) Result {
	start := time.Now()
	now := w.now()

	res := Result{CartsExpired: w.carts.PurgeExpired(now)}

	if w.sessions != nil {
		purged, err := w.sessions.PurgeExpired(ctx, now)
		if err != nil {
			w.logger.LogError(logging.ChannelCache, "purge_sessions", err, nil)
		}
		res.SessionsPurged = purged
	}

	res.CartsRemaining = w.carts.Len()
	res.Duration = time.Since(start)
	w.reporter.Record(res, now)

	if res.CartsExpired > 0 || res.SessionsPurged > 0 {
		w.logger.Cache().Info("Cleanup finished",
			"cartsExpired", res.CartsExpired,
			"sessionsPurged", res.SessionsPurged,
			"cartsRemaining", res.CartsRemaining,
			"duration", res.Duration)
	}
	if w.config.VerboseReporting {
		fmt.Print(w.reporter.Render(w.reporter.GenerateReport()))
	}
	return res
}
