package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
)

// SLABreachWorker periodically scans open tickets and flags SLA breaches.
// Breach detection runs here, never inline with request handling.
type SLABreachWorker struct {
	slas     *service.SLAService
	interval time.Duration
	logger   *zap.Logger
}

// NewSLABreachWorker builds the worker.
func NewSLABreachWorker(slas *service.SLAService, interval time.Duration, logger *zap.Logger) *SLABreachWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SLABreachWorker{slas: slas, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, scanning on every tick. An initial scan
// runs immediately at startup.
func (w *SLABreachWorker) Run(ctx context.Context) {
	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla breach worker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *SLABreachWorker) scan(ctx context.Context) {
	if _, err := w.slas.ScanBreaches(ctx, time.Now()); err != nil {
		w.logger.Error("sla breach scan failed", zap.Error(err))
	}
}
