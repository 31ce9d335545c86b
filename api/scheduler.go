/*
scheduler.go - Background reconciliation sweep

PURPOSE:
  Periodically re-reconciles every month that has a goal defined. The sweep
  is the safety net under the best-effort post-commit reconciliation: any
  drift left by a crashed process or a failed goal write heals on the next
  pass.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Re-reconciles all goal months; reconciliation is idempotent, so a sweep
    over already-consistent months is a cheap no-op
  - Never mutates the sale ledger, only the goals' derived fields

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  sweep := NewReconciliationSweep(store, salesLedger, logger)
  sweep.Start()
  // ... later
  sweep.Stop()

SEE ALSO:
  - handlers.go: ReconcileGoal endpoint (manual reconciliation)
  - ledger/reconciler.go: The idempotent reconcile
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atelier/sales-engine/ledger"
	"github.com/atelier/sales-engine/store/sqlite"
)

// ReconciliationSweep periodically heals goal drift.
type ReconciliationSweep struct {
	Store         *sqlite.Store
	Ledger        *ledger.SalesLedger
	CheckInterval time.Duration
	Enabled       bool

	logger *zap.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReconciliationSweep creates a new sweep.
func NewReconciliationSweep(store *sqlite.Store, salesLedger *ledger.SalesLedger, logger *zap.Logger) *ReconciliationSweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationSweep{
		Store:         store,
		Ledger:        salesLedger,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		logger:        logger,
		stop:          make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (rs *ReconciliationSweep) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.logger.Info("reconciliation sweep disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)
	go rs.run()

	rs.logger.Info("reconciliation sweep started",
		zap.Duration("check_interval", rs.CheckInterval))
}

// Stop stops the sweep loop.
func (rs *ReconciliationSweep) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.logger.Info("reconciliation sweep stopped")
	}
}

func (rs *ReconciliationSweep) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.sweep()

	for {
		select {
		case <-rs.ticker.C:
			rs.sweep()
		case <-rs.stop:
			return
		}
	}
}

func (rs *ReconciliationSweep) sweep() {
	ctx := context.Background()

	goals, err := rs.Store.ListGoals(ctx)
	if err != nil {
		rs.logger.Warn("sweep: failed to list goals", zap.Error(err))
		return
	}

	reconciled := 0
	for _, goal := range goals {
		if _, err := rs.Ledger.ReconcileGoal(ctx, goal.Month); err != nil {
			rs.logger.Warn("sweep: reconciliation failed",
				zap.String("month", goal.Month.String()),
				zap.Error(err))
			continue
		}
		reconciled++
	}

	if reconciled > 0 {
		rs.logger.Debug("sweep completed", zap.Int("months_reconciled", reconciled))
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (rs *ReconciliationSweep) RunNow() {
	rs.sweep()
}
