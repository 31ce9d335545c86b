/*
reconciler.go - Monthly goal reconciliation

PURPOSE:
  Recomputes a monthly goal's realized total and achieved percentage by
  re-summing the sale ledger for the month. Side-effect only; makes no
  business decisions.

IDEMPOTENCE:
  The realized total is always recomputed from scratch against the ledger,
  never incremented. Calling Reconcile twice with no ledger change in
  between yields identical output, which makes it safe as a self-healing
  mechanism: any caller that suspects drift simply re-invokes it. Running
  counters were rejected deliberately - they drift under partial failures,
  retries, and concurrent edits.

CONCURRENCY:
  Safe under concurrent execution without locks: each call is a pure
  function of the ledger state at invocation time, so racing callers
  produce the same or a monotonically more current result.

SEE ALSO:
  - service.go: Triggers reconciliation after sale mutations
  - domain/store.go: SumAmountForMonth, the source-of-truth aggregate
*/
package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/atelier/sales-engine/domain"
)

// =============================================================================
// GOAL RECONCILER
// =============================================================================

type GoalReconciler struct {
	stores domain.Stores
	logger *zap.Logger
}

func NewGoalReconciler(stores domain.Stores, logger *zap.Logger) *GoalReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalReconciler{stores: stores, logger: logger}
}

// Reconcile re-sums the sale ledger for the month and overwrites the goal's
// derived fields. A month without a goal returns NoGoalDefined, not an
// error.
func (r *GoalReconciler) Reconcile(ctx context.Context, month domain.MonthKey) (domain.ReconciliationResult, error) {
	totalRealized, err := r.stores.SumAmountForMonth(ctx, month)
	if err != nil {
		return domain.ReconciliationResult{}, err
	}

	goal, err := r.stores.FindGoalByMonth(ctx, month)
	if err != nil {
		return domain.ReconciliationResult{}, err
	}
	if goal == nil {
		return domain.ReconciliationResult{Month: month, NoGoalDefined: true}, nil
	}

	realized := domain.RoundMoney(totalRealized)
	achieved := domain.AchievedPercentage(totalRealized, goal.TargetAmount)

	if err := r.stores.UpdateGoalRealized(ctx, goal.ID, realized, achieved); err != nil {
		return domain.ReconciliationResult{}, err
	}

	r.logger.Debug("goal reconciled",
		zap.String("month", month.String()),
		zap.String("realized", realized.String()),
		zap.String("achieved_pct", achieved.String()),
	)

	return domain.ReconciliationResult{
		Month:              month,
		GoalID:             goal.ID,
		TargetAmount:       goal.TargetAmount,
		RealizedAmount:     realized,
		AchievedPercentage: achieved,
	}, nil
}
