/*
store.go - Persistence interfaces for the three aggregates

PURPOSE:
  Defines the interface between the ledger workflows and the database.
  Different implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  ArtworkStore: Read artwork, mutate its status (the engine never writes
                anything else on an artwork)
  SaleStore:    Sale CRUD plus the month aggregate query
  GoalStore:    Month lookup and derived-field update
  Stores:       All three together; the unit the workflows operate on
  TxStores:     Stores plus WithTx for atomic multi-step workflows

TRANSACTION CONTRACT:
  WithTx(ctx, fn) runs fn against transaction-scoped store views. If fn
  returns an error the transaction is rolled back; otherwise committed.
  Ledger workflows put every write of a sale operation inside one WithTx so
  a failure partway never leaves an artwork Sold without a sale, or a sale
  present with a stale artwork status. Goal reconciliation stays OUTSIDE
  this boundary: it is idempotent and self-heals on the next call.

SOURCE OF TRUTH:
  SumAmountForMonth is a pure aggregate over sale rows. Goal realization is
  always recomputed from it, never incremented, because running counters
  drift under partial failures and retries.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for testing/dev

SEE ALSO:
  - ledger/coordinator.go: WithTx usage and the sequential fallback
  - ledger/reconciler.go: SumAmountForMonth consumer
*/
package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ARTWORK STORE
// =============================================================================

// ArtworkStore is the minimal artwork surface the engine consumes. The
// engine only reads cost/hours and mutates status; everything else on an
// artwork belongs to the inventory module.
type ArtworkStore interface {
	// GetArtwork returns the artwork or ErrArtworkNotFound.
	GetArtwork(ctx context.Context, id ArtworkID) (*Artwork, error)

	// UpdateArtworkStatus persists a new status. Returns ErrArtworkNotFound
	// if the artwork doesn't exist.
	UpdateArtworkStatus(ctx context.Context, id ArtworkID, status ArtworkStatus) error
}

// =============================================================================
// SALE STORE
// =============================================================================

type SaleStore interface {
	// CreateSale persists a new sale row. Returns ErrArtworkAlreadySold if
	// the one-live-sale-per-artwork constraint rejects it.
	CreateSale(ctx context.Context, sale Sale) error

	// GetSale returns the sale or ErrSaleNotFound.
	GetSale(ctx context.Context, id SaleID) (*Sale, error)

	// UpdateSale overwrites an existing sale row. Returns ErrSaleNotFound
	// if the sale doesn't exist.
	UpdateSale(ctx context.Context, sale Sale) error

	// DeleteSale removes a sale row. Returns ErrSaleNotFound if missing.
	DeleteSale(ctx context.Context, id SaleID) error

	// SumAmountForMonth returns the sum of amounts over all sales whose
	// sale_date falls in the month. The single source of truth for
	// realized revenue.
	SumAmountForMonth(ctx context.Context, month MonthKey) (decimal.Decimal, error)
}

// =============================================================================
// GOAL STORE
// =============================================================================

type GoalStore interface {
	// FindGoalByMonth returns the goal for the month, or (nil, nil) when
	// no goal is defined. Absence is not an error.
	FindGoalByMonth(ctx context.Context, month MonthKey) (*MonthlyGoal, error)

	// UpdateGoalRealized overwrites the derived fields of a goal.
	// Reconciliation is the only caller.
	UpdateGoalRealized(ctx context.Context, id GoalID, realized, achievedPct decimal.Decimal) error
}

// =============================================================================
// COMPOSITE AND TRANSACTIONAL STORES
// =============================================================================

// Stores bundles the three aggregate stores. Ledger workflows are written
// against this interface so they run identically inside and outside a
// transaction scope.
type Stores interface {
	ArtworkStore
	SaleStore
	GoalStore
}

// TxStores adds atomic multi-step execution. Storage backends that support
// multi-statement transactions implement this; the coordinator upgrades to
// it when available.
type TxStores interface {
	Stores

	// WithTx executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(Stores) error) error
}
