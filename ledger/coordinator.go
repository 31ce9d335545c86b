/*
Package ledger implements the sales fulfillment workflows: registering,
amending, and deleting sales while keeping the Artwork lifecycle, the Sale
ledger, and Monthly Goal realization mutually consistent.

PURPOSE:
  This is the orchestration layer. It validates requests, computes financial
  fields, persists sales, drives artwork status transitions, and triggers
  goal reconciliation. Storage is consumed through the domain interfaces.

CONSISTENCY MODEL:
  Every write of a sale operation runs inside one coordinator scope:
  all-or-nothing when the store supports transactions. Goal reconciliation
  runs AFTER the scope commits and is best-effort; it is idempotent, so any
  missed or failed reconcile self-heals on the next call.

SEE ALSO:
  - service.go: The workflows
  - reconciler.go: Goal reconciliation
  - domain/store.go: Store interfaces and the WithTx contract
*/
package ledger

import (
	"context"

	"github.com/atelier/sales-engine/domain"
)

// =============================================================================
// CONSISTENCY COORDINATOR - Transaction boundary around ledger workflows
// =============================================================================

// Coordinator defines the transaction boundary for multi-step workflows.
// When the underlying store implements domain.TxStores, the whole workflow
// commits or rolls back together. Otherwise the steps run sequentially
// against the base store and the workflows carry explicit compensating
// actions, with idempotent reconciliation as the safety net.
type Coordinator struct {
	stores domain.Stores
}

func NewCoordinator(stores domain.Stores) *Coordinator {
	return &Coordinator{stores: stores}
}

// Atomic executes fn within a single transactional scope where storage
// supports it. fn receives the store views it must use for every read and
// write of the workflow; reads inside the scope observe locked/consistent
// state, which is what prevents two concurrent registrations from both
// seeing a sellable artwork.
func (c *Coordinator) Atomic(ctx context.Context, fn func(domain.Stores) error) error {
	if tx, ok := c.stores.(domain.TxStores); ok {
		return tx.WithTx(ctx, fn)
	}
	return fn(c.stores)
}

// Transactional reports whether the store provides atomic scopes.
func (c *Coordinator) Transactional() bool {
	_, ok := c.stores.(domain.TxStores)
	return ok
}
