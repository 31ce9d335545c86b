/*
service.go - The sales ledger workflows

PURPOSE:
  SalesLedger owns the create/update/delete workflows for sales and their
  compensations, plus the generic artwork status transition. Each workflow:
    1. Validates input (defense in depth; the outer boundary validates first)
    2. Computes financial fields
    3. Persists inside one coordinator scope
    4. Triggers goal reconciliation OUTSIDE the scope, best-effort

INVARIANTS ENFORCED HERE:
  - A sale is only registered against a sellable artwork
  - Registering a sale marks the artwork Sold in the same scope
  - Deleting a sale reverts a Sold artwork to Available (the single
    sanctioned bypass of the transition table)
  - Sale.ArtworkID never changes: the update field set simply has no
    artwork_id
  - Reconciliation failures never fail the triggering sale operation; they
    are logged and left to the next reconcile to heal

SEE ALSO:
  - coordinator.go: Transaction boundary
  - reconciler.go: Goal reconciliation
  - domain/finance.go: Profit math
*/
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atelier/sales-engine/domain"
)

// =============================================================================
// SALES LEDGER
// =============================================================================

type SalesLedger struct {
	stores      domain.Stores
	coordinator *Coordinator
	reconciler  *GoalReconciler
	logger      *zap.Logger
}

func NewSalesLedger(stores domain.Stores, logger *zap.Logger) *SalesLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesLedger{
		stores:      stores,
		coordinator: NewCoordinator(stores),
		reconciler:  NewGoalReconciler(stores, logger),
		logger:      logger,
	}
}

// =============================================================================
// INPUTS
// =============================================================================

// RegisterSaleInput carries a new sale request. The outer validation
// boundary guarantees amount is numeric/positive and dates are valid; the
// ledger re-checks the essentials anyway.
type RegisterSaleInput struct {
	ArtworkID     domain.ArtworkID
	ClientID      string // blank means no client
	Amount        decimal.Decimal
	SaleDate      time.Time
	PaymentMethod domain.PaymentMethod
	Notes         string
}

// UpdateSaleInput is the editable field set of a sale. ArtworkID is never
// part of it: attempts to change it are rejected upstream or ignored here.
// Nil fields are left unchanged.
type UpdateSaleInput struct {
	ClientID      *string
	Amount        *decimal.Decimal
	SaleDate      *time.Time
	PaymentMethod *domain.PaymentMethod
	Notes         *string
}

// =============================================================================
// REGISTER
// =============================================================================

// RegisterSale validates the request, computes profit fields from the
// artwork's cost basis, persists the sale, and marks the artwork Sold - all
// in one atomic scope. Goal reconciliation for the sale's month runs after
// commit, best-effort.
func (l *SalesLedger) RegisterSale(ctx context.Context, input RegisterSaleInput) (*domain.Sale, error) {
	if input.ArtworkID == "" {
		return nil, &domain.ValidationFieldError{Field: "artwork_id", Message: "required"}
	}
	if !input.Amount.IsPositive() {
		return nil, &domain.ValidationFieldError{Field: "amount", Message: "must be greater than zero"}
	}
	if input.SaleDate.IsZero() {
		return nil, &domain.ValidationFieldError{Field: "sale_date", Message: "required"}
	}

	clientID := normalizeClientID(input.ClientID)
	method := input.PaymentMethod
	if method == "" {
		method = domain.PaymentOther
	}

	var sale *domain.Sale
	err := l.coordinator.Atomic(ctx, func(s domain.Stores) error {
		artwork, err := s.GetArtwork(ctx, input.ArtworkID)
		if err != nil {
			return err
		}
		if !domain.IsSellable(artwork.Status) {
			return &domain.NotSellableError{ArtworkID: artwork.ID, Status: artwork.Status}
		}

		profit := domain.Profit(input.Amount, artwork.CostPrice)
		profitPerHour := domain.ProfitPerHour(profit, artwork.HoursWorked)

		now := time.Now().UTC()
		artworkID := input.ArtworkID
		sale = &domain.Sale{
			ID:                    domain.SaleID(uuid.NewString()),
			ArtworkID:             &artworkID,
			ClientID:              clientID,
			Amount:                domain.RoundMoney(input.Amount),
			SaleDate:              input.SaleDate,
			ComputedProfit:        domain.RoundMoney(profit),
			ComputedProfitPerHour: domain.RoundMoney(profitPerHour),
			PaymentMethod:         method,
			Notes:                 input.Notes,
			CreatedAt:             now,
			UpdatedAt:             now,
		}

		if err := s.CreateSale(ctx, *sale); err != nil {
			return err
		}
		return s.UpdateArtworkStatus(ctx, input.ArtworkID, domain.StatusSold)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("sale registered",
		zap.String("sale_id", string(sale.ID)),
		zap.String("artwork_id", string(input.ArtworkID)),
		zap.String("amount", sale.Amount.String()),
	)

	l.reconcileBestEffort(ctx, domain.MonthOf(sale.SaleDate))
	return sale, nil
}

// =============================================================================
// UPDATE
// =============================================================================

// UpdateSale applies the editable fields to an existing sale. When the
// amount moves by more than the 0.01 epsilon, profit fields are recomputed
// from the artwork exactly as at registration. When the amount changed or
// the sale date crossed a month boundary, BOTH the original and the current
// month are reconciled so neither goes permanently stale.
func (l *SalesLedger) UpdateSale(ctx context.Context, id domain.SaleID, input UpdateSaleInput) (*domain.Sale, error) {
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, &domain.ValidationFieldError{Field: "amount", Message: "must be greater than zero"}
	}

	var (
		updated       domain.Sale
		originalMonth domain.MonthKey
		amountChanged bool
	)

	err := l.coordinator.Atomic(ctx, func(s domain.Stores) error {
		existing, err := s.GetSale(ctx, id)
		if err != nil {
			return err
		}
		originalMonth = domain.MonthOf(existing.SaleDate)
		updated = *existing

		if input.Amount != nil {
			delta := input.Amount.Sub(existing.Amount).Abs()
			amountChanged = delta.GreaterThan(domain.AmountEpsilon)
			updated.Amount = domain.RoundMoney(*input.Amount)
		}
		if input.SaleDate != nil {
			updated.SaleDate = *input.SaleDate
		}
		if input.ClientID != nil {
			updated.ClientID = normalizeClientID(*input.ClientID)
		}
		if input.PaymentMethod != nil {
			updated.PaymentMethod = *input.PaymentMethod
		}
		if input.Notes != nil {
			updated.Notes = *input.Notes
		}

		if amountChanged && updated.ArtworkID != nil {
			artwork, err := s.GetArtwork(ctx, *updated.ArtworkID)
			switch {
			case errors.Is(err, domain.ErrArtworkNotFound):
				// Artwork removed elsewhere; computed fields keep their
				// last known values.
			case err != nil:
				return err
			default:
				profit := domain.Profit(updated.Amount, artwork.CostPrice)
				updated.ComputedProfit = domain.RoundMoney(profit)
				updated.ComputedProfitPerHour = domain.RoundMoney(
					domain.ProfitPerHour(profit, artwork.HoursWorked))
			}
		}

		updated.UpdatedAt = time.Now().UTC()
		return s.UpdateSale(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("sale updated",
		zap.String("sale_id", string(id)),
		zap.Bool("amount_changed", amountChanged),
	)

	currentMonth := domain.MonthOf(updated.SaleDate)
	if amountChanged || currentMonth != originalMonth {
		l.reconcileBestEffort(ctx, originalMonth)
		if currentMonth != originalMonth {
			l.reconcileBestEffort(ctx, currentMonth)
		}
	}
	return &updated, nil
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteSale removes a sale and compensates: a still-Sold artwork reverts
// to Available, written directly through the store because un-selling is
// not a user-facing transition. Safe to call when the artwork was
// independently removed - the compensation is then a silent no-op.
func (l *SalesLedger) DeleteSale(ctx context.Context, id domain.SaleID) error {
	var saleMonth domain.MonthKey

	err := l.coordinator.Atomic(ctx, func(s domain.Stores) error {
		sale, err := s.GetSale(ctx, id)
		if err != nil {
			return err
		}
		saleMonth = domain.MonthOf(sale.SaleDate)

		if err := s.DeleteSale(ctx, id); err != nil {
			return err
		}

		if sale.ArtworkID == nil {
			return nil
		}
		artwork, err := s.GetArtwork(ctx, *sale.ArtworkID)
		if errors.Is(err, domain.ErrArtworkNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if artwork.Status != domain.StatusSold {
			return nil
		}
		return s.UpdateArtworkStatus(ctx, artwork.ID, domain.StatusAvailable)
	})
	if err != nil {
		return err
	}

	l.logger.Info("sale deleted", zap.String("sale_id", string(id)))

	l.reconcileBestEffort(ctx, saleMonth)
	return nil
}

// =============================================================================
// GENERIC STATUS TRANSITION
// =============================================================================

// ChangeArtworkStatus applies a user-facing status change through the
// transition table. Independent of the sale workflows; Sold is terminal
// here.
func (l *SalesLedger) ChangeArtworkStatus(ctx context.Context, id domain.ArtworkID, target domain.ArtworkStatus) (*domain.Artwork, error) {
	artwork, err := l.stores.GetArtwork(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.AttemptTransition(artwork.Status, target); err != nil {
		return nil, err
	}
	if err := l.stores.UpdateArtworkStatus(ctx, id, target); err != nil {
		return nil, err
	}
	artwork.Status = target
	return artwork, nil
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconcileGoal is the manual repair entry point: re-invoke whenever drift
// is suspected.
func (l *SalesLedger) ReconcileGoal(ctx context.Context, month domain.MonthKey) (domain.ReconciliationResult, error) {
	return l.reconciler.Reconcile(ctx, month)
}

// reconcileBestEffort runs reconciliation after a ledger mutation. Failures
// are logged, never surfaced: the sale operation succeeds or fails on its
// own merits, and the idempotent reconcile heals on the next call.
func (l *SalesLedger) reconcileBestEffort(ctx context.Context, month domain.MonthKey) {
	if _, err := l.reconciler.Reconcile(ctx, month); err != nil {
		l.logger.Warn("goal reconciliation failed; will self-heal on next reconcile",
			zap.String("month", month.String()),
			zap.Error(err),
		)
	}
}

func normalizeClientID(raw string) *domain.ClientID {
	if raw == "" {
		return nil
	}
	id := domain.ClientID(raw)
	return &id
}
