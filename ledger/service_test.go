package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atelier/sales-engine/domain"
	"github.com/atelier/sales-engine/ledger"
	"github.com/atelier/sales-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) (*ledger.SalesLedger, *memory.Store) {
	store := memory.New()
	return ledger.NewSalesLedger(store, zaptest.NewLogger(t)), store
}

func dec(s string) decimal.Decimal {
	return domain.MustDecimal(s)
}

func seedArtwork(store *memory.Store, id string, cost, hours string, status domain.ArtworkStatus) {
	store.PutArtwork(domain.Artwork{
		ID:          domain.ArtworkID(id),
		Title:       "untitled " + id,
		CostPrice:   dec(cost),
		HoursWorked: dec(hours),
		Complexity:  domain.ComplexityMedium,
		Status:      status,
	})
}

func seedGoal(store *memory.Store, id string, month domain.MonthKey, target string) {
	store.PutGoal(domain.MonthlyGoal{
		ID:           domain.GoalID(id),
		Month:        month,
		TargetAmount: dec(target),
	})
}

func saleInput(artworkID string, amount string, date time.Time) ledger.RegisterSaleInput {
	return ledger.RegisterSaleInput{
		ArtworkID:     domain.ArtworkID(artworkID),
		Amount:        dec(amount),
		SaleDate:      date,
		PaymentMethod: domain.PaymentTransfer,
	}
}

var march10 = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// =============================================================================
// REGISTER SALE
// =============================================================================

func TestRegisterSale_ComputesProfitFields(t *testing.T) {
	// GIVEN: Artwork{cost=100, hours=10, status=Available}
	// WHEN: registerSale(amount=250)
	// THEN: profit=150, profit_per_hour=15, artwork.status=Sold

	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	assert.True(t, sale.ComputedProfit.Equal(dec("150")), "profit should be 150, got %s", sale.ComputedProfit)
	assert.True(t, sale.ComputedProfitPerHour.Equal(dec("15")))
	require.NotNil(t, sale.ArtworkID)
	assert.Equal(t, domain.ArtworkID("art-1"), *sale.ArtworkID)

	artwork, err := store.GetArtwork(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, artwork.Status)
}

func TestRegisterSale_ZeroHours_ProfitPerHourZero(t *testing.T) {
	l, store := newTestLedger(t)
	seedArtwork(store, "art-1", "100", "0", domain.StatusAvailable)

	sale, err := l.RegisterSale(context.Background(), saleInput("art-1", "250", march10))
	require.NoError(t, err)

	assert.True(t, sale.ComputedProfitPerHour.IsZero())
}

func TestRegisterSale_NegativeProfit_Allowed(t *testing.T) {
	l, store := newTestLedger(t)
	seedArtwork(store, "art-1", "300", "10", domain.StatusAvailable)

	sale, err := l.RegisterSale(context.Background(), saleInput("art-1", "250", march10))
	require.NoError(t, err)

	assert.True(t, sale.ComputedProfit.Equal(dec("-50")))
}

func TestRegisterSale_SoldArtwork_Rejected(t *testing.T) {
	// GIVEN: An artwork already Sold
	// WHEN: Registering another sale against it
	// THEN: ArtworkNotSellable, no sale row created

	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	_, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)
	require.Equal(t, 1, store.SaleCount())

	_, err = l.RegisterSale(ctx, saleInput("art-1", "300", march10))
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtworkNotSellable)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var nsErr *domain.NotSellableError
	require.ErrorAs(t, err, &nsErr)
	assert.Equal(t, domain.StatusSold, nsErr.Status)

	assert.Equal(t, 1, store.SaleCount(), "no new sale row on rejection")
}

func TestRegisterSale_ReservedArtwork_Allowed(t *testing.T) {
	// Reserved and InProduction are sellable.
	l, store := newTestLedger(t)
	seedArtwork(store, "art-1", "100", "10", domain.StatusReserved)

	_, err := l.RegisterSale(context.Background(), saleInput("art-1", "250", march10))
	assert.NoError(t, err)
}

func TestRegisterSale_MissingArtwork_NotFound(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.RegisterSale(context.Background(), saleInput("art-missing", "250", march10))
	assert.ErrorIs(t, err, domain.ErrArtworkNotFound)
	assert.True(t, domain.IsNotFound(err))
}

func TestRegisterSale_InvalidAmount_Rejected(t *testing.T) {
	l, store := newTestLedger(t)
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	_, err := l.RegisterSale(context.Background(), saleInput("art-1", "0", march10))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = l.RegisterSale(context.Background(), saleInput("art-1", "-5", march10))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterSale_BlankClient_NormalizedToNone(t *testing.T) {
	l, store := newTestLedger(t)
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	input := saleInput("art-1", "250", march10)
	input.ClientID = ""
	sale, err := l.RegisterSale(context.Background(), input)
	require.NoError(t, err)

	assert.Nil(t, sale.ClientID)
}

func TestRegisterSale_UpdatesGoal(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	month := domain.MonthOf(march10)
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)
	seedGoal(store, "goal-1", month, "1000")

	_, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	goal, err := store.FindGoalByMonth(ctx, month)
	require.NoError(t, err)
	require.NotNil(t, goal)
	assert.True(t, goal.RealizedAmount.Equal(dec("250")))
	assert.True(t, goal.AchievedPercentage.Equal(dec("25")))
}

// =============================================================================
// ATOMICITY AND COMPENSATION
// =============================================================================

func TestRegisterSale_StatusWriteFails_NothingPersisted(t *testing.T) {
	// GIVEN: A store whose artwork status write fails inside the scope
	// WHEN: Registering a sale
	// THEN: The scope rolls back; no sale row, artwork untouched

	store := memory.New()
	wrapped := &failingTxStores{Store: store, failStatusWrite: true}
	l := ledger.NewSalesLedger(wrapped, zaptest.NewLogger(t))
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	_, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.Error(t, err)

	assert.Equal(t, 0, store.SaleCount(), "sale write must roll back with the failed status write")
	artwork, err := store.GetArtwork(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, artwork.Status)
}

func TestRegisterSale_ReconcileFails_SaleStillSucceeds(t *testing.T) {
	// Reconciliation is outside the atomic boundary and best-effort: a
	// broken goal store must not fail the sale.

	store := memory.New()
	wrapped := &failingTxStores{Store: store, failGoalWrite: true}
	l := ledger.NewSalesLedger(wrapped, zaptest.NewLogger(t))
	ctx := context.Background()
	month := domain.MonthOf(march10)
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)
	seedGoal(store, "goal-1", month, "1000")

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, 1, store.SaleCount())

	// Goal is stale until the next reconcile heals it.
	goal, _ := store.FindGoalByMonth(ctx, month)
	require.NotNil(t, goal)
	assert.True(t, goal.RealizedAmount.IsZero())

	wrapped.failGoalWrite = false
	result, err := l.ReconcileGoal(ctx, month)
	require.NoError(t, err)
	assert.True(t, result.RealizedAmount.Equal(dec("250")))
}

func TestRegisterSale_ConcurrentDoubleSell_SecondRejected(t *testing.T) {
	// The storage constraint is the last line of defense: even if a second
	// registration slipped past the sellability check, the one-live-sale-
	// per-artwork rule rejects the second sale row.

	store := memory.New()
	ctx := context.Background()
	artID := domain.ArtworkID("art-1")

	first := domain.Sale{ID: "sale-1", ArtworkID: &artID, Amount: dec("100"), SaleDate: march10}
	second := domain.Sale{ID: "sale-2", ArtworkID: &artID, Amount: dec("120"), SaleDate: march10}

	require.NoError(t, store.CreateSale(ctx, first))
	err := store.CreateSale(ctx, second)
	assert.ErrorIs(t, err, domain.ErrArtworkAlreadySold)
}

// =============================================================================
// UPDATE SALE
// =============================================================================

func TestUpdateSale_AmountChange_RecomputesProfit(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	amount := dec("300")
	updated, err := l.UpdateSale(ctx, sale.ID, ledger.UpdateSaleInput{Amount: &amount})
	require.NoError(t, err)

	assert.True(t, updated.ComputedProfit.Equal(dec("200")))
	assert.True(t, updated.ComputedProfitPerHour.Equal(dec("20")))
}

func TestUpdateSale_WithinEpsilon_NoRecompute(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	amount := dec("250.01")
	updated, err := l.UpdateSale(ctx, sale.ID, ledger.UpdateSaleInput{Amount: &amount})
	require.NoError(t, err)

	// Change is within the 0.01 epsilon: computed fields untouched.
	assert.True(t, updated.ComputedProfit.Equal(dec("150")))
}

func TestUpdateSale_NeverAltersArtworkID(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	notes := "amended"
	amount := dec("400")
	updated, err := l.UpdateSale(ctx, sale.ID, ledger.UpdateSaleInput{Amount: &amount, Notes: &notes})
	require.NoError(t, err)

	require.NotNil(t, updated.ArtworkID)
	assert.Equal(t, domain.ArtworkID("art-1"), *updated.ArtworkID)
}

func TestUpdateSale_Missing_NotFound(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.UpdateSale(context.Background(), "sale-missing", ledger.UpdateSaleInput{})
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestUpdateSale_AmountChange_ReconcilesMonth(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	month := domain.MonthOf(march10)
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)
	seedGoal(store, "goal-1", month, "1000")

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	amount := dec("500")
	_, err = l.UpdateSale(ctx, sale.ID, ledger.UpdateSaleInput{Amount: &amount})
	require.NoError(t, err)

	goal, _ := store.FindGoalByMonth(ctx, month)
	require.NotNil(t, goal)
	assert.True(t, goal.RealizedAmount.Equal(dec("500")))
	assert.True(t, goal.AchievedPercentage.Equal(dec("50")))
}

func TestUpdateSale_DateCrossesMonth_ReconcilesBothMonths(t *testing.T) {
	// GIVEN: A March sale counted against the March goal
	// WHEN: Its date moves to April
	// THEN: March realization drops to zero AND April picks it up -
	//       neither month is left stale

	l, store := newTestLedger(t)
	ctx := context.Background()
	march := domain.MonthOf(march10)
	april := march.Next()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)
	seedGoal(store, "goal-mar", march, "1000")
	seedGoal(store, "goal-apr", april, "800")

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	marGoal, _ := store.FindGoalByMonth(ctx, march)
	require.True(t, marGoal.RealizedAmount.Equal(dec("250")))

	april15 := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	_, err = l.UpdateSale(ctx, sale.ID, ledger.UpdateSaleInput{SaleDate: &april15})
	require.NoError(t, err)

	marGoal, _ = store.FindGoalByMonth(ctx, march)
	aprGoal, _ := store.FindGoalByMonth(ctx, april)
	assert.True(t, marGoal.RealizedAmount.IsZero(), "origin month must be re-reconciled")
	assert.True(t, aprGoal.RealizedAmount.Equal(dec("250")), "destination month must pick up the sale")
}

// =============================================================================
// DELETE SALE
// =============================================================================

func TestDeleteSale_RevertsArtworkToAvailable(t *testing.T) {
	// GIVEN: The only sale referencing a Sold artwork
	// WHEN: Deleting it
	// THEN: The artwork reverts to Available

	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)

	require.NoError(t, l.DeleteSale(ctx, sale.ID))

	artwork, err := store.GetArtwork(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, artwork.Status)
	assert.Equal(t, 0, store.SaleCount())
}

func TestDeleteSale_ReconcilesOriginalMonth(t *testing.T) {
	// Scenario D: realized decreases by the deleted amount.
	l, store := newTestLedger(t)
	ctx := context.Background()
	month := domain.MonthOf(march10)
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)
	seedArtwork(store, "art-2", "50", "5", domain.StatusAvailable)
	seedGoal(store, "goal-1", month, "1000")

	sale, err := l.RegisterSale(ctx, saleInput("art-1", "250", march10))
	require.NoError(t, err)
	_, err = l.RegisterSale(ctx, saleInput("art-2", "300", march10))
	require.NoError(t, err)

	goal, _ := store.FindGoalByMonth(ctx, month)
	require.True(t, goal.RealizedAmount.Equal(dec("550")))

	require.NoError(t, l.DeleteSale(ctx, sale.ID))

	goal, _ = store.FindGoalByMonth(ctx, month)
	assert.True(t, goal.RealizedAmount.Equal(dec("300")), "realized should drop by the deleted 250")
}

func TestDeleteSale_ArtworkIndependentlyRemoved_NoOp(t *testing.T) {
	// The compensation path must be safe when the artwork reference points
	// at nothing: skip silently, still delete the sale and reconcile.

	l, store := newTestLedger(t)
	ctx := context.Background()
	artID := domain.ArtworkID("art-gone")
	require.NoError(t, store.CreateSale(ctx, domain.Sale{
		ID:        "sale-1",
		ArtworkID: &artID,
		Amount:    dec("250"),
		SaleDate:  march10,
	}))

	err := l.DeleteSale(ctx, "sale-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, store.SaleCount())
}

func TestDeleteSale_NilArtworkReference_NoOp(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, store.CreateSale(ctx, domain.Sale{
		ID:       "sale-1",
		Amount:   dec("250"),
		SaleDate: march10,
	}))

	assert.NoError(t, l.DeleteSale(ctx, "sale-1"))
}

func TestDeleteSale_Missing_NotFound(t *testing.T) {
	l, _ := newTestLedger(t)
	err := l.DeleteSale(context.Background(), "sale-missing")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestDeleteSale_ArtworkNotSold_StatusUntouched(t *testing.T) {
	// If the artwork was moved off Sold by some other path, deletion does
	// not rewrite its status.
	l, store := newTestLedger(t)
	ctx := context.Background()
	artID := domain.ArtworkID("art-1")
	seedArtwork(store, "art-1", "100", "10", domain.StatusReserved)
	require.NoError(t, store.CreateSale(ctx, domain.Sale{
		ID:        "sale-1",
		ArtworkID: &artID,
		Amount:    dec("250"),
		SaleDate:  march10,
	}))

	require.NoError(t, l.DeleteSale(ctx, "sale-1"))

	artwork, _ := store.GetArtwork(ctx, "art-1")
	assert.Equal(t, domain.StatusReserved, artwork.Status)
}

// =============================================================================
// GENERIC STATUS TRANSITIONS
// =============================================================================

func TestChangeArtworkStatus_Allowed(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusAvailable)

	artwork, err := l.ChangeArtworkStatus(ctx, "art-1", domain.StatusReserved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, artwork.Status)

	persisted, _ := store.GetArtwork(ctx, "art-1")
	assert.Equal(t, domain.StatusReserved, persisted.Status)
}

func TestChangeArtworkStatus_SoldIsTerminal(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	seedArtwork(store, "art-1", "100", "10", domain.StatusSold)

	_, err := l.ChangeArtworkStatus(ctx, "art-1", domain.StatusAvailable)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	persisted, _ := store.GetArtwork(ctx, "art-1")
	assert.Equal(t, domain.StatusSold, persisted.Status, "status must not change on rejection")
}

func TestChangeArtworkStatus_MissingArtwork_NotFound(t *testing.T) {
	l, _ := newTestLedger(t)
	_, err := l.ChangeArtworkStatus(context.Background(), "art-missing", domain.StatusReserved)
	assert.ErrorIs(t, err, domain.ErrArtworkNotFound)
}

// =============================================================================
// FAILURE-INJECTING STORE WRAPPER
// =============================================================================

var errInjected = errors.New("injected storage failure")

// failingTxStores wraps the memory store, forcing chosen writes to fail.
// It preserves the TxStores upgrade so failures happen inside the scope.
type failingTxStores struct {
	*memory.Store
	failStatusWrite bool
	failGoalWrite   bool
}

func (f *failingTxStores) WithTx(ctx context.Context, fn func(domain.Stores) error) error {
	return f.Store.WithTx(ctx, func(s domain.Stores) error {
		return fn(&failingView{Stores: s, parent: f})
	})
}

func (f *failingTxStores) UpdateGoalRealized(ctx context.Context, id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	if f.failGoalWrite {
		return &domain.InfrastructureError{Op: "update goal", Err: errInjected}
	}
	return f.Store.UpdateGoalRealized(ctx, id, realized, achievedPct)
}

type failingView struct {
	domain.Stores
	parent *failingTxStores
}

func (v *failingView) UpdateArtworkStatus(ctx context.Context, id domain.ArtworkID, status domain.ArtworkStatus) error {
	if v.parent.failStatusWrite {
		return &domain.InfrastructureError{Op: "update artwork status", Err: errInjected}
	}
	return v.Stores.UpdateArtworkStatus(ctx, id, status)
}
