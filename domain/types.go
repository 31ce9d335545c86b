/*
Package domain provides the core types of the sales fulfillment engine.

PURPOSE:
  This package contains the aggregates and value types shared by the ledger,
  the reconciler, and the storage layer: Artwork (inventory with a lifecycle
  status), Sale (the ledger entry and single source of truth for "this
  artwork was sold"), and MonthlyGoal (a revenue target with derived fields).

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal amounts, rounded to 2 places only at the boundary
  - Artwork/Sale/MonthlyGoal: the three aggregates the engine keeps consistent
  - Typed IDs: prevent mixing artwork, sale, client, and goal identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Derived fields are stored, never trusted: reconciliation overwrites them
  3. Type Safety: Strong typing for IDs

SEE ALSO:
  - status.go: Artwork lifecycle state machine
  - finance.go: Pure financial calculations
  - store.go: Persistence interfaces
*/
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ArtworkID string
type SaleID string
type ClientID string
type GoalID string

// =============================================================================
// MONEY - Decimal helpers
// =============================================================================

// RoundMoney rounds a decimal to 2 places. Apply only where a value is
// persisted or displayed, never during intermediate computation.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MustDecimal parses a decimal literal, returning zero on failure.
// Intended for constants and test fixtures.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AmountEpsilon is the currency-unit tolerance below which an amount change
// is treated as no change (no recompute, no reconcile).
var AmountEpsilon = MustDecimal("0.01")

// =============================================================================
// ARTWORK - Inventory item with cost basis, labor hours, lifecycle status
// =============================================================================

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

type Artwork struct {
	ID             ArtworkID
	Title          string
	CostPrice      decimal.Decimal
	HoursWorked    decimal.Decimal
	EstimatedHours *decimal.Decimal
	Complexity     Complexity
	Status         ArtworkStatus
	ImageRef       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// SALE - Ledger entry: one artwork sold for one amount on one date
// =============================================================================

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentPix      PaymentMethod = "pix"
	PaymentOther    PaymentMethod = "other"
)

type Sale struct {
	ID SaleID

	// ArtworkID is immutable after creation. It may be cleared (nil) only
	// when the referenced artwork is removed elsewhere.
	ArtworkID *ArtworkID
	ClientID  *ClientID

	Amount   decimal.Decimal
	SaleDate time.Time

	// Derived at registration/update time and stored for display and
	// reporting. Not re-derived on every read.
	ComputedProfit        decimal.Decimal
	ComputedProfitPerHour decimal.Decimal

	PaymentMethod PaymentMethod
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// MONTHLY GOAL - Revenue target with derived realized fields
// =============================================================================

// MonthlyGoal carries a target for one calendar month. RealizedAmount and
// AchievedPercentage are derived: reconciliation is their only writer.
type MonthlyGoal struct {
	ID    GoalID
	Month MonthKey

	TargetAmount       decimal.Decimal
	RealizedAmount     decimal.Decimal
	AchievedPercentage decimal.Decimal

	// Planning inputs, untouched by the engine.
	DailyHoursIdeal decimal.Decimal
	WorkDaysPerWeek int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// RECONCILIATION RESULT
// =============================================================================

// ReconciliationResult reports the outcome of a goal reconciliation.
// NoGoalDefined is the non-error outcome when the month has no goal row.
type ReconciliationResult struct {
	Month         MonthKey
	NoGoalDefined bool

	// Populated when a goal exists.
	GoalID             GoalID
	TargetAmount       decimal.Decimal
	RealizedAmount     decimal.Decimal
	AchievedPercentage decimal.Decimal
}
