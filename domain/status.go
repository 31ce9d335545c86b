/*
status.go - Artwork lifecycle state machine

PURPOSE:
  A closed enumeration over artwork statuses with an explicit transition
  table, so invalid transitions are an exhaustively-testable concern rather
  than string comparisons scattered through business logic.

TRANSITION TABLE:
  Available    -> InProduction, Reserved, Sold
  InProduction -> Available, Reserved, Sold
  Reserved     -> Available, InProduction, Sold
  Sold         -> (none via the generic API)

SOLD IS TERMINAL:
  AttemptTransition never allows leaving Sold. The single sanctioned bypass
  is the ledger's deletion compensation, which writes Available directly
  through the store because "un-selling" is not a user-facing transition.

SEE ALSO:
  - ledger/service.go: ChangeArtworkStatus and the deletion compensation
  - errors.go: InvalidTransitionError
*/
package domain

// =============================================================================
// ARTWORK STATUS
// =============================================================================

type ArtworkStatus string

const (
	StatusAvailable    ArtworkStatus = "available"
	StatusInProduction ArtworkStatus = "in_production"
	StatusReserved     ArtworkStatus = "reserved"
	StatusSold         ArtworkStatus = "sold"
)

// AllStatuses lists every valid status, for validation and tests.
var AllStatuses = []ArtworkStatus{
	StatusAvailable,
	StatusInProduction,
	StatusReserved,
	StatusSold,
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (ArtworkStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &ValidationFieldError{Field: "status", Message: "unknown status: " + s}
}

// =============================================================================
// TRANSITION TABLE
// =============================================================================

// transitions maps each status to the set of statuses reachable through the
// generic API. Sold maps to an empty set: terminal.
var transitions = map[ArtworkStatus]map[ArtworkStatus]bool{
	StatusAvailable: {
		StatusInProduction: true,
		StatusReserved:     true,
		StatusSold:         true,
	},
	StatusInProduction: {
		StatusAvailable: true,
		StatusReserved:  true,
		StatusSold:      true,
	},
	StatusReserved: {
		StatusAvailable:    true,
		StatusInProduction: true,
		StatusSold:         true,
	},
	StatusSold: {},
}

// AttemptTransition checks whether current -> target is allowed.
// Pure function: callers separately persist the new status.
func AttemptTransition(current, target ArtworkStatus) error {
	allowed, known := transitions[current]
	if !known {
		return &InvalidTransitionError{From: current, To: target}
	}
	if !allowed[target] {
		return &InvalidTransitionError{From: current, To: target}
	}
	return nil
}

// CanTransition reports whether current -> target is allowed.
func CanTransition(current, target ArtworkStatus) bool {
	return AttemptTransition(current, target) == nil
}

// IsSellable returns true for every status except Sold.
func IsSellable(status ArtworkStatus) bool {
	return status != StatusSold
}
