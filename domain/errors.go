/*
errors.go - Centralized error types for the sales engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy is:
    1. Validation errors   - malformed input that reached the engine
    2. Not-found errors    - referenced artwork, sale, client, or goal missing
    3. State errors        - disallowed status transitions, unsellable artwork
    4. Infrastructure errors - storage unreachable or transaction failure

PROPAGATION POLICY:
  Validation / not-found / state errors are returned to the caller as typed
  results; never retried automatically, never swallowed. Infrastructure
  errors are safe to retry: ledger writes are transactional and goal
  reconciliation is idempotent.

USAGE:
  if errors.Is(err, domain.ErrArtworkNotSellable) { ... }

  var tErr *domain.InvalidTransitionError
  if errors.As(err, &tErr) { ... }

SEE ALSO:
  - ledger/service.go: Produces these errors
  - api/handlers.go: Maps them to HTTP statuses
*/
package domain

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrArtworkNotFound is returned when a referenced artwork doesn't exist.
	ErrArtworkNotFound = errors.New("artwork not found")

	// ErrSaleNotFound is returned when a referenced sale doesn't exist.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrGoalNotFound is returned when a referenced goal doesn't exist.
	// Note: a missing goal during reconciliation is NOT an error; this
	// sentinel is for direct goal lookups only.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrArtworkNotSellable is returned when registering a sale against an
	// artwork whose status is Sold. It unwraps to ErrInvalidTransition:
	// selling is a domain-level state transition.
	ErrArtworkNotSellable = fmt.Errorf("artwork is not sellable: %w", ErrInvalidTransition)

	// ErrArtworkAlreadySold is returned when the storage-level uniqueness
	// constraint (one live sale per artwork) rejects a write. This is the
	// last line of defense against concurrent registrations.
	ErrArtworkAlreadySold = errors.New("artwork already has an active sale")

	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrInfrastructure marks storage-level failures. Safe to retry.
	ErrInfrastructure = errors.New("infrastructure failure")

	// ErrDuplicateGoalMonth is returned when creating a second goal for a
	// month that already has one.
	ErrDuplicateGoalMonth = errors.New("goal already exists for month")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidTransitionError reports a disallowed artwork status change.
type InvalidTransitionError struct {
	From ArtworkStatus
	To   ArtworkStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NotSellableError reports an attempt to sell an unsellable artwork.
type NotSellableError struct {
	ArtworkID ArtworkID
	Status    ArtworkStatus
}

func (e *NotSellableError) Error() string {
	return fmt.Sprintf("artwork %s is not sellable (status: %s)", e.ArtworkID, e.Status)
}

func (e *NotSellableError) Unwrap() error {
	return ErrArtworkNotSellable
}

// ValidationFieldError reports a single malformed input field. Primary
// validation happens at the outer boundary; this is defense in depth.
type ValidationFieldError struct {
	Field   string
	Message string
}

func (e *ValidationFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationFieldError) Unwrap() error {
	return ErrValidation
}

// InfrastructureError wraps a storage-level failure with the operation that
// produced it.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return ErrInfrastructure
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing aggregate.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrArtworkNotFound) ||
		errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, ErrGoalNotFound)
}

// IsClientError returns true if the error is due to invalid client input or
// a disallowed state change. These are never retried.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrArtworkNotSellable) ||
		errors.Is(err, ErrArtworkAlreadySold) ||
		errors.Is(err, ErrDuplicateGoalMonth)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}
