package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier/sales-engine/domain"
)

// =============================================================================
// TRANSITION TABLE TESTS
// =============================================================================

func TestAttemptTransition_Table(t *testing.T) {
	// Exhaustive check of the transition table. Sold is terminal through
	// the generic API; every other status can reach every other status.
	cases := []struct {
		from, to domain.ArtworkStatus
		allowed  bool
	}{
		{domain.StatusAvailable, domain.StatusInProduction, true},
		{domain.StatusAvailable, domain.StatusReserved, true},
		{domain.StatusAvailable, domain.StatusSold, true},
		{domain.StatusInProduction, domain.StatusAvailable, true},
		{domain.StatusInProduction, domain.StatusReserved, true},
		{domain.StatusInProduction, domain.StatusSold, true},
		{domain.StatusReserved, domain.StatusAvailable, true},
		{domain.StatusReserved, domain.StatusInProduction, true},
		{domain.StatusReserved, domain.StatusSold, true},
		{domain.StatusSold, domain.StatusAvailable, false},
		{domain.StatusSold, domain.StatusInProduction, false},
		{domain.StatusSold, domain.StatusReserved, false},
	}

	for _, c := range cases {
		err := domain.AttemptTransition(c.from, c.to)
		if c.allowed {
			assert.NoError(t, err, "%s -> %s should be allowed", c.from, c.to)
		} else {
			assert.Error(t, err, "%s -> %s should be rejected", c.from, c.to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
}

func TestAttemptTransition_UnknownStatus_Rejected(t *testing.T) {
	err := domain.AttemptTransition(domain.ArtworkStatus("archived"), domain.StatusSold)
	assert.Error(t, err)

	var tErr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &tErr)
}

func TestIsSellable(t *testing.T) {
	assert.True(t, domain.IsSellable(domain.StatusAvailable))
	assert.True(t, domain.IsSellable(domain.StatusInProduction))
	assert.True(t, domain.IsSellable(domain.StatusReserved))
	assert.False(t, domain.IsSellable(domain.StatusSold))
}

func TestParseStatus(t *testing.T) {
	st, err := domain.ParseStatus("reserved")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, st)

	_, err = domain.ParseStatus("missing")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &domain.InvalidTransitionError{From: domain.StatusSold, To: domain.StatusReserved}
	assert.Contains(t, err.Error(), "sold")
	assert.Contains(t, err.Error(), "reserved")
}
