package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/sales-engine/domain"
)

func TestMonthOf(t *testing.T) {
	d := time.Date(2025, time.March, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, domain.NewMonthKey(2025, time.March), domain.MonthOf(d))
}

func TestParseMonthKey(t *testing.T) {
	m, err := domain.ParseMonthKey("2025-03")
	require.NoError(t, err)
	assert.Equal(t, domain.NewMonthKey(2025, time.March), m)

	_, err = domain.ParseMonthKey("03/2025")
	assert.Error(t, err)
}

func TestMonthKey_Bounds(t *testing.T) {
	m := domain.NewMonthKey(2025, time.February)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), m.End())
}

func TestMonthKey_Contains(t *testing.T) {
	m := domain.NewMonthKey(2025, time.February)

	assert.True(t, m.Contains(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.Contains(time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMonthKey_NextPrev_YearBoundary(t *testing.T) {
	dec := domain.NewMonthKey(2024, time.December)
	jan := domain.NewMonthKey(2025, time.January)

	assert.Equal(t, jan, dec.Next())
	assert.Equal(t, dec, jan.Prev())
}

func TestMonthKey_String(t *testing.T) {
	assert.Equal(t, "2025-09", domain.NewMonthKey(2025, time.September).String())
}
