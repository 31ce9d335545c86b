/*
Package memory provides an in-memory implementation of the storage
interfaces, for tests and development.

PURPOSE:
  Implements domain.Stores and domain.TxStores without a database. WithTx is
  simulated with a full snapshot taken before the function runs and restored
  if it fails, giving the same all-or-nothing semantics the SQLite store
  gets from real transactions.

CONSTRAINTS:
  CreateSale enforces the one-live-sale-per-artwork rule, mirroring the
  partial unique index of the SQLite store, so race-defense behavior is
  identical across backends.

SEE ALSO:
  - domain/store.go: Interface definitions
  - store/sqlite: Production implementation
*/
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier/sales-engine/domain"
)

// Store keeps all three aggregates in maps guarded by one RWMutex.
type Store struct {
	mu       sync.RWMutex
	artworks map[domain.ArtworkID]domain.Artwork
	sales    map[domain.SaleID]domain.Sale
	goals    map[domain.GoalID]domain.MonthlyGoal
}

func New() *Store {
	return &Store{
		artworks: make(map[domain.ArtworkID]domain.Artwork),
		sales:    make(map[domain.SaleID]domain.Sale),
		goals:    make(map[domain.GoalID]domain.MonthlyGoal),
	}
}

// =============================================================================
// SEEDING - Test/dev helpers outside the domain interfaces
// =============================================================================

// PutArtwork inserts or replaces an artwork row.
func (m *Store) PutArtwork(a domain.Artwork) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artworks[a.ID] = a
}

// PutGoal inserts or replaces a goal row.
func (m *Store) PutGoal(g domain.MonthlyGoal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.ID] = g
}

// SaleCount returns the number of sale rows.
func (m *Store) SaleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sales)
}

// =============================================================================
// ARTWORK STORE
// =============================================================================

func (m *Store) GetArtwork(_ context.Context, id domain.ArtworkID) (*domain.Artwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getArtworkLocked(id)
}

func (m *Store) getArtworkLocked(id domain.ArtworkID) (*domain.Artwork, error) {
	a, ok := m.artworks[id]
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	out := a
	return &out, nil
}

func (m *Store) UpdateArtworkStatus(_ context.Context, id domain.ArtworkID, status domain.ArtworkStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateArtworkStatusLocked(id, status)
}

func (m *Store) updateArtworkStatusLocked(id domain.ArtworkID, status domain.ArtworkStatus) error {
	a, ok := m.artworks[id]
	if !ok {
		return domain.ErrArtworkNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	m.artworks[id] = a
	return nil
}

// =============================================================================
// SALE STORE
// =============================================================================

func (m *Store) CreateSale(_ context.Context, sale domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createSaleLocked(sale)
}

func (m *Store) createSaleLocked(sale domain.Sale) error {
	// One live sale per artwork, same rule the sqlite partial unique
	// index enforces.
	if sale.ArtworkID != nil {
		for _, existing := range m.sales {
			if existing.ArtworkID != nil && *existing.ArtworkID == *sale.ArtworkID && existing.ID != sale.ID {
				return domain.ErrArtworkAlreadySold
			}
		}
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *Store) GetSale(_ context.Context, id domain.SaleID) (*domain.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getSaleLocked(id)
}

func (m *Store) getSaleLocked(id domain.SaleID) (*domain.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	out := s
	return &out, nil
}

func (m *Store) UpdateSale(_ context.Context, sale domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateSaleLocked(sale)
}

func (m *Store) updateSaleLocked(sale domain.Sale) error {
	if _, ok := m.sales[sale.ID]; !ok {
		return domain.ErrSaleNotFound
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *Store) DeleteSale(_ context.Context, id domain.SaleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteSaleLocked(id)
}

func (m *Store) deleteSaleLocked(id domain.SaleID) error {
	if _, ok := m.sales[id]; !ok {
		return domain.ErrSaleNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *Store) SumAmountForMonth(_ context.Context, month domain.MonthKey) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumAmountForMonthLocked(month)
}

func (m *Store) sumAmountForMonthLocked(month domain.MonthKey) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range m.sales {
		if month.Contains(s.SaleDate) {
			total = total.Add(s.Amount)
		}
	}
	return total, nil
}

// =============================================================================
// GOAL STORE
// =============================================================================

func (m *Store) FindGoalByMonth(_ context.Context, month domain.MonthKey) (*domain.MonthlyGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findGoalByMonthLocked(month)
}

func (m *Store) findGoalByMonthLocked(month domain.MonthKey) (*domain.MonthlyGoal, error) {
	for _, g := range m.goals {
		if g.Month == month {
			out := g
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Store) UpdateGoalRealized(_ context.Context, id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateGoalRealizedLocked(id, realized, achievedPct)
}

func (m *Store) updateGoalRealizedLocked(id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	g, ok := m.goals[id]
	if !ok {
		return domain.ErrGoalNotFound
	}
	g.RealizedAmount = realized
	g.AchievedPercentage = achievedPct
	g.UpdatedAt = time.Now().UTC()
	m.goals[id] = g
	return nil
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes fn against a transactional view. Rollback is simulated
// with a snapshot taken before fn runs.
func (m *Store) WithTx(ctx context.Context, fn func(domain.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()

	view := &txView{parent: m}
	if err := fn(view); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	artworks map[domain.ArtworkID]domain.Artwork
	sales    map[domain.SaleID]domain.Sale
	goals    map[domain.GoalID]domain.MonthlyGoal
}

func (m *Store) snapshot() storeSnapshot {
	s := storeSnapshot{
		artworks: make(map[domain.ArtworkID]domain.Artwork, len(m.artworks)),
		sales:    make(map[domain.SaleID]domain.Sale, len(m.sales)),
		goals:    make(map[domain.GoalID]domain.MonthlyGoal, len(m.goals)),
	}
	for k, v := range m.artworks {
		s.artworks[k] = v
	}
	for k, v := range m.sales {
		s.sales[k] = v
	}
	for k, v := range m.goals {
		s.goals[k] = v
	}
	return s
}

func (m *Store) restore(s storeSnapshot) {
	m.artworks = s.artworks
	m.sales = s.sales
	m.goals = s.goals
}

// txView delegates to the parent's unlocked internals; the parent holds the
// write lock for the duration of WithTx.
type txView struct {
	parent *Store
}

func (v *txView) GetArtwork(_ context.Context, id domain.ArtworkID) (*domain.Artwork, error) {
	return v.parent.getArtworkLocked(id)
}

func (v *txView) UpdateArtworkStatus(_ context.Context, id domain.ArtworkID, status domain.ArtworkStatus) error {
	return v.parent.updateArtworkStatusLocked(id, status)
}

func (v *txView) CreateSale(_ context.Context, sale domain.Sale) error {
	return v.parent.createSaleLocked(sale)
}

func (v *txView) GetSale(_ context.Context, id domain.SaleID) (*domain.Sale, error) {
	return v.parent.getSaleLocked(id)
}

func (v *txView) UpdateSale(_ context.Context, sale domain.Sale) error {
	return v.parent.updateSaleLocked(sale)
}

func (v *txView) DeleteSale(_ context.Context, id domain.SaleID) error {
	return v.parent.deleteSaleLocked(id)
}

func (v *txView) SumAmountForMonth(_ context.Context, month domain.MonthKey) (decimal.Decimal, error) {
	return v.parent.sumAmountForMonthLocked(month)
}

func (v *txView) FindGoalByMonth(_ context.Context, month domain.MonthKey) (*domain.MonthlyGoal, error) {
	return v.parent.findGoalByMonthLocked(month)
}

func (v *txView) UpdateGoalRealized(_ context.Context, id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	return v.parent.updateGoalRealizedLocked(id, realized, achievedPct)
}
