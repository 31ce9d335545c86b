/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements domain.Stores and domain.TxStores using SQLite. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  artworks: Inventory items with cost basis, hours, lifecycle status
  sales:    The sale ledger - source of truth for realized revenue
  goals:    Monthly targets with derived realized fields

CONSTRAINTS:
  idx_one_sale_per_artwork is the database-level last line of defense
  against two concurrent registrations selling the same artwork: at most
  one live sale row may reference an artwork. Violations surface as
  domain.ErrArtworkAlreadySold. goals.month is unique: one goal per month.

DECIMALS:
  Money and hour values are stored as TEXT and re-parsed with
  shopspring/decimal. SumAmountForMonth loads the month's amounts and sums
  them in Go rather than using SQL SUM, so no precision is lost.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WithTx holds the write lock for the
  whole scope, so reads inside a transaction observe a stable state.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

USAGE:
  store, err := sqlite.New("./data/atelier.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - domain/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/atelier/sales-engine/domain"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so every query helper runs
// identically inside and outside a transaction scope.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single pooled connection also keeps
	// ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Artworks (inventory; the engine reads cost/hours and writes status)
	CREATE TABLE IF NOT EXISTS artworks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		cost_price TEXT NOT NULL,
		hours_worked TEXT NOT NULL DEFAULT '0',
		estimated_hours TEXT,
		complexity TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'available',
		image_ref TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_artworks_status
		ON artworks(status);

	-- Sales (the ledger)
	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		artwork_id TEXT,
		client_id TEXT,
		amount TEXT NOT NULL,
		sale_date TEXT NOT NULL,
		computed_profit TEXT NOT NULL DEFAULT '0',
		computed_profit_per_hour TEXT NOT NULL DEFAULT '0',
		payment_method TEXT NOT NULL DEFAULT 'other',
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: at most one live sale per artwork. Two concurrent
	-- registrations can both pass the sellability check; this constraint
	-- rejects the second insert.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_one_sale_per_artwork
		ON sales(artwork_id)
		WHERE artwork_id IS NOT NULL;

	-- Month aggregation (hot path for reconciliation)
	CREATE INDEX IF NOT EXISTS idx_sales_sale_date
		ON sales(sale_date);
	CREATE INDEX IF NOT EXISTS idx_sales_client
		ON sales(client_id) WHERE client_id IS NOT NULL;

	-- Monthly goals (one per month; derived fields overwritten by
	-- reconciliation)
	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		month TEXT NOT NULL UNIQUE,
		target_amount TEXT NOT NULL,
		realized_amount TEXT NOT NULL DEFAULT '0',
		achieved_percentage TEXT NOT NULL DEFAULT '0',
		daily_hours_ideal TEXT NOT NULL DEFAULT '0',
		work_days_per_week INTEGER NOT NULL DEFAULT 5,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ARTWORK STORE (domain.ArtworkStore interface)
// =============================================================================

// GetArtwork returns the artwork or domain.ErrArtworkNotFound.
func (s *Store) GetArtwork(ctx context.Context, id domain.ArtworkID) (*domain.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getArtwork(ctx, s.db, id)
}

func getArtwork(ctx context.Context, db dbtx, id domain.ArtworkID) (*domain.Artwork, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, title, cost_price, hours_worked, estimated_hours,
		       complexity, status, image_ref, created_at, updated_at
		FROM artworks WHERE id = ?`, id)
	return scanArtwork(row)
}

// UpdateArtworkStatus persists a new status without touching other fields.
func (s *Store) UpdateArtworkStatus(ctx context.Context, id domain.ArtworkID, status domain.ArtworkStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateArtworkStatus(ctx, s.db, id, status)
}

func updateArtworkStatus(ctx context.Context, db dbtx, id domain.ArtworkID, status domain.ArtworkStatus) error {
	res, err := db.ExecContext(ctx,
		`UPDATE artworks SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return &domain.InfrastructureError{Op: "update artwork status", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.InfrastructureError{Op: "update artwork status", Err: err}
	}
	if n == 0 {
		return domain.ErrArtworkNotFound
	}
	return nil
}

// CreateArtwork inserts a new artwork row. Used by the inventory API and
// seeding, not by the engine workflows.
func (s *Store) CreateArtwork(ctx context.Context, a domain.Artwork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(timeFormat)
	var estimated any
	if a.EstimatedHours != nil {
		estimated = a.EstimatedHours.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artworks
		(id, title, cost_price, hours_worked, estimated_hours, complexity,
		 status, image_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.CostPrice.String(), a.HoursWorked.String(),
		estimated, a.Complexity, a.Status, nullString(a.ImageRef), now, now)
	if err != nil {
		return &domain.InfrastructureError{Op: "create artwork", Err: err}
	}
	return nil
}

// ListArtworks returns all artworks ordered by creation time.
func (s *Store) ListArtworks(ctx context.Context) ([]domain.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, cost_price, hours_worked, estimated_hours,
		       complexity, status, image_ref, created_at, updated_at
		FROM artworks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "list artworks", Err: err}
	}
	defer rows.Close()

	var artworks []domain.Artwork
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, *a)
	}
	return artworks, rows.Err()
}

// =============================================================================
// SALE STORE (domain.SaleStore interface)
// =============================================================================

// CreateSale persists a new sale row. A second live sale for the same
// artwork violates idx_one_sale_per_artwork and returns
// domain.ErrArtworkAlreadySold.
func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createSale(ctx, s.db, sale)
}

func createSale(ctx context.Context, db dbtx, sale domain.Sale) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sales
		(id, artwork_id, client_id, amount, sale_date, computed_profit,
		 computed_profit_per_hour, payment_method, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID,
		artworkIDOrNil(sale.ArtworkID),
		clientIDOrNil(sale.ClientID),
		sale.Amount.String(),
		sale.SaleDate.UTC().Format(dateFormat),
		sale.ComputedProfit.String(),
		sale.ComputedProfitPerHour.String(),
		sale.PaymentMethod,
		nullString(sale.Notes),
		sale.CreatedAt.UTC().Format(timeFormat),
		sale.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrArtworkAlreadySold
		}
		return &domain.InfrastructureError{Op: "create sale", Err: err}
	}
	return nil
}

// GetSale returns the sale or domain.ErrSaleNotFound.
func (s *Store) GetSale(ctx context.Context, id domain.SaleID) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSale(ctx, s.db, id)
}

func getSale(ctx context.Context, db dbtx, id domain.SaleID) (*domain.Sale, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, artwork_id, client_id, amount, sale_date, computed_profit,
		       computed_profit_per_hour, payment_method, notes, created_at, updated_at
		FROM sales WHERE id = ?`, id)
	return scanSale(row)
}

// UpdateSale overwrites an existing sale row. artwork_id is deliberately
// absent from the SET list: it never changes after creation.
func (s *Store) UpdateSale(ctx context.Context, sale domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateSale(ctx, s.db, sale)
}

func updateSale(ctx context.Context, db dbtx, sale domain.Sale) error {
	res, err := db.ExecContext(ctx, `
		UPDATE sales SET
			client_id = ?, amount = ?, sale_date = ?, computed_profit = ?,
			computed_profit_per_hour = ?, payment_method = ?, notes = ?,
			updated_at = ?
		WHERE id = ?`,
		clientIDOrNil(sale.ClientID),
		sale.Amount.String(),
		sale.SaleDate.UTC().Format(dateFormat),
		sale.ComputedProfit.String(),
		sale.ComputedProfitPerHour.String(),
		sale.PaymentMethod,
		nullString(sale.Notes),
		sale.UpdatedAt.UTC().Format(timeFormat),
		sale.ID,
	)
	if err != nil {
		return &domain.InfrastructureError{Op: "update sale", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.InfrastructureError{Op: "update sale", Err: err}
	}
	if n == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// DeleteSale removes a sale row.
func (s *Store) DeleteSale(ctx context.Context, id domain.SaleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteSale(ctx, s.db, id)
}

func deleteSale(ctx context.Context, db dbtx, id domain.SaleID) error {
	res, err := db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return &domain.InfrastructureError{Op: "delete sale", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.InfrastructureError{Op: "delete sale", Err: err}
	}
	if n == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// SumAmountForMonth sums sale amounts for the month in Go to keep decimal
// precision; TEXT columns and SQL SUM don't mix.
func (s *Store) SumAmountForMonth(ctx context.Context, month domain.MonthKey) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumAmountForMonth(ctx, s.db, month)
}

func sumAmountForMonth(ctx context.Context, db dbtx, month domain.MonthKey) (decimal.Decimal, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT amount FROM sales WHERE sale_date >= ? AND sale_date < ?`,
		month.Start().Format(dateFormat), month.End().Format(dateFormat))
	if err != nil {
		return decimal.Zero, &domain.InfrastructureError{Op: "sum sales for month", Err: err}
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, &domain.InfrastructureError{Op: "sum sales for month", Err: err}
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, &domain.InfrastructureError{Op: "sum sales for month", Err: err}
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}

// ListSales returns all sales, most recent sale date first.
func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, artwork_id, client_id, amount, sale_date, computed_profit,
		       computed_profit_per_hour, payment_method, notes, created_at, updated_at
		FROM sales ORDER BY sale_date DESC, created_at DESC`)
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "list sales", Err: err}
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

// =============================================================================
// GOAL STORE (domain.GoalStore interface)
// =============================================================================

// FindGoalByMonth returns the goal or (nil, nil) when the month has none.
func (s *Store) FindGoalByMonth(ctx context.Context, month domain.MonthKey) (*domain.MonthlyGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findGoalByMonth(ctx, s.db, month)
}

func findGoalByMonth(ctx context.Context, db dbtx, month domain.MonthKey) (*domain.MonthlyGoal, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, month, target_amount, realized_amount, achieved_percentage,
		       daily_hours_ideal, work_days_per_week, created_at, updated_at
		FROM goals WHERE month = ?`, month.String())

	goal, err := scanGoal(row)
	if err == domain.ErrGoalNotFound {
		return nil, nil // absence is not an error
	}
	return goal, err
}

// UpdateGoalRealized overwrites the derived fields.
func (s *Store) UpdateGoalRealized(ctx context.Context, id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateGoalRealized(ctx, s.db, id, realized, achievedPct)
}

func updateGoalRealized(ctx context.Context, db dbtx, id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	res, err := db.ExecContext(ctx, `
		UPDATE goals SET realized_amount = ?, achieved_percentage = ?, updated_at = ?
		WHERE id = ?`,
		realized.String(), achievedPct.String(),
		time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return &domain.InfrastructureError{Op: "update goal", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.InfrastructureError{Op: "update goal", Err: err}
	}
	if n == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// CreateGoal inserts a new monthly goal. A duplicate month violates the
// unique constraint and returns domain.ErrDuplicateGoalMonth.
func (s *Store) CreateGoal(ctx context.Context, g domain.MonthlyGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(timeFormat)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals
		(id, month, target_amount, realized_amount, achieved_percentage,
		 daily_hours_ideal, work_days_per_week, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Month.String(), g.TargetAmount.String(),
		g.RealizedAmount.String(), g.AchievedPercentage.String(),
		g.DailyHoursIdeal.String(), g.WorkDaysPerWeek, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateGoalMonth
		}
		return &domain.InfrastructureError{Op: "create goal", Err: err}
	}
	return nil
}

// ListGoals returns all goals ordered by month.
func (s *Store) ListGoals(ctx context.Context) ([]domain.MonthlyGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month, target_amount, realized_amount, achieved_percentage,
		       daily_hours_ideal, work_days_per_week, created_at, updated_at
		FROM goals ORDER BY month ASC`)
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "list goals", Err: err}
	}
	defer rows.Close()

	var goals []domain.MonthlyGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE (domain.TxStores interface)
// =============================================================================

// WithTx executes fn within a database transaction. The write lock is held
// for the whole scope, so reads inside it observe a stable state.
func (s *Store) WithTx(ctx context.Context, fn func(domain.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.InfrastructureError{Op: "begin transaction", Err: err}
	}
	defer sqlTx.Rollback()

	if err := fn(&txStores{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return &domain.InfrastructureError{Op: "commit transaction", Err: err}
	}
	return nil
}

// txStores routes every store operation through the open transaction.
type txStores struct {
	tx *sql.Tx
}

func (ts *txStores) GetArtwork(ctx context.Context, id domain.ArtworkID) (*domain.Artwork, error) {
	return getArtwork(ctx, ts.tx, id)
}

func (ts *txStores) UpdateArtworkStatus(ctx context.Context, id domain.ArtworkID, status domain.ArtworkStatus) error {
	return updateArtworkStatus(ctx, ts.tx, id, status)
}

func (ts *txStores) CreateSale(ctx context.Context, sale domain.Sale) error {
	return createSale(ctx, ts.tx, sale)
}

func (ts *txStores) GetSale(ctx context.Context, id domain.SaleID) (*domain.Sale, error) {
	return getSale(ctx, ts.tx, id)
}

func (ts *txStores) UpdateSale(ctx context.Context, sale domain.Sale) error {
	return updateSale(ctx, ts.tx, sale)
}

func (ts *txStores) DeleteSale(ctx context.Context, id domain.SaleID) error {
	return deleteSale(ctx, ts.tx, id)
}

func (ts *txStores) SumAmountForMonth(ctx context.Context, month domain.MonthKey) (decimal.Decimal, error) {
	return sumAmountForMonth(ctx, ts.tx, month)
}

func (ts *txStores) FindGoalByMonth(ctx context.Context, month domain.MonthKey) (*domain.MonthlyGoal, error) {
	return findGoalByMonth(ctx, ts.tx, month)
}

func (ts *txStores) UpdateGoalRealized(ctx context.Context, id domain.GoalID, realized, achievedPct decimal.Decimal) error {
	return updateGoalRealized(ctx, ts.tx, id, realized, achievedPct)
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtwork(row rowScanner) (*domain.Artwork, error) {
	var (
		a              domain.Artwork
		costPrice      string
		hoursWorked    string
		estimatedHours sql.NullString
		imageRef       sql.NullString
		createdAt      string
		updatedAt      string
	)

	err := row.Scan(&a.ID, &a.Title, &costPrice, &hoursWorked, &estimatedHours,
		&a.Complexity, &a.Status, &imageRef, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrArtworkNotFound
	}
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "scan artwork", Err: err}
	}

	a.CostPrice = domain.MustDecimal(costPrice)
	a.HoursWorked = domain.MustDecimal(hoursWorked)
	if estimatedHours.Valid {
		v := domain.MustDecimal(estimatedHours.String)
		a.EstimatedHours = &v
	}
	a.ImageRef = imageRef.String
	a.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	a.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &a, nil
}

func scanSale(row rowScanner) (*domain.Sale, error) {
	var (
		sale          domain.Sale
		artworkID     sql.NullString
		clientID      sql.NullString
		amount        string
		saleDate      string
		profit        string
		profitPerHour string
		notes         sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(&sale.ID, &artworkID, &clientID, &amount, &saleDate,
		&profit, &profitPerHour, &sale.PaymentMethod, &notes, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "scan sale", Err: err}
	}

	if artworkID.Valid {
		id := domain.ArtworkID(artworkID.String)
		sale.ArtworkID = &id
	}
	if clientID.Valid {
		id := domain.ClientID(clientID.String)
		sale.ClientID = &id
	}
	sale.Amount = domain.MustDecimal(amount)
	sale.SaleDate, _ = time.Parse(dateFormat, saleDate)
	sale.ComputedProfit = domain.MustDecimal(profit)
	sale.ComputedProfitPerHour = domain.MustDecimal(profitPerHour)
	sale.Notes = notes.String
	sale.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	sale.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &sale, nil
}

func scanGoal(row rowScanner) (*domain.MonthlyGoal, error) {
	var (
		g          domain.MonthlyGoal
		month      string
		target     string
		realized   string
		achieved   string
		dailyHours string
		createdAt  string
		updatedAt  string
	)

	err := row.Scan(&g.ID, &month, &target, &realized, &achieved,
		&dailyHours, &g.WorkDaysPerWeek, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrGoalNotFound
	}
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "scan goal", Err: err}
	}

	g.Month, _ = domain.ParseMonthKey(month)
	g.TargetAmount = domain.MustDecimal(target)
	g.RealizedAmount = domain.MustDecimal(realized)
	g.AchievedPercentage = domain.MustDecimal(achieved)
	g.DailyHoursIdeal = domain.MustDecimal(dailyHours)
	g.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	g.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &g, nil
}

// =============================================================================
// SQL HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func artworkIDOrNil(id *domain.ArtworkID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

func clientIDOrNil(id *domain.ClientID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
