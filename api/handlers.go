/*
handlers.go - HTTP API handlers for the sales fulfillment engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, outer-boundary validation, and delegates to the ledger.

ENDPOINTS:
  Artworks:
    GET    /api/artworks                      List inventory
    POST   /api/artworks                      Add inventory item
    GET    /api/artworks/{id}                 Get artwork
    POST   /api/artworks/{id}/status          Lifecycle transition
    GET    /api/artworks/{id}/suggested-price Pricing helper

  Sales:
    GET    /api/sales                         List sales
    POST   /api/sales                         Register a sale
    GET    /api/sales/{id}                    Get sale
    PUT    /api/sales/{id}                    Amend a sale
    DELETE /api/sales/{id}                    Delete a sale (with compensation)

  Goals:
    GET    /api/goals                         List monthly goals
    POST   /api/goals                         Define a monthly target
    GET    /api/goals/{month}                 Get goal for a month
    POST   /api/goals/{month}/reconcile       Manual reconciliation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (amounts numeric and positive, dates well-formed)
  3. Call the ledger / store
  4. Serialize response
  5. Map errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, disallowed transitions
  - 404: Resource not found
  - 409: Conflict (double sell, duplicate goal month)
  - 500: Infrastructure errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - ledger/service.go: The workflows behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atelier/sales-engine/domain"
	"github.com/atelier/sales-engine/ledger"
	"github.com/atelier/sales-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Ledger *ledger.SalesLedger
	Logger *zap.Logger
}

// NewHandler creates a new handler with the given store and ledger.
func NewHandler(store *sqlite.Store, salesLedger *ledger.SalesLedger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: store, Ledger: salesLedger, Logger: logger}
}

// =============================================================================
// ARTWORK HANDLERS
// =============================================================================

// ListArtworks returns all inventory items.
func (h *Handler) ListArtworks(w http.ResponseWriter, r *http.Request) {
	artworks, err := h.Store.ListArtworks(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]ArtworkDTO, len(artworks))
	for i, a := range artworks {
		dtos[i] = toArtworkDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetArtwork returns a single artwork.
func (h *Handler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	id := domain.ArtworkID(chi.URLParam(r, "id"))

	artwork, err := h.Store.GetArtwork(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArtworkDTO(*artwork))
}

// CreateArtwork adds an inventory item.
func (h *Handler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
	var req CreateArtworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", nil)
		return
	}

	costPrice, err := parseAmount(req.CostPrice, "cost_price", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	hoursWorked := decimal.Zero
	if req.HoursWorked != "" {
		hoursWorked, err = parseAmount(req.HoursWorked, "hours_worked", false)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	status := domain.StatusAvailable
	if req.Status != "" {
		status, err = domain.ParseStatus(req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status", err)
			return
		}
	}

	complexity := domain.ComplexityMedium
	if req.Complexity != "" {
		complexity = domain.Complexity(req.Complexity)
	}

	artwork := domain.Artwork{
		ID:          domain.ArtworkID(uuid.NewString()),
		Title:       req.Title,
		CostPrice:   costPrice,
		HoursWorked: hoursWorked,
		Complexity:  complexity,
		Status:      status,
		ImageRef:    req.ImageRef,
	}
	if req.EstimatedHours != nil {
		estimated, err := parseAmount(*req.EstimatedHours, "estimated_hours", false)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		artwork.EstimatedHours = &estimated
	}

	if err := h.Store.CreateArtwork(r.Context(), artwork); err != nil {
		h.respondError(w, err)
		return
	}

	created, err := h.Store.GetArtwork(r.Context(), artwork.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toArtworkDTO(*created))
}

// ChangeArtworkStatus applies a lifecycle transition.
func (h *Handler) ChangeArtworkStatus(w http.ResponseWriter, r *http.Request) {
	id := domain.ArtworkID(chi.URLParam(r, "id"))

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status", err)
		return
	}

	artwork, err := h.Ledger.ChangeArtworkStatus(r.Context(), id, target)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArtworkDTO(*artwork))
}

// SuggestedPrice returns cost-plus pricing guidance for an artwork. The
// multiplier can be overridden with ?multiplier=.
func (h *Handler) SuggestedPrice(w http.ResponseWriter, r *http.Request) {
	id := domain.ArtworkID(chi.URLParam(r, "id"))

	artwork, err := h.Store.GetArtwork(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	multiplier := domain.DefaultPriceMultiplier
	if raw := r.URL.Query().Get("multiplier"); raw != "" {
		multiplier, err = parseAmount(raw, "multiplier", true)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	writeJSON(w, http.StatusOK, SuggestedPriceDTO{
		ArtworkID:      string(artwork.ID),
		CostPrice:      artwork.CostPrice.String(),
		Multiplier:     multiplier.String(),
		SuggestedPrice: domain.RoundMoney(domain.SuggestedPrice(artwork.CostPrice, multiplier)).String(),
	})
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

// ListSales returns the full sale ledger.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTOs(sales))
}

// GetSale returns a single sale.
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id := domain.SaleID(chi.URLParam(r, "id"))

	sale, err := h.Store.GetSale(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(*sale))
}

// RegisterSale registers a sale against an artwork.
func (h *Handler) RegisterSale(w http.ResponseWriter, r *http.Request) {
	var req RegisterSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	amount, err := parseAmount(req.Amount, "amount", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	saleDate, err := time.Parse(dateFormat, req.SaleDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sale_date format (use YYYY-MM-DD)", err)
		return
	}

	sale, err := h.Ledger.RegisterSale(r.Context(), ledger.RegisterSaleInput{
		ArtworkID:     domain.ArtworkID(req.ArtworkID),
		ClientID:      req.ClientID,
		Amount:        amount,
		SaleDate:      saleDate,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(*sale))
}

// UpdateSale amends a sale's editable fields.
func (h *Handler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id := domain.SaleID(chi.URLParam(r, "id"))

	var req UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	input := ledger.UpdateSaleInput{
		ClientID: req.ClientID,
		Notes:    req.Notes,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount, "amount", true)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		input.Amount = &amount
	}
	if req.SaleDate != nil {
		saleDate, err := time.Parse(dateFormat, *req.SaleDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sale_date format (use YYYY-MM-DD)", err)
			return
		}
		input.SaleDate = &saleDate
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	sale, err := h.Ledger.UpdateSale(r.Context(), id, input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(*sale))
}

// DeleteSale deletes a sale and runs its compensations.
func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id := domain.SaleID(chi.URLParam(r, "id"))

	if err := h.Ledger.DeleteSale(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// GOAL HANDLERS
// =============================================================================

// ListGoals returns all monthly goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Store.ListGoals(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]GoalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = toGoalDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetGoal returns the goal for a month.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	month, err := domain.ParseMonthKey(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)", err)
		return
	}

	goal, err := h.Store.FindGoalByMonth(r.Context(), month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "no goal defined for month", nil)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTO(*goal))
}

// CreateGoal defines a monthly target. The new goal is reconciled
// immediately so its realized fields reflect any sales already recorded for
// the month.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	month, err := domain.ParseMonthKey(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)", err)
		return
	}
	target, err := parseAmount(req.TargetAmount, "target_amount", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	dailyHours := decimal.Zero
	if req.DailyHoursIdeal != "" {
		dailyHours, err = parseAmount(req.DailyHoursIdeal, "daily_hours_ideal", false)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}
	workDays := req.WorkDaysPerWeek
	if workDays == 0 {
		workDays = 5
	}

	goal := domain.MonthlyGoal{
		ID:              domain.GoalID(uuid.NewString()),
		Month:           month,
		TargetAmount:    target,
		DailyHoursIdeal: dailyHours,
		WorkDaysPerWeek: workDays,
	}
	if err := h.Store.CreateGoal(r.Context(), goal); err != nil {
		h.respondError(w, err)
		return
	}

	if _, err := h.Ledger.ReconcileGoal(r.Context(), month); err != nil {
		h.Logger.Warn("initial goal reconciliation failed",
			zap.String("month", month.String()), zap.Error(err))
	}

	created, err := h.Store.FindGoalByMonth(r.Context(), month)
	if err != nil || created == nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalDTO(*created))
}

// ReconcileGoal recomputes the month's realized fields from the ledger.
// Idempotent; safe to invoke whenever drift is suspected.
func (h *Handler) ReconcileGoal(w http.ResponseWriter, r *http.Request) {
	month, err := domain.ParseMonthKey(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)", err)
		return
	}

	result, err := h.Ledger.ReconcileGoal(r.Context(), month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconciliationDTO(result))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// respondError maps domain errors to HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrArtworkAlreadySold),
		errors.Is(err, domain.ErrDuplicateGoalMonth):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case domain.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// parseAmount parses a decimal string from the wire. Floats are never used
// for money.
func parseAmount(raw, field string, mustBePositive bool) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &domain.ValidationFieldError{Field: field, Message: "must be a decimal number"}
	}
	if mustBePositive && !d.IsPositive() {
		return decimal.Zero, &domain.ValidationFieldError{Field: field, Message: "must be greater than zero"}
	}
	if !mustBePositive && d.IsNegative() {
		return decimal.Zero, &domain.ValidationFieldError{Field: field, Message: "must not be negative"}
	}
	return d, nil
}
