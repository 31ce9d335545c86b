/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  All money and hour values cross the wire as strings ("250.00") and are
  parsed with shopspring/decimal. Floats never touch an amount.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - domain/types.go: The aggregates behind them
*/
package api

import (
	"time"

	"github.com/atelier/sales-engine/domain"
)

const dateFormat = "2006-01-02"

// =============================================================================
// ARTWORK TYPES
// =============================================================================

// ArtworkDTO represents an artwork in API responses.
type ArtworkDTO struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	CostPrice      string  `json:"cost_price"`
	HoursWorked    string  `json:"hours_worked"`
	EstimatedHours *string `json:"estimated_hours,omitempty"`
	Complexity     string  `json:"complexity"`
	Status         string  `json:"status"`
	ImageRef       string  `json:"image_ref,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// CreateArtworkRequest is the request to add an inventory item.
type CreateArtworkRequest struct {
	Title          string  `json:"title"`
	CostPrice      string  `json:"cost_price"`
	HoursWorked    string  `json:"hours_worked"`
	EstimatedHours *string `json:"estimated_hours,omitempty"`
	Complexity     string  `json:"complexity,omitempty"`
	Status         string  `json:"status,omitempty"`
	ImageRef       string  `json:"image_ref,omitempty"`
}

// ChangeStatusRequest is the request to move an artwork through its
// lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// SuggestedPriceDTO is the response of the pricing helper.
type SuggestedPriceDTO struct {
	ArtworkID      string `json:"artwork_id"`
	CostPrice      string `json:"cost_price"`
	Multiplier     string `json:"multiplier"`
	SuggestedPrice string `json:"suggested_price"`
}

// =============================================================================
// SALE TYPES
// =============================================================================

// SaleDTO represents a sale in API responses.
type SaleDTO struct {
	ID                    string  `json:"id"`
	ArtworkID             *string `json:"artwork_id,omitempty"`
	ClientID              *string `json:"client_id,omitempty"`
	Amount                string  `json:"amount"`
	SaleDate              string  `json:"sale_date"`
	ComputedProfit        string  `json:"computed_profit"`
	ComputedProfitPerHour string  `json:"computed_profit_per_hour"`
	PaymentMethod         string  `json:"payment_method"`
	Notes                 string  `json:"notes,omitempty"`
	CreatedAt             string  `json:"created_at,omitempty"`
	UpdatedAt             string  `json:"updated_at,omitempty"`
}

// RegisterSaleRequest is the request to register a sale.
type RegisterSaleRequest struct {
	ArtworkID     string `json:"artwork_id"`
	ClientID      string `json:"client_id,omitempty"`
	Amount        string `json:"amount"`
	SaleDate      string `json:"sale_date"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// UpdateSaleRequest carries the editable fields of a sale. Absent fields are
// left unchanged. artwork_id is not part of the contract: it never changes.
type UpdateSaleRequest struct {
	ClientID      *string `json:"client_id,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	SaleDate      *string `json:"sale_date,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// =============================================================================
// GOAL TYPES
// =============================================================================

// GoalDTO represents a monthly goal in API responses.
type GoalDTO struct {
	ID                 string `json:"id"`
	Month              string `json:"month"` // YYYY-MM
	TargetAmount       string `json:"target_amount"`
	RealizedAmount     string `json:"realized_amount"`
	AchievedPercentage string `json:"achieved_percentage"`
	DailyHoursIdeal    string `json:"daily_hours_ideal"`
	WorkDaysPerWeek    int    `json:"work_days_per_week"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// CreateGoalRequest is the request to define a monthly target.
type CreateGoalRequest struct {
	Month           string `json:"month"` // YYYY-MM
	TargetAmount    string `json:"target_amount"`
	DailyHoursIdeal string `json:"daily_hours_ideal,omitempty"`
	WorkDaysPerWeek int    `json:"work_days_per_week,omitempty"`
}

// ReconciliationDTO is the outcome of a goal reconciliation.
type ReconciliationDTO struct {
	Month              string `json:"month"`
	NoGoalDefined      bool   `json:"no_goal_defined"`
	GoalID             string `json:"goal_id,omitempty"`
	TargetAmount       string `json:"target_amount,omitempty"`
	RealizedAmount     string `json:"realized_amount,omitempty"`
	AchievedPercentage string `json:"achieved_percentage,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toArtworkDTO(a domain.Artwork) ArtworkDTO {
	dto := ArtworkDTO{
		ID:          string(a.ID),
		Title:       a.Title,
		CostPrice:   a.CostPrice.String(),
		HoursWorked: a.HoursWorked.String(),
		Complexity:  string(a.Complexity),
		Status:      string(a.Status),
		ImageRef:    a.ImageRef,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
	if a.EstimatedHours != nil {
		v := a.EstimatedHours.String()
		dto.EstimatedHours = &v
	}
	return dto
}

func toSaleDTO(s domain.Sale) SaleDTO {
	dto := SaleDTO{
		ID:                    string(s.ID),
		Amount:                s.Amount.String(),
		SaleDate:              s.SaleDate.Format(dateFormat),
		ComputedProfit:        s.ComputedProfit.String(),
		ComputedProfitPerHour: s.ComputedProfitPerHour.String(),
		PaymentMethod:         string(s.PaymentMethod),
		Notes:                 s.Notes,
		CreatedAt:             s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             s.UpdatedAt.Format(time.RFC3339),
	}
	if s.ArtworkID != nil {
		v := string(*s.ArtworkID)
		dto.ArtworkID = &v
	}
	if s.ClientID != nil {
		v := string(*s.ClientID)
		dto.ClientID = &v
	}
	return dto
}

func toSaleDTOs(sales []domain.Sale) []SaleDTO {
	dtos := make([]SaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toSaleDTO(s)
	}
	return dtos
}

func toGoalDTO(g domain.MonthlyGoal) GoalDTO {
	return GoalDTO{
		ID:                 string(g.ID),
		Month:              g.Month.String(),
		TargetAmount:       g.TargetAmount.String(),
		RealizedAmount:     g.RealizedAmount.String(),
		AchievedPercentage: g.AchievedPercentage.String(),
		DailyHoursIdeal:    g.DailyHoursIdeal.String(),
		WorkDaysPerWeek:    g.WorkDaysPerWeek,
		CreatedAt:          g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          g.UpdatedAt.Format(time.RFC3339),
	}
}

func toReconciliationDTO(r domain.ReconciliationResult) ReconciliationDTO {
	dto := ReconciliationDTO{
		Month:         r.Month.String(),
		NoGoalDefined: r.NoGoalDefined,
	}
	if !r.NoGoalDefined {
		dto.GoalID = string(r.GoalID)
		dto.TargetAmount = r.TargetAmount.String()
		dto.RealizedAmount = r.RealizedAmount.String()
		dto.AchievedPercentage = r.AchievedPercentage.String()
	}
	return dto
}
