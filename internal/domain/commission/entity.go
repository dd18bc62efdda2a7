package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationType enum
type CalculationType string

const (
	CalculationTypePercentage CalculationType = "percentage"
	CalculationTypeFixed      CalculationType = "fixed"
	CalculationTypeTiered     CalculationType = "tiered"
	CalculationTypeHybrid     CalculationType = "hybrid"
)

// Rule maps an order type to a commission formula. Rules are versioned by
// effective window; selection is by order date, newest created_at winning
// ties, so historical recalculation resolves the rule in force at the time.
type Rule struct {
	ID               string
	CompanyID        string
	OrderType        string
	CalculationType  CalculationType
	BasePercentage   decimal.Decimal
	FixedAmount      decimal.Decimal
	ComplexityMin    float64
	ComplexityMax    float64
	TimeBonusEarly   float64
	TimePenaltyDelay float64
	QualityBonus     float64
	EffectiveFrom    time.Time
	EffectiveTo      *time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderSummary is the slice of a completed order the commission calculator
// needs. Supplied by an OrderCompletionSource.
type OrderSummary struct {
	ID               string
	OrderType        string
	TotalAmount      decimal.Decimal
	OrderDate        time.Time
	DeliveryDate     time.Time
	ComplexityFactor float64
	CompletionDays   int
	DeliveryDays     int
	QualityScore     *float64
}

// Trace records every component of one order's commission for the payroll
// audit trail.
type Trace struct {
	OrderID          string          `json:"order_id"`
	RuleID           string          `json:"rule_id"`
	CalculationType  string          `json:"calculation_type"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	BaseCommission   decimal.Decimal `json:"base_commission"`
	ComplexityFactor float64         `json:"complexity_factor"`
	ComplexityBonus  decimal.Decimal `json:"complexity_bonus"`
	TimeFactor       float64         `json:"time_factor"`
	TimeBonus        decimal.Decimal `json:"time_bonus"`
	QualityFactor    float64         `json:"quality_factor"`
	QualityBonus     decimal.Decimal `json:"quality_bonus"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
}
