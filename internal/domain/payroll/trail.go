package payroll

import (
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// DayHours is one attendance day's bucket split. A day's excess over
// standard hours lands in exactly one of overtime/weekend, the weekend
// bucket taking priority.
type DayHours struct {
	Date          string  `json:"date"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	WeekendHours  float64 `json:"weekend_hours"`
	HolidayHours  float64 `json:"holiday_hours"`
	Status        string  `json:"status"`
}

// OvertimePolicy echoes the salary structure rates an overtime calculation
// used, so the trail reproduces the pay conversion.
type OvertimePolicy struct {
	StandardHoursPerDay float64         `json:"standard_hours_per_day"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier  decimal.Decimal `json:"overtime_multiplier"`
	WeekendMultiplier   decimal.Decimal `json:"weekend_multiplier"`
	HolidayMultiplier   decimal.Decimal `json:"holiday_multiplier"`
}

// OvertimeTrace is the overtime calculator's full output.
type OvertimeTrace struct {
	RegularHours  float64        `json:"regular_hours"`
	OvertimeHours float64        `json:"overtime_hours"`
	WeekendHours  float64        `json:"weekend_hours"`
	HolidayHours  float64        `json:"holiday_hours"`
	Days          []DayHours     `json:"days"`
	Policy        OvertimePolicy `json:"policy"`
}

// BonusLine is one approved bonus included in a payroll.
type BonusLine struct {
	BonusID   string          `json:"bonus_id"`
	BonusType string          `json:"bonus_type"`
	Amount    decimal.Decimal `json:"amount"`
}

// CalculationTrail is the typed audit trail persisted with every payroll
// record (stored as JSONB). It carries every sub-calculation verbatim so a
// payslip can be reproduced without re-running the pipeline.
type CalculationTrail struct {
	Overtime         OvertimeTrace      `json:"overtime"`
	Commissions      []commission.Trace `json:"commissions"`
	Bonuses          []BonusLine        `json:"bonuses"`
	AnnualizedIncome decimal.Decimal    `json:"annualized_income"`
	Tax              *tax.Trace         `json:"tax,omitempty"`
	TaxDegraded      bool               `json:"tax_degraded,omitempty"`
}
