package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayPeriod enum
type PayPeriod string

const (
	PayPeriodWeekly   PayPeriod = "weekly"
	PayPeriodBiWeekly PayPeriod = "biweekly"
	PayPeriodMonthly  PayPeriod = "monthly"
)

// AnnualMultiplier converts one period's gross into the annual-equivalent
// figure fed to the tax brackets.
func (p PayPeriod) AnnualMultiplier() int64 {
	switch p {
	case PayPeriodWeekly:
		return 52
	case PayPeriodBiWeekly:
		return 26
	default:
		return 12
	}
}

// ProrationDivisor maps the structure's monthly base salary onto one
// period: monthly as-is, bi-weekly halved, weekly quartered.
func (p PayPeriod) ProrationDivisor() int64 {
	switch p {
	case PayPeriodWeekly:
		return 4
	case PayPeriodBiWeekly:
		return 2
	default:
		return 1
	}
}

// SalaryStructure carries the authoritative rates for one employee.
// Structures are versioned by effective window; once referenced by a
// finalized payroll a structure must not be overwritten, only closed and
// superseded.
type SalaryStructure struct {
	ID                  string
	EmployeeID          string
	CompanyID           string
	BaseSalary          decimal.Decimal
	PayPeriod           PayPeriod
	StandardHoursPerDay float64
	HourlyRate          decimal.Decimal
	OvertimeMultiplier  decimal.Decimal
	WeekendMultiplier   decimal.Decimal
	HolidayMultiplier   decimal.Decimal
	EffectiveFrom       time.Time
	EffectiveTo         *time.Time
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BonusStatus enum
type BonusStatus string

const (
	BonusStatusPending   BonusStatus = "pending"
	BonusStatusApproved  BonusStatus = "approved"
	BonusStatusPaid      BonusStatus = "paid"
	BonusStatusCancelled BonusStatus = "cancelled"
)

// Bonus rows are produced by performance/commission workflows; payroll only
// consumes APPROVED rows matching the exact period.
type Bonus struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	SourceReference *string
	BonusType       string
	Amount          decimal.Decimal
	Currency        string
	Period          string
	PeriodType      PayPeriod
	Status          BonusStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PayrollStatus enum. draft → approved → paid, or draft → cancelled.
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusApproved  PayrollStatus = "approved"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

// PayrollRecord - generated payroll result. Monetary fields are immutable
// once the status leaves draft.
type PayrollRecord struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Period          string
	PeriodType      PayPeriod
	StartDate       time.Time
	EndDate         time.Time
	BaseSalary      decimal.Decimal
	OvertimePay     decimal.Decimal
	CommissionPay   decimal.Decimal
	BonusPay        decimal.Decimal
	TotalEarnings   decimal.Decimal
	TaxDeductions   decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	Status          PayrollStatus
	Trail           CalculationTrail
	ApprovedBy      *string
	ApprovedAt      *time.Time
	PaidBy          *string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	switch s {
	case PayrollStatusDraft:
		return next == PayrollStatusApproved || next == PayrollStatusCancelled
	case PayrollStatusApproved:
		return next == PayrollStatusPaid
	default:
		return false
	}
}
