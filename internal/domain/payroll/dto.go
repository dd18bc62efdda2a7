package payroll

import (
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	EmployeeID string  `json:"employee_id"`
	Period     string  `json:"period"` // "2026-08"
	PeriodType string  `json:"period_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TaxYear    *int    `json:"tax_year,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validatePeriodFields(r.Period, r.PeriodType, r.StartDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkGeneratePayrollRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active employees
	Period      string   `json:"period"`
	PeriodType  string   `json:"period_type"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	TaxYear     *int     `json:"tax_year,omitempty"`
}

func (r *BulkGeneratePayrollRequest) Validate() error {
	errs := validatePeriodFields(r.Period, r.PeriodType, r.StartDate, r.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriodFields(period, periodType, startDate, endDate string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be formatted YYYY-MM"})
	}
	validPeriods := []string{string(PayPeriodWeekly), string(PayPeriodBiWeekly), string(PayPeriodMonthly)}
	if !validator.IsInSlice(periodType, validPeriods) {
		errs = append(errs, validator.ValidationError{Field: "period_type", Message: "must be 'weekly', 'biweekly' or 'monthly'"})
	}
	start, startOK := validator.IsValidDate(startDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := validator.IsValidDate(endDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	return errs
}

// BulkFailure identifies one employee whose generation failed; siblings in
// the batch are unaffected.
type BulkFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type BulkGenerateResponse struct {
	Generated []PayrollRecordResponse `json:"generated"`
	Failed    []BulkFailure           `json:"failed"`
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    string           `json:"employee_name,omitempty"`
	EmployeeCode    string           `json:"employee_code,omitempty"`
	Period          string           `json:"period"`
	PeriodType      string           `json:"period_type"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	OvertimePay     decimal.Decimal  `json:"overtime_pay"`
	CommissionPay   decimal.Decimal  `json:"commission_pay"`
	BonusPay        decimal.Decimal  `json:"bonus_pay"`
	TotalEarnings   decimal.Decimal  `json:"total_earnings"`
	TaxDeductions   decimal.Decimal  `json:"tax_deductions"`
	OtherDeductions decimal.Decimal  `json:"other_deductions"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	NetPay          decimal.Decimal  `json:"net_pay"`
	Status          string           `json:"status"`
	Trail           CalculationTrail `json:"calculation_trail"`
	ApprovedAt      *string          `json:"approved_at,omitempty"`
	PaidAt          *string          `json:"paid_at,omitempty"`
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// ========== SALARY STRUCTURE DTOs ==========

type CreateSalaryStructureRequest struct {
	EmployeeID          string          `json:"employee_id"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	PayPeriod           string          `json:"pay_period"`
	StandardHoursPerDay float64         `json:"standard_hours_per_day"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier  decimal.Decimal `json:"overtime_multiplier"`
	WeekendMultiplier   decimal.Decimal `json:"weekend_multiplier"`
	HolidayMultiplier   decimal.Decimal `json:"holiday_multiplier"`
	EffectiveFrom       string          `json:"effective_from"`
}

func (r *CreateSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be positive"})
	}
	validPeriods := []string{string(PayPeriodWeekly), string(PayPeriodBiWeekly), string(PayPeriodMonthly)}
	if !validator.IsInSlice(r.PayPeriod, validPeriods) {
		errs = append(errs, validator.ValidationError{Field: "pay_period", Message: "must be 'weekly', 'biweekly' or 'monthly'"})
	}
	if r.StandardHoursPerDay <= 0 || r.StandardHoursPerDay > 24 {
		errs = append(errs, validator.ValidationError{Field: "standard_hours_per_day", Message: "must be between 0 and 24"})
	}
	if r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryStructureResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	PayPeriod           string          `json:"pay_period"`
	StandardHoursPerDay float64         `json:"standard_hours_per_day"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier  decimal.Decimal `json:"overtime_multiplier"`
	WeekendMultiplier   decimal.Decimal `json:"weekend_multiplier"`
	HolidayMultiplier   decimal.Decimal `json:"holiday_multiplier"`
	EffectiveFrom       string          `json:"effective_from"`
	EffectiveTo         *string         `json:"effective_to,omitempty"`
	IsActive            bool            `json:"is_active"`
}

// ========== BONUS DTOs ==========

type CreateBonusRequest struct {
	EmployeeID      string          `json:"employee_id"`
	SourceReference *string         `json:"source_reference,omitempty"`
	BonusType       string          `json:"bonus_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Period          string          `json:"period"`
	PeriodType      string          `json:"period_type"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.BonusType) {
		errs = append(errs, validator.ValidationError{Field: "bonus_type", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if !validator.IsValidPeriod(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be formatted YYYY-MM"})
	}
	validPeriods := []string{string(PayPeriodWeekly), string(PayPeriodBiWeekly), string(PayPeriodMonthly)}
	if !validator.IsInSlice(r.PeriodType, validPeriods) {
		errs = append(errs, validator.ValidationError{Field: "period_type", Message: "must be 'weekly', 'biweekly' or 'monthly'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BonusResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	SourceReference *string         `json:"source_reference,omitempty"`
	BonusType       string          `json:"bonus_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Period          string          `json:"period"`
	PeriodType      string          `json:"period_type"`
	Status          string          `json:"status"`
}

// ========== HELPERS ==========

// FormatDate renders dates the way every response in this API does.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
