package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum
type Type string

const (
	TypeIncome         Type = "income"
	TypeSocialSecurity Type = "social_security"
	TypeMedical        Type = "medical"
	TypePension        Type = "pension"
	TypeOther          Type = "other"
)

// Deduction is a configured tax/deduction row. Rate-based rows may clamp to
// a [MinIncome, MaxIncome] window.
type Deduction struct {
	ID            string
	CompanyID     string
	Name          string
	TaxType       Type
	Rate          *decimal.Decimal
	FixedAmount   *decimal.Decimal
	MinIncome     *decimal.Decimal
	MaxIncome     *decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Line is one itemized entry of a tax breakdown.
type Line struct {
	TaxType string          `json:"tax_type"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Rate    decimal.Decimal `json:"rate"`
	Note    string          `json:"note"`
}

// Trace is the full result of one tax calculation, kept in the payroll
// audit trail.
type Trace struct {
	GrossIncome   decimal.Decimal `json:"gross_income"`
	TaxYear       int             `json:"tax_year"`
	Lines         []Line          `json:"lines"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	NetIncome     decimal.Decimal `json:"net_income"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}
