package tax

import (
	"context"
	"fmt"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

type Calculator struct {
	policy        tax.Policy
	deductionRepo tax.DeductionRepository
	payrollRepo   payroll.PayrollRepository
}

func NewCalculator(
	policy tax.Policy,
	deductionRepo tax.DeductionRepository,
	payrollRepo payroll.PayrollRepository,
) *Calculator {
	return &Calculator{
		policy:        policy,
		deductionRepo: deductionRepo,
		payrollRepo:   payrollRepo,
	}
}

// Calculate applies the progressive bracket table, the flat social-security
// contribution and any configured deduction rows to annualIncome. The
// caller is responsible for annualization: the figure passed in is already
// the annual-equivalent gross the brackets apply to directly.
//
// Pure computation over fetched policy rows; never mutates stored records.
func (c *Calculator) Calculate(ctx context.Context, companyID string, employeeID string, annualIncome decimal.Decimal, taxYear int) (tax.Trace, error) {
	if len(c.policy.Brackets) == 0 {
		return tax.Trace{}, tax.ErrEmptyPolicy
	}
	if taxYear == 0 {
		taxYear = time.Now().Year()
	}

	trace := tax.Trace{
		GrossIncome: annualIncome,
		TaxYear:     taxYear,
	}

	if annualIncome.LessThanOrEqual(decimal.Zero) {
		trace.NetIncome = annualIncome
		trace.TotalTax = decimal.Zero
		trace.EffectiveRate = decimal.Zero
		return trace, nil
	}

	incomeTax, topRate := progressiveTax(c.policy.Brackets, annualIncome)
	trace.Lines = append(trace.Lines, tax.Line{
		TaxType: string(tax.TypeIncome),
		Name:    "Progressive income tax",
		Amount:  incomeTax,
		Rate:    topRate,
		Note:    fmt.Sprintf("progressive brackets on annual income %s", annualIncome.StringFixed(2)),
	})

	socialSecurity := decimal.Min(annualIncome.Mul(c.policy.SocialSecurityRate), c.policy.SocialSecurityCap)
	trace.Lines = append(trace.Lines, tax.Line{
		TaxType: string(tax.TypeSocialSecurity),
		Name:    "Social security contribution",
		Amount:  socialSecurity,
		Rate:    c.policy.SocialSecurityRate,
		Note:    fmt.Sprintf("min(income * %s, cap %s)", c.policy.SocialSecurityRate.String(), c.policy.SocialSecurityCap.StringFixed(2)),
	})

	deductions, err := c.deductionRepo.ListActiveByCompanyID(ctx, companyID, time.Date(taxYear, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return tax.Trace{}, fmt.Errorf("failed to list tax deductions: %w", err)
	}
	for _, d := range deductions {
		// income tax and social security come from the policy above
		if d.TaxType == tax.TypeIncome || d.TaxType == tax.TypeSocialSecurity {
			continue
		}
		line, ok := deductionLine(d, annualIncome)
		if !ok {
			continue
		}
		trace.Lines = append(trace.Lines, line)
	}

	total := decimal.Zero
	for _, line := range trace.Lines {
		total = total.Add(line.Amount)
	}
	trace.TotalTax = total
	trace.NetIncome = annualIncome.Sub(total)
	trace.EffectiveRate = total.Div(annualIncome).Mul(decimal.NewFromInt(100))

	return trace, nil
}

// progressiveTax walks the brackets in ascending order, accruing tax on the
// slice of income each bracket covers, and returns the total plus the
// marginal rate of the last bracket reached.
func progressiveTax(brackets []tax.Bracket, income decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	total := decimal.Zero
	topRate := decimal.Zero

	for _, bracket := range brackets {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		upper := income
		if bracket.Max.IsPositive() {
			upper = decimal.Min(income, bracket.Max)
		}
		taxable := upper.Sub(bracket.Min)
		if taxable.IsPositive() {
			total = total.Add(taxable.Mul(bracket.Rate))
			topRate = bracket.Rate
		}
	}

	return total, topRate
}

// deductionLine evaluates one configured row. Fixed amounts apply as-is;
// rate rows contribute income*rate clamped to the row's income window
// (zero below min_income, max_income*rate above it).
func deductionLine(d tax.Deduction, income decimal.Decimal) (tax.Line, bool) {
	if d.FixedAmount != nil {
		return tax.Line{
			TaxType: string(d.TaxType),
			Name:    d.Name,
			Amount:  *d.FixedAmount,
			Note:    "fixed amount",
		}, true
	}
	if d.Rate == nil {
		return tax.Line{}, false
	}

	if d.MinIncome != nil && income.LessThan(*d.MinIncome) {
		return tax.Line{}, false
	}

	base := income
	note := fmt.Sprintf("income * %s", d.Rate.String())
	if d.MaxIncome != nil && income.GreaterThan(*d.MaxIncome) {
		base = *d.MaxIncome
		note = fmt.Sprintf("capped at %s * %s", d.MaxIncome.StringFixed(2), d.Rate.String())
	}

	return tax.Line{
		TaxType: string(d.TaxType),
		Name:    d.Name,
		Amount:  base.Mul(*d.Rate),
		Rate:    *d.Rate,
		Note:    note,
	}, true
}

// PersistBreakdown stores a calculated breakdown as the payroll record's
// tax deduction entries and seeds the default policy rows (income tax,
// social security) when a company has none configured yet. This is the
// only operation of the tax service that writes.
func (c *Calculator) PersistBreakdown(ctx context.Context, companyID string, payrollID string, trace tax.Trace) error {
	rate := c.policy.SocialSecurityRate
	defaults := []tax.Deduction{
		{
			CompanyID:     companyID,
			Name:          "Progressive income tax",
			TaxType:       tax.TypeIncome,
			EffectiveFrom: time.Date(trace.TaxYear, 1, 1, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
		},
		{
			CompanyID:     companyID,
			Name:          "Social security contribution",
			TaxType:       tax.TypeSocialSecurity,
			Rate:          &rate,
			MaxIncome:     &c.policy.SocialSecurityCap,
			EffectiveFrom: time.Date(trace.TaxYear, 1, 1, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
		},
	}
	for _, d := range defaults {
		if err := c.deductionRepo.CreateIfMissing(ctx, d); err != nil {
			return fmt.Errorf("failed to seed default tax deduction %q: %w", d.Name, err)
		}
	}

	lines := make([]payroll.TaxLineRow, 0, len(trace.Lines))
	for _, line := range trace.Lines {
		lines = append(lines, payroll.TaxLineRow{
			TaxType: line.TaxType,
			Name:    line.Name,
			Amount:  line.Amount,
			Note:    line.Note,
		})
	}

	return c.payrollRepo.SaveTaxLines(ctx, payrollID, companyID, lines)
}
