package tax

import (
	"context"
	"testing"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeductionRepo struct {
	deductions []tax.Deduction
	seeded     []tax.Deduction
}

func (f *fakeDeductionRepo) Create(_ context.Context, d tax.Deduction) (tax.Deduction, error) {
	f.deductions = append(f.deductions, d)
	return d, nil
}

func (f *fakeDeductionRepo) ListActiveByCompanyID(_ context.Context, _ string, _ time.Time) ([]tax.Deduction, error) {
	return f.deductions, nil
}

func (f *fakeDeductionRepo) ListByCompanyID(_ context.Context, _ string) ([]tax.Deduction, error) {
	return f.deductions, nil
}

func (f *fakeDeductionRepo) CreateIfMissing(_ context.Context, d tax.Deduction) error {
	f.seeded = append(f.seeded, d)
	return nil
}

type fakeTaxPayrollRepo struct {
	savedLines []payroll.TaxLineRow
}

func (f *fakeTaxPayrollRepo) CreateRecord(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	return r, nil
}

func (f *fakeTaxPayrollRepo) GetRecordByID(_ context.Context, _ string, _ string) (payroll.PayrollRecord, error) {
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakeTaxPayrollRepo) GetRecordByEmployeePeriod(_ context.Context, _ string, _ string, _ string, _ payroll.PayPeriod) (payroll.PayrollRecord, error) {
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakeTaxPayrollRepo) ListRecords(_ context.Context, _ string, _ payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	return nil, 0, nil
}

func (f *fakeTaxPayrollRepo) TransitionStatus(_ context.Context, _ string, _ string, _, _ payroll.PayrollStatus, _ string) error {
	return nil
}

func (f *fakeTaxPayrollRepo) SaveTaxLines(_ context.Context, _ string, _ string, lines []payroll.TaxLineRow) error {
	f.savedLines = append(f.savedLines, lines...)
	return nil
}

func newTestCalculator(deductions ...tax.Deduction) (*Calculator, *fakeDeductionRepo, *fakeTaxPayrollRepo) {
	deductionRepo := &fakeDeductionRepo{deductions: deductions}
	payrollRepo := &fakeTaxPayrollRepo{}
	return NewCalculator(tax.DefaultPolicy(), deductionRepo, payrollRepo), deductionRepo, payrollRepo
}

func TestTaxCalculator_Calculate_ProgressiveBrackets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc, _, _ := newTestCalculator()

	// 500,000: first 375,000 at 0%, remaining 125,000 at 9% = 11,250.
	// Social security: min(500,000 * 5%, 50,000) = 25,000.
	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(500000), 2026)

	require.NoError(t, err)
	require.Len(t, trace.Lines, 2)
	assert.True(t, trace.Lines[0].Amount.Equal(decimal.NewFromInt(11250)), "income tax: got %s", trace.Lines[0].Amount)
	assert.True(t, trace.Lines[1].Amount.Equal(decimal.NewFromInt(25000)), "social security: got %s", trace.Lines[1].Amount)
	assert.True(t, trace.TotalTax.Equal(decimal.NewFromInt(36250)), "total: got %s", trace.TotalTax)
	assert.True(t, trace.NetIncome.Equal(decimal.NewFromInt(463750)))
	// 36,250 / 500,000 = 7.25%
	assert.True(t, trace.EffectiveRate.Equal(decimal.NewFromFloat(7.25)), "rate: got %s", trace.EffectiveRate)
}

func TestTaxCalculator_Calculate_TopBracket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc, _, _ := newTestCalculator()

	// 2,000,000: 0 + 375,000*9% + 750,000*15% + 500,000*18%
	//          = 33,750 + 112,500 + 90,000 = 236,250.
	// Social security capped at 50,000.
	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(2000000), 2026)

	require.NoError(t, err)
	assert.True(t, trace.Lines[0].Amount.Equal(decimal.NewFromInt(236250)), "income tax: got %s", trace.Lines[0].Amount)
	assert.True(t, trace.Lines[1].Amount.Equal(decimal.NewFromInt(50000)), "social security: got %s", trace.Lines[1].Amount)
}

func TestTaxCalculator_Calculate_ZeroBracketIncome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc, _, _ := newTestCalculator()

	// Entirely inside the 0% bracket; only social security applies.
	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(300000), 2026)

	require.NoError(t, err)
	assert.True(t, trace.Lines[0].Amount.IsZero(), "income tax: got %s", trace.Lines[0].Amount)
	assert.True(t, trace.Lines[1].Amount.Equal(decimal.NewFromInt(15000)))
}

func TestTaxCalculator_Calculate_ZeroIncome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc, _, _ := newTestCalculator()

	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.Zero, 2026)

	require.NoError(t, err)
	assert.True(t, trace.TotalTax.IsZero())
	assert.True(t, trace.EffectiveRate.IsZero())
	assert.Empty(t, trace.Lines)
}

func TestTaxCalculator_Calculate_ConfiguredDeductions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rate := decimal.NewFromFloat(0.02)
	minIncome := decimal.NewFromInt(400000)
	maxIncome := decimal.NewFromInt(600000)
	fixed := decimal.NewFromInt(1200)

	calc, _, _ := newTestCalculator(
		tax.Deduction{Name: "Health insurance", TaxType: tax.TypeMedical, Rate: &rate, MinIncome: &minIncome, MaxIncome: &maxIncome},
		tax.Deduction{Name: "Pension fund", TaxType: tax.TypePension, FixedAmount: &fixed},
	)

	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(800000), 2026)

	require.NoError(t, err)
	require.Len(t, trace.Lines, 4)
	// Rate row clamps to max_income: 600,000 * 2% = 12,000.
	assert.True(t, trace.Lines[2].Amount.Equal(decimal.NewFromInt(12000)), "medical: got %s", trace.Lines[2].Amount)
	assert.True(t, trace.Lines[3].Amount.Equal(decimal.NewFromInt(1200)))
}

func TestTaxCalculator_Calculate_DeductionBelowMinIncome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rate := decimal.NewFromFloat(0.02)
	minIncome := decimal.NewFromInt(600000)

	calc, _, _ := newTestCalculator(
		tax.Deduction{Name: "Health insurance", TaxType: tax.TypeMedical, Rate: &rate, MinIncome: &minIncome},
	)

	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(500000), 2026)

	require.NoError(t, err)
	// Income below the row's window: only the two policy lines remain.
	assert.Len(t, trace.Lines, 2)
}

func TestTaxCalculator_Calculate_PolicyRowsNotDoubleCounted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rate := decimal.NewFromFloat(0.05)
	calc, _, _ := newTestCalculator(
		tax.Deduction{Name: "Social security contribution", TaxType: tax.TypeSocialSecurity, Rate: &rate},
	)

	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(500000), 2026)

	require.NoError(t, err)
	// The configured social_security row is skipped; the policy already
	// produced that line.
	assert.Len(t, trace.Lines, 2)
}

func TestTaxCalculator_Calculate_EmptyPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(tax.Policy{}, &fakeDeductionRepo{}, &fakeTaxPayrollRepo{})

	_, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(500000), 2026)

	assert.ErrorIs(t, err, tax.ErrEmptyPolicy)
}

func TestTaxCalculator_PersistBreakdown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc, deductionRepo, payrollRepo := newTestCalculator()

	trace, err := calc.Calculate(ctx, "company-1", "employee-1", decimal.NewFromInt(500000), 2026)
	require.NoError(t, err)

	err = calc.PersistBreakdown(ctx, "company-1", "payroll-1", trace)

	require.NoError(t, err)
	// Default policy rows are seeded, then every trace line is saved.
	assert.Len(t, deductionRepo.seeded, 2)
	assert.Len(t, payrollRepo.savedLines, 2)
}
