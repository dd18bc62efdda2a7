package commission

import (
	"context"
	"testing"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleRepo struct {
	rules map[string]commission.Rule // keyed by order type
}

func (f *fakeRuleRepo) Create(_ context.Context, r commission.Rule) (commission.Rule, error) {
	return r, nil
}

func (f *fakeRuleRepo) GetActiveByOrderType(_ context.Context, _ string, orderType string, _ time.Time) (commission.Rule, error) {
	rule, ok := f.rules[orderType]
	if !ok {
		return commission.Rule{}, commission.ErrRuleNotFound
	}
	return rule, nil
}

func (f *fakeRuleRepo) ListByCompanyID(_ context.Context, _ string, _ bool) ([]commission.Rule, error) {
	var rules []commission.Rule
	for _, r := range f.rules {
		rules = append(rules, r)
	}
	return rules, nil
}

func percentageRule() commission.Rule {
	return commission.Rule{
		ID:               "rule-1",
		CompanyID:        "company-1",
		OrderType:        "suit",
		CalculationType:  commission.CalculationTypePercentage,
		BasePercentage:   decimal.NewFromInt(10),
		ComplexityMin:    0.5,
		ComplexityMax:    2.0,
		TimeBonusEarly:   1.0,
		TimePenaltyDelay: 1.0,
		QualityBonus:     0.2,
		IsActive:         true,
	}
}

func suitCalculator(rule commission.Rule) *Calculator {
	return NewCalculator(&fakeRuleRepo{rules: map[string]commission.Rule{"suit": rule}})
}

func TestCommissionCalculator_Calculate_Percentage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := suitCalculator(percentageRule())

	trace, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:        "order-1",
		OrderType:      "suit",
		OrderAmount:    decimal.NewFromInt(1000),
		CompletionDays: 5,
		DeliveryDays:   5,
	})

	require.NoError(t, err)
	assert.True(t, trace.BaseCommission.Equal(decimal.NewFromInt(100)), "got %s", trace.BaseCommission)
	// No adjustments: complexity defaults to 1.0, on-time, no quality score.
	assert.True(t, trace.TotalCommission.Equal(decimal.NewFromInt(100)), "got %s", trace.TotalCommission)
}

func TestCommissionCalculator_Calculate_Fixed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rule := percentageRule()
	rule.CalculationType = commission.CalculationTypeFixed
	rule.FixedAmount = decimal.NewFromInt(75)
	calc := suitCalculator(rule)

	trace, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:     "order-1",
		OrderType:   "suit",
		OrderAmount: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	assert.True(t, trace.BaseCommission.Equal(decimal.NewFromInt(75)))
}

func TestCommissionCalculator_Calculate_Hybrid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rule := percentageRule()
	rule.CalculationType = commission.CalculationTypeHybrid
	rule.FixedAmount = decimal.NewFromInt(50)
	calc := suitCalculator(rule)

	trace, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:     "order-1",
		OrderType:   "suit",
		OrderAmount: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	// 10% of 1000 + 50
	assert.True(t, trace.BaseCommission.Equal(decimal.NewFromInt(150)))
}

func TestCommissionCalculator_Calculate_ComplexityClamped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := suitCalculator(percentageRule())

	trace, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:          "order-1",
		OrderType:        "suit",
		OrderAmount:      decimal.NewFromInt(1000),
		ComplexityFactor: 5.0, // above rule max 2.0
	})

	require.NoError(t, err)
	assert.Equal(t, 2.0, trace.ComplexityFactor)
	// base 100, complexity bonus 100*(2.0-1) = 100
	assert.True(t, trace.ComplexityBonus.Equal(decimal.NewFromInt(100)))
}

func TestCommissionCalculator_Calculate_EarlyBonusCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rule := percentageRule()
	rule.TimeBonusEarly = 2.0 // uncapped factor would be (9/10)*2.0 = 1.8
	calc := suitCalculator(rule)

	trace, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:        "order-1",
		OrderType:      "suit",
		OrderAmount:    decimal.NewFromInt(1000),
		CompletionDays: 1,
		DeliveryDays:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, 0.5, trace.TimeFactor)
	assert.True(t, trace.TimeBonus.Equal(decimal.NewFromInt(50)))
}

func TestCommissionCalculator_Calculate_LatePenaltyCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rule := percentageRule()
	rule.TimePenaltyDelay = 2.0
	calc := suitCalculator(rule)

	trace, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:        "order-1",
		OrderType:      "suit",
		OrderAmount:    decimal.NewFromInt(1000),
		CompletionDays: 20,
		DeliveryDays:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, -0.3, trace.TimeFactor)
	assert.True(t, trace.TimeBonus.Equal(decimal.NewFromInt(-30)), "got %s", trace.TimeBonus)
}

func TestCommissionCalculator_Calculate_QualityTiers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := suitCalculator(percentageRule())

	cases := []struct {
		name     string
		score    float64
		expected float64
	}{
		{"excellent gets full bonus", 95, 0.2},
		{"good gets half bonus", 75, 0.1},
		{"poor gets nothing", 60, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := tc.score
			trace, err := calc.Calculate(ctx, "company-1", Input{
				OrderID:      "order-1",
				OrderType:    "suit",
				OrderAmount:  decimal.NewFromInt(1000),
				QualityScore: &score,
			})

			require.NoError(t, err)
			assert.InDelta(t, tc.expected, trace.QualityFactor, 0.0001)
		})
	}
}

func TestCommissionCalculator_Calculate_RuleNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeRuleRepo{rules: map[string]commission.Rule{}})

	_, err := calc.Calculate(ctx, "company-1", Input{
		OrderID:     "order-1",
		OrderType:   "dress",
		OrderAmount: decimal.NewFromInt(500),
	})

	assert.ErrorIs(t, err, commission.ErrRuleNotFound)
}

func TestCommissionCalculator_CalculateBatch_PartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := suitCalculator(percentageRule())

	inputs := []Input{
		{OrderID: "order-1", OrderType: "suit", OrderAmount: decimal.NewFromInt(1000)},
		{OrderID: "order-2", OrderType: "dress", OrderAmount: decimal.NewFromInt(500)}, // no rule
		{OrderID: "order-3", OrderType: "suit", OrderAmount: decimal.NewFromInt(2000)},
	}

	traces, failures := calc.CalculateBatch(ctx, "company-1", inputs)

	assert.Len(t, traces, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, "order-2", failures[0].OrderID)
}
