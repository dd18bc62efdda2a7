package commission

import (
	"context"
	"log/slog"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

const (
	// Caps on the time adjustment factor.
	maxEarlyBonusFactor  = 0.5
	maxLatePenaltyFactor = 0.3
)

// Input is everything the calculator needs about one completed order.
type Input struct {
	OrderID          string
	EmployeeID       string
	OrderType        string
	OrderAmount      decimal.Decimal
	OrderDate        time.Time
	ComplexityFactor float64 // 0 means unset, treated as 1.0
	CompletionDays   int
	DeliveryDays     int
	QualityScore     *float64 // 0-100
}

// BatchFailure is one order the batch skipped; the rest of the batch is
// unaffected.
type BatchFailure struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

type Calculator struct {
	ruleRepo commission.RuleRepository
}

func NewCalculator(ruleRepo commission.RuleRepository) *Calculator {
	return &Calculator{ruleRepo: ruleRepo}
}

// Calculate computes one order's commission against the rule in force for
// its order type at the order date. Fails with commission.ErrRuleNotFound
// when no rule matches.
func (c *Calculator) Calculate(ctx context.Context, companyID string, in Input) (commission.Trace, error) {
	asOf := in.OrderDate
	if asOf.IsZero() {
		asOf = time.Now()
	}

	rule, err := c.ruleRepo.GetActiveByOrderType(ctx, companyID, in.OrderType, asOf)
	if err != nil {
		return commission.Trace{}, err
	}

	base := baseCommission(rule, in.OrderAmount)

	complexityFactor := in.ComplexityFactor
	if complexityFactor == 0 {
		complexityFactor = 1.0
	}
	complexityFactor = clampComplexity(complexityFactor, rule)
	// complexityFactor below 1.0 reduces commission
	complexityBonus := base.Mul(decimal.NewFromFloat(complexityFactor - 1))

	timeFactor := timeAdjustmentFactor(in.CompletionDays, in.DeliveryDays, rule)
	timeBonus := base.Mul(decimal.NewFromFloat(timeFactor))

	qualityFactor := qualityAdjustmentFactor(in.QualityScore, rule)
	qualityBonus := base.Mul(decimal.NewFromFloat(qualityFactor))

	total := base.Add(complexityBonus).Add(timeBonus).Add(qualityBonus)

	return commission.Trace{
		OrderID:          in.OrderID,
		RuleID:           rule.ID,
		CalculationType:  string(rule.CalculationType),
		OrderAmount:      in.OrderAmount,
		BaseCommission:   base,
		ComplexityFactor: complexityFactor,
		ComplexityBonus:  complexityBonus,
		TimeFactor:       timeFactor,
		TimeBonus:        timeBonus,
		QualityFactor:    qualityFactor,
		QualityBonus:     qualityBonus,
		TotalCommission:  total,
	}, nil
}

// CalculateBatch processes orders independently: a failure on one order
// (e.g. a missing rule) is logged and collected, never aborting siblings.
func (c *Calculator) CalculateBatch(ctx context.Context, companyID string, inputs []Input) ([]commission.Trace, []BatchFailure) {
	traces := make([]commission.Trace, 0, len(inputs))
	var failures []BatchFailure

	for _, in := range inputs {
		trace, err := c.Calculate(ctx, companyID, in)
		if err != nil {
			slog.Warn("Commission calculation skipped",
				"order_id", in.OrderID,
				"order_type", in.OrderType,
				"error", err,
			)
			failures = append(failures, BatchFailure{OrderID: in.OrderID, Error: err.Error()})
			continue
		}
		traces = append(traces, trace)
	}

	return traces, failures
}

// FromOrder maps an order summary into a calculator input.
func FromOrder(employeeID string, order commission.OrderSummary) Input {
	return Input{
		OrderID:          order.ID,
		EmployeeID:       employeeID,
		OrderType:        order.OrderType,
		OrderAmount:      order.TotalAmount,
		OrderDate:        order.OrderDate,
		ComplexityFactor: order.ComplexityFactor,
		CompletionDays:   order.CompletionDays,
		DeliveryDays:     order.DeliveryDays,
		QualityScore:     order.QualityScore,
	}
}

var oneHundred = decimal.NewFromInt(100)

func baseCommission(rule commission.Rule, amount decimal.Decimal) decimal.Decimal {
	switch rule.CalculationType {
	case commission.CalculationTypePercentage:
		return amount.Mul(rule.BasePercentage).Div(oneHundred)
	case commission.CalculationTypeFixed:
		return rule.FixedAmount
	case commission.CalculationTypeTiered:
		return calculateTiered(rule, amount)
	case commission.CalculationTypeHybrid:
		return amount.Mul(rule.BasePercentage).Div(oneHundred).Add(rule.FixedAmount)
	default:
		return decimal.Zero
	}
}

// calculateTiered is a flat 10% placeholder. Real tier boundaries are not
// defined yet; the tier table belongs on the rule once product settles the
// schema.
func calculateTiered(_ commission.Rule, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(0.10))
}

func clampComplexity(factor float64, rule commission.Rule) float64 {
	if rule.ComplexityMin > 0 && factor < rule.ComplexityMin {
		return rule.ComplexityMin
	}
	if rule.ComplexityMax > 0 && factor > rule.ComplexityMax {
		return rule.ComplexityMax
	}
	return factor
}

// timeAdjustmentFactor rewards early completion (capped +50%) and penalizes
// late delivery (capped -30%). On-time or unknown schedules adjust nothing.
func timeAdjustmentFactor(completionDays, deliveryDays int, rule commission.Rule) float64 {
	if deliveryDays <= 0 || completionDays <= 0 || completionDays == deliveryDays {
		return 0
	}

	if completionDays < deliveryDays {
		factor := float64(deliveryDays-completionDays) / float64(deliveryDays) * rule.TimeBonusEarly
		return min(factor, maxEarlyBonusFactor)
	}

	factor := float64(completionDays-deliveryDays) / float64(deliveryDays) * rule.TimePenaltyDelay
	return -min(factor, maxLatePenaltyFactor)
}

func qualityAdjustmentFactor(score *float64, rule commission.Rule) float64 {
	if score == nil {
		return 0
	}
	switch {
	case *score >= 90:
		return rule.QualityBonus
	case *score >= 70:
		return rule.QualityBonus / 2
	default:
		return 0
	}
}
