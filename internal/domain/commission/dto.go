package commission

import (
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	OrderType        string          `json:"order_type"`
	CalculationType  string          `json:"calculation_type"`
	BasePercentage   decimal.Decimal `json:"base_percentage"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	ComplexityMin    float64         `json:"complexity_min"`
	ComplexityMax    float64         `json:"complexity_max"`
	TimeBonusEarly   float64         `json:"time_bonus_early"`
	TimePenaltyDelay float64         `json:"time_penalty_delay"`
	QualityBonus     float64         `json:"quality_bonus"`
	EffectiveFrom    string          `json:"effective_from"`
	EffectiveTo      *string         `json:"effective_to,omitempty"`
}

func (r *CreateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OrderType) {
		errs = append(errs, validator.ValidationError{Field: "order_type", Message: "is required"})
	}
	validTypes := []string{
		string(CalculationTypePercentage),
		string(CalculationTypeFixed),
		string(CalculationTypeTiered),
		string(CalculationTypeHybrid),
	}
	if !validator.IsInSlice(r.CalculationType, validTypes) {
		errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "must be 'percentage', 'fixed', 'tiered' or 'hybrid'"})
	}
	if r.BasePercentage.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_percentage", Message: "must be non-negative"})
	}
	if r.FixedAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "fixed_amount", Message: "must be non-negative"})
	}
	if r.ComplexityMax > 0 && r.ComplexityMax < r.ComplexityMin {
		errs = append(errs, validator.ValidationError{Field: "complexity_max", Message: "must be greater than or equal to complexity_min"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RuleResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	OrderType        string          `json:"order_type"`
	CalculationType  string          `json:"calculation_type"`
	BasePercentage   decimal.Decimal `json:"base_percentage"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	ComplexityMin    float64         `json:"complexity_min"`
	ComplexityMax    float64         `json:"complexity_max"`
	TimeBonusEarly   float64         `json:"time_bonus_early"`
	TimePenaltyDelay float64         `json:"time_penalty_delay"`
	QualityBonus     float64         `json:"quality_bonus"`
	EffectiveFrom    string          `json:"effective_from"`
	EffectiveTo      *string         `json:"effective_to,omitempty"`
	IsActive         bool            `json:"is_active"`
}
