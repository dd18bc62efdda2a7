package tax

import (
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateDeductionRequest struct {
	Name          string           `json:"name"`
	TaxType       string           `json:"tax_type"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	FixedAmount   *decimal.Decimal `json:"fixed_amount,omitempty"`
	MinIncome     *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome     *decimal.Decimal `json:"max_income,omitempty"`
	EffectiveFrom string           `json:"effective_from"`
	EffectiveTo   *string          `json:"effective_to,omitempty"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	validTypes := []string{
		string(TypeIncome), string(TypeSocialSecurity), string(TypeMedical),
		string(TypePension), string(TypeOther),
	}
	if !validator.IsInSlice(r.TaxType, validTypes) {
		errs = append(errs, validator.ValidationError{Field: "tax_type", Message: "must be 'income', 'social_security', 'medical', 'pension' or 'other'"})
	}
	if r.Rate == nil && r.FixedAmount == nil {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "either rate or fixed_amount is required"})
	}
	if r.Rate != nil && r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be non-negative"})
	}
	if r.FixedAmount != nil && r.FixedAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "fixed_amount", Message: "must be non-negative"})
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

type DeductionResponse struct {
	ID            string           `json:"id"`
	CompanyID     string           `json:"company_id"`
	Name          string           `json:"name"`
	TaxType       string           `json:"tax_type"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	FixedAmount   *decimal.Decimal `json:"fixed_amount,omitempty"`
	MinIncome     *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome     *decimal.Decimal `json:"max_income,omitempty"`
	EffectiveFrom string           `json:"effective_from"`
	EffectiveTo   *string          `json:"effective_to,omitempty"`
	IsActive      bool             `json:"is_active"`
}
