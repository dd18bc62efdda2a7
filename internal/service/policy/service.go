package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
	"github.com/sartoria-hq/tailor-backend-go/internal/repository/postgresql"
)

// PolicyService administers the compensation policy records the payroll
// pipeline reads: salary structures, commission rules, tax deductions and
// bonuses. Plain CRUD glue; the calculation engine never writes these.
type PolicyService interface {
	// Salary structures
	CreateSalaryStructure(ctx context.Context, req payroll.CreateSalaryStructureRequest) (payroll.SalaryStructureResponse, error)
	ListSalaryStructures(ctx context.Context, employeeID string) ([]payroll.SalaryStructureResponse, error)

	// Commission rules
	CreateCommissionRule(ctx context.Context, req commission.CreateRuleRequest) (commission.RuleResponse, error)
	ListCommissionRules(ctx context.Context, activeOnly bool) ([]commission.RuleResponse, error)

	// Tax deductions
	CreateTaxDeduction(ctx context.Context, req tax.CreateDeductionRequest) (tax.DeductionResponse, error)
	ListTaxDeductions(ctx context.Context) ([]tax.DeductionResponse, error)

	// Bonuses
	CreateBonus(ctx context.Context, req payroll.CreateBonusRequest) (payroll.BonusResponse, error)
	ApproveBonus(ctx context.Context, id string) error
	ListBonuses(ctx context.Context, employeeID string) ([]payroll.BonusResponse, error)
}

type PolicyServiceImpl struct {
	db            *database.DB
	structureRepo payroll.SalaryStructureRepository
	ruleRepo      commission.RuleRepository
	deductionRepo tax.DeductionRepository
	bonusRepo     payroll.BonusRepository
}

func NewPolicyService(
	db *database.DB,
	structureRepo payroll.SalaryStructureRepository,
	ruleRepo commission.RuleRepository,
	deductionRepo tax.DeductionRepository,
	bonusRepo payroll.BonusRepository,
) PolicyService {
	return &PolicyServiceImpl{
		db:            db,
		structureRepo: structureRepo,
		ruleRepo:      ruleRepo,
		deductionRepo: deductionRepo,
		bonusRepo:     bonusRepo,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// ========== SALARY STRUCTURES ==========

func (s *PolicyServiceImpl) CreateSalaryStructure(ctx context.Context, req payroll.CreateSalaryStructureRequest) (payroll.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)

	structure := payroll.SalaryStructure{
		EmployeeID:          req.EmployeeID,
		CompanyID:           companyID,
		BaseSalary:          req.BaseSalary,
		PayPeriod:           payroll.PayPeriod(req.PayPeriod),
		StandardHoursPerDay: req.StandardHoursPerDay,
		HourlyRate:          req.HourlyRate,
		OvertimeMultiplier:  req.OvertimeMultiplier,
		WeekendMultiplier:   req.WeekendMultiplier,
		HolidayMultiplier:   req.HolidayMultiplier,
		EffectiveFrom:       effectiveFrom,
		IsActive:            true,
	}

	// Structures are versioned, never overwritten: close the open window
	// and create the successor atomically.
	var created payroll.SalaryStructure
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.structureRepo.CloseWindow(txCtx, req.EmployeeID, companyID, effectiveFrom); err != nil {
			return err
		}
		created, err = s.structureRepo.Create(txCtx, structure)
		return err
	})
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	return mapToStructureResponse(created), nil
}

func (s *PolicyServiceImpl) ListSalaryStructures(ctx context.Context, employeeID string) ([]payroll.SalaryStructureResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	structures, err := s.structureRepo.ListByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.SalaryStructureResponse, 0, len(structures))
	for _, structure := range structures {
		result = append(result, mapToStructureResponse(structure))
	}
	return result, nil
}

// ========== COMMISSION RULES ==========

func (s *PolicyServiceImpl) CreateCommissionRule(ctx context.Context, req commission.CreateRuleRequest) (commission.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.RuleResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return commission.RuleResponse{}, err
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	var effectiveTo *time.Time
	if req.EffectiveTo != nil {
		parsed, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		effectiveTo = &parsed
	}

	rule := commission.Rule{
		CompanyID:        companyID,
		OrderType:        req.OrderType,
		CalculationType:  commission.CalculationType(req.CalculationType),
		BasePercentage:   req.BasePercentage,
		FixedAmount:      req.FixedAmount,
		ComplexityMin:    req.ComplexityMin,
		ComplexityMax:    req.ComplexityMax,
		TimeBonusEarly:   req.TimeBonusEarly,
		TimePenaltyDelay: req.TimePenaltyDelay,
		QualityBonus:     req.QualityBonus,
		EffectiveFrom:    effectiveFrom,
		EffectiveTo:      effectiveTo,
		IsActive:         true,
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		return commission.RuleResponse{}, err
	}

	return mapToRuleResponse(created), nil
}

func (s *PolicyServiceImpl) ListCommissionRules(ctx context.Context, activeOnly bool) ([]commission.RuleResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListByCompanyID(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]commission.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		result = append(result, mapToRuleResponse(rule))
	}
	return result, nil
}

// ========== TAX DEDUCTIONS ==========

func (s *PolicyServiceImpl) CreateTaxDeduction(ctx context.Context, req tax.CreateDeductionRequest) (tax.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.DeductionResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return tax.DeductionResponse{}, err
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	var effectiveTo *time.Time
	if req.EffectiveTo != nil {
		parsed, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		effectiveTo = &parsed
	}

	deduction := tax.Deduction{
		CompanyID:     companyID,
		Name:          req.Name,
		TaxType:       tax.Type(req.TaxType),
		Rate:          req.Rate,
		FixedAmount:   req.FixedAmount,
		MinIncome:     req.MinIncome,
		MaxIncome:     req.MaxIncome,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		IsActive:      true,
	}

	created, err := s.deductionRepo.Create(ctx, deduction)
	if err != nil {
		return tax.DeductionResponse{}, err
	}

	return mapToDeductionResponse(created), nil
}

func (s *PolicyServiceImpl) ListTaxDeductions(ctx context.Context) ([]tax.DeductionResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	deductions, err := s.deductionRepo.ListByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]tax.DeductionResponse, 0, len(deductions))
	for _, deduction := range deductions {
		result = append(result, mapToDeductionResponse(deduction))
	}
	return result, nil
}

// ========== BONUSES ==========

func (s *PolicyServiceImpl) CreateBonus(ctx context.Context, req payroll.CreateBonusRequest) (payroll.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BonusResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.BonusResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "IDR"
	}

	bonus := payroll.Bonus{
		EmployeeID:      req.EmployeeID,
		CompanyID:       companyID,
		SourceReference: req.SourceReference,
		BonusType:       req.BonusType,
		Amount:          req.Amount,
		Currency:        currency,
		Period:          req.Period,
		PeriodType:      payroll.PayPeriod(req.PeriodType),
		Status:          payroll.BonusStatusPending,
	}

	created, err := s.bonusRepo.Create(ctx, bonus)
	if err != nil {
		return payroll.BonusResponse{}, err
	}

	return mapToBonusResponse(created), nil
}

func (s *PolicyServiceImpl) ApproveBonus(ctx context.Context, id string) error {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.bonusRepo.UpdateStatus(ctx, id, companyID, payroll.BonusStatusPending, payroll.BonusStatusApproved)
}

func (s *PolicyServiceImpl) ListBonuses(ctx context.Context, employeeID string) ([]payroll.BonusResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	bonuses, err := s.bonusRepo.ListByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.BonusResponse, 0, len(bonuses))
	for _, bonus := range bonuses {
		result = append(result, mapToBonusResponse(bonus))
	}
	return result, nil
}

// ========== HELPERS ==========

func mapToStructureResponse(s payroll.SalaryStructure) payroll.SalaryStructureResponse {
	var effectiveToStr *string
	if s.EffectiveTo != nil {
		str := payroll.FormatDate(*s.EffectiveTo)
		effectiveToStr = &str
	}

	return payroll.SalaryStructureResponse{
		ID:                  s.ID,
		EmployeeID:          s.EmployeeID,
		BaseSalary:          s.BaseSalary,
		PayPeriod:           string(s.PayPeriod),
		StandardHoursPerDay: s.StandardHoursPerDay,
		HourlyRate:          s.HourlyRate,
		OvertimeMultiplier:  s.OvertimeMultiplier,
		WeekendMultiplier:   s.WeekendMultiplier,
		HolidayMultiplier:   s.HolidayMultiplier,
		EffectiveFrom:       payroll.FormatDate(s.EffectiveFrom),
		EffectiveTo:         effectiveToStr,
		IsActive:            s.IsActive,
	}
}

func mapToRuleResponse(r commission.Rule) commission.RuleResponse {
	var effectiveToStr *string
	if r.EffectiveTo != nil {
		str := payroll.FormatDate(*r.EffectiveTo)
		effectiveToStr = &str
	}

	return commission.RuleResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		OrderType:        r.OrderType,
		CalculationType:  string(r.CalculationType),
		BasePercentage:   r.BasePercentage,
		FixedAmount:      r.FixedAmount,
		ComplexityMin:    r.ComplexityMin,
		ComplexityMax:    r.ComplexityMax,
		TimeBonusEarly:   r.TimeBonusEarly,
		TimePenaltyDelay: r.TimePenaltyDelay,
		QualityBonus:     r.QualityBonus,
		EffectiveFrom:    payroll.FormatDate(r.EffectiveFrom),
		EffectiveTo:      effectiveToStr,
		IsActive:         r.IsActive,
	}
}

func mapToDeductionResponse(d tax.Deduction) tax.DeductionResponse {
	var effectiveToStr *string
	if d.EffectiveTo != nil {
		str := payroll.FormatDate(*d.EffectiveTo)
		effectiveToStr = &str
	}

	return tax.DeductionResponse{
		ID:            d.ID,
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		TaxType:       string(d.TaxType),
		Rate:          d.Rate,
		FixedAmount:   d.FixedAmount,
		MinIncome:     d.MinIncome,
		MaxIncome:     d.MaxIncome,
		EffectiveFrom: payroll.FormatDate(d.EffectiveFrom),
		EffectiveTo:   effectiveToStr,
		IsActive:      d.IsActive,
	}
}

func mapToBonusResponse(b payroll.Bonus) payroll.BonusResponse {
	return payroll.BonusResponse{
		ID:              b.ID,
		EmployeeID:      b.EmployeeID,
		SourceReference: b.SourceReference,
		BonusType:       b.BonusType,
		Amount:          b.Amount,
		Currency:        b.Currency,
		Period:          b.Period,
		PeriodType:      string(b.PeriodType),
		Status:          string(b.Status),
	}
}
