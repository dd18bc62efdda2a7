package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/employee"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	commissionService "github.com/sartoria-hq/tailor-backend-go/internal/service/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/service/overtime"
	taxService "github.com/sartoria-hq/tailor-backend-go/internal/service/tax"
	"github.com/shopspring/decimal"
)

type PayrollService interface {
	Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollRecordResponse, error)
	GenerateBulk(ctx context.Context, req payroll.BulkGeneratePayrollRequest) (payroll.BulkGenerateResponse, error)
	// GenerateBulkForCompany is the claims-free entry point used by the
	// scheduled payroll run.
	GenerateBulkForCompany(ctx context.Context, companyID string, req payroll.BulkGeneratePayrollRequest) (payroll.BulkGenerateResponse, error)
	GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error)
	Approve(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
}

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	structureRepo  payroll.SalaryStructureRepository
	bonusRepo      payroll.BonusRepository
	employeeRepo   employee.EmployeeRepository
	orders         commission.OrderCompletionSource
	overtimeCalc   *overtime.Calculator
	commissionCalc *commissionService.Calculator
	taxCalc        *taxService.Calculator
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	structureRepo payroll.SalaryStructureRepository,
	bonusRepo payroll.BonusRepository,
	employeeRepo employee.EmployeeRepository,
	orders commission.OrderCompletionSource,
	overtimeCalc *overtime.Calculator,
	commissionCalc *commissionService.Calculator,
	taxCalc *taxService.Calculator,
) PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		structureRepo:  structureRepo,
		bonusRepo:      bonusRepo,
		employeeRepo:   employeeRepo,
		orders:         orders,
		overtimeCalc:   overtimeCalc,
		commissionCalc: commissionCalc,
		taxCalc:        taxCalc,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== GENERATION ==========

func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.generateForEmployee(ctx, companyID, req)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) GenerateBulk(ctx context.Context, req payroll.BulkGeneratePayrollRequest) (payroll.BulkGenerateResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.BulkGenerateResponse{}, err
	}

	return s.GenerateBulkForCompany(ctx, companyID, req)
}

// GenerateBulkForCompany iterates employees with per-employee isolation: a
// failed generation is logged and collected, never aborting siblings.
func (s *PayrollServiceImpl) GenerateBulkForCompany(ctx context.Context, companyID string, req payroll.BulkGeneratePayrollRequest) (payroll.BulkGenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BulkGenerateResponse{}, err
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			return payroll.BulkGenerateResponse{}, fmt.Errorf("failed to get employees: %w", err)
		}
		for _, emp := range employees {
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}

	result := payroll.BulkGenerateResponse{
		Generated: make([]payroll.PayrollRecordResponse, 0, len(employeeIDs)),
	}

	for _, employeeID := range employeeIDs {
		empReq := payroll.GeneratePayrollRequest{
			EmployeeID: employeeID,
			Period:     req.Period,
			PeriodType: req.PeriodType,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			TaxYear:    req.TaxYear,
		}

		record, err := s.generateForEmployee(ctx, companyID, empReq)
		if err != nil {
			slog.Warn("Payroll generation skipped for employee",
				"employee_id", employeeID,
				"period", req.Period,
				"error", err,
			)
			result.Failed = append(result.Failed, payroll.BulkFailure{EmployeeID: employeeID, Error: err.Error()})
			continue
		}
		result.Generated = append(result.Generated, mapToRecordResponse(record))
	}

	return result, nil
}

// generateForEmployee runs the calculation pipeline for one employee. The
// step order is fixed: each step's output feeds the next, and the totals
// depend on the cumulative sums.
func (s *PayrollServiceImpl) generateForEmployee(ctx context.Context, companyID string, req payroll.GeneratePayrollRequest) (payroll.PayrollRecord, error) {
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	periodType := payroll.PayPeriod(req.PeriodType)

	// 1. Salary structure in force for the period; fail fast without one.
	structure, err := s.structureRepo.GetActiveByEmployeeID(ctx, req.EmployeeID, companyID, endDate)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	// 2. Overtime over the attendance window.
	overtimeTrace, err := s.overtimeCalc.Calculate(ctx, req.EmployeeID, companyID, startDate, endDate)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	overtimePay := overtime.Pay(overtimeTrace)

	// 3. Base salary prorated onto the structure's pay period.
	baseSalary := structure.BaseSalary.Div(decimal.NewFromInt(structure.PayPeriod.ProrationDivisor()))

	// 4. Commission over completed orders, partial-failure semantics.
	orders, err := s.orders.GetCompletedOrders(ctx, companyID, req.EmployeeID, startDate, endDate)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get completed orders: %w", err)
	}
	inputs := make([]commissionService.Input, 0, len(orders))
	for _, order := range orders {
		inputs = append(inputs, commissionService.FromOrder(req.EmployeeID, order))
	}
	commissionTraces, _ := s.commissionCalc.CalculateBatch(ctx, companyID, inputs)
	commissionPay := decimal.Zero
	for _, trace := range commissionTraces {
		commissionPay = commissionPay.Add(trace.TotalCommission)
	}

	// 5. Approved bonuses for the exact period.
	bonuses, err := s.bonusRepo.ListApprovedByPeriod(ctx, req.EmployeeID, companyID, req.Period, periodType)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to list bonuses: %w", err)
	}
	bonusPay := decimal.Zero
	bonusLines := make([]payroll.BonusLine, 0, len(bonuses))
	for _, bonus := range bonuses {
		bonusPay = bonusPay.Add(bonus.Amount)
		bonusLines = append(bonusLines, payroll.BonusLine{
			BonusID:   bonus.ID,
			BonusType: bonus.BonusType,
			Amount:    bonus.Amount,
		})
	}

	// 6. Gross.
	totalEarnings := baseSalary.Add(overtimePay).Add(commissionPay).Add(bonusPay)

	// 7. Tax on estimated annual income; degrade to zero tax on failure so
	// one broken policy row cannot block the whole payroll.
	annualIncome := totalEarnings.Mul(decimal.NewFromInt(periodType.AnnualMultiplier()))
	taxYear := endDate.Year()
	if req.TaxYear != nil {
		taxYear = *req.TaxYear
	}

	trail := payroll.CalculationTrail{
		Overtime:         overtimeTrace,
		Commissions:      commissionTraces,
		Bonuses:          bonusLines,
		AnnualizedIncome: annualIncome,
	}

	taxDeductions := decimal.Zero
	taxTrace, err := s.taxCalc.Calculate(ctx, companyID, req.EmployeeID, annualIncome, taxYear)
	if err != nil {
		slog.Warn("Tax calculation failed, proceeding with zero tax",
			"employee_id", req.EmployeeID,
			"period", req.Period,
			"error", err,
		)
		trail.TaxDegraded = true
	} else {
		// Scale the annual tax back onto this period.
		taxDeductions = taxTrace.TotalTax.Div(decimal.NewFromInt(periodType.AnnualMultiplier()))
		trail.Tax = &taxTrace
	}

	// 8. Net. Other deductions are reserved, currently always zero.
	otherDeductions := decimal.Zero
	totalDeductions := taxDeductions.Add(otherDeductions)
	netPay := totalEarnings.Sub(totalDeductions)

	// 9. Persist one DRAFT record carrying the full trail.
	record := payroll.PayrollRecord{
		EmployeeID:      req.EmployeeID,
		CompanyID:       companyID,
		Period:          req.Period,
		PeriodType:      periodType,
		StartDate:       startDate,
		EndDate:         endDate,
		BaseSalary:      baseSalary,
		OvertimePay:     overtimePay,
		CommissionPay:   commissionPay,
		BonusPay:        bonusPay,
		TotalEarnings:   totalEarnings,
		TaxDeductions:   taxDeductions,
		OtherDeductions: otherDeductions,
		TotalDeductions: totalDeductions,
		NetPay:          netPay,
		Status:          payroll.PayrollStatusDraft,
		Trail:           trail,
	}

	created, err := s.payrollRepo.CreateRecord(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	if trail.Tax != nil {
		if err := s.taxCalc.PersistBreakdown(ctx, companyID, created.ID, *trail.Tax); err != nil {
			slog.Warn("Failed to persist tax breakdown",
				"payroll_id", created.ID,
				"error", err,
			)
		}
	}

	return created, nil
}

// ========== RECORD LIFECYCLE ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetRecordByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.payrollRepo.ListRecords(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) Approve(ctx context.Context, id string) error {
	return s.transition(ctx, id, payroll.PayrollStatusDraft, payroll.PayrollStatusApproved)
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) error {
	return s.transition(ctx, id, payroll.PayrollStatusApproved, payroll.PayrollStatusPaid)
}

func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled)
}

func (s *PayrollServiceImpl) transition(ctx context.Context, id string, from, to payroll.PayrollStatus) error {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if !from.CanTransitionTo(to) {
		return payroll.ErrInvalidStatusTransition
	}

	err = s.payrollRepo.TransitionStatus(ctx, id, companyID, from, to, userID)
	if err != nil && !errors.Is(err, payroll.ErrPayrollRecordNotFound) && !errors.Is(err, payroll.ErrInvalidStatusTransition) {
		return fmt.Errorf("failed to transition payroll record %s: %w", id, err)
	}
	return err
}

// ========== HELPERS ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var approvedAtStr, paidAtStr *string
	if r.ApprovedAt != nil {
		str := r.ApprovedAt.Format(time.RFC3339)
		approvedAtStr = &str
	}
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return payroll.PayrollRecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    employeeName,
		EmployeeCode:    employeeCode,
		Period:          r.Period,
		PeriodType:      string(r.PeriodType),
		StartDate:       payroll.FormatDate(r.StartDate),
		EndDate:         payroll.FormatDate(r.EndDate),
		BaseSalary:      r.BaseSalary,
		OvertimePay:     r.OvertimePay,
		CommissionPay:   r.CommissionPay,
		BonusPay:        r.BonusPay,
		TotalEarnings:   r.TotalEarnings,
		TaxDeductions:   r.TaxDeductions,
		OtherDeductions: r.OtherDeductions,
		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,
		Status:          string(r.Status),
		Trail:           r.Trail,
		ApprovedAt:      approvedAtStr,
		PaidAt:          paidAtStr,
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}
