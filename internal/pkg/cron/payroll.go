package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/employee"
	domainPayroll "github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/service/payroll"
)

// PayrollJobs generates monthly payroll drafts automatically. The run is
// idempotent: employees whose record for the period already exists are
// reported as per-employee failures and skipped.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	employeeRepo   employee.EmployeeRepository
}

func NewPayrollJobs(payrollService payroll.PayrollService, employeeRepo employee.EmployeeRepository) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		employeeRepo:   employeeRepo,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("auto_generate_monthly_payroll", interval, j.AutoGenerateMonthlyPayroll)
}

func (j *PayrollJobs) AutoGenerateMonthlyPayroll(ctx context.Context) error {
	// Only run on the first day of the month (01:00-01:59 UTC)
	now := time.Now().UTC()
	if now.Day() != 1 || now.Hour() != 1 {
		return nil
	}

	slog.Info("Cron: Starting monthly payroll generation job")

	companyIDs, err := j.employeeRepo.ListCompanyIDsWithActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	// Previous calendar month.
	periodEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodStart := periodEnd.AddDate(0, -1, 0)
	lastDay := periodEnd.AddDate(0, 0, -1)

	req := domainPayroll.BulkGeneratePayrollRequest{
		Period:     periodStart.Format("2006-01"),
		PeriodType: string(domainPayroll.PayPeriodMonthly),
		StartDate:  periodStart.Format("2006-01-02"),
		EndDate:    lastDay.Format("2006-01-02"),
	}

	for _, companyID := range companyIDs {
		result, err := j.payrollService.GenerateBulkForCompany(ctx, companyID, req)
		if err != nil {
			slog.Error("Cron: Payroll generation failed for company",
				"company_id", companyID,
				"period", req.Period,
				"error", err)
			continue
		}

		slog.Info("Cron: Payroll generated for company",
			"company_id", companyID,
			"period", req.Period,
			"generated", len(result.Generated),
			"failed", len(result.Failed))
	}

	return nil
}
