package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.SalaryStructureRepository {
	return &salaryStructureRepository{db: db}
}

const salaryStructureColumns = `
	id, employee_id, company_id, base_salary, pay_period, standard_hours_per_day,
	hourly_rate, overtime_multiplier, weekend_multiplier, holiday_multiplier,
	effective_from, effective_to, is_active, created_at, updated_at
`

func (r *salaryStructureRepository) Create(ctx context.Context, structure payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (
			id, employee_id, company_id, base_salary, pay_period, standard_hours_per_day,
			hourly_rate, overtime_multiplier, weekend_multiplier, holiday_multiplier,
			effective_from, effective_to, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + salaryStructureColumns

	id := uuid.Must(uuid.NewV7()).String()

	var s payroll.SalaryStructure
	err := q.QueryRow(ctx, query,
		id, structure.EmployeeID, structure.CompanyID, structure.BaseSalary, structure.PayPeriod,
		structure.StandardHoursPerDay, structure.HourlyRate, structure.OvertimeMultiplier,
		structure.WeekendMultiplier, structure.HolidayMultiplier,
		structure.EffectiveFrom, structure.EffectiveTo, structure.IsActive,
	).Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.BaseSalary, &s.PayPeriod, &s.StandardHoursPerDay,
		&s.HourlyRate, &s.OvertimeMultiplier, &s.WeekendMultiplier, &s.HolidayMultiplier,
		&s.EffectiveFrom, &s.EffectiveTo, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.SalaryStructure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	return s, nil
}

func (r *salaryStructureRepository) GetActiveByEmployeeID(ctx context.Context, employeeID string, companyID string, asOf time.Time) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryStructureColumns + `
		FROM salary_structures
		WHERE employee_id = $1 AND company_id = $2 AND is_active = true
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to > $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var s payroll.SalaryStructure
	err := q.QueryRow(ctx, query, employeeID, companyID, asOf).Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.BaseSalary, &s.PayPeriod, &s.StandardHoursPerDay,
		&s.HourlyRate, &s.OvertimeMultiplier, &s.WeekendMultiplier, &s.HolidayMultiplier,
		&s.EffectiveFrom, &s.EffectiveTo, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	return s, nil
}

func (r *salaryStructureRepository) ListByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryStructureColumns + `
		FROM salary_structures
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	var structures []payroll.SalaryStructure
	for rows.Next() {
		var s payroll.SalaryStructure
		if err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.CompanyID, &s.BaseSalary, &s.PayPeriod, &s.StandardHoursPerDay,
			&s.HourlyRate, &s.OvertimeMultiplier, &s.WeekendMultiplier, &s.HolidayMultiplier,
			&s.EffectiveFrom, &s.EffectiveTo, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}

	return structures, rows.Err()
}

func (r *salaryStructureRepository) CloseWindow(ctx context.Context, employeeID string, companyID string, to time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_structures
		SET effective_to = $3, updated_at = NOW()
		WHERE employee_id = $1 AND company_id = $2 AND is_active = true AND effective_to IS NULL
	`

	if _, err := q.Exec(ctx, query, employeeID, companyID, to); err != nil {
		return fmt.Errorf("failed to close salary structure window: %w", err)
	}

	return nil
}
