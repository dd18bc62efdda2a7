package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	pr.id, pr.employee_id, pr.company_id, pr.period, pr.period_type,
	pr.start_date, pr.end_date, pr.base_salary, pr.overtime_pay,
	pr.commission_pay, pr.bonus_pay, pr.total_earnings, pr.tax_deductions,
	pr.other_deductions, pr.total_deductions, pr.net_pay, pr.status,
	pr.calculation_trail, pr.approved_by, pr.approved_at, pr.paid_by,
	pr.paid_at, pr.created_at, pr.updated_at
`

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	trail, err := json.Marshal(record.Trail)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to marshal calculation trail: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, company_id, period, period_type, start_date, end_date,
			base_salary, overtime_pay, commission_pay, bonus_pay, total_earnings,
			tax_deductions, other_deductions, total_deductions, net_pay, status,
			calculation_trail
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		RETURNING
			id, employee_id, company_id, period, period_type, start_date, end_date,
			base_salary, overtime_pay, commission_pay, bonus_pay, total_earnings,
			tax_deductions, other_deductions, total_deductions, net_pay, status,
			calculation_trail, approved_by, approved_at, paid_by, paid_at,
			created_at, updated_at
	`

	id := uuid.Must(uuid.NewV7()).String()

	row := q.QueryRow(ctx, query,
		id, record.EmployeeID, record.CompanyID, record.Period, record.PeriodType,
		record.StartDate, record.EndDate, record.BaseSalary, record.OvertimePay,
		record.CommissionPay, record.BonusPay, record.TotalEarnings,
		record.TaxDeductions, record.OtherDeductions, record.TotalDeductions,
		record.NetPay, record.Status, trail,
	)

	created, err := scanPayrollRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1 AND pr.company_id = $2
	`

	record, err := scanPayrollRecordWithEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, companyID string, period string, periodType payroll.PayPeriod) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		WHERE pr.employee_id = $1 AND pr.company_id = $2
		  AND pr.period = $3 AND pr.period_type = $4
	`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, companyID, period, periodType))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := `WHERE pr.company_id = $1
		  AND ($2::uuid IS NULL OR pr.employee_id = $2)
		  AND ($3::text IS NULL OR pr.period = $3)
		  AND ($4::text IS NULL OR pr.status = $4)`

	countQuery := `SELECT COUNT(*) FROM payroll_records pr ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, companyID, filter.EmployeeID, filter.Period, filter.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		` + where + `
		ORDER BY pr.period DESC, e.full_name ASC
		LIMIT $5 OFFSET $6
	`

	rows, err := q.Query(ctx, query, companyID, filter.EmployeeID, filter.Period, filter.Status, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanPayrollRecordWithEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}

	return records, total, rows.Err()
}

func (r *payrollRepository) TransitionStatus(ctx context.Context, id string, companyID string, from, to payroll.PayrollStatus, actorID string) error {
	q := GetQuerier(ctx, r.db)

	var query string
	args := []any{id, companyID, from, to}
	switch to {
	case payroll.PayrollStatusApproved:
		query = `
			UPDATE payroll_records
			SET status = $4, approved_by = $5, approved_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND company_id = $2 AND status = $3
		`
		args = append(args, actorID)
	case payroll.PayrollStatusPaid:
		query = `
			UPDATE payroll_records
			SET status = $4, paid_by = $5, paid_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND company_id = $2 AND status = $3
		`
		args = append(args, actorID)
	default:
		query = `
			UPDATE payroll_records
			SET status = $4, updated_at = NOW()
			WHERE id = $1 AND company_id = $2 AND status = $3
		`
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing record from one in the wrong status.
		if _, err := r.GetRecordByID(ctx, id, companyID); err != nil {
			return err
		}
		return payroll.ErrInvalidStatusTransition
	}

	return nil
}

func (r *payrollRepository) SaveTaxLines(ctx context.Context, payrollID string, companyID string, lines []payroll.TaxLineRow) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_tax_lines (id, payroll_record_id, company_id, tax_type, name, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, line := range lines {
		id := uuid.Must(uuid.NewV7()).String()
		if _, err := q.Exec(ctx, query, id, payrollID, companyID, line.TaxType, line.Name, line.Amount, line.Note); err != nil {
			return fmt.Errorf("failed to save tax line: %w", err)
		}
	}

	return nil
}

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var record payroll.PayrollRecord
	var trail []byte

	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.CompanyID, &record.Period,
		&record.PeriodType, &record.StartDate, &record.EndDate, &record.BaseSalary,
		&record.OvertimePay, &record.CommissionPay, &record.BonusPay,
		&record.TotalEarnings, &record.TaxDeductions, &record.OtherDeductions,
		&record.TotalDeductions, &record.NetPay, &record.Status, &trail,
		&record.ApprovedBy, &record.ApprovedAt, &record.PaidBy, &record.PaidAt,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	if len(trail) > 0 {
		if err := json.Unmarshal(trail, &record.Trail); err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to unmarshal calculation trail: %w", err)
		}
	}

	return record, nil
}

func scanPayrollRecordWithEmployee(row pgx.Row) (payroll.PayrollRecord, error) {
	var record payroll.PayrollRecord
	var trail []byte

	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.CompanyID, &record.Period,
		&record.PeriodType, &record.StartDate, &record.EndDate, &record.BaseSalary,
		&record.OvertimePay, &record.CommissionPay, &record.BonusPay,
		&record.TotalEarnings, &record.TaxDeductions, &record.OtherDeductions,
		&record.TotalDeductions, &record.NetPay, &record.Status, &trail,
		&record.ApprovedBy, &record.ApprovedAt, &record.PaidBy, &record.PaidAt,
		&record.CreatedAt, &record.UpdatedAt,
		&record.EmployeeName, &record.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	if len(trail) > 0 {
		if err := json.Unmarshal(trail, &record.Trail); err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("failed to unmarshal calculation trail: %w", err)
		}
	}

	return record, nil
}
