package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type bonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) payroll.BonusRepository {
	return &bonusRepository{db: db}
}

const bonusColumns = `
	id, employee_id, company_id, source_reference, bonus_type, amount, currency,
	period, period_type, status, created_at, updated_at
`

func (r *bonusRepository) Create(ctx context.Context, bonus payroll.Bonus) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bonuses (
			id, employee_id, company_id, source_reference, bonus_type, amount,
			currency, period, period_type, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + bonusColumns

	id := uuid.Must(uuid.NewV7()).String()

	var b payroll.Bonus
	err := q.QueryRow(ctx, query,
		id, bonus.EmployeeID, bonus.CompanyID, bonus.SourceReference, bonus.BonusType,
		bonus.Amount, bonus.Currency, bonus.Period, bonus.PeriodType, bonus.Status,
	).Scan(
		&b.ID, &b.EmployeeID, &b.CompanyID, &b.SourceReference, &b.BonusType, &b.Amount,
		&b.Currency, &b.Period, &b.PeriodType, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return payroll.Bonus{}, fmt.Errorf("failed to create bonus: %w", err)
	}

	return b, nil
}

func (r *bonusRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM bonuses
		WHERE id = $1 AND company_id = $2
	`

	var b payroll.Bonus
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&b.ID, &b.EmployeeID, &b.CompanyID, &b.SourceReference, &b.BonusType, &b.Amount,
		&b.Currency, &b.Period, &b.PeriodType, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Bonus{}, payroll.ErrBonusNotFound
		}
		return payroll.Bonus{}, fmt.Errorf("failed to get bonus: %w", err)
	}

	return b, nil
}

func (r *bonusRepository) ListApprovedByPeriod(ctx context.Context, employeeID string, companyID string, period string, periodType payroll.PayPeriod) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM bonuses
		WHERE employee_id = $1 AND company_id = $2
		  AND period = $3 AND period_type = $4 AND status = $5
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, period, periodType, payroll.BonusStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved bonuses: %w", err)
	}
	defer rows.Close()

	return scanBonuses(rows)
}

func (r *bonusRepository) ListByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bonusColumns + `
		FROM bonuses
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	defer rows.Close()

	return scanBonuses(rows)
}

func (r *bonusRepository) UpdateStatus(ctx context.Context, id string, companyID string, from, to payroll.BonusStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE bonuses
		SET status = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query, id, companyID, from, to)
	if err != nil {
		return fmt.Errorf("failed to update bonus status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a status mismatch.
		if _, err := r.GetByID(ctx, id, companyID); err != nil {
			return err
		}
		return payroll.ErrBonusAlreadyProcessed
	}

	return nil
}

func scanBonuses(rows pgx.Rows) ([]payroll.Bonus, error) {
	var bonuses []payroll.Bonus
	for rows.Next() {
		var b payroll.Bonus
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.CompanyID, &b.SourceReference, &b.BonusType, &b.Amount,
			&b.Currency, &b.Period, &b.PeriodType, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	return bonuses, rows.Err()
}
