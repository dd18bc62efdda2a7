package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type taxDeductionRepository struct {
	db *database.DB
}

func NewTaxDeductionRepository(db *database.DB) tax.DeductionRepository {
	return &taxDeductionRepository{db: db}
}

const taxDeductionColumns = `
	id, company_id, name, tax_type, rate, fixed_amount, min_income, max_income,
	effective_from, effective_to, is_active, created_at, updated_at
`

func (r *taxDeductionRepository) Create(ctx context.Context, deduction tax.Deduction) (tax.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tax_deductions (
			id, company_id, name, tax_type, rate, fixed_amount, min_income,
			max_income, effective_from, effective_to, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + taxDeductionColumns

	id := uuid.Must(uuid.NewV7()).String()

	var d tax.Deduction
	err := q.QueryRow(ctx, query,
		id, deduction.CompanyID, deduction.Name, deduction.TaxType, deduction.Rate,
		deduction.FixedAmount, deduction.MinIncome, deduction.MaxIncome,
		deduction.EffectiveFrom, deduction.EffectiveTo, deduction.IsActive,
	).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.TaxType, &d.Rate, &d.FixedAmount,
		&d.MinIncome, &d.MaxIncome, &d.EffectiveFrom, &d.EffectiveTo,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return tax.Deduction{}, fmt.Errorf("failed to create tax deduction: %w", err)
	}

	return d, nil
}

func (r *taxDeductionRepository) ListActiveByCompanyID(ctx context.Context, companyID string, asOf time.Time) ([]tax.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taxDeductionColumns + `
		FROM tax_deductions
		WHERE company_id = $1 AND is_active = true
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to > $2)
		ORDER BY tax_type ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tax deductions: %w", err)
	}
	defer rows.Close()

	return scanTaxDeductions(rows)
}

func (r *taxDeductionRepository) ListByCompanyID(ctx context.Context, companyID string) ([]tax.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taxDeductionColumns + `
		FROM tax_deductions
		WHERE company_id = $1
		ORDER BY tax_type ASC, created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax deductions: %w", err)
	}
	defer rows.Close()

	return scanTaxDeductions(rows)
}

func (r *taxDeductionRepository) CreateIfMissing(ctx context.Context, deduction tax.Deduction) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tax_deductions (
			id, company_id, name, tax_type, rate, fixed_amount, min_income,
			max_income, effective_from, effective_to, is_active
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE NOT EXISTS (
			SELECT 1 FROM tax_deductions
			WHERE company_id = $2 AND tax_type = $4 AND is_active = true
		)
	`

	id := uuid.Must(uuid.NewV7()).String()

	_, err := q.Exec(ctx, query,
		id, deduction.CompanyID, deduction.Name, deduction.TaxType, deduction.Rate,
		deduction.FixedAmount, deduction.MinIncome, deduction.MaxIncome,
		deduction.EffectiveFrom, deduction.EffectiveTo, deduction.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to seed tax deduction: %w", err)
	}

	return nil
}

func scanTaxDeductions(rows pgx.Rows) ([]tax.Deduction, error) {
	var deductions []tax.Deduction
	for rows.Next() {
		var d tax.Deduction
		if err := rows.Scan(
			&d.ID, &d.CompanyID, &d.Name, &d.TaxType, &d.Rate, &d.FixedAmount,
			&d.MinIncome, &d.MaxIncome, &d.EffectiveFrom, &d.EffectiveTo,
			&d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}
