package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type commissionRuleRepository struct {
	db *database.DB
}

func NewCommissionRuleRepository(db *database.DB) commission.RuleRepository {
	return &commissionRuleRepository{db: db}
}

const commissionRuleColumns = `
	id, company_id, order_type, calculation_type, base_percentage, fixed_amount,
	complexity_min, complexity_max, time_bonus_early, time_penalty_delay,
	quality_bonus, effective_from, effective_to, is_active, created_at, updated_at
`

func (r *commissionRuleRepository) Create(ctx context.Context, rule commission.Rule) (commission.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO commission_rules (
			id, company_id, order_type, calculation_type, base_percentage, fixed_amount,
			complexity_min, complexity_max, time_bonus_early, time_penalty_delay,
			quality_bonus, effective_from, effective_to, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + commissionRuleColumns

	id := uuid.Must(uuid.NewV7()).String()

	var created commission.Rule
	err := q.QueryRow(ctx, query,
		id, rule.CompanyID, rule.OrderType, rule.CalculationType, rule.BasePercentage,
		rule.FixedAmount, rule.ComplexityMin, rule.ComplexityMax, rule.TimeBonusEarly,
		rule.TimePenaltyDelay, rule.QualityBonus, rule.EffectiveFrom, rule.EffectiveTo,
		rule.IsActive,
	).Scan(
		&created.ID, &created.CompanyID, &created.OrderType, &created.CalculationType,
		&created.BasePercentage, &created.FixedAmount, &created.ComplexityMin,
		&created.ComplexityMax, &created.TimeBonusEarly, &created.TimePenaltyDelay,
		&created.QualityBonus, &created.EffectiveFrom, &created.EffectiveTo,
		&created.IsActive, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return commission.Rule{}, fmt.Errorf("failed to create commission rule: %w", err)
	}

	return created, nil
}

func (r *commissionRuleRepository) GetActiveByOrderType(ctx context.Context, companyID string, orderType string, asOf time.Time) (commission.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + commissionRuleColumns + `
		FROM commission_rules
		WHERE company_id = $1 AND order_type = $2 AND is_active = true
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to > $3)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rule commission.Rule
	err := q.QueryRow(ctx, query, companyID, orderType, asOf).Scan(
		&rule.ID, &rule.CompanyID, &rule.OrderType, &rule.CalculationType,
		&rule.BasePercentage, &rule.FixedAmount, &rule.ComplexityMin,
		&rule.ComplexityMax, &rule.TimeBonusEarly, &rule.TimePenaltyDelay,
		&rule.QualityBonus, &rule.EffectiveFrom, &rule.EffectiveTo,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return commission.Rule{}, commission.ErrRuleNotFound
		}
		return commission.Rule{}, fmt.Errorf("failed to get commission rule: %w", err)
	}

	return rule, nil
}

func (r *commissionRuleRepository) ListByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]commission.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + commissionRuleColumns + `
		FROM commission_rules
		WHERE company_id = $1 AND ($2 = false OR is_active = true)
		ORDER BY order_type ASC, effective_from DESC
	`

	rows, err := q.Query(ctx, query, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rules: %w", err)
	}
	defer rows.Close()

	var rules []commission.Rule
	for rows.Next() {
		var rule commission.Rule
		if err := rows.Scan(
			&rule.ID, &rule.CompanyID, &rule.OrderType, &rule.CalculationType,
			&rule.BasePercentage, &rule.FixedAmount, &rule.ComplexityMin,
			&rule.ComplexityMax, &rule.TimeBonusEarly, &rule.TimePenaltyDelay,
			&rule.QualityBonus, &rule.EffectiveFrom, &rule.EffectiveTo,
			&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan commission rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}
