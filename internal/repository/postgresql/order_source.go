package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/database"
)

type orderCompletionSource struct {
	db *database.DB
}

// NewOrderCompletionSource reads completed orders assigned to an employee
// from the orders table. Assignment is by the order's assigned_employee_id;
// shops splitting one order across multiple workers need a different
// adapter.
func NewOrderCompletionSource(db *database.DB) commission.OrderCompletionSource {
	return &orderCompletionSource{db: db}
}

func (s *orderCompletionSource) GetCompletedOrders(ctx context.Context, companyID string, employeeID string, start, end time.Time) ([]commission.OrderSummary, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT
			o.id, o.order_type, o.total_amount, o.order_date, o.delivery_date,
			o.complexity_factor,
			GREATEST(0, (o.completed_at::date - o.order_date::date)) AS completion_days,
			GREATEST(1, (o.delivery_date::date - o.order_date::date)) AS delivery_days,
			o.quality_score
		FROM orders o
		WHERE o.company_id = $1
		  AND o.assigned_employee_id = $2
		  AND o.status = 'completed'
		  AND o.completed_at >= $3
		  AND o.completed_at < $4
		ORDER BY o.completed_at ASC
	`

	rows, err := q.Query(ctx, query, companyID, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed orders: %w", err)
	}
	defer rows.Close()

	var orders []commission.OrderSummary
	for rows.Next() {
		var o commission.OrderSummary
		if err := rows.Scan(
			&o.ID, &o.OrderType, &o.TotalAmount, &o.OrderDate, &o.DeliveryDate,
			&o.ComplexityFactor, &o.CompletionDays, &o.DeliveryDays, &o.QualityScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completed order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}
