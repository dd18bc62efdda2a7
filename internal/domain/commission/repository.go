package commission

import (
	"context"
	"time"
)

// RuleRepository defines data access for commission rules. All methods take
// companyID to prevent cross-company data access.
type RuleRepository interface {
	Create(ctx context.Context, rule Rule) (Rule, error)
	// GetActiveByOrderType resolves the rule in force for orderType at asOf:
	// active, effective window containing asOf, newest created_at first.
	GetActiveByOrderType(ctx context.Context, companyID string, orderType string, asOf time.Time) (Rule, error)
	ListByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]Rule, error)
}

// OrderCompletionSource supplies the orders an employee completed in a
// window. The order→employee linking model belongs to the implementing
// adapter, not to the calculators.
type OrderCompletionSource interface {
	GetCompletedOrders(ctx context.Context, companyID string, employeeID string, start, end time.Time) ([]OrderSummary, error)
}
