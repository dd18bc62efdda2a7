package tax

import (
	"context"
	"time"
)

type DeductionRepository interface {
	Create(ctx context.Context, deduction Deduction) (Deduction, error)
	// ListActiveByCompanyID returns the active rows whose effective window
	// contains asOf.
	ListActiveByCompanyID(ctx context.Context, companyID string, asOf time.Time) ([]Deduction, error)
	ListByCompanyID(ctx context.Context, companyID string) ([]Deduction, error)
	// CreateIfMissing inserts the row unless an active one of the same
	// tax_type already exists. Used to seed the default policy rows.
	CreateIfMissing(ctx context.Context, deduction Deduction) error
}
