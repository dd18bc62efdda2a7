package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructureRepository manages versioned salary structures.
type SalaryStructureRepository interface {
	Create(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
	// GetActiveByEmployeeID resolves the structure in force at asOf.
	GetActiveByEmployeeID(ctx context.Context, employeeID string, companyID string, asOf time.Time) (SalaryStructure, error)
	ListByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]SalaryStructure, error)
	// CloseWindow sets effective_to on the currently open structure so a
	// successor can be created without overwriting history.
	CloseWindow(ctx context.Context, employeeID string, companyID string, to time.Time) error
}

type BonusRepository interface {
	Create(ctx context.Context, bonus Bonus) (Bonus, error)
	GetByID(ctx context.Context, id string, companyID string) (Bonus, error)
	// ListApprovedByPeriod returns APPROVED bonuses matching the exact
	// period and period type.
	ListApprovedByPeriod(ctx context.Context, employeeID string, companyID string, period string, periodType PayPeriod) ([]Bonus, error)
	ListByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]Bonus, error)
	UpdateStatus(ctx context.Context, id string, companyID string, from, to BonusStatus) error
}

// PayrollFilter narrows and pages payroll listings.
type PayrollFilter struct {
	EmployeeID *string
	Period     *string
	Status     *PayrollStatus
	Page       int
	Limit      int
}

type PayrollRepository interface {
	CreateRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetRecordByID(ctx context.Context, id string, companyID string) (PayrollRecord, error)
	GetRecordByEmployeePeriod(ctx context.Context, employeeID string, companyID string, period string, periodType PayPeriod) (PayrollRecord, error)
	ListRecords(ctx context.Context, companyID string, filter PayrollFilter) ([]PayrollRecord, int64, error)
	// TransitionStatus moves a record from one status to another, recording
	// the acting user. Fails with ErrInvalidStatusTransition when the record
	// is not in the expected status.
	TransitionStatus(ctx context.Context, id string, companyID string, from, to PayrollStatus, actorID string) error
	// SaveTaxLines persists a tax breakdown against a payroll record as
	// individual deduction entries for payslip rendering.
	SaveTaxLines(ctx context.Context, payrollID string, companyID string, lines []TaxLineRow) error
}

// TaxLineRow is one persisted tax deduction entry of a payroll record.
type TaxLineRow struct {
	TaxType string
	Name    string
	Amount  decimal.Decimal
	Note    string
}
