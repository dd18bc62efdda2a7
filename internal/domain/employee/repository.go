package employee

import "context"

// EmployeeRepository is read-only here: employee management lives in a
// separate back-office module.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	// ListCompanyIDsWithActiveEmployees feeds the scheduled payroll run.
	ListCompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error)
}
