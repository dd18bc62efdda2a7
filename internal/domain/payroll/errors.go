package payroll

import "errors"

var (
	ErrSalaryStructureNotFound    = errors.New("no active salary structure for employee")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrInvalidStatusTransition    = errors.New("invalid payroll status transition")
	ErrBonusNotFound              = errors.New("bonus not found")
	ErrBonusAlreadyProcessed      = errors.New("bonus already processed")
)
