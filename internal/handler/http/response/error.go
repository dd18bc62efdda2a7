package response

import (
	"errors"
	"net/http"

	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/employee"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/sartoria-hq/tailor-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSalaryStructureNotFound):
		BadRequest(w, "No active salary structure for employee", nil)
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, "Invalid payroll status transition")
	case errors.Is(err, payroll.ErrBonusNotFound):
		NotFound(w, "Bonus not found")
	case errors.Is(err, payroll.ErrBonusAlreadyProcessed):
		Conflict(w, "Bonus already processed")

	// Commission domain errors
	case errors.Is(err, commission.ErrRuleNotFound):
		NotFound(w, "No commission rule for order type")

	// Tax domain errors
	case errors.Is(err, tax.ErrEmptyPolicy):
		InternalServerError(w, "Tax policy is not configured")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
