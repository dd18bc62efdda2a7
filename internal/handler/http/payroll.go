package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/handler/http/response"
	payrollService "github.com/sartoria-hq/tailor-backend-go/internal/service/payroll"
)

type PayrollHandler interface {
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	GenerateBulkPayroll(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	ApprovePayroll(w http.ResponseWriter, r *http.Request)
	MarkPayrollPaid(w http.ResponseWriter, r *http.Request)
	CancelPayroll(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payrollService.PayrollService
}

func NewPayrollHandler(svc payrollService.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: svc}
}

// ========== GENERATION ==========

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

func (h *payrollHandlerImpl) GenerateBulkPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkGeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateBulk(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if len(result.Failed) > 0 {
		response.MultiStatus(w, "Payroll generated with failures", result)
		return
	}
	response.Created(w, "Payroll generated", result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		Page:  1,
		Limit: 20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if period := r.URL.Query().Get("period"); period != "" {
		filter.Period = &period
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := payroll.PayrollStatus(statusStr)
		filter.Status = &status
	}

	result, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((result.TotalCount + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

// ========== LIFECYCLE ==========

func (h *payrollHandlerImpl) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.payrollService.Approve(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record approved", nil)
}

func (h *payrollHandlerImpl) MarkPayrollPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.payrollService.MarkPaid(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record marked as paid", nil)
}

func (h *payrollHandlerImpl) CancelPayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.payrollService.Cancel(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record cancelled", nil)
}
