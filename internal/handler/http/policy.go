package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/commission"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/payroll"
	"github.com/sartoria-hq/tailor-backend-go/internal/domain/tax"
	"github.com/sartoria-hq/tailor-backend-go/internal/handler/http/response"
	"github.com/sartoria-hq/tailor-backend-go/internal/service/policy"
)

type PolicyHandler interface {
	// Salary structures
	CreateSalaryStructure(w http.ResponseWriter, r *http.Request)
	ListSalaryStructures(w http.ResponseWriter, r *http.Request)

	// Commission rules
	CreateCommissionRule(w http.ResponseWriter, r *http.Request)
	ListCommissionRules(w http.ResponseWriter, r *http.Request)

	// Tax deductions
	CreateTaxDeduction(w http.ResponseWriter, r *http.Request)
	ListTaxDeductions(w http.ResponseWriter, r *http.Request)

	// Bonuses
	CreateBonus(w http.ResponseWriter, r *http.Request)
	ApproveBonus(w http.ResponseWriter, r *http.Request)
	ListBonuses(w http.ResponseWriter, r *http.Request)
}

type policyHandlerImpl struct {
	policyService policy.PolicyService
}

func NewPolicyHandler(svc policy.PolicyService) PolicyHandler {
	return &policyHandlerImpl{policyService: svc}
}

// ========== SALARY STRUCTURES ==========

func (h *policyHandlerImpl) CreateSalaryStructure(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateSalaryStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.policyService.CreateSalaryStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary structure created", result)
}

func (h *policyHandlerImpl) ListSalaryStructures(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.policyService.ListSalaryStructures(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== COMMISSION RULES ==========

func (h *policyHandlerImpl) CreateCommissionRule(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.policyService.CreateCommissionRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commission rule created", result)
}

func (h *policyHandlerImpl) ListCommissionRules(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.policyService.ListCommissionRules(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== TAX DEDUCTIONS ==========

func (h *policyHandlerImpl) CreateTaxDeduction(w http.ResponseWriter, r *http.Request) {
	var req tax.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.policyService.CreateTaxDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tax deduction created", result)
}

func (h *policyHandlerImpl) ListTaxDeductions(w http.ResponseWriter, r *http.Request) {
	result, err := h.policyService.ListTaxDeductions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== BONUSES ==========

func (h *policyHandlerImpl) CreateBonus(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.policyService.CreateBonus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus created", result)
}

func (h *policyHandlerImpl) ApproveBonus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Bonus ID is required", nil)
		return
	}

	if err := h.policyService.ApproveBonus(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bonus approved", nil)
}

func (h *policyHandlerImpl) ListBonuses(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.policyService.ListBonuses(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
