package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/service"
	"github.com/elie009/utlityhub360-sub002/pkg/response"
)

type LoanHandler struct {
	amortization *service.AmortizationService
	validator    *validator.Validate
}

func NewLoanHandler(amortization *service.AmortizationService) *LoanHandler {
	return &LoanHandler{
		amortization: amortization,
		validator:    validator.New(),
	}
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, schedule, err := h.amortization.CreateLoan(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, &domain.CreateLoanResponse{Loan: loan, Schedule: schedule})
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	schedule, err := h.amortization.GetSchedule(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{LoanID: loanID, Schedule: schedule})
}

func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	outstanding, err := h.amortization.Outstanding(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"loan_id":     loanID,
		"outstanding": outstanding,
	})
}

func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			response.BadRequest(w, "payment_date must be YYYY-MM-DD", err)
			return
		}
		paymentDate = parsed
	}

	row, err := h.amortization.MarkPaid(r.Context(), loanID, req.Number, paymentDate)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, row)
}

func (h *LoanHandler) ExtendTerm(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	var req domain.ExtendTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	appended, err := h.amortization.ExtendTerm(r.Context(), loanID, req.ExtraMonths)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, appended)
}

func (h *LoanHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	fresh, err := h.amortization.Regenerate(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, fresh)
}

func (h *LoanHandler) AddInstallment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	var req domain.AddInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		response.BadRequest(w, "due_date must be YYYY-MM-DD", err)
		return
	}

	row, err := h.amortization.AddInstallment(r.Context(), loanID, req.Number, req.Principal, req.Interest, dueDate)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, row)
}

func (h *LoanHandler) DeleteInstallment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		response.BadRequest(w, "installment number must be an integer", err)
		return
	}

	if err := h.amortization.DeleteInstallment(r.Context(), loanID, number); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "deleted"})
}
