package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/service"
	"github.com/elie009/utlityhub360-sub002/pkg/response"
)

const accountCacheTTL = 5 * time.Minute

type AccountHandler struct {
	savings   *service.SavingsService
	accrual   *service.AccrualService
	redis     *redis.Client
	validator *validator.Validate
}

func NewAccountHandler(savings *service.SavingsService, accrual *service.AccrualService, redisClient *redis.Client) *AccountHandler {
	return &AccountHandler{
		savings:   savings,
		accrual:   accrual,
		redis:     redisClient,
		validator: validator.New(),
	}
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	account, err := h.savings.CreateAccount(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, account)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "accountId")
	if !ok {
		return
	}

	// Serve from cache when we can; the cache is invalidated on any
	// balance mutation.
	cacheKey := "account:" + id.String()
	if cached, err := h.redis.Get(r.Context(), cacheKey).Result(); err == nil {
		var account domain.Account
		if json.Unmarshal([]byte(cached), &account) == nil {
			response.Success(w, &account)
			return
		}
	}

	account, err := h.savings.GetAccount(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	if payload, err := json.Marshal(account); err == nil {
		h.redis.Set(r.Context(), cacheKey, payload, accountCacheTTL)
	}

	response.Success(w, account)
}

func (h *AccountHandler) GetMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "accountId")
	if !ok {
		return
	}

	txs, err := h.savings.GetMovements(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, txs)
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.savings.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.savings.Withdraw)
}

func (h *AccountHandler) movement(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id uuid.UUID, amount decimal.Decimal, description string) (*domain.Account, error)) {
	id, ok := pathUUID(w, r, "accountId")
	if !ok {
		return
	}

	var req domain.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	account, err := apply(r.Context(), id, req.Amount, req.Description)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	h.redis.Del(r.Context(), "account:"+id.String())
	response.Success(w, account)
}

// Accrue applies interest to one account, defaulting as-of to today.
func (h *AccountHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "accountId")
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be YYYY-MM-DD", err)
			return
		}
		asOf = parsed
	}

	account, err := h.savings.GetAccount(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	result, err := h.accrual.ApplyInterest(r.Context(), account, asOf)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	h.redis.Del(r.Context(), "account:"+id.String())
	response.Success(w, result)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "accountId")
	if !ok {
		return
	}

	if _, err := h.savings.GetAccount(r.Context(), id); err != nil {
		response.BusinessError(w, err)
		return
	}

	if err := h.savings.DeleteAccount(r.Context(), id); err != nil {
		response.BusinessError(w, err)
		return
	}

	h.redis.Del(r.Context(), "account:"+id.String())
	response.Success(w, map[string]string{"status": "deleted"})
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, name+" must be a valid UUID", err)
		return uuid.Nil, false
	}
	return id, true
}
