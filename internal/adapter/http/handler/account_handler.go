package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	RegisterAndGrantInitial(ctx context.Context, input usecase.RegisterInput) (*usecase.Registration, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GrantDaily(ctx context.Context, accountID string) (*domain.Entry, error)
}

// BalanceService derives balances from the ledger.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	ledgerUC  BalanceService
	throttle  *Throttle
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, ledgerUC BalanceService, throttle *Throttle) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		ledgerUC:  ledgerUC,
		throttle:  throttle,
	}
}

// Register creates the account on first sight and mints the onboarding grant.
// Known identities answer 200 with the stored account.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reg, err := h.accountUC.RegisterAndGrantInitial(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to register account", err)
		return
	}

	status := http.StatusOK
	if reg.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.RegistrationFromUseCase(reg))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Balance returns the derived balance of an account.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	if _, err := h.accountUC.GetAccount(r.Context(), id); err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

// Daily mints the once-per-day grant.
func (h *AccountHandler) Daily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}
	if !h.throttle.allow(w, r, id, "daily") {
		return
	}

	entry, err := h.accountUC.GrantDaily(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to grant daily coins", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
