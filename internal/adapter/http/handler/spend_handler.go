package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// SpendService debits paid commands.
type SpendService interface {
	SpendMaster(ctx context.Context, input usecase.MasterInput) (*domain.Entry, error)
	SpendPicasso(ctx context.Context, input usecase.PicassoInput) (*domain.Entry, error)
}

// SpendHandler handles the paid AI commands. Only the debit happens here.
type SpendHandler struct {
	spendUC  SpendService
	throttle *Throttle
}

// NewSpendHandler creates a new SpendHandler.
func NewSpendHandler(spendUC SpendService, throttle *Throttle) *SpendHandler {
	return &SpendHandler{spendUC: spendUC, throttle: throttle}
}

// Master debits a question.
func (h *SpendHandler) Master(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	var req dto.SpendMasterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.throttle.allow(w, r, accountID, "master") {
		return
	}

	entry, err := h.spendUC.SpendMaster(r.Context(), req.ToUseCaseInput(accountID))
	if err != nil {
		writeDomainError(w, "failed to spend", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Picasso debits an image prompt.
func (h *SpendHandler) Picasso(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	var req dto.SpendPicassoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.throttle.allow(w, r, accountID, "picasso") {
		return
	}

	entry, err := h.spendUC.SpendPicasso(r.Context(), req.ToUseCaseInput(accountID))
	if err != nil {
		writeDomainError(w, "failed to spend", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
