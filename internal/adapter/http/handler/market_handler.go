package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

// WagerService places kind-agnostic wagers.
type WagerService interface {
	Wager(ctx context.Context, kind domain.MarketKind, w domain.Wager) (*domain.Wager, error)
}

// MarketHandler exposes the wager surface shared by every market kind.
type MarketHandler struct {
	markets  WagerService
	throttle *Throttle
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(markets WagerService, throttle *Throttle) *MarketHandler {
	return &MarketHandler{markets: markets, throttle: throttle}
}

// Wager places a bet on an event or roulette, or a move in a jokenpo session.
func (h *MarketHandler) Wager(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseMarketKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeDomainError(w, "invalid market kind", err)
		return
	}

	var req dto.WagerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.throttle.allow(w, r, req.AccountID, "bet") {
		return
	}

	wager, err := h.markets.Wager(r.Context(), kind, req.ToDomain(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to place wager", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WagerFromDomain(kind, wager))
}
