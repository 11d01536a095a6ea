package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// RouletteService defines the behavior needed by RouletteHandler.
type RouletteService interface {
	Create(ctx context.Context, input usecase.CreateRouletteInput) (*domain.Roulette, error)
	Get(ctx context.Context, id string) (*domain.Roulette, error)
	List(ctx context.Context, input usecase.ListMarketsInput) ([]*domain.Roulette, error)
	PlaceBet(ctx context.Context, input usecase.PlaceRouletteBetInput) (*domain.RouletteBet, error)
	Close(ctx context.Context, id string) (*domain.Roulette, error)
	Spin(ctx context.Context, id string) (*domain.Settlement, error)
	Cancel(ctx context.Context, id string) (*domain.Settlement, error)
}

// RouletteHandler handles roulette rounds.
type RouletteHandler struct {
	rouletteUC RouletteService
	settler    Settler
	retrier    Retrier
	throttle   *Throttle
}

// NewRouletteHandler creates a new RouletteHandler.
func NewRouletteHandler(rouletteUC RouletteService, settler Settler, retrier Retrier, throttle *Throttle) *RouletteHandler {
	return &RouletteHandler{
		rouletteUC: rouletteUC,
		settler:    settler,
		retrier:    retrier,
		throttle:   throttle,
	}
}

// Create opens a round.
func (h *RouletteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRouletteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	roulette, err := h.rouletteUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create roulette", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RouletteFromDomain(roulette))
}

// Get retrieves a round.
func (h *RouletteHandler) Get(w http.ResponseWriter, r *http.Request) {
	roulette, err := h.rouletteUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get roulette", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RouletteFromDomain(roulette))
}

// List lists rounds, optionally filtered by ?status=.
func (h *RouletteHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status filter", err.Error())
		return
	}

	roulettes, err := h.rouletteUC.List(r.Context(), usecase.ListMarketsInput{
		Statuses: statuses,
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list roulettes", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RoulettesFromDomain(roulettes))
}

// Bet stakes on a color.
func (h *RouletteHandler) Bet(w http.ResponseWriter, r *http.Request) {
	var req dto.RouletteBetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid color", err)
		return
	}
	if !h.throttle.allow(w, r, input.AccountID, "bet") {
		return
	}

	bet, err := h.rouletteUC.PlaceBet(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to place bet", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RouletteBetFromDomain(bet))
}

// Close stops accepting bets.
func (h *RouletteHandler) Close(w http.ResponseWriter, r *http.Request) {
	roulette, err := h.rouletteUC.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to close roulette", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RouletteFromDomain(roulette))
}

// Cancel refunds every stake.
func (h *RouletteHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, "failed to cancel roulette", h.rouletteUC.Cancel)
}

// Spin draws the wheel number and pays the winners.
func (h *RouletteHandler) Spin(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, "failed to spin roulette", h.rouletteUC.Spin)
}

// Settle pays the winners of an externally drawn number.
func (h *RouletteHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settlement, err := settleWithRetry(r.Context(), h.settler, h.retrier, domain.MarketKindRoulette, chi.URLParam(r, "id"), req.Outcome)
	if err != nil {
		writeDomainError(w, "failed to settle roulette", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}

func (h *RouletteHandler) finish(w http.ResponseWriter, r *http.Request, message string, fn func(context.Context, string) (*domain.Settlement, error)) {
	id := chi.URLParam(r, "id")
	var settlement *domain.Settlement
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		settlement, err = fn(r.Context(), id)
		return err
	})
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}
