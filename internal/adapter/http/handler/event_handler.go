package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	Create(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, input usecase.ListMarketsInput) ([]*domain.Event, error)
	PlaceBet(ctx context.Context, input usecase.PlaceEventBetInput) (*domain.EventBet, error)
	Odds(ctx context.Context, id string) (domain.Odds, error)
	Close(ctx context.Context, id string) (*domain.Event, error)
	Cancel(ctx context.Context, id string) (*domain.Settlement, error)
}

// Settler finishes a market of any kind with a kind-specific outcome.
type Settler interface {
	Settle(ctx context.Context, kind domain.MarketKind, marketID, outcome string) (*domain.Settlement, error)
}

// EventHandler handles binary prediction markets.
type EventHandler struct {
	eventUC  EventService
	settler  Settler
	retrier  Retrier
	throttle *Throttle
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventUC EventService, settler Settler, retrier Retrier, throttle *Throttle) *EventHandler {
	return &EventHandler{
		eventUC:  eventUC,
		settler:  settler,
		retrier:  retrier,
		throttle: throttle,
	}
}

// Create opens an event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create event", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Get retrieves an event with its choices.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get event", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// List lists events, optionally filtered by ?status=.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status filter", err.Error())
		return
	}

	events, err := h.eventUC.List(r.Context(), usecase.ListMarketsInput{
		Statuses: statuses,
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EventsFromDomain(events))
}

// Odds returns the live multipliers of both sides.
func (h *EventHandler) Odds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	odds, err := h.eventUC.Odds(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to compute odds", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OddsFromDomain(id, odds))
}

// Bet stakes on one side of an event.
func (h *EventHandler) Bet(w http.ResponseWriter, r *http.Request) {
	var req dto.EventBetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid choice", err)
		return
	}
	if !h.throttle.allow(w, r, input.AccountID, "bet") {
		return
	}

	bet, err := h.eventUC.PlaceBet(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to place bet", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventBetFromDomain(bet))
}

// Close stops accepting bets.
func (h *EventHandler) Close(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventUC.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to close event", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// Cancel refunds every stake.
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var settlement *domain.Settlement
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		settlement, err = h.eventUC.Cancel(r.Context(), chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to cancel event", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}

// Settle pays the winning side, or refunds everyone on "draw".
func (h *EventHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settlement, err := settleWithRetry(r.Context(), h.settler, h.retrier, domain.MarketKindEvent, chi.URLParam(r, "id"), req.Outcome)
	if err != nil {
		writeDomainError(w, "failed to settle event", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}

func settleWithRetry(ctx context.Context, s Settler, r Retrier, kind domain.MarketKind, id, outcome string) (*domain.Settlement, error) {
	var settlement *domain.Settlement
	err := retry(ctx, r, func() error {
		var err error
		settlement, err = s.Settle(ctx, kind, id, outcome)
		return err
	})
	return settlement, err
}
