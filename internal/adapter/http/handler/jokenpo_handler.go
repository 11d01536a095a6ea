package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// JokenpoService defines the behavior needed by JokenpoHandler.
type JokenpoService interface {
	Start(ctx context.Context, creatorID string) (*domain.JokenpoSession, error)
	SubmitMove(ctx context.Context, input usecase.SubmitMoveInput) (*domain.JokenpoSession, error)
	Get(id string) (*domain.JokenpoSession, error)
	Rehydrate(ctx context.Context, id string) (*domain.JokenpoSession, error)
}

// JokenpoHandler handles live jokenpo sessions. Progress is pushed over /ws.
type JokenpoHandler struct {
	engine   JokenpoService
	settler  Settler
	retrier  Retrier
	throttle *Throttle
}

// NewJokenpoHandler creates a new JokenpoHandler.
func NewJokenpoHandler(engine JokenpoService, settler Settler, retrier Retrier, throttle *Throttle) *JokenpoHandler {
	return &JokenpoHandler{
		engine:   engine,
		settler:  settler,
		retrier:  retrier,
		throttle: throttle,
	}
}

// Start opens a session and starts its countdown.
func (h *JokenpoHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartJokenpoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.engine.Start(r.Context(), req.CreatorID)
	if err != nil {
		writeDomainError(w, "failed to start jokenpo", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JokenpoSessionFromDomain(session))
}

// Get returns the live session.
func (h *JokenpoHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.engine.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get jokenpo", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JokenpoSessionFromDomain(session))
}

// Move debits the session stake and records the move.
func (h *JokenpoHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "invalid move", err)
		return
	}
	if !h.throttle.allow(w, r, input.AccountID, "move") {
		return
	}

	session, err := h.engine.SubmitMove(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to submit move", err)
		return
	}

	writeJSON(w, http.StatusAccepted, dto.JokenpoSessionFromDomain(session))
}

// Rehydrate resumes a session from its snapshot after a restart.
func (h *JokenpoHandler) Rehydrate(w http.ResponseWriter, r *http.Request) {
	session, err := h.engine.Rehydrate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to rehydrate jokenpo", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JokenpoSessionFromDomain(session))
}

// Resolve ends the countdown now and pays the winners.
func (h *JokenpoHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	settlement, err := settleWithRetry(r.Context(), h.settler, h.retrier, domain.MarketKindJokenpo, chi.URLParam(r, "id"), "")
	if err != nil {
		writeDomainError(w, "failed to resolve jokenpo", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}
