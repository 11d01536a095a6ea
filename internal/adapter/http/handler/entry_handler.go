package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// EntryService defines the ledger queries needed by EntryHandler.
type EntryService interface {
	GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error)
	GetEntriesByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error)
	Leaderboard(ctx context.Context, limit int) ([]*domain.AccountBalance, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists entries for an account, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Limit:   limit,
		Offset:  offset,
	})
}

// ListByMarket lists every entry tied to a market or jokenpo session.
func (h *EntryHandler) ListByMarket(w http.ResponseWriter, r *http.Request) {
	marketID := chi.URLParam(r, "id")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "missing market ID", "")
		return
	}

	entries, err := h.entryUC.GetEntriesByCorrelation(r.Context(), marketID)
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Leaderboard ranks accounts by balance.
func (h *EntryHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.entryUC.Leaderboard(r.Context(), parseIntQuery(r, "limit", 10))
	if err != nil {
		writeDomainError(w, "failed to build leaderboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LeaderboardFromDomain(rows))
}
