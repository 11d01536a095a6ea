package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

type conservationStub struct {
	report *usecase.ConservationReport
	err    error
}

func (s conservationStub) CheckConservation(context.Context) (*usecase.ConservationReport, error) {
	return s.report, s.err
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	report := &usecase.ConservationReport{
		ByCategory: map[domain.Category]decimal.Decimal{
			domain.CategoryInitial:  decimal.NewFromInt(200),
			domain.CategoryTransfer: decimal.Zero,
		},
		Minted:      decimal.NewFromInt(200),
		Circulating: decimal.NewFromInt(200),
		Consistent:  true,
	}

	rec := httptest.NewRecorder()
	NewLedgerHandler(conservationStub{report: report}).CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConservationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent || !resp.Minted.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected report %+v", resp)
	}
}

func TestLedgerHandler_Inconsistent(t *testing.T) {
	report := &usecase.ConservationReport{Consistent: false}
	err := fmt.Errorf("%w: transfer total 5", usecase.ErrInconsistentLedger)

	rec := httptest.NewRecorder()
	NewLedgerHandler(conservationStub{report: report, err: err}).CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewLedgerHandler(conservationStub{err: errors.New("db down")}).CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

type entryServiceStub struct {
	input       usecase.GetEntriesByAccountInput
	correlation string
	limit       int
}

func (s *entryServiceStub) GetEntriesByAccount(_ context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error) {
	s.input = input
	return []*domain.Entry{{ID: "e1", AccountID: input.AccountID, Category: domain.CategoryDaily, Amount: decimal.NewFromInt(100)}}, nil
}

func (s *entryServiceStub) GetEntriesByCorrelation(_ context.Context, correlationID string) ([]*domain.Entry, error) {
	s.correlation = correlationID
	return nil, nil
}

func (s *entryServiceStub) Leaderboard(_ context.Context, limit int) ([]*domain.AccountBalance, error) {
	s.limit = limit
	return []*domain.AccountBalance{{AccountID: "a", Balance: decimal.NewFromInt(900)}}, nil
}

func TestEntryHandler(t *testing.T) {
	stub := &entryServiceStub{}
	handler := NewEntryHandler(stub)

	rec := httptest.NewRecorder()
	handler.ListByAccount(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/acc/entries?limit=5&offset=10", nil), "id", "acc"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.input.AccountID != "acc" || stub.input.Limit != 5 || stub.input.Offset != 10 {
		t.Fatalf("unexpected history input %+v", stub.input)
	}

	rec = httptest.NewRecorder()
	handler.ListByMarket(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/markets/event/evt/entries", nil), "kind", "event", "id", "evt"))
	if rec.Code != http.StatusOK || stub.correlation != "evt" {
		t.Fatalf("expected correlation lookup for evt, got %d %q", rec.Code, stub.correlation)
	}

	rec = httptest.NewRecorder()
	handler.Leaderboard(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	if rec.Code != http.StatusOK || stub.limit != 10 {
		t.Fatalf("expected default limit 10, got %d (status %d)", stub.limit, rec.Code)
	}

	var resp dto.LeaderboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Rank != 1 {
		t.Fatalf("unexpected leaderboard %+v", resp)
	}
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": ok}).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"redis": down}).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
