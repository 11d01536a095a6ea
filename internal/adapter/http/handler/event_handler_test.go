package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

type eventServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error)
	getFn    func(ctx context.Context, id string) (*domain.Event, error)
	listFn   func(ctx context.Context, input usecase.ListMarketsInput) ([]*domain.Event, error)
	betFn    func(ctx context.Context, input usecase.PlaceEventBetInput) (*domain.EventBet, error)
	oddsFn   func(ctx context.Context, id string) (domain.Odds, error)
	closeFn  func(ctx context.Context, id string) (*domain.Event, error)
	cancelFn func(ctx context.Context, id string) (*domain.Settlement, error)
}

func (s *eventServiceStub) Create(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, input)
}

func (s *eventServiceStub) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.getFn(ctx, id)
}

func (s *eventServiceStub) List(ctx context.Context, input usecase.ListMarketsInput) ([]*domain.Event, error) {
	return s.listFn(ctx, input)
}

func (s *eventServiceStub) PlaceBet(ctx context.Context, input usecase.PlaceEventBetInput) (*domain.EventBet, error) {
	return s.betFn(ctx, input)
}

func (s *eventServiceStub) Odds(ctx context.Context, id string) (domain.Odds, error) {
	return s.oddsFn(ctx, id)
}

func (s *eventServiceStub) Close(ctx context.Context, id string) (*domain.Event, error) {
	return s.closeFn(ctx, id)
}

func (s *eventServiceStub) Cancel(ctx context.Context, id string) (*domain.Settlement, error) {
	return s.cancelFn(ctx, id)
}

type settlerStub struct {
	kind    domain.MarketKind
	id      string
	outcome string
	err     error
}

func (s *settlerStub) Settle(_ context.Context, kind domain.MarketKind, marketID, outcome string) (*domain.Settlement, error) {
	s.kind, s.id, s.outcome = kind, marketID, outcome
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Settlement{Kind: kind, MarketID: marketID, Status: domain.MarketStatusPaid, Outcome: outcome}, nil
}

func TestEventHandler_Create(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error) {
			return &domain.Event{
				ID:     "evt",
				Name:   input.Name,
				Status: domain.MarketStatusOpen,
				Choices: []domain.Choice{
					{Label: domain.ChoiceA, Description: input.ChoiceA},
					{Label: domain.ChoiceB, Description: input.ChoiceB},
				},
			}, nil
		},
	}, nil, nil, nil)

	body, _ := json.Marshal(dto.CreateEventRequest{Name: "Final", ChoiceA: "home", ChoiceB: "away", CreatorID: "acc"})
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "open" || len(resp.Choices) != 2 {
		t.Fatalf("unexpected event response: %+v", resp)
	}
}

func TestEventHandler_List_StatusFilter(t *testing.T) {
	var captured usecase.ListMarketsInput
	handler := NewEventHandler(&eventServiceStub{
		listFn: func(ctx context.Context, input usecase.ListMarketsInput) ([]*domain.Event, error) {
			captured = input
			return []*domain.Event{{ID: "evt", Status: domain.MarketStatusOpen}}, nil
		},
	}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/events?status=open&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(captured.Statuses) != 1 || captured.Statuses[0] != domain.MarketStatusOpen || captured.Limit != 5 {
		t.Fatalf("unexpected list input %+v", captured)
	}

	rec = httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/events?status=later", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventHandler_Bet(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		betFn: func(ctx context.Context, input usecase.PlaceEventBetInput) (*domain.EventBet, error) {
			if input.AccountID == "dup" {
				return nil, domain.ErrDuplicateBet
			}
			return &domain.EventBet{ID: "bet", EventID: input.EventID, AccountID: input.AccountID, Choice: input.Choice, Amount: input.Amount}, nil
		},
	}, nil, nil, nil)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"account_id":"acc","choice":"a","amount":"10"}`, http.StatusCreated},
		{"bad choice", `{"account_id":"acc","choice":"z","amount":"10"}`, http.StatusBadRequest},
		{"duplicate", `{"account_id":"dup","choice":"B","amount":"10"}`, http.StatusConflict},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParams(httptest.NewRequest(http.MethodPost, "/events/evt/bets", bytes.NewBufferString(tt.body)), "id", "evt")
			rec := httptest.NewRecorder()
			handler.Bet(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestEventHandler_Odds(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		oddsFn: func(ctx context.Context, id string) (domain.Odds, error) {
			if id != "evt" {
				return domain.Odds{}, domain.ErrEventNotFound
			}
			return domain.Odds{A: decimal.RequireFromString("1.666"), B: decimal.RequireFromString("2.5")}, nil
		},
	}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.Odds(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/events/evt/odds", nil), "id", "evt"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.OddsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.A.Equal(decimal.RequireFromString("1.67")) {
		t.Fatalf("expected rounded odds, got %s", resp.A)
	}

	rec = httptest.NewRecorder()
	handler.Odds(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/events/nope/odds", nil), "id", "nope"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEventHandler_Settle(t *testing.T) {
	settler := &settlerStub{}
	retrier := &countingRetrier{}
	handler := NewEventHandler(&eventServiceStub{}, settler, retrier, nil)

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/events/evt/settle", bytes.NewBufferString(`{"outcome":"draw"}`)), "id", "evt")
	rec := httptest.NewRecorder()
	handler.Settle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if settler.kind != domain.MarketKindEvent || settler.id != "evt" || settler.outcome != "draw" {
		t.Fatalf("unexpected settle call %+v", settler)
	}
	if retrier.calls != 1 {
		t.Fatalf("settle should run through the retrier once, got %d", retrier.calls)
	}

	settler.err = domain.ErrInvalidMarketState
	rec = httptest.NewRecorder()
	handler.Settle(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/events/evt/settle", bytes.NewBufferString(`{"outcome":"A"}`)), "id", "evt"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeated settle, got %d", rec.Code)
	}
}

func TestEventHandler_CloseAndCancel(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		closeFn: func(ctx context.Context, id string) (*domain.Event, error) {
			return &domain.Event{ID: id, Status: domain.MarketStatusClosed}, nil
		},
		cancelFn: func(ctx context.Context, id string) (*domain.Settlement, error) {
			return &domain.Settlement{
				Kind:     domain.MarketKindEvent,
				MarketID: id,
				Status:   domain.MarketStatusCanceled,
				Payouts:  []domain.Payout{{AccountID: "acc", Stake: decimal.NewFromInt(10), Amount: decimal.NewFromInt(10)}},
			}, nil
		},
	}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.Close(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/events/evt/close", nil), "id", "evt"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Cancel(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/events/evt/cancel", nil), "id", "evt"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SettlementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "canceled" || !resp.TotalPaid.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected cancel response: %+v", resp)
	}
}
