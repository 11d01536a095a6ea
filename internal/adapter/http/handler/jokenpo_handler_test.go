package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

type jokenpoServiceStub struct {
	sessions map[string]*domain.JokenpoSession
}

func newJokenpoServiceStub() *jokenpoServiceStub {
	return &jokenpoServiceStub{sessions: make(map[string]*domain.JokenpoSession)}
}

func (s *jokenpoServiceStub) Start(_ context.Context, creatorID string) (*domain.JokenpoSession, error) {
	session := domain.NewJokenpoSession("s1", creatorID, 30, decimal.NewFromInt(200), decimal.NewFromInt(400), time.Now())
	s.sessions[session.ID] = session
	return session.Clone(), nil
}

func (s *jokenpoServiceStub) SubmitMove(_ context.Context, input usecase.SubmitMoveInput) (*domain.JokenpoSession, error) {
	session, ok := s.sessions[input.SessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if err := session.RecordMove(input.AccountID, input.Move); err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

func (s *jokenpoServiceStub) Get(id string) (*domain.JokenpoSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *jokenpoServiceStub) Rehydrate(_ context.Context, id string) (*domain.JokenpoSession, error) {
	return s.Get(id)
}

func TestJokenpoHandler_Flow(t *testing.T) {
	engine := newJokenpoServiceStub()
	handler := NewJokenpoHandler(engine, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.Start(rec, httptest.NewRequest(http.MethodPost, "/jokenpo", bytes.NewBufferString(`{"creator_id":"acc-1"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	move := func(body string) int {
		rec := httptest.NewRecorder()
		handler.Move(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/jokenpo/s1/moves", bytes.NewBufferString(body)), "id", "s1"))
		return rec.Code
	}

	if code := move(`{"account_id":"acc-1","move":"spock"}`); code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", code)
	}
	if code := move(`{"account_id":"acc-1","move":"papel"}`); code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate move, got %d", code)
	}
	if code := move(`{"account_id":"acc-2","move":"dynamite"}`); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown move, got %d", code)
	}

	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/jokenpo/s1", nil), "id", "s1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.JokenpoSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Players) != 1 || resp.Players[0] != "acc-1" {
		t.Fatalf("unexpected players %v", resp.Players)
	}
}

func TestJokenpoHandler_MissingSession(t *testing.T) {
	handler := NewJokenpoHandler(newJokenpoServiceStub(), nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.Rehydrate(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/jokenpo/gone/rehydrate", nil), "id", "gone"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestJokenpoHandler_Resolve(t *testing.T) {
	settler := &settlerStub{}
	handler := NewJokenpoHandler(newJokenpoServiceStub(), settler, nil, nil)

	rec := httptest.NewRecorder()
	handler.Resolve(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/jokenpo/s1/resolve", nil), "id", "s1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if settler.kind != domain.MarketKindJokenpo || settler.id != "s1" {
		t.Fatalf("unexpected settle call %+v", settler)
	}
}
