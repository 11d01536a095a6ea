package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

var oneDecimal = decimal.NewFromInt(1)

// Wagering is the capability surface shared by every market kind.
type Wagering interface {
	Kind() domain.MarketKind
	// Wager places a bet or submits a move and returns the normalized wager.
	Wager(ctx context.Context, w domain.Wager) (*domain.Wager, error)
	// Settle finishes the market with a kind-specific outcome.
	Settle(ctx context.Context, marketID, outcome string) (*domain.Settlement, error)
}

// Markets dispatches wagers and settlements by market kind.
type Markets struct {
	kinds map[domain.MarketKind]Wagering
}

// NewMarkets registers the given market kinds.
func NewMarkets(kinds ...Wagering) *Markets {
	m := &Markets{kinds: make(map[domain.MarketKind]Wagering, len(kinds))}
	for _, k := range kinds {
		m.kinds[k.Kind()] = k
	}
	return m
}

// For returns the market implementation of kind.
func (m *Markets) For(kind domain.MarketKind) (Wagering, error) {
	w, ok := m.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMarketKind, kind)
	}
	return w, nil
}

// Wager routes a wager to its market kind.
func (m *Markets) Wager(ctx context.Context, kind domain.MarketKind, w domain.Wager) (*domain.Wager, error) {
	market, err := m.For(kind)
	if err != nil {
		return nil, err
	}
	return market.Wager(ctx, w)
}

// Settle routes a settlement to its market kind.
func (m *Markets) Settle(ctx context.Context, kind domain.MarketKind, marketID, outcome string) (*domain.Settlement, error) {
	market, err := m.For(kind)
	if err != nil {
		return nil, err
	}
	return market.Settle(ctx, marketID, outcome)
}

// EventMarket adapts EventUseCase to Wagering.
type EventMarket struct{ *EventUseCase }

func (EventMarket) Kind() domain.MarketKind { return domain.MarketKindEvent }

func (m EventMarket) Wager(ctx context.Context, w domain.Wager) (*domain.Wager, error) {
	choice, err := domain.ParseChoice(w.Choice)
	if err != nil {
		return nil, err
	}
	if _, err := m.PlaceBet(ctx, PlaceEventBetInput{
		EventID:   w.MarketID,
		AccountID: w.AccountID,
		Choice:    choice,
		Amount:    w.Amount,
	}); err != nil {
		return nil, err
	}
	w.Choice = string(choice)
	return &w, nil
}

// Settle accepts "A", "B" or "draw".
func (m EventMarket) Settle(ctx context.Context, marketID, outcome string) (*domain.Settlement, error) {
	if strings.EqualFold(strings.TrimSpace(outcome), domain.MarketStatusDraw.String()) {
		return m.SettleDraw(ctx, marketID)
	}
	choice, err := domain.ParseChoice(outcome)
	if err != nil {
		return nil, err
	}
	return m.EventUseCase.Settle(ctx, marketID, choice)
}

// RouletteMarket adapts RouletteUseCase to Wagering.
type RouletteMarket struct{ *RouletteUseCase }

func (RouletteMarket) Kind() domain.MarketKind { return domain.MarketKindRoulette }

func (m RouletteMarket) Wager(ctx context.Context, w domain.Wager) (*domain.Wager, error) {
	color, err := domain.ParseColor(w.Choice)
	if err != nil {
		return nil, err
	}
	if _, err := m.PlaceBet(ctx, PlaceRouletteBetInput{
		RouletteID: w.MarketID,
		AccountID:  w.AccountID,
		Choice:     color,
		Amount:     w.Amount,
	}); err != nil {
		return nil, err
	}
	w.Choice = color.String()
	return &w, nil
}

// Settle accepts the winning number.
func (m RouletteMarket) Settle(ctx context.Context, marketID, outcome string) (*domain.Settlement, error) {
	number, err := strconv.Atoi(strings.TrimSpace(outcome))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, outcome)
	}
	return m.RouletteUseCase.Settle(ctx, marketID, number)
}

// JokenpoMarket adapts JokenpoEngine to Wagering. The wager amount is ignored;
// every move costs the session stake.
type JokenpoMarket struct{ *JokenpoEngine }

func (JokenpoMarket) Kind() domain.MarketKind { return domain.MarketKindJokenpo }

func (m JokenpoMarket) Wager(ctx context.Context, w domain.Wager) (*domain.Wager, error) {
	session, err := m.SubmitMove(ctx, SubmitMoveInput{
		SessionID: w.MarketID,
		AccountID: w.AccountID,
		Move:      domain.Move(w.Choice),
	})
	if err != nil {
		return nil, err
	}
	w.Choice = string(session.Moves[w.AccountID])
	w.Amount = session.Stake
	return &w, nil
}

// Settle resolves the session now. The outcome is ignored.
func (m JokenpoMarket) Settle(ctx context.Context, marketID, _ string) (*domain.Settlement, error) {
	started := time.Now()
	result, err := m.Resolve(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, domain.ErrSessionNotFound
	}

	settlement := &domain.Settlement{
		Kind:     domain.MarketKindJokenpo,
		MarketID: marketID,
		Status:   domain.MarketStatusPaid,
		Outcome:  string(result.BotMove),
	}
	for _, p := range result.Winners() {
		multiplier := oneDecimal
		if result.Stake.IsPositive() {
			multiplier = p.Payout.Div(result.Stake).Round(2)
		}
		settlement.Payouts = append(settlement.Payouts, domain.Payout{
			AccountID:  p.AccountID,
			Stake:      result.Stake,
			Amount:     p.Payout,
			Multiplier: multiplier,
			Bonus:      oneDecimal,
		})
	}
	observeSettlement(m.metrics, settlement, started)
	return settlement, nil
}

func observeSettlement(m *metrics.Metrics, s *domain.Settlement, started time.Time) {
	if m == nil {
		return
	}
	kind := string(s.Kind)
	m.Settlements.WithLabelValues(kind, s.Status.String()).Inc()
	m.SettlementDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	paid, _ := s.TotalPaid().Float64()
	m.CoinsPaidOut.WithLabelValues(kind).Add(paid)
}

type nopMarketPresenter struct{}

func (nopMarketPresenter) OddsChanged(string, domain.Odds)  {}
func (nopMarketPresenter) MarketSettled(*domain.Settlement) {}

type nopJokenpoPresenter struct{}

func (nopJokenpoPresenter) SessionTicked(*domain.JokenpoSession)  {}
func (nopJokenpoPresenter) SessionResolved(*domain.JokenpoResult) {}
