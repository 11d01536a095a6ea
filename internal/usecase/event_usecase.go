package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// EventUseCase runs binary prediction markets.
type EventUseCase struct {
	txManager TransactionManager
	eventRepo EventRepository
	ledger    *ledger
	idGen     IDGenerator
	clock     Clock
	rand      Random
	presenter MarketPresenter
	metrics   *metrics.Metrics
	lucky     domain.LuckyBonus
	maxStake  decimal.Decimal
}

// NewEventUseCase creates a new EventUseCase. presenter may be nil.
func NewEventUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	eventRepo EventRepository,
	idGen IDGenerator,
	clock Clock,
	rand Random,
	presenter MarketPresenter,
	economy EconomyConfig,
	m *metrics.Metrics,
) *EventUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if presenter == nil {
		presenter = nopMarketPresenter{}
	}
	return &EventUseCase{
		txManager: txManager,
		eventRepo: eventRepo,
		ledger:    newLedger(accountRepo, entryRepo, idGen, clock, m),
		idGen:     idGen,
		clock:     clock,
		rand:      rand,
		presenter: presenter,
		metrics:   m,
		lucky:     economy.Lucky,
		maxStake:  economy.EventMaxStake,
	}
}

// CreateEventInput represents input for opening an event.
type CreateEventInput struct {
	Name      string
	ChoiceA   string
	ChoiceB   string
	CreatorID string
}

// Create opens a new event with two choices.
func (uc *EventUseCase) Create(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if err := domain.ValidateEventName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateChoiceDescription(input.ChoiceA); err != nil {
		return nil, err
	}
	if err := domain.ValidateChoiceDescription(input.ChoiceB); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	event := &domain.Event{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		CreatorID: input.CreatorID,
		Status:    domain.MarketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	event.Choices = []domain.Choice{
		{ID: uc.idGen.Generate(), EventID: event.ID, Label: domain.ChoiceA, Description: strings.TrimSpace(input.ChoiceA)},
		{ID: uc.idGen.Generate(), EventID: event.ID, Label: domain.ChoiceB, Description: strings.TrimSpace(input.ChoiceB)},
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.eventRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return event, nil
}

// Get retrieves an event by ID.
func (uc *EventUseCase) Get(ctx context.Context, id string) (*domain.Event, error) {
	return uc.eventRepo.GetByID(ctx, id)
}

// ListMarketsInput filters market listings. Empty Statuses lists all.
type ListMarketsInput struct {
	Statuses []domain.MarketStatus
	Limit    int
	Offset   int
}

// List lists events, newest first.
func (uc *EventUseCase) List(ctx context.Context, input ListMarketsInput) ([]*domain.Event, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.eventRepo.List(ctx, input.Statuses, limit, offset)
}

// PlaceEventBetInput represents a stake on one side of an event.
type PlaceEventBetInput struct {
	EventID   string
	AccountID string
	Choice    domain.ChoiceLabel
	Amount    decimal.Decimal
}

// PlaceBet debits the stake and records the bet in one transaction.
// An account may hold a single bet per event.
func (uc *EventUseCase) PlaceBet(ctx context.Context, input PlaceEventBetInput) (*domain.EventBet, error) {
	if input.Choice != domain.ChoiceA && input.Choice != domain.ChoiceB {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, input.Choice)
	}
	if err := domain.ValidateAmountLimit(input.Amount, uc.maxStake); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	event, err := uc.eventRepo.GetByIDForUpdate(txCtx, tx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !event.AcceptsBets() {
		return nil, fmt.Errorf("%w: event is %s", domain.ErrInvalidMarketState, event.Status)
	}

	bet := &domain.EventBet{
		ID:        uc.idGen.Generate(),
		EventID:   event.ID,
		AccountID: input.AccountID,
		Choice:    input.Choice,
		Amount:    input.Amount,
		CreatedAt: uc.clock.Now().UTC(),
	}
	if err := uc.eventRepo.CreateBet(txCtx, tx, bet); err != nil {
		return nil, err
	}

	entry, err := uc.ledger.debit(txCtx, tx, entryInput{
		AccountID:     input.AccountID,
		Amount:        input.Amount,
		Category:      domain.CategoryEventBet,
		CorrelationID: event.ID,
		Description:   map[string]any{"choice": string(input.Choice)},
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	if uc.metrics != nil {
		uc.metrics.BetsPlaced.WithLabelValues(string(domain.MarketKindEvent)).Inc()
	}

	if odds, err := uc.Odds(ctx, event.ID); err == nil {
		uc.presenter.OddsChanged(event.ID, odds)
	}

	return bet, nil
}

// Odds computes the live odds from the current bet set.
func (uc *EventUseCase) Odds(ctx context.Context, id string) (domain.Odds, error) {
	if _, err := uc.eventRepo.GetByID(ctx, id); err != nil {
		return domain.Odds{}, err
	}
	bets, err := uc.eventRepo.ListBets(ctx, nil, id)
	if err != nil {
		return domain.Odds{}, err
	}
	return domain.ComputeOdds(bets), nil
}

// Close stops accepting bets.
func (uc *EventUseCase) Close(ctx context.Context, id string) (*domain.Event, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	event, err := uc.eventRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Status.Transition(domain.MarketStatusClosed); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	if err := uc.eventRepo.UpdateStatus(txCtx, tx, id, domain.MarketStatusClosed, nil, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	event.Status = domain.MarketStatusClosed
	event.UpdatedAt = now
	return event, nil
}

// Settle pays the winners of a closed event with the final odds and lucky rolls.
func (uc *EventUseCase) Settle(ctx context.Context, id string, winner domain.ChoiceLabel) (*domain.Settlement, error) {
	if winner != domain.ChoiceA && winner != domain.ChoiceB {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, winner)
	}
	return uc.settle(ctx, id, domain.MarketStatusPaid, &winner)
}

// SettleDraw refunds every stake of a closed event.
func (uc *EventUseCase) SettleDraw(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.settle(ctx, id, domain.MarketStatusDraw, nil)
}

// Cancel refunds every stake of an open or closed event.
func (uc *EventUseCase) Cancel(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.settle(ctx, id, domain.MarketStatusCanceled, nil)
}

// settle writes every payout entry and the terminal status in one transaction.
func (uc *EventUseCase) settle(ctx context.Context, id string, status domain.MarketStatus, winner *domain.ChoiceLabel) (*domain.Settlement, error) {
	started := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	event, err := uc.eventRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Status.Transition(status); err != nil {
		return nil, err
	}

	bets, err := uc.eventRepo.ListBets(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	settlement := &domain.Settlement{
		Kind:     domain.MarketKindEvent,
		MarketID: id,
		Status:   status,
		Outcome:  status.String(),
	}

	var payouts []domain.Payout
	var category domain.Category
	if winner != nil {
		settlement.Outcome = string(*winner)
		payouts = uc.winnerPayouts(bets, *winner)
		category = domain.CategoryEventBet
	} else {
		payouts = refundPayouts(bets)
		category = domain.CategoryRefund
	}

	entries := make([]*domain.Entry, 0, len(payouts))
	for _, p := range payouts {
		entry, err := uc.ledger.append(txCtx, tx, entryInput{
			AccountID:     p.AccountID,
			Amount:        p.Amount,
			Category:      category,
			CorrelationID: id,
			Description: map[string]any{
				"outcome":    settlement.Outcome,
				"stake":      p.Stake.String(),
				"multiplier": p.Multiplier.String(),
				"bonus":      p.Bonus.String(),
			},
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	settlement.Payouts = payouts

	if err := uc.eventRepo.UpdateStatus(txCtx, tx, id, status, winner, uc.clock.Now().UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entries...)
	observeSettlement(uc.metrics, settlement, started)
	uc.presenter.MarketSettled(settlement)
	return settlement, nil
}

func (uc *EventUseCase) winnerPayouts(bets []*domain.EventBet, winner domain.ChoiceLabel) []domain.Payout {
	odds := domain.ComputeOdds(bets)
	multiplier := odds.Multiplier(winner)

	var payouts []domain.Payout
	for _, b := range bets {
		if b.Choice != winner {
			continue
		}
		bonus := uc.lucky.Roll(uc.rand)
		payouts = append(payouts, domain.Payout{
			AccountID:  b.AccountID,
			Stake:      b.Amount,
			Multiplier: multiplier,
			Bonus:      bonus,
			Amount:     domain.EventPayout(b.Amount, multiplier, bonus),
		})
	}
	return payouts
}

func refundPayouts(bets []*domain.EventBet) []domain.Payout {
	payouts := make([]domain.Payout, 0, len(bets))
	for _, b := range bets {
		payouts = append(payouts, domain.Payout{
			AccountID:  b.AccountID,
			Stake:      b.Amount,
			Multiplier: oneDecimal,
			Bonus:      oneDecimal,
			Amount:     b.Amount,
		})
	}
	return payouts
}
