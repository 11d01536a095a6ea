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

// RouletteUseCase runs fixed-odds color wheel rounds.
type RouletteUseCase struct {
	txManager    TransactionManager
	rouletteRepo RouletteRepository
	ledger       *ledger
	idGen        IDGenerator
	clock        Clock
	rand         Random
	presenter    MarketPresenter
	metrics      *metrics.Metrics
	defaultStake decimal.Decimal
}

// NewRouletteUseCase creates a new RouletteUseCase. presenter may be nil.
func NewRouletteUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	rouletteRepo RouletteRepository,
	idGen IDGenerator,
	clock Clock,
	rand Random,
	presenter MarketPresenter,
	economy EconomyConfig,
	m *metrics.Metrics,
) *RouletteUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if presenter == nil {
		presenter = nopMarketPresenter{}
	}
	return &RouletteUseCase{
		txManager:    txManager,
		rouletteRepo: rouletteRepo,
		ledger:       newLedger(accountRepo, entryRepo, idGen, clock, m),
		idGen:        idGen,
		clock:        clock,
		rand:         rand,
		presenter:    presenter,
		metrics:      m,
		defaultStake: economy.RouletteDefaultStake,
	}
}

// CreateRouletteInput represents input for opening a round.
// A zero Stake uses the configured default denomination.
type CreateRouletteInput struct {
	Description string
	CreatorID   string
	Stake       decimal.Decimal
}

// Create opens a new round.
func (uc *RouletteUseCase) Create(ctx context.Context, input CreateRouletteInput) (*domain.Roulette, error) {
	if err := domain.ValidateMessage(input.Description, domain.MaxDescriptionLength); err != nil {
		return nil, err
	}

	stake := input.Stake
	if stake.IsZero() {
		stake = uc.defaultStake
	}
	if err := domain.ValidateAmount(stake); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	roulette := &domain.Roulette{
		ID:          uc.idGen.Generate(),
		Description: strings.TrimSpace(input.Description),
		CreatorID:   input.CreatorID,
		Stake:       stake,
		Status:      domain.MarketStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.rouletteRepo.Create(txCtx, tx, roulette); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return roulette, nil
}

// Get retrieves a round by ID.
func (uc *RouletteUseCase) Get(ctx context.Context, id string) (*domain.Roulette, error) {
	return uc.rouletteRepo.GetByID(ctx, id)
}

// List lists rounds, newest first.
func (uc *RouletteUseCase) List(ctx context.Context, input ListMarketsInput) ([]*domain.Roulette, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.rouletteRepo.List(ctx, input.Statuses, limit, offset)
}

// PlaceRouletteBetInput represents a stake on a color.
type PlaceRouletteBetInput struct {
	RouletteID string
	AccountID  string
	Choice     domain.Color
	Amount     decimal.Decimal
}

// PlaceBet debits the stake and records the bet. Repeated bets are allowed.
func (uc *RouletteUseCase) PlaceBet(ctx context.Context, input PlaceRouletteBetInput) (*domain.RouletteBet, error) {
	switch input.Choice {
	case domain.ColorGreen, domain.ColorBlack, domain.ColorRed:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidChoice, input.Choice)
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	roulette, err := uc.rouletteRepo.GetByIDForUpdate(txCtx, tx, input.RouletteID)
	if err != nil {
		return nil, err
	}
	if roulette.Status != domain.MarketStatusOpen {
		return nil, fmt.Errorf("%w: roulette is %s", domain.ErrInvalidMarketState, roulette.Status)
	}
	if err := roulette.ValidateStake(input.Amount); err != nil {
		return nil, err
	}

	entry, err := uc.ledger.debit(txCtx, tx, entryInput{
		AccountID:     input.AccountID,
		Amount:        input.Amount,
		Category:      domain.CategoryRouletteBet,
		CorrelationID: roulette.ID,
		Description:   map[string]any{"choice": input.Choice.String()},
	})
	if err != nil {
		return nil, err
	}

	bet := &domain.RouletteBet{
		ID:         uc.idGen.Generate(),
		RouletteID: roulette.ID,
		AccountID:  input.AccountID,
		Choice:     input.Choice,
		Amount:     input.Amount,
		CreatedAt:  uc.clock.Now().UTC(),
	}
	if err := uc.rouletteRepo.CreateBet(txCtx, tx, bet); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	if uc.metrics != nil {
		uc.metrics.BetsPlaced.WithLabelValues(string(domain.MarketKindRoulette)).Inc()
	}
	return bet, nil
}

// Close stops accepting bets.
func (uc *RouletteUseCase) Close(ctx context.Context, id string) (*domain.Roulette, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	roulette, err := uc.rouletteRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := roulette.Status.Transition(domain.MarketStatusClosed); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	if err := uc.rouletteRepo.UpdateStatus(txCtx, tx, id, domain.MarketStatusClosed, nil, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	roulette.Status = domain.MarketStatusClosed
	roulette.UpdatedAt = now
	return roulette, nil
}

// Spin draws the winning number and settles the round.
func (uc *RouletteUseCase) Spin(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.Settle(ctx, id, uc.rand.IntN(domain.RouletteMaxNumber+1))
}

// Settle pays every aggregated stake on the color of number.
func (uc *RouletteUseCase) Settle(ctx context.Context, id string, number int) (*domain.Settlement, error) {
	color, err := domain.ColorOf(number)
	if err != nil {
		return nil, err
	}
	return uc.settle(ctx, id, domain.MarketStatusPaid, &number, color)
}

// Cancel refunds every stake of an open or closed round.
func (uc *RouletteUseCase) Cancel(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.settle(ctx, id, domain.MarketStatusCanceled, nil, 0)
}

func (uc *RouletteUseCase) settle(ctx context.Context, id string, status domain.MarketStatus, number *int, color domain.Color) (*domain.Settlement, error) {
	started := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	roulette, err := uc.rouletteRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := roulette.Status.Transition(status); err != nil {
		return nil, err
	}

	bets, err := uc.rouletteRepo.ListBets(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	settlement := &domain.Settlement{
		Kind:     domain.MarketKindRoulette,
		MarketID: id,
		Status:   status,
		Outcome:  status.String(),
	}
	category := domain.CategoryRefund
	if number != nil {
		settlement.Outcome = strconv.Itoa(*number)
		category = domain.CategoryRouletteBet
	}

	var entries []*domain.Entry
	for _, stake := range domain.AggregateRouletteBets(bets) {
		multiplier := oneDecimal
		if number != nil {
			if stake.Choice != color {
				continue
			}
			multiplier = color.Multiplier()
		}

		payout := domain.Payout{
			AccountID:  stake.AccountID,
			Stake:      stake.Amount,
			Multiplier: multiplier,
			Bonus:      oneDecimal,
			Amount:     stake.Amount.Mul(multiplier),
		}
		entry, err := uc.ledger.append(txCtx, tx, entryInput{
			AccountID:     payout.AccountID,
			Amount:        payout.Amount,
			Category:      category,
			CorrelationID: id,
			Description: map[string]any{
				"outcome": settlement.Outcome,
				"choice":  stake.Choice.String(),
				"stake":   stake.Amount.String(),
			},
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		settlement.Payouts = append(settlement.Payouts, payout)
	}

	if err := uc.rouletteRepo.UpdateStatus(txCtx, tx, id, status, number, uc.clock.Now().UTC()); err != nil {
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
