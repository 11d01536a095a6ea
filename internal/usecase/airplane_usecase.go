package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// AirplaneUseCase throws little airplanes of coins at the members of a channel.
type AirplaneUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledger      *ledger
	clock       Clock
	rand        Random
	metrics     *metrics.Metrics
	cfg         AirplaneConfig
}

// NewAirplaneUseCase creates a new AirplaneUseCase.
func NewAirplaneUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	rand Random,
	economy EconomyConfig,
	m *metrics.Metrics,
) *AirplaneUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AirplaneUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledger:      newLedger(accountRepo, entryRepo, idGen, clock, m),
		clock:       clock,
		rand:        rand,
		metrics:     m,
		cfg:         economy.Airplanes,
	}
}

// DistributeInput names the thrower and the channel members, by external identity.
type DistributeInput struct {
	SenderExternalID  string
	MemberExternalIDs []string
}

// AirplaneGrant is one member who caught an airplane.
type AirplaneGrant struct {
	Account *domain.Account
	Entry   *domain.Entry
}

// Distribute rolls an airplane for every registered member except the sender
// and mints all hits in one transaction. An empty result means nobody caught one.
func (uc *AirplaneUseCase) Distribute(ctx context.Context, input DistributeInput) ([]AirplaneGrant, error) {
	accounts, err := uc.accountRepo.ListByExternalIDs(ctx, input.MemberExternalIDs)
	if err != nil {
		return nil, err
	}
	registered := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		registered[a.ExternalID] = a
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	today, err := uc.entryRepo.SumByCategorySince(txCtx, tx, domain.CategoryAirplane, startOfDay(uc.clock.Now()))
	if err != nil {
		return nil, err
	}
	if today.GreaterThan(uc.cfg.DailyMaximum) {
		return nil, fmt.Errorf("%w: %s coins thrown today", domain.ErrAirplaneLimitReached, today)
	}

	var grants []AirplaneGrant
	seen := make(map[string]bool, len(input.MemberExternalIDs))
	for _, member := range input.MemberExternalIDs {
		if member == input.SenderExternalID || seen[member] {
			continue
		}
		seen[member] = true

		if !uc.hit(uc.cfg.Probability) {
			continue
		}
		account, ok := registered[member]
		if !ok {
			continue
		}

		entry, err := uc.ledger.append(txCtx, tx, entryInput{
			AccountID:   account.ID,
			Amount:      uc.value(),
			Category:    domain.CategoryAirplane,
			Description: map[string]any{"sender": input.SenderExternalID},
		})
		if err != nil {
			return nil, err
		}
		grants = append(grants, AirplaneGrant{Account: account, Entry: entry})
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	for _, g := range grants {
		uc.ledger.observe(g.Entry)
	}
	if uc.metrics != nil {
		uc.metrics.GrantsIssued.WithLabelValues("airplane").Add(float64(len(grants)))
	}
	return grants, nil
}

func (uc *AirplaneUseCase) hit(probability float64) bool {
	return uc.rand.IntN(100) < int(math.Round(probability*100))
}

func (uc *AirplaneUseCase) value() decimal.Decimal {
	if uc.hit(uc.cfg.BoostedProbability) {
		return decimal.NewFromInt(int64(uc.cfg.ValueBoosted))
	}
	lo, hi := uc.cfg.ValueMin, uc.cfg.ValueMax
	if hi < lo {
		lo, hi = hi, lo
	}
	return decimal.NewFromInt(int64(lo + uc.rand.IntN(hi-lo+1)))
}
