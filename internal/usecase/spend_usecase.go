package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// boostedQuestionFactor widens the question limit of boosted master requests.
const boostedQuestionFactor = 20

// SpendUseCase charges accounts for paid services.
type SpendUseCase struct {
	txManager TransactionManager
	ledger    *ledger
	economy   EconomyConfig
}

// NewSpendUseCase creates a new SpendUseCase.
func NewSpendUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	economy EconomyConfig,
	m *metrics.Metrics,
) *SpendUseCase {
	return &SpendUseCase{
		txManager: txManager,
		ledger:    newLedger(accountRepo, entryRepo, idGen, clock, m),
		economy:   economy,
	}
}

// MasterInput represents a paid question.
type MasterInput struct {
	AccountID string
	Question  string
	Boost     decimal.Decimal
}

// MasterCost is the base cost plus the optional boost.
func (uc *SpendUseCase) MasterCost(boost decimal.Decimal) decimal.Decimal {
	return uc.economy.MasterCost.Add(boost)
}

// SpendMaster debits the question cost.
func (uc *SpendUseCase) SpendMaster(ctx context.Context, input MasterInput) (*domain.Entry, error) {
	if input.Boost.IsNegative() {
		return nil, fmt.Errorf("%w: boost cannot be negative", domain.ErrInvalidAmount)
	}

	limit := uc.economy.MasterQuestionMaxSize
	if input.Boost.IsPositive() {
		limit *= boostedQuestionFactor
	}
	if err := domain.ValidateMessage(input.Question, limit); err != nil {
		return nil, err
	}

	return uc.spend(ctx, entryInput{
		AccountID: input.AccountID,
		Amount:    uc.MasterCost(input.Boost),
		Category:  domain.CategoryMaster,
		Description: map[string]any{
			"question": input.Question,
			"boost":    input.Boost.String(),
		},
	})
}

// PicassoInput represents a paid image prompt.
type PicassoInput struct {
	AccountID string
	Prompt    string
}

// SpendPicasso debits the prompt cost.
func (uc *SpendUseCase) SpendPicasso(ctx context.Context, input PicassoInput) (*domain.Entry, error) {
	if err := domain.ValidateMessage(input.Prompt, uc.economy.PicassoPromptMaxSize); err != nil {
		return nil, err
	}

	return uc.spend(ctx, entryInput{
		AccountID:   input.AccountID,
		Amount:      uc.economy.PicassoCost,
		Category:    domain.CategoryPicasso,
		Description: map[string]any{"prompt": input.Prompt},
	})
}

func (uc *SpendUseCase) spend(ctx context.Context, in entryInput) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.ledger.debit(txCtx, tx, in)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	return entry, nil
}
