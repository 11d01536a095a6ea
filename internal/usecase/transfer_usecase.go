package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// TransferUseCase handles the member-to-member transfer command.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledger      *ledger
	clock       Clock
	metrics     *metrics.Metrics
	limit       decimal.Decimal
	minAge      time.Duration
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	economy EconomyConfig,
	m *metrics.Metrics,
) *TransferUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledger:      newLedger(accountRepo, entryRepo, idGen, clock, m),
		clock:       clock,
		metrics:     m,
		limit:       economy.TransferLimit,
		minAge:      economy.TransferMinAccountAge,
	}
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// TransferResult holds the written entries. Trolled is set when the sender
// targeted itself and the coins were burned.
type TransferResult struct {
	Entries []*domain.Entry
	Trolled bool
}

// Transfer moves coins between two members after checking the amount cap,
// the sender account age and the sender balance.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if err := domain.ValidateAmountLimit(input.Amount, uc.limit); err != nil {
		uc.count("rejected")
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.ledger.lockPair(txCtx, tx, input.FromAccountID, input.ToAccountID); err != nil {
		uc.count("rejected")
		return nil, err
	}

	sender, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.FromAccountID)
	if err != nil {
		return nil, err
	}
	if !sender.OlderThan(uc.minAge, uc.clock.Now()) {
		uc.count("rejected")
		return nil, domain.ErrAccountTooNew
	}

	if err := uc.ledger.requireAvailable(txCtx, tx, input.FromAccountID, input.Amount); err != nil {
		uc.count("rejected")
		return nil, err
	}

	result := &TransferResult{}

	if input.FromAccountID == input.ToAccountID {
		entry, err := uc.ledger.append(txCtx, tx, entryInput{
			AccountID:     input.FromAccountID,
			Amount:        input.Amount.Neg(),
			Category:      domain.CategoryTroll,
			CorrelationID: input.ToAccountID,
		})
		if err != nil {
			return nil, err
		}
		result.Entries = []*domain.Entry{entry}
		result.Trolled = true
	} else {
		entries, err := uc.ledger.transferPair(txCtx, tx, input.FromAccountID, input.ToAccountID, input.Amount)
		if err != nil {
			return nil, err
		}
		result.Entries = entries
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(result.Entries...)
	if result.Trolled {
		uc.count("trolled")
	} else {
		uc.count("ok")
	}
	return result, nil
}

func (uc *TransferUseCase) count(result string) {
	if uc.metrics != nil {
		uc.metrics.Transfers.WithLabelValues(result).Inc()
	}
}
