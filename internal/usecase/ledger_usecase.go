package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// LedgerUseCase exposes the ledger primitives.
type LedgerUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	ledger    *ledger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager: txManager,
		entryRepo: entryRepo,
		ledger:    newLedger(accountRepo, entryRepo, idGen, clock, m),
	}
}

// AppendInput represents input for appending a ledger entry.
type AppendInput struct {
	Description   map[string]any
	AccountID     string
	CorrelationID string
	Category      domain.Category
	Amount        decimal.Decimal
}

// GetBalance folds every entry of the account. Unknown or fresh accounts yield zero.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return uc.entryRepo.SumByAccount(ctx, nil, accountID)
}

// HasAvailable reports whether the balance covers amount. The answer is advisory;
// debits re-check under the account lock.
func (uc *LedgerUseCase) HasAvailable(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	balance, err := uc.GetBalance(ctx, accountID)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(amount), nil
}

// Append writes a single immutable entry.
func (uc *LedgerUseCase) Append(ctx context.Context, input AppendInput) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.ledger.append(txCtx, tx, entryInput(input))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	return entry, nil
}

// Debit atomically checks the balance and appends a negative entry of input.Amount.
func (uc *LedgerUseCase) Debit(ctx context.Context, input AppendInput) (*domain.Entry, error) {
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

	entry, err := uc.ledger.debit(txCtx, tx, entryInput(input))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	return entry, nil
}

// TransferPair moves amount from one account to another with a sum-zero pair of
// Transfer entries, or writes nothing. It performs no business validation.
func (uc *LedgerUseCase) TransferPair(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) ([]*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.ledger.lockPair(txCtx, tx, fromAccountID, toAccountID); err != nil {
		return nil, err
	}

	entries, err := uc.ledger.transferPair(txCtx, tx, fromAccountID, toAccountID, amount)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entries...)
	return entries, nil
}

func (l *ledger) transferPair(ctx context.Context, tx Transaction, from, to string, amount decimal.Decimal) ([]*domain.Entry, error) {
	debit, err := l.append(ctx, tx, entryInput{
		AccountID:     from,
		Amount:        amount.Neg(),
		Category:      domain.CategoryTransfer,
		CorrelationID: to,
	})
	if err != nil {
		return nil, err
	}

	credit, err := l.append(ctx, tx, entryInput{
		AccountID:     to,
		Amount:        amount,
		Category:      domain.CategoryTransfer,
		CorrelationID: from,
	})
	if err != nil {
		return nil, err
	}

	return []*domain.Entry{debit, credit}, nil
}
