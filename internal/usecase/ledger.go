package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// startOfDay is midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type entryInput struct {
	Description   map[string]any
	AccountID     string
	CorrelationID string
	Category      domain.Category
	Amount        decimal.Decimal
}

// ledger writes entries inside a transaction owned by the calling usecase.
type ledger struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	clock       Clock
	metrics     *metrics.Metrics
}

func newLedger(accountRepo AccountRepository, entryRepo EntryRepository, idGen IDGenerator, clock Clock, m *metrics.Metrics) *ledger {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ledger{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		clock:       clock,
		metrics:     m,
	}
}

func (l *ledger) append(ctx context.Context, tx Transaction, in entryInput) (*domain.Entry, error) {
	if !in.Category.Valid() {
		return nil, fmt.Errorf("unknown entry category %q", in.Category)
	}

	entry := &domain.Entry{
		ID:            l.idGen.Generate(),
		AccountID:     in.AccountID,
		Amount:        in.Amount,
		Category:      in.Category,
		CorrelationID: in.CorrelationID,
		Description:   in.Description,
		CreatedAt:     l.clock.Now().UTC(),
	}

	if err := l.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("append %s entry: %w", in.Category, err)
	}

	return entry, nil
}

// debit locks the account row, checks the derived balance and appends -amount.
// The lock serializes concurrent spenders of the same account.
func (l *ledger) debit(ctx context.Context, tx Transaction, in entryInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}

	if _, err := l.accountRepo.GetByIDForUpdate(ctx, tx, in.AccountID); err != nil {
		return nil, err
	}

	if err := l.requireAvailable(ctx, tx, in.AccountID, in.Amount); err != nil {
		return nil, err
	}

	in.Amount = in.Amount.Neg()
	return l.append(ctx, tx, in)
}

func (l *ledger) requireAvailable(ctx context.Context, tx Transaction, accountID string, amount decimal.Decimal) error {
	balance, err := l.entryRepo.SumByAccount(ctx, tx, accountID)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s, required %s", domain.ErrInsufficientBalance, balance, amount)
	}
	return nil
}

// lockPair locks both accounts in id order to avoid deadlocks.
func (l *ledger) lockPair(ctx context.Context, tx Transaction, a, b string) error {
	ids := []string{a, b}
	if a == b {
		ids = ids[:1]
	}
	sort.Strings(ids)

	accounts, err := l.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}
	if len(accounts) != len(ids) {
		return domain.ErrAccountNotFound
	}
	return nil
}

// observe records committed entries.
func (l *ledger) observe(entries ...*domain.Entry) {
	if l.metrics == nil {
		return
	}
	for _, e := range entries {
		l.metrics.EntriesAppended.WithLabelValues(string(e.Category)).Inc()
	}
}
