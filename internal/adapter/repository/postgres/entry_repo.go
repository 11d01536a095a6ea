package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/postgres/generated"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create appends an entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	description := []byte("{}")
	if len(entry.Description) > 0 {
		var err error
		if description, err = json.Marshal(entry.Description); err != nil {
			return fmt.Errorf("failed to encode entry description: %w", err)
		}
	}

	err := queries(r.queries, tx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:            entry.ID,
		AccountID:     entry.AccountID,
		Amount:        decimalToNumeric(entry.Amount),
		Category:      string(entry.Category),
		CorrelationID: entry.CorrelationID,
		Description:   description,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
	if _, ok := foreignKeyViolation(err); ok {
		return domain.ErrAccountNotFound
	}

	return err
}

// SumByAccount folds every entry of an account into its balance.
func (r *EntryRepository) SumByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	balance, err := queries(r.queries, tx).SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// CountByAccountCategorySince counts an account's entries of one category since a moment.
func (r *EntryRepository) CountByAccountCategorySince(ctx context.Context, tx usecase.Transaction, accountID string, category domain.Category, since time.Time) (int64, error) {
	return queries(r.queries, tx).CountEntriesByAccountCategorySince(ctx, generated.CountEntriesByAccountCategorySinceParams{
		AccountID: accountID,
		Category:  string(category),
		CreatedAt: timeToPgTimestamptz(since),
	})
}

// SumByCategorySince sums one category across all accounts since a moment.
func (r *EntryRepository) SumByCategorySince(ctx context.Context, tx usecase.Transaction, category domain.Category, since time.Time) (decimal.Decimal, error) {
	total, err := queries(r.queries, tx).SumEntriesByCategorySince(ctx, generated.SumEntriesByCategorySinceParams{
		Category:  string(category),
		CreatedAt: timeToPgTimestamptz(since),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// ListByAccount lists entries newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListByCorrelation lists the entries tied to a market, session or counterparty.
func (r *EntryRepository) ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByCorrelation(ctx, correlationID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// TopBalances ranks accounts by balance.
func (r *EntryRepository) TopBalances(ctx context.Context, limit int) ([]*domain.AccountBalance, error) {
	rows, err := r.queries.TopBalances(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AccountBalance, 0, len(rows))
	for _, row := range rows {
		account := domain.Account{Username: row.Username, GlobalName: row.GlobalName}
		out = append(out, &domain.AccountBalance{
			AccountID:  row.ID,
			ExternalID: row.ExternalID,
			Username:   account.DisplayName(),
			Balance:    numericToDecimal(row.Balance),
		})
	}

	return out, nil
}

// SumByCategory sums the whole ledger per category.
func (r *EntryRepository) SumByCategory(ctx context.Context) (map[domain.Category]decimal.Decimal, error) {
	rows, err := r.queries.SumEntriesByCategory(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[domain.Category]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[domain.Category(row.Category)] = numericToDecimal(row.Total)
	}

	return sums, nil
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	entry := &domain.Entry{
		ID:            row.ID,
		AccountID:     row.AccountID,
		CorrelationID: row.CorrelationID,
		Category:      domain.Category(row.Category),
		Amount:        numericToDecimal(row.Amount),
		CreatedAt:     row.CreatedAt.Time,
	}
	if len(row.Description) > 0 {
		_ = json.Unmarshal(row.Description, &entry.Description)
	}

	return entry
}
