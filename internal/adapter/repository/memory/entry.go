package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create appends an entry.
func (r *EntryRepository) Create(_ context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	return r.store.write(tx, func(s *state) error {
		if _, ok := s.accounts[entry.AccountID]; !ok {
			return domain.ErrAccountNotFound
		}
		cp := *entry
		s.entries = append(s.entries, &cp)
		return nil
	})
}

// SumByAccount folds the entries of one account.
func (r *EntryRepository) SumByAccount(_ context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.store.read(tx, func(s *state) {
		for _, e := range s.entries {
			if e.AccountID == accountID {
				total = total.Add(e.Amount)
			}
		}
	})
	return total, nil
}

// CountByAccountCategorySince counts entries of a category created at or after since.
func (r *EntryRepository) CountByAccountCategorySince(_ context.Context, tx usecase.Transaction, accountID string, category domain.Category, since time.Time) (int64, error) {
	var n int64
	r.store.read(tx, func(s *state) {
		for _, e := range s.entries {
			if e.AccountID == accountID && e.Category == category && !e.CreatedAt.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

// SumByCategorySince sums every entry of a category created at or after since.
func (r *EntryRepository) SumByCategorySince(_ context.Context, tx usecase.Transaction, category domain.Category, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	r.store.read(tx, func(s *state) {
		for _, e := range s.entries {
			if e.Category == category && !e.CreatedAt.Before(since) {
				total = total.Add(e.Amount)
			}
		}
	})
	return total, nil
}

// ListByAccount lists entries of an account, newest first.
func (r *EntryRepository) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	var out []*domain.Entry
	r.store.read(nil, func(s *state) {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if e := s.entries[i]; e.AccountID == accountID {
				cp := *e
				out = append(out, &cp)
			}
		}
	})
	return page(out, limit, offset), nil
}

// ListByCorrelation lists entries tied to a correlation id in insertion order.
func (r *EntryRepository) ListByCorrelation(_ context.Context, correlationID string) ([]*domain.Entry, error) {
	var out []*domain.Entry
	r.store.read(nil, func(s *state) {
		for _, e := range s.entries {
			if e.CorrelationID == correlationID {
				cp := *e
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

// TopBalances ranks accounts by balance, highest first.
func (r *EntryRepository) TopBalances(_ context.Context, limit int) ([]*domain.AccountBalance, error) {
	var out []*domain.AccountBalance
	r.store.read(nil, func(s *state) {
		sums := make(map[string]decimal.Decimal)
		for _, e := range s.entries {
			sums[e.AccountID] = sums[e.AccountID].Add(e.Amount)
		}
		for id, total := range sums {
			a := s.accounts[id]
			if a == nil {
				continue
			}
			out = append(out, &domain.AccountBalance{
				AccountID:  id,
				ExternalID: a.ExternalID,
				Username:   a.DisplayName(),
				Balance:    total,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Balance.Cmp(out[j].Balance); c != 0 {
			return c > 0
		}
		return out[i].AccountID < out[j].AccountID
	})
	return page(out, limit, 0), nil
}

// SumByCategory sums the whole ledger per category.
func (r *EntryRepository) SumByCategory(_ context.Context) (map[domain.Category]decimal.Decimal, error) {
	sums := make(map[domain.Category]decimal.Decimal)
	r.store.read(nil, func(s *state) {
		for _, e := range s.entries {
			sums[e.Category] = sums[e.Category].Add(e.Amount)
		}
	})
	return sums, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
