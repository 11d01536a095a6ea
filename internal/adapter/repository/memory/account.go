package memory

import (
	"context"
	"sort"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create inserts an account. The external identity is unique.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.store.write(tx, func(s *state) error {
		if _, ok := s.byExternalID[account.ExternalID]; ok {
			return domain.ErrAccountExists
		}
		if _, ok := s.accounts[account.ID]; ok {
			return domain.ErrAccountExists
		}
		cp := *account
		s.accounts[account.ID] = &cp
		s.byExternalID[account.ExternalID] = account.ID
		return nil
	})
}

func (r *AccountRepository) get(tx usecase.Transaction, id string) (*domain.Account, error) {
	var out *domain.Account
	r.store.read(tx, func(s *state) {
		if a, ok := s.accounts[id]; ok {
			cp := *a
			out = &cp
		}
	})
	if out == nil {
		return nil, domain.ErrAccountNotFound
	}
	return out, nil
}

func (r *AccountRepository) getByExternal(tx usecase.Transaction, externalID string) (*domain.Account, error) {
	var id string
	r.store.read(tx, func(s *state) {
		id = s.byExternalID[externalID]
	})
	if id == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.get(tx, id)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	return r.get(nil, id)
}

// GetByExternalID retrieves an account by its external identity.
func (r *AccountRepository) GetByExternalID(_ context.Context, externalID string) (*domain.Account, error) {
	return r.getByExternal(nil, externalID)
}

// GetByIDForUpdate reads inside the transaction, which already holds the store lock.
func (r *AccountRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.get(tx, id)
}

// GetByExternalIDForUpdate reads inside the transaction.
func (r *AccountRepository) GetByExternalIDForUpdate(_ context.Context, tx usecase.Transaction, externalID string) (*domain.Account, error) {
	return r.getByExternal(tx, externalID)
}

// GetByIDsForUpdate returns the existing accounts among ids, ordered by id.
func (r *AccountRepository) GetByIDsForUpdate(_ context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	var out []*domain.Account
	r.store.read(tx, func(s *state) {
		for _, id := range ids {
			if a, ok := s.accounts[id]; ok {
				cp := *a
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListByExternalIDs returns the registered accounts among externalIDs.
func (r *AccountRepository) ListByExternalIDs(_ context.Context, externalIDs []string) ([]*domain.Account, error) {
	var out []*domain.Account
	r.store.read(nil, func(s *state) {
		for _, ext := range externalIDs {
			if id, ok := s.byExternalID[ext]; ok {
				cp := *s.accounts[id]
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

// MarkInitialGranted sets the one-shot flag.
func (r *AccountRepository) MarkInitialGranted(_ context.Context, tx usecase.Transaction, id string) error {
	return r.store.write(tx, func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return domain.ErrAccountNotFound
		}
		cp := *a
		cp.ReceivedInitialGrant = true
		s.accounts[id] = &cp
		return nil
	})
}
