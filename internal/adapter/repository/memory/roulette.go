package memory

import (
	"context"
	"sort"
	"time"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// RouletteRepository implements usecase.RouletteRepository.
type RouletteRepository struct {
	store *Store
}

// NewRouletteRepository creates a new RouletteRepository.
func NewRouletteRepository(store *Store) *RouletteRepository {
	return &RouletteRepository{store: store}
}

func copyRoulette(r *domain.Roulette) *domain.Roulette {
	cp := *r
	if r.Result != nil {
		n := *r.Result
		cp.Result = &n
	}
	return &cp
}

// Create inserts a round.
func (r *RouletteRepository) Create(_ context.Context, tx usecase.Transaction, roulette *domain.Roulette) error {
	return r.store.write(tx, func(s *state) error {
		s.roulettes[roulette.ID] = copyRoulette(roulette)
		return nil
	})
}

func (r *RouletteRepository) get(tx usecase.Transaction, id string) (*domain.Roulette, error) {
	var out *domain.Roulette
	r.store.read(tx, func(s *state) {
		if rr, ok := s.roulettes[id]; ok {
			out = copyRoulette(rr)
		}
	})
	if out == nil {
		return nil, domain.ErrRouletteNotFound
	}
	return out, nil
}

// GetByID retrieves a round by ID.
func (r *RouletteRepository) GetByID(_ context.Context, id string) (*domain.Roulette, error) {
	return r.get(nil, id)
}

// GetByIDForUpdate reads inside the transaction.
func (r *RouletteRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Roulette, error) {
	return r.get(tx, id)
}

// List lists rounds with any of statuses, newest first.
func (r *RouletteRepository) List(_ context.Context, statuses []domain.MarketStatus, limit, offset int) ([]*domain.Roulette, error) {
	var out []*domain.Roulette
	r.store.read(nil, func(s *state) {
		for _, rr := range s.roulettes {
			if matchStatus(rr.Status, statuses) {
				out = append(out, copyRoulette(rr))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), nil
}

// UpdateStatus records a status change and the drawn number, if any.
func (r *RouletteRepository) UpdateStatus(_ context.Context, tx usecase.Transaction, id string, status domain.MarketStatus, result *int, updatedAt time.Time) error {
	return r.store.write(tx, func(s *state) error {
		rr, ok := s.roulettes[id]
		if !ok {
			return domain.ErrRouletteNotFound
		}
		cp := copyRoulette(rr)
		cp.Status = status
		cp.UpdatedAt = updatedAt
		if result != nil {
			n := *result
			cp.Result = &n
		}
		s.roulettes[id] = cp
		return nil
	})
}

// CreateBet inserts a bet. Repeated bets are allowed.
func (r *RouletteRepository) CreateBet(_ context.Context, tx usecase.Transaction, bet *domain.RouletteBet) error {
	return r.store.write(tx, func(s *state) error {
		if _, ok := s.roulettes[bet.RouletteID]; !ok {
			return domain.ErrRouletteNotFound
		}
		cp := *bet
		s.rouletteBets = append(s.rouletteBets, &cp)
		return nil
	})
}

// ListBets lists the bets of a round in placement order.
func (r *RouletteRepository) ListBets(_ context.Context, tx usecase.Transaction, rouletteID string) ([]*domain.RouletteBet, error) {
	var out []*domain.RouletteBet
	r.store.read(tx, func(s *state) {
		for _, b := range s.rouletteBets {
			if b.RouletteID == rouletteID {
				cp := *b
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}
