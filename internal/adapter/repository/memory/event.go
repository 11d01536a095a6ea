package memory

import (
	"context"
	"sort"
	"time"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// EventRepository implements usecase.EventRepository.
type EventRepository struct {
	store *Store
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

func copyEvent(e *domain.Event) *domain.Event {
	cp := *e
	cp.Choices = append([]domain.Choice(nil), e.Choices...)
	if e.WinningChoice != nil {
		w := *e.WinningChoice
		cp.WinningChoice = &w
	}
	return &cp
}

// Create inserts an event with its choices.
func (r *EventRepository) Create(_ context.Context, tx usecase.Transaction, event *domain.Event) error {
	return r.store.write(tx, func(s *state) error {
		s.events[event.ID] = copyEvent(event)
		return nil
	})
}

func (r *EventRepository) get(tx usecase.Transaction, id string) (*domain.Event, error) {
	var out *domain.Event
	r.store.read(tx, func(s *state) {
		if e, ok := s.events[id]; ok {
			out = copyEvent(e)
		}
	})
	if out == nil {
		return nil, domain.ErrEventNotFound
	}
	return out, nil
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	return r.get(nil, id)
}

// GetByIDForUpdate reads inside the transaction.
func (r *EventRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Event, error) {
	return r.get(tx, id)
}

// List lists events with any of statuses, newest first.
func (r *EventRepository) List(_ context.Context, statuses []domain.MarketStatus, limit, offset int) ([]*domain.Event, error) {
	var out []*domain.Event
	r.store.read(nil, func(s *state) {
		for _, e := range s.events {
			if matchStatus(e.Status, statuses) {
				out = append(out, copyEvent(e))
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

// UpdateStatus records a status change and the winner, if any.
func (r *EventRepository) UpdateStatus(_ context.Context, tx usecase.Transaction, id string, status domain.MarketStatus, winner *domain.ChoiceLabel, updatedAt time.Time) error {
	return r.store.write(tx, func(s *state) error {
		e, ok := s.events[id]
		if !ok {
			return domain.ErrEventNotFound
		}
		cp := copyEvent(e)
		cp.Status = status
		cp.UpdatedAt = updatedAt
		if winner != nil {
			w := *winner
			cp.WinningChoice = &w
		}
		s.events[id] = cp
		return nil
	})
}

// CreateBet inserts a bet, enforcing one bet per (account, event).
func (r *EventRepository) CreateBet(_ context.Context, tx usecase.Transaction, bet *domain.EventBet) error {
	return r.store.write(tx, func(s *state) error {
		if _, ok := s.events[bet.EventID]; !ok {
			return domain.ErrEventNotFound
		}
		for _, b := range s.eventBets {
			if b.EventID == bet.EventID && b.AccountID == bet.AccountID {
				return domain.ErrDuplicateBet
			}
		}
		cp := *bet
		s.eventBets = append(s.eventBets, &cp)
		return nil
	})
}

// ListBets lists the bets of an event in placement order.
func (r *EventRepository) ListBets(_ context.Context, tx usecase.Transaction, eventID string) ([]*domain.EventBet, error) {
	var out []*domain.EventBet
	r.store.read(tx, func(s *state) {
		for _, b := range s.eventBets {
			if b.EventID == eventID {
				cp := *b
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func matchStatus(status domain.MarketStatus, statuses []domain.MarketStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
