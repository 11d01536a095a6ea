// Package memory implements the repositories with in-memory maps. It backs
// STORAGE_DRIVER=memory and the usecase tests. Nothing is persisted.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// ErrTxClosed is returned when committing a finished transaction.
var ErrTxClosed = errors.New("transaction already closed")

type state struct {
	accounts     map[string]*domain.Account
	byExternalID map[string]string
	entries      []*domain.Entry
	events       map[string]*domain.Event
	eventBets    []*domain.EventBet
	roulettes    map[string]*domain.Roulette
	rouletteBets []*domain.RouletteBet
	games        map[string]*domain.JokenpoGame
	players      []*domain.JokenpoPlayer
}

func newState() *state {
	return &state{
		accounts:     make(map[string]*domain.Account),
		byExternalID: make(map[string]string),
		events:       make(map[string]*domain.Event),
		roulettes:    make(map[string]*domain.Roulette),
		games:        make(map[string]*domain.JokenpoGame),
	}
}

// clone copies the containers. Stored values are replaced on update, never
// mutated, so sharing the pointers is safe.
func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[string]*domain.Account, len(s.accounts)),
		byExternalID: make(map[string]string, len(s.byExternalID)),
		entries:      append([]*domain.Entry(nil), s.entries...),
		events:       make(map[string]*domain.Event, len(s.events)),
		eventBets:    append([]*domain.EventBet(nil), s.eventBets...),
		roulettes:    make(map[string]*domain.Roulette, len(s.roulettes)),
		rouletteBets: append([]*domain.RouletteBet(nil), s.rouletteBets...),
		games:        make(map[string]*domain.JokenpoGame, len(s.games)),
		players:      append([]*domain.JokenpoPlayer(nil), s.players...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.byExternalID {
		c.byExternalID[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.roulettes {
		c.roulettes[k] = v
	}
	for k, v := range s.games {
		c.games[k] = v
	}
	return c
}

// Store holds all data. A transaction owns the write lock from Begin until
// Commit or Rollback, so transactions are fully serialized.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// read runs fn against the data. Inside a transaction the lock is already held.
func (s *Store) read(tx usecase.Transaction, fn func(*state)) {
	if tx != nil {
		fn(s.data)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(tx usecase.Transaction, fn func(*state) error) error {
	if tx != nil {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin takes the store lock and records a snapshot for rollback.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.store.mu.Lock()
	return &Tx{store: m.store, snapshot: m.store.data.clone()}, nil
}

// Tx is an in-memory transaction.
type Tx struct {
	store    *Store
	snapshot *state
	done     bool
}

// Commit keeps the changes and releases the lock.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxClosed
	}
	t.done = true
	t.snapshot = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback restores the snapshot. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.data = t.snapshot
	t.store.mu.Unlock()
	return nil
}
