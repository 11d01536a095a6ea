package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/memory"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("id-%06d", g.n.Add(1))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedRand replays vals in order, each reduced modulo n. It returns 0 once exhausted.
type scriptedRand struct {
	mu   sync.Mutex
	vals []int
}

func (r *scriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v % n
}

func (r *scriptedRand) push(vals ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vals = append(r.vals, vals...)
}

type fixture struct {
	store     *memory.Store
	txm       *memory.TxManager
	accounts  *memory.AccountRepository
	entries   *memory.EntryRepository
	events    *memory.EventRepository
	roulettes *memory.RouletteRepository
	jokenpo   *memory.JokenpoRepository
	ids       *seqIDs
	clock     *fakeClock
	rand      *scriptedRand
	economy   usecase.EconomyConfig
	ledger    *usecase.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		txm:       memory.NewTxManager(store),
		accounts:  memory.NewAccountRepository(store),
		entries:   memory.NewEntryRepository(store),
		events:    memory.NewEventRepository(store),
		roulettes: memory.NewRouletteRepository(store),
		jokenpo:   memory.NewJokenpoRepository(store),
		ids:       &seqIDs{},
		clock:     &fakeClock{now: testNow},
		rand:      &scriptedRand{},
		economy:   usecase.DefaultEconomy(),
	}
	f.ledger = usecase.NewLedgerUseCase(f.txm, f.accounts, f.entries, f.ids, f.clock, nil)
	return f
}

// account creates an old account, funded with balance when positive.
func (f *fixture) account(t *testing.T, externalID string, balance int64) *domain.Account {
	t.Helper()
	acc := &domain.Account{
		ID:         "acc-" + externalID,
		ExternalID: externalID,
		Username:   externalID,
		CreatedAt:  f.clock.Now().Add(-30 * 24 * time.Hour),
	}
	require.NoError(t, f.accounts.Create(context.Background(), nil, acc))
	if balance > 0 {
		f.fund(t, acc.ID, balance)
	}
	return acc
}

func (f *fixture) fund(t *testing.T, accountID string, amount int64) {
	t.Helper()
	_, err := f.ledger.Append(context.Background(), usecase.AppendInput{
		AccountID: accountID,
		Amount:    decimal.NewFromInt(amount),
		Category:  domain.CategoryInitial,
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), accountID)
	require.NoError(t, err)
	return b
}

func (f *fixture) requireBalance(t *testing.T, accountID string, want int64) {
	t.Helper()
	got := f.balance(t, accountID)
	require.Truef(t, got.Equal(decimal.NewFromInt(want)), "balance of %s: got %s, want %d", accountID, got, want)
}

func (f *fixture) eventUseCase(presenter usecase.MarketPresenter) *usecase.EventUseCase {
	return usecase.NewEventUseCase(f.txm, f.accounts, f.entries, f.events, f.ids, f.clock, f.rand, presenter, f.economy, nil)
}

func (f *fixture) rouletteUseCase() *usecase.RouletteUseCase {
	return usecase.NewRouletteUseCase(f.txm, f.accounts, f.entries, f.roulettes, f.ids, f.clock, f.rand, nil, f.economy, nil)
}

// manualScheduler records schedules; tests drive ticks explicitly.
type manualScheduler struct {
	mu        sync.Mutex
	scheduled map[string]func()
	cancelled map[string]int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{
		scheduled: make(map[string]func()),
		cancelled: make(map[string]int),
	}
}

func (s *manualScheduler) Schedule(key string, _ time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled[key] = fn
}

func (s *manualScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scheduled, key)
	s.cancelled[key]++
}

func (s *manualScheduler) active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.scheduled[key]
	return ok
}

func (s *manualScheduler) cancels(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled[key]
}

func (f *fixture) jokenpoEngine(store usecase.SessionStore, scheduler usecase.Scheduler, presenter usecase.JokenpoPresenter) *usecase.JokenpoEngine {
	return usecase.NewJokenpoEngine(usecase.JokenpoDeps{
		TxManager:   f.txm,
		AccountRepo: f.accounts,
		EntryRepo:   f.entries,
		JokenpoRepo: f.jokenpo,
		Store:       store,
		Scheduler:   scheduler,
		Presenter:   presenter,
		IDGen:       f.ids,
		Clock:       f.clock,
		Random:      f.rand,
		Logger:      zerolog.Nop(),
	}, f.economy)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
