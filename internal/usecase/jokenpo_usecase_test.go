package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/memory"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase/mocks"
)

const botPicksTesoura = 2

func submit(t *testing.T, e *usecase.JokenpoEngine, sessionID, accountID string, move domain.Move) {
	t.Helper()
	_, err := e.SubmitMove(context.Background(), usecase.SubmitMoveInput{SessionID: sessionID, AccountID: accountID, Move: move})
	require.NoError(t, err)
}

func TestJokenpoEngine_ResolvePaysWinners(t *testing.T) {
	f := newFixture(t)
	store := memory.NewSessionStore()
	scheduler := newManualScheduler()
	engine := f.jokenpoEngine(store, scheduler, nil)
	ctx := context.Background()

	winner := f.account(t, "winner", 200)
	loser := f.account(t, "loser", 300)
	tie := f.account(t, "tie", 200)

	session, err := engine.Start(ctx, "acc-admin")
	require.NoError(t, err)
	assert.Equal(t, 30, session.Counter)
	assert.True(t, scheduler.active(session.ID))

	submit(t, engine, session.ID, winner.ID, domain.MovePedra)
	submit(t, engine, session.ID, loser.ID, "paper")
	submit(t, engine, session.ID, tie.ID, domain.MoveTesoura)
	f.requireBalance(t, winner.ID, 0)
	f.requireBalance(t, loser.ID, 100)

	snapshot, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, snapshot.Moves, 3)

	f.rand.push(botPicksTesoura)
	result, err := engine.Resolve(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.MoveTesoura, result.BotMove)

	outcomes := map[string]domain.Outcome{}
	for _, p := range result.Players {
		outcomes[p.AccountID] = p.Outcome
	}
	assert.Equal(t, domain.OutcomeWin, outcomes[winner.ID])
	assert.Equal(t, domain.OutcomeLose, outcomes[loser.ID])
	assert.Equal(t, domain.OutcomeTie, outcomes[tie.ID])
	require.Len(t, result.Winners(), 1)

	f.requireBalance(t, winner.ID, 400)
	f.requireBalance(t, loser.ID, 100)
	f.requireBalance(t, tie.ID, 0)

	_, err = engine.Get(session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Load(ctx, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, scheduler.active(session.ID))

	players, err := f.jokenpo.ListPlayers(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, players, 3)
	for _, p := range players {
		require.NotNil(t, p.Result)
		assert.Equal(t, outcomes[p.AccountID], *p.Result)
	}

	// a second resolve is a no-op
	again, err := engine.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
	f.requireBalance(t, winner.ID, 400)
}

func TestJokenpoEngine_SubmitMoveRejections(t *testing.T) {
	f := newFixture(t)
	engine := f.jokenpoEngine(memory.NewSessionStore(), newManualScheduler(), nil)
	ctx := context.Background()

	rich := f.account(t, "rich", 1000)
	poor := f.account(t, "poor", 199)

	session, err := engine.Start(ctx, "acc-admin")
	require.NoError(t, err)

	_, err = engine.SubmitMove(ctx, usecase.SubmitMoveInput{SessionID: session.ID, AccountID: rich.ID, Move: "banana"})
	require.ErrorIs(t, err, domain.ErrInvalidMove)

	_, err = engine.SubmitMove(ctx, usecase.SubmitMoveInput{SessionID: "missing", AccountID: rich.ID, Move: domain.MovePedra})
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = engine.SubmitMove(ctx, usecase.SubmitMoveInput{SessionID: session.ID, AccountID: "acc-ghost", Move: domain.MovePedra})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = engine.SubmitMove(ctx, usecase.SubmitMoveInput{SessionID: session.ID, AccountID: poor.ID, Move: domain.MovePedra})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	f.requireBalance(t, poor.ID, 199)

	submit(t, engine, session.ID, rich.ID, domain.MoveSpock)
	_, err = engine.SubmitMove(ctx, usecase.SubmitMoveInput{SessionID: session.ID, AccountID: rich.ID, Move: domain.MovePedra})
	require.ErrorIs(t, err, domain.ErrDuplicateMove)
	f.requireBalance(t, rich.ID, 800)

	live, err := engine.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{rich.ID}, live.Players)
	assert.Equal(t, domain.MoveSpock, live.Moves[rich.ID])
}

func TestJokenpoEngine_ConcurrentMovesSameAccount(t *testing.T) {
	f := newFixture(t)
	engine := f.jokenpoEngine(memory.NewSessionStore(), newManualScheduler(), nil)
	acc := f.account(t, "u1", 2000)

	session, err := engine.Start(context.Background(), "acc-admin")
	require.NoError(t, err)

	const attempts = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.SubmitMove(context.Background(), usecase.SubmitMoveInput{
				SessionID: session.ID,
				AccountID: acc.ID,
				Move:      domain.MovePapel,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateMove):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
	f.requireBalance(t, acc.ID, 1800)
}

func TestJokenpoEngine_TickCountsDownAndResolves(t *testing.T) {
	f := newFixture(t)
	store := memory.NewSessionStore()
	scheduler := newManualScheduler()
	engine := f.jokenpoEngine(store, scheduler, nil)
	ctx := context.Background()
	acc := f.account(t, "u1", 200)

	session, err := engine.Start(ctx, "acc-admin")
	require.NoError(t, err)
	submit(t, engine, session.ID, acc.ID, domain.MovePedra)

	for i := 0; i < 29; i++ {
		engine.Tick(session.ID)
	}

	live, err := engine.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, live.Counter)
	assert.Equal(t, domain.PhaseActive, live.Phase())

	snapshot, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Counter)

	// the final tick no longer accepts moves
	late := f.account(t, "late", 200)
	_, err = engine.SubmitMove(ctx, usecase.SubmitMoveInput{SessionID: session.ID, AccountID: late.ID, Move: domain.MovePedra})
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	f.requireBalance(t, late.ID, 200)

	f.rand.push(botPicksTesoura)
	engine.Tick(session.ID)

	_, err = engine.Get(session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, scheduler.active(session.ID))
	f.requireBalance(t, acc.ID, 400)

	// stray ticks after resolution only cancel the loop
	cancels := scheduler.cancels(session.ID)
	engine.Tick(session.ID)
	assert.Equal(t, cancels+1, scheduler.cancels(session.ID))
	f.requireBalance(t, acc.ID, 400)
}

func TestJokenpoEngine_ResolveWithoutPlayers(t *testing.T) {
	f := newFixture(t)
	engine := f.jokenpoEngine(memory.NewSessionStore(), newManualScheduler(), nil)

	session, err := engine.Start(context.Background(), "acc-admin")
	require.NoError(t, err)

	result, err := engine.Resolve(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Players)

	result, err = engine.Resolve(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestJokenpoEngine_RehydrateAfterShutdown(t *testing.T) {
	f := newFixture(t)
	store := memory.NewSessionStore()
	first := f.jokenpoEngine(store, newManualScheduler(), nil)
	ctx := context.Background()
	acc := f.account(t, "u1", 200)

	session, err := first.Start(ctx, "acc-admin")
	require.NoError(t, err)
	submit(t, first, session.ID, acc.ID, domain.MoveSpock)
	first.Tick(session.ID)
	first.Shutdown()

	_, err = first.Get(session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	scheduler := newManualScheduler()
	second := f.jokenpoEngine(store, scheduler, nil)

	restored, err := second.Rehydrate(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 29, restored.Counter)
	assert.Equal(t, domain.MoveSpock, restored.Moves[acc.ID])
	assert.True(t, scheduler.active(session.ID))

	// rehydrating a live session returns it unchanged
	again, err := second.Rehydrate(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, restored.Counter, again.Counter)

	f.rand.push(botPicksTesoura)
	result, err := second.Resolve(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, result.Winners(), 1)
	f.requireBalance(t, acc.ID, 400)

	_, err = second.Rehydrate(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestJokenpoEngine_Presenter(t *testing.T) {
	ctrl := gomock.NewController(t)
	presenter := mocks.NewMockJokenpoPresenter(ctrl)

	f := newFixture(t)
	f.economy.JokenpoCountdown = 3
	engine := f.jokenpoEngine(memory.NewSessionStore(), newManualScheduler(), presenter)

	session, err := engine.Start(context.Background(), "acc-admin")
	require.NoError(t, err)

	gomock.InOrder(
		presenter.EXPECT().SessionTicked(gomock.Any()).Do(func(s *domain.JokenpoSession) {
			assert.Equal(t, 2, s.Counter)
		}),
		presenter.EXPECT().SessionTicked(gomock.Any()).Do(func(s *domain.JokenpoSession) {
			assert.Equal(t, 1, s.Counter)
		}),
		presenter.EXPECT().SessionResolved(gomock.Any()).Do(func(r *domain.JokenpoResult) {
			assert.Equal(t, session.ID, r.SessionID)
		}),
	)

	engine.Tick(session.ID)
	engine.Tick(session.ID)
	engine.Tick(session.ID)
}

// leakyStore keeps snapshots it was asked to delete.
type leakyStore struct {
	*memory.SessionStore
}

func (leakyStore) Delete(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func TestJokenpoEngine_StaleSnapshotIsNotResolvedTwice(t *testing.T) {
	f := newFixture(t)
	store := leakyStore{SessionStore: memory.NewSessionStore()}
	engine := f.jokenpoEngine(store, newManualScheduler(), nil)
	ctx := context.Background()
	acc := f.account(t, "u1", 200)

	session, err := engine.Start(ctx, "acc-admin")
	require.NoError(t, err)
	submit(t, engine, session.ID, acc.ID, domain.MovePedra)

	f.rand.push(botPicksTesoura)
	result, err := engine.Resolve(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	f.requireBalance(t, acc.ID, 400)

	_, err = store.Load(ctx, session.ID)
	require.NoError(t, err, "snapshot should survive the failed delete")

	_, err = engine.Rehydrate(ctx, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	f.rand.push(botPicksTesoura)
	again, err := engine.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
	f.requireBalance(t, acc.ID, 400)
}

func TestJokenpoEngine_FinishedGameRollsBackPayouts(t *testing.T) {
	f := newFixture(t)
	store := memory.NewSessionStore()
	first := f.jokenpoEngine(store, newManualScheduler(), nil)
	ctx := context.Background()
	acc := f.account(t, "u1", 200)

	session, err := first.Start(ctx, "acc-admin")
	require.NoError(t, err)
	submit(t, first, session.ID, acc.ID, domain.MovePedra)

	// a second engine holds the same session when the first one resolves it
	scheduler := newManualScheduler()
	second := f.jokenpoEngine(store, scheduler, nil)
	_, err = second.Rehydrate(ctx, session.ID)
	require.NoError(t, err)

	f.rand.push(botPicksTesoura)
	result, err := first.Resolve(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	f.requireBalance(t, acc.ID, 400)

	f.rand.push(botPicksTesoura)
	again, err := second.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
	f.requireBalance(t, acc.ID, 400)

	_, err = second.Get(session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, scheduler.active(session.ID))
}

// gatedStore blocks Save while armed until release is closed.
type gatedStore struct {
	*memory.SessionStore
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
}

func (s *gatedStore) Save(ctx context.Context, session *domain.JokenpoSession, ttl time.Duration) error {
	s.mu.Lock()
	armed := s.armed
	s.armed = false
	s.mu.Unlock()

	if armed {
		close(s.entered)
		<-s.release
	}
	return s.SessionStore.Save(ctx, session, ttl)
}

func TestJokenpoEngine_TickSnapshotDoesNotOutliveResolve(t *testing.T) {
	f := newFixture(t)
	store := &gatedStore{
		SessionStore: memory.NewSessionStore(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	engine := f.jokenpoEngine(store, newManualScheduler(), nil)
	ctx := context.Background()
	acc := f.account(t, "u1", 200)

	session, err := engine.Start(ctx, "acc-admin")
	require.NoError(t, err)
	submit(t, engine, session.ID, acc.ID, domain.MovePedra)

	store.arm()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		engine.Tick(session.ID)
	}()
	<-store.entered

	f.rand.push(botPicksTesoura)
	go func() {
		defer wg.Done()
		_, err := engine.Resolve(ctx, session.ID)
		assert.NoError(t, err)
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()

	f.requireBalance(t, acc.ID, 400)
	_, err = store.Load(ctx, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = engine.Rehydrate(ctx, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	f.requireBalance(t, acc.ID, 400)
}
