package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// snapshotTimeout bounds session store calls made outside a request.
const snapshotTimeout = 2 * time.Second

// JokenpoDeps groups the collaborators of the jokenpo engine.
type JokenpoDeps struct {
	TxManager   TransactionManager
	AccountRepo AccountRepository
	EntryRepo   EntryRepository
	JokenpoRepo JokenpoRepository
	Store       SessionStore
	Scheduler   Scheduler
	Presenter   JokenpoPresenter
	IDGen       IDGenerator
	Clock       Clock
	Random      Random
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// JokenpoEngine owns the live session table. Each session has its own lock;
// moves and resolution on the same session never overlap.
type JokenpoEngine struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	jokenpoRepo JokenpoRepository
	ledger      *ledger
	store       SessionStore
	scheduler   Scheduler
	presenter   JokenpoPresenter
	idGen       IDGenerator
	clock       Clock
	rand        Random
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	countdown int
	tick      time.Duration
	stake     decimal.Decimal
	prize     decimal.Decimal
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*liveSession
}

type liveSession struct {
	mu      sync.Mutex
	session *domain.JokenpoSession
}

// NewJokenpoEngine creates a new JokenpoEngine.
func NewJokenpoEngine(deps JokenpoDeps, economy EconomyConfig) *JokenpoEngine {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Presenter == nil {
		deps.Presenter = nopJokenpoPresenter{}
	}
	return &JokenpoEngine{
		txManager:   deps.TxManager,
		accountRepo: deps.AccountRepo,
		entryRepo:   deps.EntryRepo,
		jokenpoRepo: deps.JokenpoRepo,
		ledger:      newLedger(deps.AccountRepo, deps.EntryRepo, deps.IDGen, deps.Clock, deps.Metrics),
		store:       deps.Store,
		scheduler:   deps.Scheduler,
		presenter:   deps.Presenter,
		idGen:       deps.IDGen,
		clock:       deps.Clock,
		rand:        deps.Random,
		metrics:     deps.Metrics,
		logger:      deps.Logger.With().Str("component", "jokenpo").Logger(),
		countdown:   economy.JokenpoCountdown,
		tick:        economy.JokenpoTick,
		stake:       economy.JokenpoStake,
		prize:       economy.JokenpoPrize,
		ttl:         economy.JokenpoSnapshotTTL,
		sessions:    make(map[string]*liveSession),
	}
}

// Start opens a session, mirrors it to the session store and starts its countdown.
func (e *JokenpoEngine) Start(ctx context.Context, creatorID string) (*domain.JokenpoSession, error) {
	now := e.clock.Now().UTC()
	session := domain.NewJokenpoSession(e.idGen.Generate(), creatorID, e.countdown, e.stake, e.prize, now)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := e.jokenpoRepo.CreateGame(txCtx, tx, &domain.JokenpoGame{
		ID:        session.ID,
		CreatorID: creatorID,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	snapshot := session.Clone()
	e.saveSnapshot(ctx, snapshot)

	e.mu.Lock()
	e.sessions[session.ID] = &liveSession{session: session}
	e.mu.Unlock()
	e.schedule(session.ID)

	if e.metrics != nil {
		e.metrics.JokenpoActiveSessions.Inc()
	}
	e.logger.Info().Str("session_id", session.ID).Int("countdown", session.Counter).Msg("session started")

	return snapshot, nil
}

// SubmitMoveInput represents a player's move.
type SubmitMoveInput struct {
	SessionID string
	AccountID string
	Move      domain.Move
}

// SubmitMove debits the stake and records the move. Checks run in order:
// session expired, unknown account, insufficient balance, duplicate move.
func (e *JokenpoEngine) SubmitMove(ctx context.Context, input SubmitMoveInput) (*domain.JokenpoSession, error) {
	move, err := domain.ParseMove(string(input.Move))
	if err != nil {
		return nil, err
	}

	live, ok := e.lookup(input.SessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	session := live.session
	if !session.AcceptsMoves() {
		return nil, domain.ErrSessionExpired
	}

	if _, err := e.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	balance, err := e.entryRepo.SumByAccount(ctx, nil, input.AccountID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(session.Stake) {
		return nil, fmt.Errorf("%w: balance %s, required %s", domain.ErrInsufficientBalance, balance, session.Stake)
	}

	if session.HasMoved(input.AccountID) {
		return nil, domain.ErrDuplicateMove
	}

	entry, err := e.debitMove(ctx, session, input.AccountID, move)
	if err != nil {
		return nil, err
	}

	if err := session.RecordMove(input.AccountID, move); err != nil {
		return nil, err
	}
	e.ledger.observe(entry)
	if e.metrics != nil {
		e.metrics.BetsPlaced.WithLabelValues(string(domain.MarketKindJokenpo)).Inc()
	}

	snapshot := session.Clone()
	e.saveSnapshot(ctx, snapshot)
	return snapshot, nil
}

func (e *JokenpoEngine) debitMove(ctx context.Context, session *domain.JokenpoSession, accountID string, move domain.Move) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := e.ledger.debit(txCtx, tx, entryInput{
		AccountID:     accountID,
		Amount:        session.Stake,
		Category:      domain.CategoryJokenpo,
		CorrelationID: session.ID,
		Description:   map[string]any{"move": string(move)},
	})
	if err != nil {
		return nil, err
	}

	if err := e.jokenpoRepo.CreatePlayer(txCtx, tx, &domain.JokenpoPlayer{
		GameID:    session.ID,
		AccountID: accountID,
		Move:      move,
		Amount:    session.Stake,
		CreatedAt: entry.CreatedAt,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return entry, nil
}

// Tick advances the countdown by one step and resolves the session at zero.
// Ticks for unknown or terminated sessions are ignored.
func (e *JokenpoEngine) Tick(id string) {
	live, ok := e.lookup(id)
	if !ok {
		e.scheduler.Cancel(id)
		return
	}

	live.mu.Lock()
	session := live.session
	if session.Terminated {
		live.mu.Unlock()
		return
	}
	if session.Counter > 0 {
		session.Counter--
	}
	if session.Counter > 0 {
		snapshot := session.Clone()
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		e.saveSnapshot(ctx, snapshot)
		live.mu.Unlock()

		e.presenter.SessionTicked(snapshot)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTransactionTimeout)
	defer cancel()

	result, err := e.resolveLocked(ctx, session)
	live.mu.Unlock()
	if errors.Is(err, domain.ErrSessionResolved) {
		e.discard(ctx, id)
		return
	}
	if err != nil {
		e.logger.Error().Err(err).Str("session_id", id).Msg("resolve failed, retrying on next tick")
		return
	}
	if result != nil {
		e.finish(ctx, result)
	}
}

// Resolve draws the bot move and pays the winners right away. Resolving an
// absent or already terminated session is a no-op returning a nil result.
func (e *JokenpoEngine) Resolve(ctx context.Context, id string) (*domain.JokenpoResult, error) {
	live, ok := e.lookup(id)
	if !ok {
		return nil, nil
	}

	live.mu.Lock()
	result, err := e.resolveLocked(ctx, live.session)
	live.mu.Unlock()
	if errors.Is(err, domain.ErrSessionResolved) {
		e.discard(ctx, id)
		return nil, nil
	}
	if err != nil || result == nil {
		return nil, err
	}

	e.finish(ctx, result)
	return result, nil
}

// resolveLocked runs with the session lock held. The session is only marked
// terminated after the payout transaction commits. A game already finished in
// the history table rolls the payouts back and returns domain.ErrSessionResolved.
func (e *JokenpoEngine) resolveLocked(ctx context.Context, session *domain.JokenpoSession) (*domain.JokenpoResult, error) {
	if session.Terminated {
		return nil, nil
	}

	bot := domain.Moves[e.rand.IntN(len(domain.Moves))]
	players := session.Evaluate(bot)
	now := e.clock.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	var entries []*domain.Entry
	for _, p := range players {
		if p.Outcome == domain.OutcomeWin {
			entry, err := e.ledger.append(txCtx, tx, entryInput{
				AccountID:     p.AccountID,
				Amount:        p.Payout,
				Category:      domain.CategoryJokenpo,
				CorrelationID: session.ID,
				Description: map[string]any{
					"move":     string(p.Move),
					"bot_move": string(bot),
				},
			})
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}

		if err := e.jokenpoRepo.SetPlayerResult(txCtx, tx, session.ID, p.AccountID, p.Outcome); err != nil {
			return nil, err
		}
	}

	if err := e.jokenpoRepo.FinishGame(txCtx, tx, session.ID, bot, now); err != nil {
		if errors.Is(err, domain.ErrSessionResolved) {
			session.Terminated = true
		}
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	session.BotMove = &bot
	session.Counter = 0
	session.Terminated = true
	e.ledger.observe(entries...)

	return &domain.JokenpoResult{
		ResolvedAt: now,
		Stake:      session.Stake,
		SessionID:  session.ID,
		BotMove:    bot,
		Players:    players,
	}, nil
}

// finish removes a resolved session from the table and the store and stops its ticks.
func (e *JokenpoEngine) finish(ctx context.Context, result *domain.JokenpoResult) {
	e.mu.Lock()
	delete(e.sessions, result.SessionID)
	e.mu.Unlock()

	e.scheduler.Cancel(result.SessionID)
	e.deleteSnapshot(ctx, result.SessionID)

	if e.metrics != nil {
		e.metrics.JokenpoActiveSessions.Dec()
		for _, p := range result.Players {
			e.metrics.JokenpoResolutions.WithLabelValues(string(p.Outcome)).Inc()
		}
	}

	e.logger.Info().
		Str("session_id", result.SessionID).
		Str("bot_move", string(result.BotMove)).
		Int("players", len(result.Players)).
		Int("winners", len(result.Winners())).
		Msg("session resolved")

	e.presenter.SessionResolved(result)
}

// discard drops a session whose game was already finished elsewhere. No
// payout is made.
func (e *JokenpoEngine) discard(ctx context.Context, id string) {
	e.mu.Lock()
	_, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()

	e.scheduler.Cancel(id)
	e.deleteSnapshot(ctx, id)

	if ok && e.metrics != nil {
		e.metrics.JokenpoActiveSessions.Dec()
	}
	e.logger.Warn().Str("session_id", id).Msg("session already resolved, discarded")
}

// Get returns a copy of a live session.
func (e *JokenpoEngine) Get(id string) (*domain.JokenpoSession, error) {
	live, ok := e.lookup(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.session.Clone(), nil
}

// Rehydrate restores a session from its snapshot after a restart and starts a
// fresh tick loop from the stored counter. A snapshot whose game already
// finished is deleted and reported as domain.ErrSessionNotFound.
func (e *JokenpoEngine) Rehydrate(ctx context.Context, id string) (*domain.JokenpoSession, error) {
	if s, err := e.Get(id); err == nil {
		return s, nil
	}

	session, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Terminated {
		return nil, domain.ErrSessionNotFound
	}

	game, err := e.jokenpoRepo.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.FinishedAt != nil {
		e.deleteSnapshot(ctx, id)
		return nil, domain.ErrSessionNotFound
	}
	if session.Moves == nil {
		session.Moves = make(map[string]domain.Move)
	}

	e.mu.Lock()
	if live, ok := e.sessions[id]; ok {
		e.mu.Unlock()
		live.mu.Lock()
		defer live.mu.Unlock()
		return live.session.Clone(), nil
	}
	e.sessions[id] = &liveSession{session: session}
	e.mu.Unlock()

	e.schedule(id)
	if e.metrics != nil {
		e.metrics.JokenpoActiveSessions.Inc()
	}
	e.logger.Info().Str("session_id", id).Int("counter", session.Counter).Msg("session rehydrated")

	return session.Clone(), nil
}

// Shutdown stops every tick loop. Snapshots stay in the store for Rehydrate.
func (e *JokenpoEngine) Shutdown() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	e.sessions = make(map[string]*liveSession)
	e.mu.Unlock()

	for _, id := range ids {
		e.scheduler.Cancel(id)
	}
	if e.metrics != nil {
		e.metrics.JokenpoActiveSessions.Sub(float64(len(ids)))
	}
	e.logger.Info().Int("sessions", len(ids)).Msg("jokenpo engine stopped")
}

func (e *JokenpoEngine) lookup(id string) (*liveSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	live, ok := e.sessions[id]
	return live, ok
}

func (e *JokenpoEngine) schedule(id string) {
	e.scheduler.Schedule(id, e.tick, func() { e.Tick(id) })
}

func (e *JokenpoEngine) saveSnapshot(ctx context.Context, session *domain.JokenpoSession) {
	if err := e.store.Save(ctx, session, e.ttl); err != nil {
		e.snapshotFailed("save", session.ID, err)
	}
}

func (e *JokenpoEngine) deleteSnapshot(ctx context.Context, id string) {
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()
	if err := e.store.Delete(storeCtx, id); err != nil {
		e.snapshotFailed("delete", id, err)
	}
}

func (e *JokenpoEngine) snapshotFailed(op, id string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if e.metrics != nil {
		e.metrics.SnapshotErrors.WithLabelValues(op).Inc()
	}
	e.logger.Warn().Err(err).Str("session_id", id).Str("operation", op).Msg("session snapshot failed")
}
