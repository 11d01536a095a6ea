package integration

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/postgres"
	redisRepo "github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/redis"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/random"
	infraredis "github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/redis"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/scheduler"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
	"github.com/giomartinsdev/butecobot-reloaded/tests/testutil"
)

// stack is every usecase wired to Postgres, with Redis served by miniredis.
type stack struct {
	db             *testutil.TestDB
	accounts       *usecase.AccountUseCase
	ledger         *usecase.LedgerUseCase
	transfers      *usecase.TransferUseCase
	events         *usecase.EventUseCase
	roulettes      *usecase.RouletteUseCase
	jokenpo        *usecase.JokenpoEngine
	reconciliation *usecase.ReconciliationUseCase
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db := testutil.NewTestDB(t)
	ctx := context.Background()
	db.TruncateAll(ctx)

	mr := miniredis.RunT(t)
	redisClient, err := infraredis.NewClient(ctx, infraredis.Config{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	idGen := postgres.NewULIDGenerator()
	rng := random.New(42)
	clock := usecase.SystemClock{}
	logger := zerolog.Nop()

	economy := usecase.DefaultEconomy()
	economy.Lucky.Chance = 0
	economy.TransferMinAccountAge = 0

	engine := usecase.NewJokenpoEngine(usecase.JokenpoDeps{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		EntryRepo:   entryRepo,
		JokenpoRepo: postgres.NewJokenpoRepository(pool),
		Store:       redisRepo.NewSessionStore(redisClient),
		Scheduler:   scheduler.New(logger),
		IDGen:       idGen,
		Clock:       clock,
		Random:      rng,
		Logger:      logger,
	}, economy)
	t.Cleanup(engine.Shutdown)

	return &stack{
		db:             db,
		accounts:       usecase.NewAccountUseCase(txManager, accountRepo, entryRepo, idGen, clock, economy, nil),
		ledger:         usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, idGen, clock, nil),
		transfers:      usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, idGen, clock, economy, nil),
		events:         usecase.NewEventUseCase(txManager, accountRepo, entryRepo, postgres.NewEventRepository(pool), idGen, clock, rng, nil, economy, nil),
		roulettes:      usecase.NewRouletteUseCase(txManager, accountRepo, entryRepo, postgres.NewRouletteRepository(pool), idGen, clock, rng, nil, economy, nil),
		jokenpo:        engine,
		reconciliation: usecase.NewReconciliationUseCase(entryRepo, clock),
	}
}

func (s *stack) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	balance, err := s.ledger.GetBalance(context.Background(), accountID)
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	return balance
}

func (s *stack) requireConserved(t *testing.T) {
	t.Helper()
	report, err := s.reconciliation.CheckConservation(context.Background())
	if err != nil {
		t.Fatalf("ledger is not conserved: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("unexpected report: %+v", report)
	}
}
