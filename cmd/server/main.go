package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http"
	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/handler"
	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/middleware"
	memoryRepo "github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/memory"
	postgresRepo "github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/postgres"
	redisRepo "github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/redis"
	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/ws"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/auth"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/config"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/logger"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/postgres"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/random"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/redis"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/scheduler"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "buteco-server"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// storage is the set of adapters behind the usecases.
type storage struct {
	txManager    usecase.TransactionManager
	accountRepo  usecase.AccountRepository
	entryRepo    usecase.EntryRepository
	eventRepo    usecase.EventRepository
	rouletteRepo usecase.RouletteRepository
	jokenpoRepo  usecase.JokenpoRepository
	sessions     usecase.SessionStore
	cooldown     usecase.CooldownLimiter
	idempotency  usecase.IdempotencyStore
	checks       map[string]handler.Pinger
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		return memoryStorage(), nil
	case "postgres":
		return postgresStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func memoryStorage() *storage {
	store := memoryRepo.NewStore()
	return &storage{
		txManager:    memoryRepo.NewTxManager(store),
		accountRepo:  memoryRepo.NewAccountRepository(store),
		entryRepo:    memoryRepo.NewEntryRepository(store),
		eventRepo:    memoryRepo.NewEventRepository(store),
		rouletteRepo: memoryRepo.NewRouletteRepository(store),
		jokenpoRepo:  memoryRepo.NewJokenpoRepository(store),
		sessions:     memoryRepo.NewSessionStore(),
		cooldown:     memoryRepo.NewCooldown(),
		idempotency:  memoryRepo.NewIdempotencyStore(),
		checks:       map[string]handler.Pinger{},
		close:        func() {},
	}
}

func postgresStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, redis.Config{
		URL:         cfg.RedisURL,
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info().Msg("connected to redis")

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		accountRepo:  postgresRepo.NewAccountRepository(pool),
		entryRepo:    postgresRepo.NewEntryRepository(pool),
		eventRepo:    postgresRepo.NewEventRepository(pool),
		rouletteRepo: postgresRepo.NewRouletteRepository(pool),
		jokenpoRepo:  postgresRepo.NewJokenpoRepository(pool),
		sessions:     redisRepo.NewSessionStore(redisClient),
		cooldown:     redisRepo.NewCooldown(redisClient),
		idempotency:  redisRepo.NewIdempotencyStore(redisClient),
		checks: map[string]handler.Pinger{
			"postgres": pool.Ping,
			"redis":    redis.Pinger(redisClient),
		},
		close: func() {
			redisClient.Close()
			pool.Close()
		},
	}, nil
}

// app is the wired HTTP surface plus what must be stopped with it.
type app struct {
	handler     http.Handler
	engine      *usecase.JokenpoEngine
	hub         *ws.Hub
	rateLimiter *middleware.RateLimiter
}

func newApp(cfg *config.Config, st *storage, logger zerolog.Logger) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	idGen := postgresRepo.NewULIDGenerator()
	rng := random.New(uint64(cfg.RandomSeed))
	clock := usecase.SystemClock{}
	economy := cfg.Economy()
	hub := ws.NewHub(m, logger)

	accountUC := usecase.NewAccountUseCase(st.txManager, st.accountRepo, st.entryRepo, idGen, clock, economy, m)
	ledgerUC := usecase.NewLedgerUseCase(st.txManager, st.accountRepo, st.entryRepo, idGen, clock, m)
	entryUC := usecase.NewEntryUseCase(st.entryRepo)
	transferUC := usecase.NewTransferUseCase(st.txManager, st.accountRepo, st.entryRepo, idGen, clock, economy, m)
	airplaneUC := usecase.NewAirplaneUseCase(st.txManager, st.accountRepo, st.entryRepo, idGen, clock, rng, economy, m)
	spendUC := usecase.NewSpendUseCase(st.txManager, st.accountRepo, st.entryRepo, idGen, clock, economy, m)
	reconciliationUC := usecase.NewReconciliationUseCase(st.entryRepo, clock)
	eventUC := usecase.NewEventUseCase(st.txManager, st.accountRepo, st.entryRepo, st.eventRepo, idGen, clock, rng, hub, economy, m)
	rouletteUC := usecase.NewRouletteUseCase(st.txManager, st.accountRepo, st.entryRepo, st.rouletteRepo, idGen, clock, rng, hub, economy, m)
	engine := usecase.NewJokenpoEngine(usecase.JokenpoDeps{
		TxManager:   st.txManager,
		AccountRepo: st.accountRepo,
		EntryRepo:   st.entryRepo,
		JokenpoRepo: st.jokenpoRepo,
		Store:       st.sessions,
		Scheduler:   scheduler.New(logger),
		Presenter:   hub,
		IDGen:       idGen,
		Clock:       clock,
		Random:      rng,
		Metrics:     m,
		Logger:      logger,
	}, economy)

	markets := usecase.NewMarkets(
		usecase.EventMarket{EventUseCase: eventUC},
		usecase.RouletteMarket{RouletteUseCase: rouletteUC},
		usecase.JokenpoMarket{JokenpoEngine: engine},
	)

	retrier := postgresRepo.NewRetrier(logger)
	throttle := handler.NewThrottle(st.cooldown, cfg.CooldownWindow, cfg.CooldownThreshold, m, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC, ledgerUC, throttle),
		TransferHandler:  handler.NewTransferHandler(transferUC, airplaneUC, retrier, throttle),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		SpendHandler:     handler.NewSpendHandler(spendUC, throttle),
		LedgerHandler:    handler.NewLedgerHandler(reconciliationUC),
		EventHandler:     handler.NewEventHandler(eventUC, markets, retrier, throttle),
		RouletteHandler:  handler.NewRouletteHandler(rouletteUC, markets, retrier, throttle),
		JokenpoHandler:   handler.NewJokenpoHandler(engine, markets, retrier, throttle),
		MarketHandler:    handler.NewMarketHandler(markets, throttle),
		HealthHandler:    handler.NewHealthHandler(st.checks),
		WebSocket:        hub,
		IdempotencyStore: st.idempotency,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Gatherer:         registry,
		JWTManager:       jwtManager,
		Logger:           logger,
	})

	return &app{handler: router, engine: engine, hub: hub, rateLimiter: rateLimiter}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return errors.New("AUTH_ENABLED requires JWT_SECRET")
	}

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	a := newApp(cfg, st, logger)
	defer a.engine.Shutdown()

	go a.rateLimiter.RunCleanup(ctx, limiterCleanupInterval)
	go a.hub.Run(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
