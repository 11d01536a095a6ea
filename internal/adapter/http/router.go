package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/handler"
	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/middleware"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/auth"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	TransferHandler  *handler.TransferHandler
	EntryHandler     *handler.EntryHandler
	SpendHandler     *handler.SpendHandler
	LedgerHandler    *handler.LedgerHandler
	EventHandler     *handler.EventHandler
	RouletteHandler  *handler.RouletteHandler
	JokenpoHandler   *handler.JokenpoHandler
	MarketHandler    *handler.MarketHandler
	HealthHandler    *handler.HealthHandler
	WebSocket        http.Handler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	// JWTManager gates admin market transitions. Nil leaves them open.
	JWTManager *auth.JWTManager
	Logger     zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))

	// hijacked connections skip the wrapped response writers below
	if cfg.WebSocket != nil {
		r.Handle("/ws", cfg.WebSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
		if cfg.Metrics != nil {
			r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
		}
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Get("/health", cfg.HealthHandler.Liveness)
		r.Get("/ready", cfg.HealthHandler.Readiness)
		if cfg.Gatherer != nil {
			r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
		}

		r.Route("/api/v1", func(r chi.Router) {
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.Logger).Wrap)
			}

			admin := func(r chi.Router) chi.Router {
				if cfg.JWTManager == nil {
					return r
				}
				return r.With(middleware.AuthMiddleware(cfg.JWTManager), middleware.RequireRole(domain.RoleAdmin))
			}

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Register)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/balance", cfg.AccountHandler.Balance)
				r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
				r.Post("/{id}/daily", cfg.AccountHandler.Daily)
				r.Post("/{id}/spend/master", cfg.SpendHandler.Master)
				r.Post("/{id}/spend/picasso", cfg.SpendHandler.Picasso)
			})

			r.Post("/transfers", cfg.TransferHandler.Create)
			r.Post("/airplanes", cfg.TransferHandler.Airplane)
			r.Get("/leaderboard", cfg.EntryHandler.Leaderboard)
			r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)

			r.Route("/events", func(r chi.Router) {
				r.Post("/", cfg.EventHandler.Create)
				r.Get("/", cfg.EventHandler.List)
				r.Get("/{id}", cfg.EventHandler.Get)
				r.Get("/{id}/odds", cfg.EventHandler.Odds)
				r.Post("/{id}/bets", cfg.EventHandler.Bet)
				admin(r).Post("/{id}/close", cfg.EventHandler.Close)
				admin(r).Post("/{id}/cancel", cfg.EventHandler.Cancel)
				admin(r).Post("/{id}/settle", cfg.EventHandler.Settle)
			})

			r.Route("/roulettes", func(r chi.Router) {
				r.Post("/", cfg.RouletteHandler.Create)
				r.Get("/", cfg.RouletteHandler.List)
				r.Get("/{id}", cfg.RouletteHandler.Get)
				r.Post("/{id}/bets", cfg.RouletteHandler.Bet)
				admin(r).Post("/{id}/close", cfg.RouletteHandler.Close)
				admin(r).Post("/{id}/cancel", cfg.RouletteHandler.Cancel)
				admin(r).Post("/{id}/spin", cfg.RouletteHandler.Spin)
				admin(r).Post("/{id}/settle", cfg.RouletteHandler.Settle)
			})

			r.Route("/jokenpo", func(r chi.Router) {
				r.Post("/", cfg.JokenpoHandler.Start)
				r.Get("/{id}", cfg.JokenpoHandler.Get)
				r.Post("/{id}/moves", cfg.JokenpoHandler.Move)
				admin(r).Post("/{id}/rehydrate", cfg.JokenpoHandler.Rehydrate)
				admin(r).Post("/{id}/resolve", cfg.JokenpoHandler.Resolve)
			})

			r.Route("/markets/{kind}/{id}", func(r chi.Router) {
				r.Post("/wagers", cfg.MarketHandler.Wager)
				r.Get("/entries", cfg.EntryHandler.ListByMarket)
			})
		})
	})

	return r
}
