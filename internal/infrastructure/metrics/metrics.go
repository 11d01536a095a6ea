package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesAppended *prometheus.CounterVec
	GrantsIssued    *prometheus.CounterVec
	Transfers       *prometheus.CounterVec

	// Market metrics
	BetsPlaced         *prometheus.CounterVec
	Settlements        *prometheus.CounterVec
	SettlementDuration *prometheus.HistogramVec
	CoinsPaidOut       *prometheus.CounterVec

	// Jokenpo metrics
	JokenpoActiveSessions prometheus.Gauge
	JokenpoResolutions    *prometheus.CounterVec
	SnapshotErrors        *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
	CooldownHits  *prometheus.CounterVec

	// Websocket metrics
	WSClients prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		EntriesAppended: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_ledger_entries_total",
				Help: "Total ledger entries appended by category",
			},
			[]string{"category"},
		),
		GrantsIssued: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_grants_total",
				Help: "Total minted grants by kind",
			},
			[]string{"kind"},
		),
		Transfers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_transfers_total",
				Help: "Total transfer commands by result",
			},
			[]string{"result"},
		),

		// Market metrics
		BetsPlaced: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_bets_placed_total",
				Help: "Total bets placed by market kind",
			},
			[]string{"kind"},
		),
		Settlements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_settlements_total",
				Help: "Total market settlements by kind and final status",
			},
			[]string{"kind", "status"},
		),
		SettlementDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buteco_settlement_duration_seconds",
				Help:    "Duration of settlement transactions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		CoinsPaidOut: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_coins_paid_out_total",
				Help: "Coins credited by settlements",
			},
			[]string{"kind"},
		),

		// Jokenpo metrics
		JokenpoActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "buteco_jokenpo_active_sessions",
			Help: "Current number of live jokenpo sessions",
		}),
		JokenpoResolutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_jokenpo_player_results_total",
				Help: "Resolved jokenpo player results by outcome",
			},
			[]string{"outcome"},
		),
		SnapshotErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_jokenpo_snapshot_errors_total",
				Help: "Failed snapshot operations against the session store",
			},
			[]string{"operation"},
		),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buteco_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "buteco_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_rate_limit_hits_total",
				Help: "Requests rejected by the per-IP limiter",
			},
			[]string{"ip"},
		),
		CooldownHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buteco_cooldown_hits_total",
				Help: "Commands rejected by the per-account cooldown",
			},
			[]string{"action"},
		),

		WSClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "buteco_ws_clients",
			Help: "Connected websocket clients",
		}),
	}
}
