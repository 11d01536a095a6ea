package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks for it.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// decodeJSON decodes the request body into v, writing 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrRouletteNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrInvalidNumber),
		errors.Is(err, domain.ErrInvalidEventName),
		errors.Is(err, domain.ErrInvalidMarketKind),
		errors.Is(err, domain.ErrInvalidIdentity),
		errors.Is(err, domain.ErrMessageTooLong),
		errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrInvalidMarketState),
		errors.Is(err, domain.ErrDuplicateBet),
		errors.Is(err, domain.ErrDuplicateMove),
		errors.Is(err, domain.ErrAlreadyGranted),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionResolved),
		errors.Is(err, domain.ErrAccountTooNew),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrAirplaneLimitReached),
		errors.Is(err, usecase.ErrInconsistentLedger):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseStatuses reads repeated or comma separated ?status= values.
func parseStatuses(r *http.Request) ([]domain.MarketStatus, error) {
	var statuses []domain.MarketStatus
	for _, raw := range r.URL.Query()["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			status, err := domain.ParseMarketStatus(s)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// retry runs op through r, or once when r is nil.
func retry(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}

// Throttle applies the per-account command cooldown.
// A nil Throttle allows everything.
type Throttle struct {
	limiter   usecase.CooldownLimiter
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	window    time.Duration
	threshold int
}

// NewThrottle creates a Throttle allowing threshold commands per window.
func NewThrottle(limiter usecase.CooldownLimiter, window time.Duration, threshold int, m *metrics.Metrics, logger zerolog.Logger) *Throttle {
	return &Throttle{
		limiter:   limiter,
		metrics:   m,
		logger:    logger,
		window:    window,
		threshold: threshold,
	}
}

// allow writes 429 and returns false once accountID exceeded the window for action.
// Limiter failures let the command through.
func (t *Throttle) allow(w http.ResponseWriter, r *http.Request, accountID, action string) bool {
	if t == nil || t.limiter == nil {
		return true
	}

	ok, err := t.limiter.Allow(r.Context(), action+":"+accountID, t.window, t.threshold)
	if err != nil {
		t.logger.Warn().Err(err).Str("action", action).Str("account_id", accountID).Msg("cooldown check failed")
		return true
	}
	if !ok {
		if t.metrics != nil {
			t.metrics.CooldownHits.WithLabelValues(action).Inc()
		}
		writeError(w, http.StatusTooManyRequests, "command cooldown", "try again in "+t.window.String())
		return false
	}
	return true
}
