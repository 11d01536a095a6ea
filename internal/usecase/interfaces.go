package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByExternalIDForUpdate(ctx context.Context, tx Transaction, externalID string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	ListByExternalIDs(ctx context.Context, externalIDs []string) ([]*domain.Account, error)
	MarkInitialGranted(ctx context.Context, tx Transaction, id string) error
}

// EntryRepository defines data access for the append-only ledger.
// Methods taking a tx read inside it; a nil tx reads outside any transaction.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	SumByAccount(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error)
	CountByAccountCategorySince(ctx context.Context, tx Transaction, accountID string, category domain.Category, since time.Time) (int64, error)
	SumByCategorySince(ctx context.Context, tx Transaction, category domain.Category, since time.Time) (decimal.Decimal, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error)
	TopBalances(ctx context.Context, limit int) ([]*domain.AccountBalance, error)
	SumByCategory(ctx context.Context) (map[domain.Category]decimal.Decimal, error)
}

// EventRepository defines data access for event markets and their bets.
type EventRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Event, error)
	List(ctx context.Context, statuses []domain.MarketStatus, limit, offset int) ([]*domain.Event, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.MarketStatus, winner *domain.ChoiceLabel, updatedAt time.Time) error
	// CreateBet returns domain.ErrDuplicateBet when (account, event) already has a bet.
	CreateBet(ctx context.Context, tx Transaction, bet *domain.EventBet) error
	ListBets(ctx context.Context, tx Transaction, eventID string) ([]*domain.EventBet, error)
}

// RouletteRepository defines data access for roulette rounds and their bets.
type RouletteRepository interface {
	Create(ctx context.Context, tx Transaction, roulette *domain.Roulette) error
	GetByID(ctx context.Context, id string) (*domain.Roulette, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Roulette, error)
	List(ctx context.Context, statuses []domain.MarketStatus, limit, offset int) ([]*domain.Roulette, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.MarketStatus, result *int, updatedAt time.Time) error
	CreateBet(ctx context.Context, tx Transaction, bet *domain.RouletteBet) error
	ListBets(ctx context.Context, tx Transaction, rouletteID string) ([]*domain.RouletteBet, error)
}

// JokenpoRepository keeps the relational history of jokenpo games.
type JokenpoRepository interface {
	CreateGame(ctx context.Context, tx Transaction, game *domain.JokenpoGame) error
	// CreatePlayer returns domain.ErrDuplicateMove when the account already played the game.
	CreatePlayer(ctx context.Context, tx Transaction, player *domain.JokenpoPlayer) error
	// GetGame returns domain.ErrSessionNotFound when the game does not exist.
	GetGame(ctx context.Context, id string) (*domain.JokenpoGame, error)
	// FinishGame returns domain.ErrSessionResolved when the game already finished.
	FinishGame(ctx context.Context, tx Transaction, id string, botMove domain.Move, finishedAt time.Time) error
	SetPlayerResult(ctx context.Context, tx Transaction, gameID, accountID string, result domain.Outcome) error
	ListPlayers(ctx context.Context, gameID string) ([]*domain.JokenpoPlayer, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Random is a seedable source of uniform integers in [0, n).
type Random interface {
	IntN(n int) int
}

// SessionStore mirrors live jokenpo sessions in the fast ephemeral store.
type SessionStore interface {
	Save(ctx context.Context, session *domain.JokenpoSession, ttl time.Duration) error
	// Load returns domain.ErrSessionNotFound when no snapshot exists.
	Load(ctx context.Context, id string) (*domain.JokenpoSession, error)
	Delete(ctx context.Context, id string) error
}

// Scheduler delivers a periodic callback per key until cancelled.
type Scheduler interface {
	Schedule(key string, interval time.Duration, fn func())
	Cancel(key string)
}

// JokenpoPresenter renders session progress. Calls must not block.
type JokenpoPresenter interface {
	SessionTicked(session *domain.JokenpoSession)
	SessionResolved(result *domain.JokenpoResult)
}

// MarketPresenter renders market changes. Calls must not block.
type MarketPresenter interface {
	OddsChanged(eventID string, odds domain.Odds)
	MarketSettled(settlement *domain.Settlement)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key whose request failed so it can be retried.
	Delete(ctx context.Context, key string) error
}

// CooldownLimiter answers whether an action under key is allowed in the current window
// and records the attempt.
type CooldownLimiter interface {
	Allow(ctx context.Context, key string, window time.Duration, threshold int) (bool, error)
}
