package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

// SessionStore implements usecase.SessionStore using Redis.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "jokenpo:game:",
	}
}

// sessionSnapshot is the stored form of a live session.
// Moves are kept as an ordered list so submission order survives a restart.
type sessionSnapshot struct {
	CreatedAt  time.Time       `json:"created_at"`
	BotMove    *domain.Move    `json:"bot_move,omitempty"`
	ID         string          `json:"id"`
	CreatorID  string          `json:"creator_id"`
	Moves      []snapshotMove  `json:"moves"`
	Stake      decimal.Decimal `json:"stake"`
	Prize      decimal.Decimal `json:"prize"`
	Counter    int             `json:"counter"`
	Terminated bool            `json:"terminated"`
}

type snapshotMove struct {
	AccountID string      `json:"account_id"`
	Move      domain.Move `json:"move"`
}

// Save writes the session snapshot with ttl.
func (s *SessionStore) Save(ctx context.Context, session *domain.JokenpoSession, ttl time.Duration) error {
	snap := sessionSnapshot{
		ID:         session.ID,
		CreatorID:  session.CreatorID,
		Stake:      session.Stake,
		Prize:      session.Prize,
		Counter:    session.Counter,
		Terminated: session.Terminated,
		BotMove:    session.BotMove,
		CreatedAt:  session.CreatedAt,
		Moves:      make([]snapshotMove, 0, len(session.Players)),
	}
	for _, accountID := range session.Players {
		snap.Moves = append(snap.Moves, snapshotMove{AccountID: accountID, Move: session.Moves[accountID]})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	return s.client.Set(ctx, s.prefix+session.ID, data, ttl).Err()
}

// Load reads a session snapshot.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.JokenpoSession, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var snap sessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	session := domain.NewJokenpoSession(snap.ID, snap.CreatorID, snap.Counter, snap.Stake, snap.Prize, snap.CreatedAt)
	session.Terminated = snap.Terminated
	session.BotMove = snap.BotMove
	for _, m := range snap.Moves {
		if err := session.RecordMove(m.AccountID, m.Move); err != nil {
			return nil, fmt.Errorf("corrupt session %s: %w", id, err)
		}
	}

	return session, nil
}

// Delete removes a session snapshot.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}
