package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Move is one of the five jokenpo symbols.
type Move string

const (
	MovePedra   Move = "pedra"
	MovePapel   Move = "papel"
	MoveTesoura Move = "tesoura"
	MoveLagarto Move = "lagarto"
	MoveSpock   Move = "spock"
)

// Moves lists every symbol in a fixed order; bot draws index into it.
var Moves = []Move{MovePedra, MovePapel, MoveTesoura, MoveLagarto, MoveSpock}

var moveAliases = map[string]Move{
	"rock":     MovePedra,
	"paper":    MovePapel,
	"scissors": MoveTesoura,
	"lizard":   MoveLagarto,
}

// each move beats exactly two others
var beats = map[Move][2]Move{
	MoveTesoura: {MovePapel, MoveLagarto},
	MovePapel:   {MovePedra, MoveSpock},
	MovePedra:   {MoveLagarto, MoveTesoura},
	MoveLagarto: {MoveSpock, MovePapel},
	MoveSpock:   {MoveTesoura, MovePedra},
}

// ParseMove accepts the portuguese symbol names and their english aliases.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := moveAliases[s]; ok {
		return m, nil
	}
	if _, ok := beats[Move(s)]; ok {
		return Move(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMove, s)
}

// Beats reports whether m wins against other.
func (m Move) Beats(other Move) bool {
	wins := beats[m]
	return wins[0] == other || wins[1] == other
}

// Outcome is a player's result against the bot.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeTie  Outcome = "tie"
)

// Play compares a player move with the bot move.
func Play(player, bot Move) Outcome {
	switch {
	case player == bot:
		return OutcomeTie
	case player.Beats(bot):
		return OutcomeWin
	default:
		return OutcomeLose
	}
}

// SessionPhase is derived from the countdown.
type SessionPhase string

const (
	PhaseActive     SessionPhase = "active"
	PhaseResolving  SessionPhase = "resolving"
	PhaseTerminated SessionPhase = "terminated"
)

// JokenpoSession is a live, timer-driven game.
type JokenpoSession struct {
	CreatedAt  time.Time
	Moves      map[string]Move
	BotMove    *Move
	ID         string
	CreatorID  string
	Players    []string
	Stake      decimal.Decimal
	Prize      decimal.Decimal
	Counter    int
	Terminated bool
}

// NewJokenpoSession creates an active session with an empty move map.
func NewJokenpoSession(id, creatorID string, countdown int, stake, prize decimal.Decimal, now time.Time) *JokenpoSession {
	return &JokenpoSession{
		ID:        id,
		CreatorID: creatorID,
		Counter:   countdown,
		Moves:     make(map[string]Move),
		Stake:     stake,
		Prize:     prize,
		CreatedAt: now,
	}
}

// Phase derives the lifecycle state.
func (s *JokenpoSession) Phase() SessionPhase {
	switch {
	case s.Terminated:
		return PhaseTerminated
	case s.Counter > 0:
		return PhaseActive
	default:
		return PhaseResolving
	}
}

// AcceptsMoves rejects moves during the final tick so they cannot race the resolver.
func (s *JokenpoSession) AcceptsMoves() bool {
	return !s.Terminated && s.Counter > 1
}

// HasMoved reports whether the account already played.
func (s *JokenpoSession) HasMoved(accountID string) bool {
	_, ok := s.Moves[accountID]
	return ok
}

// RecordMove stores a move, keeping submission order.
func (s *JokenpoSession) RecordMove(accountID string, m Move) error {
	if s.HasMoved(accountID) {
		return ErrDuplicateMove
	}
	s.Moves[accountID] = m
	s.Players = append(s.Players, accountID)
	return nil
}

// Clone returns a deep copy safe to hand outside the session lock.
func (s *JokenpoSession) Clone() *JokenpoSession {
	c := *s
	c.Moves = make(map[string]Move, len(s.Moves))
	for k, v := range s.Moves {
		c.Moves[k] = v
	}
	c.Players = append([]string(nil), s.Players...)
	if s.BotMove != nil {
		m := *s.BotMove
		c.BotMove = &m
	}
	return &c
}

// Evaluate scores every player against the bot move, in submission order.
func (s *JokenpoSession) Evaluate(bot Move) []JokenpoPlayerResult {
	results := make([]JokenpoPlayerResult, 0, len(s.Players))
	for _, accountID := range s.Players {
		move := s.Moves[accountID]
		r := JokenpoPlayerResult{
			AccountID: accountID,
			Move:      move,
			Outcome:   Play(move, bot),
			Payout:    decimal.Zero,
		}
		if r.Outcome == OutcomeWin {
			r.Payout = s.Prize
		}
		results = append(results, r)
	}
	return results
}

// JokenpoPlayerResult is one player's resolved outcome.
type JokenpoPlayerResult struct {
	AccountID string
	Move      Move
	Outcome   Outcome
	Payout    decimal.Decimal
}

// JokenpoResult is the outcome of a resolved session.
type JokenpoResult struct {
	ResolvedAt time.Time
	Stake      decimal.Decimal
	SessionID  string
	BotMove    Move
	Players    []JokenpoPlayerResult
}

// Winners returns only the winning players.
func (r *JokenpoResult) Winners() []JokenpoPlayerResult {
	var out []JokenpoPlayerResult
	for _, p := range r.Players {
		if p.Outcome == OutcomeWin {
			out = append(out, p)
		}
	}
	return out
}

// JokenpoGame is the persisted history row of a session.
type JokenpoGame struct {
	CreatedAt  time.Time
	FinishedAt *time.Time
	BotMove    *Move
	ID         string
	CreatorID  string
}

// JokenpoPlayer is the persisted per-player history row.
type JokenpoPlayer struct {
	CreatedAt time.Time
	Result    *Outcome
	GameID    string
	AccountID string
	Move      Move
	Amount    decimal.Decimal
}
