package memory

import (
	"context"
	"time"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// JokenpoRepository implements usecase.JokenpoRepository.
type JokenpoRepository struct {
	store *Store
}

// NewJokenpoRepository creates a new JokenpoRepository.
func NewJokenpoRepository(store *Store) *JokenpoRepository {
	return &JokenpoRepository{store: store}
}

// CreateGame inserts a game row.
func (r *JokenpoRepository) CreateGame(_ context.Context, tx usecase.Transaction, game *domain.JokenpoGame) error {
	return r.store.write(tx, func(s *state) error {
		cp := *game
		s.games[game.ID] = &cp
		return nil
	})
}

// CreatePlayer inserts a player row, one per (game, account).
func (r *JokenpoRepository) CreatePlayer(_ context.Context, tx usecase.Transaction, player *domain.JokenpoPlayer) error {
	return r.store.write(tx, func(s *state) error {
		if _, ok := s.games[player.GameID]; !ok {
			return domain.ErrSessionNotFound
		}
		for _, p := range s.players {
			if p.GameID == player.GameID && p.AccountID == player.AccountID {
				return domain.ErrDuplicateMove
			}
		}
		cp := *player
		s.players = append(s.players, &cp)
		return nil
	})
}

// GetGame retrieves a game row.
func (r *JokenpoRepository) GetGame(_ context.Context, id string) (*domain.JokenpoGame, error) {
	var game *domain.JokenpoGame
	r.store.read(nil, func(s *state) {
		if g, ok := s.games[id]; ok {
			cp := *g
			game = &cp
		}
	})
	if game == nil {
		return nil, domain.ErrSessionNotFound
	}
	return game, nil
}

// FinishGame records the bot move and the finish time of an unfinished game.
func (r *JokenpoRepository) FinishGame(_ context.Context, tx usecase.Transaction, id string, botMove domain.Move, finishedAt time.Time) error {
	return r.store.write(tx, func(s *state) error {
		g, ok := s.games[id]
		if !ok {
			return domain.ErrSessionNotFound
		}
		if g.FinishedAt != nil {
			return domain.ErrSessionResolved
		}
		cp := *g
		cp.BotMove = &botMove
		cp.FinishedAt = &finishedAt
		s.games[id] = &cp
		return nil
	})
}

// SetPlayerResult records one player's outcome.
func (r *JokenpoRepository) SetPlayerResult(_ context.Context, tx usecase.Transaction, gameID, accountID string, result domain.Outcome) error {
	return r.store.write(tx, func(s *state) error {
		for i, p := range s.players {
			if p.GameID == gameID && p.AccountID == accountID {
				cp := *p
				cp.Result = &result
				s.players[i] = &cp
				return nil
			}
		}
		return domain.ErrAccountNotFound
	})
}

// ListPlayers lists the players of a game in move order.
func (r *JokenpoRepository) ListPlayers(_ context.Context, gameID string) ([]*domain.JokenpoPlayer, error) {
	var out []*domain.JokenpoPlayer
	r.store.read(nil, func(s *state) {
		for _, p := range s.players {
			if p.GameID == gameID {
				cp := *p
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}
