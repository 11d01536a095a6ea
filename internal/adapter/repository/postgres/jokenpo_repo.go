package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/postgres/generated"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

const fkJokenpoPlayersGame = "jokenpo_players_game_id_fkey"

// JokenpoRepository implements usecase.JokenpoRepository.
type JokenpoRepository struct {
	queries *generated.Queries
}

// NewJokenpoRepository creates a new JokenpoRepository.
func NewJokenpoRepository(db generated.DBTX) *JokenpoRepository {
	return &JokenpoRepository{
		queries: generated.New(db),
	}
}

// CreateGame inserts the history row of a session.
func (r *JokenpoRepository) CreateGame(ctx context.Context, tx usecase.Transaction, game *domain.JokenpoGame) error {
	return queries(r.queries, tx).CreateJokenpoGame(ctx, generated.CreateJokenpoGameParams{
		ID:        game.ID,
		CreatorID: game.CreatorID,
		CreatedAt: timeToPgTimestamptz(game.CreatedAt),
	})
}

// CreatePlayer records a move.
func (r *JokenpoRepository) CreatePlayer(ctx context.Context, tx usecase.Transaction, player *domain.JokenpoPlayer) error {
	err := queries(r.queries, tx).CreateJokenpoPlayer(ctx, generated.CreateJokenpoPlayerParams{
		GameID:    player.GameID,
		AccountID: player.AccountID,
		Move:      string(player.Move),
		Amount:    decimalToNumeric(player.Amount),
		CreatedAt: timeToPgTimestamptz(player.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrDuplicateMove
	}
	if constraint, ok := foreignKeyViolation(err); ok {
		if constraint == fkJokenpoPlayersGame {
			return domain.ErrSessionNotFound
		}
		return domain.ErrAccountNotFound
	}

	return err
}

// GetGame retrieves the history row of a session.
func (r *JokenpoRepository) GetGame(ctx context.Context, id string) (*domain.JokenpoGame, error) {
	row, err := r.queries.GetJokenpoGame(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}

		return nil, err
	}

	game := &domain.JokenpoGame{
		ID:         row.ID,
		CreatorID:  row.CreatorID,
		CreatedAt:  row.CreatedAt.Time,
		FinishedAt: pgTimePtr(row.FinishedAt),
	}
	if row.BotMove.Valid {
		move := domain.Move(row.BotMove.String)
		game.BotMove = &move
	}

	return game, nil
}

// FinishGame stores the bot move and the resolution time. It updates only an
// unfinished game and returns domain.ErrSessionResolved otherwise.
func (r *JokenpoRepository) FinishGame(ctx context.Context, tx usecase.Transaction, id string, botMove domain.Move, finishedAt time.Time) error {
	n, err := queries(r.queries, tx).FinishJokenpoGame(ctx, generated.FinishJokenpoGameParams{
		ID:         id,
		BotMove:    pgtype.Text{String: string(botMove), Valid: true},
		FinishedAt: timeToPgTimestamptz(finishedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSessionResolved
	}

	return nil
}

// SetPlayerResult stores one player's outcome.
func (r *JokenpoRepository) SetPlayerResult(ctx context.Context, tx usecase.Transaction, gameID, accountID string, result domain.Outcome) error {
	n, err := queries(r.queries, tx).SetJokenpoPlayerResult(ctx, generated.SetJokenpoPlayerResultParams{
		GameID:    gameID,
		AccountID: accountID,
		Result:    pgtype.Text{String: string(result), Valid: true},
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// ListPlayers lists a game's players in submission order.
func (r *JokenpoRepository) ListPlayers(ctx context.Context, gameID string) ([]*domain.JokenpoPlayer, error) {
	rows, err := r.queries.ListJokenpoPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}

	players := make([]*domain.JokenpoPlayer, 0, len(rows))
	for _, row := range rows {
		p := &domain.JokenpoPlayer{
			GameID:    row.GameID,
			AccountID: row.AccountID,
			Move:      domain.Move(row.Move),
			Amount:    numericToDecimal(row.Amount),
			CreatedAt: row.CreatedAt.Time,
		}
		if row.Result.Valid {
			outcome := domain.Outcome(row.Result.String)
			p.Result = &outcome
		}
		players = append(players, p)
	}

	return players, nil
}
