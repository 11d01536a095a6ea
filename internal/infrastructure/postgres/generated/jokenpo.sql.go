package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createJokenpoGame = `-- name: CreateJokenpoGame :exec
INSERT INTO jokenpo_games (id, creator_id, created_at) VALUES ($1, $2, $3)
`

type CreateJokenpoGameParams struct {
	ID        string             `json:"id"`
	CreatorID string             `json:"creator_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateJokenpoGame(ctx context.Context, arg CreateJokenpoGameParams) error {
	_, err := q.db.Exec(ctx, createJokenpoGame, arg.ID, arg.CreatorID, arg.CreatedAt)
	return err
}

const createJokenpoPlayer = `-- name: CreateJokenpoPlayer :exec
INSERT INTO jokenpo_players (game_id, account_id, move, amount, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type CreateJokenpoPlayerParams struct {
	GameID    string             `json:"game_id"`
	AccountID string             `json:"account_id"`
	Move      string             `json:"move"`
	Amount    pgtype.Numeric     `json:"amount"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateJokenpoPlayer(ctx context.Context, arg CreateJokenpoPlayerParams) error {
	_, err := q.db.Exec(ctx, createJokenpoPlayer,
		arg.GameID,
		arg.AccountID,
		arg.Move,
		arg.Amount,
		arg.CreatedAt,
	)
	return err
}

const finishJokenpoGame = `-- name: FinishJokenpoGame :execrows
UPDATE jokenpo_games SET bot_move = $2, finished_at = $3 WHERE id = $1 AND finished_at IS NULL
`

type FinishJokenpoGameParams struct {
	ID         string             `json:"id"`
	BotMove    pgtype.Text        `json:"bot_move"`
	FinishedAt pgtype.Timestamptz `json:"finished_at"`
}

func (q *Queries) FinishJokenpoGame(ctx context.Context, arg FinishJokenpoGameParams) (int64, error) {
	result, err := q.db.Exec(ctx, finishJokenpoGame, arg.ID, arg.BotMove, arg.FinishedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getJokenpoGame = `-- name: GetJokenpoGame :one
SELECT id, creator_id, bot_move, created_at, finished_at FROM jokenpo_games WHERE id = $1
`

func (q *Queries) GetJokenpoGame(ctx context.Context, id string) (JokenpoGame, error) {
	row := q.db.QueryRow(ctx, getJokenpoGame, id)
	var i JokenpoGame
	err := row.Scan(
		&i.ID,
		&i.CreatorID,
		&i.BotMove,
		&i.CreatedAt,
		&i.FinishedAt,
	)
	return i, err
}

const listJokenpoPlayers = `-- name: ListJokenpoPlayers :many
SELECT game_id, account_id, move, amount, result, created_at FROM jokenpo_players WHERE game_id = $1 ORDER BY created_at, account_id
`

func (q *Queries) ListJokenpoPlayers(ctx context.Context, gameID string) ([]JokenpoPlayer, error) {
	rows, err := q.db.Query(ctx, listJokenpoPlayers, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []JokenpoPlayer{}
	for rows.Next() {
		var i JokenpoPlayer
		if err := rows.Scan(
			&i.GameID,
			&i.AccountID,
			&i.Move,
			&i.Amount,
			&i.Result,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setJokenpoPlayerResult = `-- name: SetJokenpoPlayerResult :execrows
UPDATE jokenpo_players SET result = $3 WHERE game_id = $1 AND account_id = $2
`

type SetJokenpoPlayerResultParams struct {
	GameID    string      `json:"game_id"`
	AccountID string      `json:"account_id"`
	Result    pgtype.Text `json:"result"`
}

func (q *Queries) SetJokenpoPlayerResult(ctx context.Context, arg SetJokenpoPlayerResultParams) (int64, error) {
	result, err := q.db.Exec(ctx, setJokenpoPlayerResult, arg.GameID, arg.AccountID, arg.Result)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
