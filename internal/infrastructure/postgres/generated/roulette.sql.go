package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createRoulette = `-- name: CreateRoulette :exec
INSERT INTO roulettes (id, description, creator_id, stake, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateRouletteParams struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	CreatorID   string             `json:"creator_id"`
	Stake       pgtype.Numeric     `json:"stake"`
	Status      int16              `json:"status"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateRoulette(ctx context.Context, arg CreateRouletteParams) error {
	_, err := q.db.Exec(ctx, createRoulette,
		arg.ID,
		arg.Description,
		arg.CreatorID,
		arg.Stake,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const createRouletteBet = `-- name: CreateRouletteBet :exec
INSERT INTO roulette_bets (id, roulette_id, account_id, choice, amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateRouletteBetParams struct {
	ID         string             `json:"id"`
	RouletteID string             `json:"roulette_id"`
	AccountID  string             `json:"account_id"`
	Choice     int16              `json:"choice"`
	Amount     pgtype.Numeric     `json:"amount"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateRouletteBet(ctx context.Context, arg CreateRouletteBetParams) error {
	_, err := q.db.Exec(ctx, createRouletteBet,
		arg.ID,
		arg.RouletteID,
		arg.AccountID,
		arg.Choice,
		arg.Amount,
		arg.CreatedAt,
	)
	return err
}

const getRouletteByID = `-- name: GetRouletteByID :one
SELECT id, description, creator_id, stake, status, result, created_at, updated_at FROM roulettes WHERE id = $1
`

func (q *Queries) GetRouletteByID(ctx context.Context, id string) (Roulette, error) {
	row := q.db.QueryRow(ctx, getRouletteByID, id)
	var i Roulette
	err := row.Scan(
		&i.ID,
		&i.Description,
		&i.CreatorID,
		&i.Stake,
		&i.Status,
		&i.Result,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getRouletteByIDForUpdate = `-- name: GetRouletteByIDForUpdate :one
SELECT id, description, creator_id, stake, status, result, created_at, updated_at FROM roulettes WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetRouletteByIDForUpdate(ctx context.Context, id string) (Roulette, error) {
	row := q.db.QueryRow(ctx, getRouletteByIDForUpdate, id)
	var i Roulette
	err := row.Scan(
		&i.ID,
		&i.Description,
		&i.CreatorID,
		&i.Stake,
		&i.Status,
		&i.Result,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listRouletteBets = `-- name: ListRouletteBets :many
SELECT id, roulette_id, account_id, choice, amount, created_at FROM roulette_bets WHERE roulette_id = $1 ORDER BY created_at, id
`

func (q *Queries) ListRouletteBets(ctx context.Context, rouletteID string) ([]RouletteBet, error) {
	rows, err := q.db.Query(ctx, listRouletteBets, rouletteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RouletteBet{}
	for rows.Next() {
		var i RouletteBet
		if err := rows.Scan(
			&i.ID,
			&i.RouletteID,
			&i.AccountID,
			&i.Choice,
			&i.Amount,
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

const listRoulettes = `-- name: ListRoulettes :many
SELECT id, description, creator_id, stake, status, result, created_at, updated_at FROM roulettes
WHERE cardinality($1::smallint[]) = 0 OR status = ANY($1::smallint[])
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListRoulettesParams struct {
	Statuses []int16 `json:"statuses"`
	Limit    int32   `json:"limit"`
	Offset   int32   `json:"offset"`
}

func (q *Queries) ListRoulettes(ctx context.Context, arg ListRoulettesParams) ([]Roulette, error) {
	rows, err := q.db.Query(ctx, listRoulettes, arg.Statuses, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Roulette{}
	for rows.Next() {
		var i Roulette
		if err := rows.Scan(
			&i.ID,
			&i.Description,
			&i.CreatorID,
			&i.Stake,
			&i.Status,
			&i.Result,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateRouletteStatus = `-- name: UpdateRouletteStatus :execrows
UPDATE roulettes SET status = $2, result = $3, updated_at = $4 WHERE id = $1
`

type UpdateRouletteStatusParams struct {
	ID        string             `json:"id"`
	Status    int16              `json:"status"`
	Result    pgtype.Int2        `json:"result"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateRouletteStatus(ctx context.Context, arg UpdateRouletteStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateRouletteStatus,
		arg.ID,
		arg.Status,
		arg.Result,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
