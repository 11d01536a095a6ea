package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateAccountParams struct {
	ID                   string             `json:"id"`
	ExternalID           string             `json:"external_id"`
	Username             string             `json:"username"`
	GlobalName           string             `json:"global_name"`
	Avatar               string             `json:"avatar"`
	JoinedAt             pgtype.Timestamptz `json:"joined_at"`
	ReceivedInitialGrant bool               `json:"received_initial_grant"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.ExternalID,
		arg.Username,
		arg.GlobalName,
		arg.Avatar,
		arg.JoinedAt,
		arg.ReceivedInitialGrant,
		arg.CreatedAt,
	)
	return err
}

const getAccountByExternalID = `-- name: GetAccountByExternalID :one
SELECT id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at FROM accounts WHERE external_id = $1
`

func (q *Queries) GetAccountByExternalID(ctx context.Context, externalID string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByExternalID, externalID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.ExternalID,
		&i.Username,
		&i.GlobalName,
		&i.Avatar,
		&i.JoinedAt,
		&i.ReceivedInitialGrant,
		&i.CreatedAt,
	)
	return i, err
}

const getAccountByExternalIDForUpdate = `-- name: GetAccountByExternalIDForUpdate :one
SELECT id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at FROM accounts WHERE external_id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByExternalIDForUpdate(ctx context.Context, externalID string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByExternalIDForUpdate, externalID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.ExternalID,
		&i.Username,
		&i.GlobalName,
		&i.Avatar,
		&i.JoinedAt,
		&i.ReceivedInitialGrant,
		&i.CreatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.ExternalID,
		&i.Username,
		&i.GlobalName,
		&i.Avatar,
		&i.JoinedAt,
		&i.ReceivedInitialGrant,
		&i.CreatedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.ExternalID,
		&i.Username,
		&i.GlobalName,
		&i.Avatar,
		&i.JoinedAt,
		&i.ReceivedInitialGrant,
		&i.CreatedAt,
	)
	return i, err
}

const getAccountsByIDsForUpdate = `-- name: GetAccountsByIDsForUpdate :many
SELECT id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at FROM accounts WHERE id = ANY($1::text[]) ORDER BY id FOR UPDATE
`

func (q *Queries) GetAccountsByIDsForUpdate(ctx context.Context, dollar_1 []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByIDsForUpdate, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.ExternalID,
			&i.Username,
			&i.GlobalName,
			&i.Avatar,
			&i.JoinedAt,
			&i.ReceivedInitialGrant,
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

const listAccountsByExternalIDs = `-- name: ListAccountsByExternalIDs :many
SELECT id, external_id, username, global_name, avatar, joined_at, received_initial_grant, created_at FROM accounts WHERE external_id = ANY($1::text[]) ORDER BY external_id
`

func (q *Queries) ListAccountsByExternalIDs(ctx context.Context, dollar_1 []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByExternalIDs, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.ExternalID,
			&i.Username,
			&i.GlobalName,
			&i.Avatar,
			&i.JoinedAt,
			&i.ReceivedInitialGrant,
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

const markInitialGranted = `-- name: MarkInitialGranted :execrows
UPDATE accounts SET received_initial_grant = TRUE WHERE id = $1
`

func (q *Queries) MarkInitialGranted(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, markInitialGranted, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
