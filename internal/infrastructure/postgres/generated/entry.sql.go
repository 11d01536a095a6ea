package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countEntriesByAccountCategorySince = `-- name: CountEntriesByAccountCategorySince :one
SELECT COUNT(*) FROM entries WHERE account_id = $1 AND category = $2 AND created_at >= $3
`

type CountEntriesByAccountCategorySinceParams struct {
	AccountID string             `json:"account_id"`
	Category  string             `json:"category"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CountEntriesByAccountCategorySince(ctx context.Context, arg CountEntriesByAccountCategorySinceParams) (int64, error) {
	row := q.db.QueryRow(ctx, countEntriesByAccountCategorySince, arg.AccountID, arg.Category, arg.CreatedAt)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createEntry = `-- name: CreateEntry :exec
INSERT INTO entries (id, account_id, amount, category, correlation_id, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateEntryParams struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Category      string             `json:"category"`
	CorrelationID string             `json:"correlation_id"`
	Description   []byte             `json:"description"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.Exec(ctx, createEntry,
		arg.ID,
		arg.AccountID,
		arg.Amount,
		arg.Category,
		arg.CorrelationID,
		arg.Description,
		arg.CreatedAt,
	)
	return err
}

const listEntriesByAccount = `-- name: ListEntriesByAccount :many
SELECT id, account_id, amount, category, correlation_id, description, created_at FROM entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListEntriesByAccount(ctx context.Context, arg ListEntriesByAccountParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Amount,
			&i.Category,
			&i.CorrelationID,
			&i.Description,
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

const listEntriesByCorrelation = `-- name: ListEntriesByCorrelation :many
SELECT id, account_id, amount, category, correlation_id, description, created_at FROM entries
WHERE correlation_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListEntriesByCorrelation(ctx context.Context, correlationID string) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesByCorrelation, correlationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Amount,
			&i.Category,
			&i.CorrelationID,
			&i.Description,
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

const sumEntriesByAccount = `-- name: SumEntriesByAccount :one
SELECT COALESCE(SUM(amount), 0)::numeric AS balance FROM entries WHERE account_id = $1
`

func (q *Queries) SumEntriesByAccount(ctx context.Context, accountID string) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumEntriesByAccount, accountID)
	var balance pgtype.Numeric
	err := row.Scan(&balance)
	return balance, err
}

const sumEntriesByCategory = `-- name: SumEntriesByCategory :many
SELECT category, COALESCE(SUM(amount), 0)::numeric AS total FROM entries GROUP BY category ORDER BY category
`

type SumEntriesByCategoryRow struct {
	Category string         `json:"category"`
	Total    pgtype.Numeric `json:"total"`
}

func (q *Queries) SumEntriesByCategory(ctx context.Context) ([]SumEntriesByCategoryRow, error) {
	rows, err := q.db.Query(ctx, sumEntriesByCategory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SumEntriesByCategoryRow{}
	for rows.Next() {
		var i SumEntriesByCategoryRow
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumEntriesByCategorySince = `-- name: SumEntriesByCategorySince :one
SELECT COALESCE(SUM(amount), 0)::numeric AS total FROM entries WHERE category = $1 AND created_at >= $2
`

type SumEntriesByCategorySinceParams struct {
	Category  string             `json:"category"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) SumEntriesByCategorySince(ctx context.Context, arg SumEntriesByCategorySinceParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumEntriesByCategorySince, arg.Category, arg.CreatedAt)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const topBalances = `-- name: TopBalances :many
SELECT a.id, a.external_id, a.username, a.global_name, SUM(e.amount)::numeric AS balance
FROM entries e
JOIN accounts a ON a.id = e.account_id
GROUP BY a.id
ORDER BY balance DESC, a.id
LIMIT $1
`

type TopBalancesRow struct {
	ID         string         `json:"id"`
	ExternalID string         `json:"external_id"`
	Username   string         `json:"username"`
	GlobalName string         `json:"global_name"`
	Balance    pgtype.Numeric `json:"balance"`
}

func (q *Queries) TopBalances(ctx context.Context, limit int32) ([]TopBalancesRow, error) {
	rows, err := q.db.Query(ctx, topBalances, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TopBalancesRow{}
	for rows.Next() {
		var i TopBalancesRow
		if err := rows.Scan(
			&i.ID,
			&i.ExternalID,
			&i.Username,
			&i.GlobalName,
			&i.Balance,
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
