package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createEvent = `-- name: CreateEvent :exec
INSERT INTO events (id, name, creator_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateEventParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatorID string             `json:"creator_id"`
	Status    int16              `json:"status"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.Exec(ctx, createEvent,
		arg.ID,
		arg.Name,
		arg.CreatorID,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const createEventBet = `-- name: CreateEventBet :exec
INSERT INTO event_bets (id, event_id, account_id, choice, amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateEventBetParams struct {
	ID        string             `json:"id"`
	EventID   string             `json:"event_id"`
	AccountID string             `json:"account_id"`
	Choice    string             `json:"choice"`
	Amount    pgtype.Numeric     `json:"amount"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEventBet(ctx context.Context, arg CreateEventBetParams) error {
	_, err := q.db.Exec(ctx, createEventBet,
		arg.ID,
		arg.EventID,
		arg.AccountID,
		arg.Choice,
		arg.Amount,
		arg.CreatedAt,
	)
	return err
}

const createEventChoice = `-- name: CreateEventChoice :exec
INSERT INTO event_choices (id, event_id, label, description)
VALUES ($1, $2, $3, $4)
`

type CreateEventChoiceParams struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func (q *Queries) CreateEventChoice(ctx context.Context, arg CreateEventChoiceParams) error {
	_, err := q.db.Exec(ctx, createEventChoice,
		arg.ID,
		arg.EventID,
		arg.Label,
		arg.Description,
	)
	return err
}

const getEventByID = `-- name: GetEventByID :one
SELECT id, name, creator_id, status, winning_choice, created_at, updated_at FROM events WHERE id = $1
`

func (q *Queries) GetEventByID(ctx context.Context, id string) (Event, error) {
	row := q.db.QueryRow(ctx, getEventByID, id)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatorID,
		&i.Status,
		&i.WinningChoice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getEventByIDForUpdate = `-- name: GetEventByIDForUpdate :one
SELECT id, name, creator_id, status, winning_choice, created_at, updated_at FROM events WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetEventByIDForUpdate(ctx context.Context, id string) (Event, error) {
	row := q.db.QueryRow(ctx, getEventByIDForUpdate, id)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatorID,
		&i.Status,
		&i.WinningChoice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listEventBets = `-- name: ListEventBets :many
SELECT id, event_id, account_id, choice, amount, created_at FROM event_bets WHERE event_id = $1 ORDER BY created_at, id
`

func (q *Queries) ListEventBets(ctx context.Context, eventID string) ([]EventBet, error) {
	rows, err := q.db.Query(ctx, listEventBets, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []EventBet{}
	for rows.Next() {
		var i EventBet
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
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

const listEventChoices = `-- name: ListEventChoices :many
SELECT id, event_id, label, description FROM event_choices WHERE event_id = ANY($1::text[]) ORDER BY event_id, label
`

func (q *Queries) ListEventChoices(ctx context.Context, dollar_1 []string) ([]EventChoice, error) {
	rows, err := q.db.Query(ctx, listEventChoices, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []EventChoice{}
	for rows.Next() {
		var i EventChoice
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Label,
			&i.Description,
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

const listEvents = `-- name: ListEvents :many
SELECT id, name, creator_id, status, winning_choice, created_at, updated_at FROM events
WHERE cardinality($1::smallint[]) = 0 OR status = ANY($1::smallint[])
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListEventsParams struct {
	Statuses []int16 `json:"statuses"`
	Limit    int32   `json:"limit"`
	Offset   int32   `json:"offset"`
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.Query(ctx, listEvents, arg.Statuses, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Event{}
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.CreatorID,
			&i.Status,
			&i.WinningChoice,
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

const updateEventStatus = `-- name: UpdateEventStatus :execrows
UPDATE events SET status = $2, winning_choice = $3, updated_at = $4 WHERE id = $1
`

type UpdateEventStatusParams struct {
	ID            string             `json:"id"`
	Status        int16              `json:"status"`
	WinningChoice pgtype.Text        `json:"winning_choice"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateEventStatus(ctx context.Context, arg UpdateEventStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEventStatus,
		arg.ID,
		arg.Status,
		arg.WinningChoice,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
