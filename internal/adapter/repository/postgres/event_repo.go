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

const fkEventBetsEvent = "event_bets_event_id_fkey"

// EventRepository implements usecase.EventRepository.
type EventRepository struct {
	queries *generated.Queries
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db generated.DBTX) *EventRepository {
	return &EventRepository{
		queries: generated.New(db),
	}
}

// Create inserts an event together with its choices.
func (r *EventRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.Event) error {
	q := queries(r.queries, tx)

	if err := q.CreateEvent(ctx, generated.CreateEventParams{
		ID:        event.ID,
		Name:      event.Name,
		CreatorID: event.CreatorID,
		Status:    int16(event.Status),
		CreatedAt: timeToPgTimestamptz(event.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(event.UpdatedAt),
	}); err != nil {
		return err
	}

	for _, c := range event.Choices {
		if err := q.CreateEventChoice(ctx, generated.CreateEventChoiceParams{
			ID:          c.ID,
			EventID:     event.ID,
			Label:       string(c.Label),
			Description: c.Description,
		}); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an event with its choices.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.load(ctx, r.queries, r.queries.GetEventByID, id)
}

// GetByIDForUpdate retrieves an event with a FOR UPDATE lock.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Event, error) {
	q := queries(r.queries, tx)
	return r.load(ctx, q, q.GetEventByIDForUpdate, id)
}

func (r *EventRepository) load(
	ctx context.Context,
	q *generated.Queries,
	get func(context.Context, string) (generated.Event, error),
	id string,
) (*domain.Event, error) {
	row, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	choices, err := q.ListEventChoices(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	event := rowToEvent(row)
	event.Choices = rowsToChoices(choices)

	return event, nil
}

// List returns events newest first. An empty status filter matches every event.
func (r *EventRepository) List(ctx context.Context, statuses []domain.MarketStatus, limit, offset int) ([]*domain.Event, error) {
	rows, err := r.queries.ListEvents(ctx, generated.ListEventsParams{
		Statuses: statusCodes(statuses),
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*domain.Event{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	choices, err := r.queries.ListEventChoices(ctx, ids)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string][]generated.EventChoice, len(rows))
	for _, c := range choices {
		byEvent[c.EventID] = append(byEvent[c.EventID], c)
	}

	events := make([]*domain.Event, 0, len(rows))
	for _, row := range rows {
		event := rowToEvent(row)
		event.Choices = rowsToChoices(byEvent[row.ID])
		events = append(events, event)
	}

	return events, nil
}

// UpdateStatus moves an event to status, recording the winning side when given.
func (r *EventRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.MarketStatus, winner *domain.ChoiceLabel, updatedAt time.Time) error {
	var winning pgtype.Text
	if winner != nil {
		winning = pgtype.Text{String: string(*winner), Valid: true}
	}

	n, err := queries(r.queries, tx).UpdateEventStatus(ctx, generated.UpdateEventStatusParams{
		ID:            id,
		Status:        int16(status),
		WinningChoice: winning,
		UpdatedAt:     timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// CreateBet stores a bet. The (event, account) pair is unique.
func (r *EventRepository) CreateBet(ctx context.Context, tx usecase.Transaction, bet *domain.EventBet) error {
	err := queries(r.queries, tx).CreateEventBet(ctx, generated.CreateEventBetParams{
		ID:        bet.ID,
		EventID:   bet.EventID,
		AccountID: bet.AccountID,
		Choice:    string(bet.Choice),
		Amount:    decimalToNumeric(bet.Amount),
		CreatedAt: timeToPgTimestamptz(bet.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrDuplicateBet
	}
	if constraint, ok := foreignKeyViolation(err); ok {
		if constraint == fkEventBetsEvent {
			return domain.ErrEventNotFound
		}
		return domain.ErrAccountNotFound
	}

	return err
}

// ListBets lists the bets of an event in placement order.
func (r *EventRepository) ListBets(ctx context.Context, tx usecase.Transaction, eventID string) ([]*domain.EventBet, error) {
	rows, err := queries(r.queries, tx).ListEventBets(ctx, eventID)
	if err != nil {
		return nil, err
	}

	bets := make([]*domain.EventBet, 0, len(rows))
	for _, row := range rows {
		bets = append(bets, &domain.EventBet{
			ID:        row.ID,
			EventID:   row.EventID,
			AccountID: row.AccountID,
			Choice:    domain.ChoiceLabel(row.Choice),
			Amount:    numericToDecimal(row.Amount),
			CreatedAt: row.CreatedAt.Time,
		})
	}

	return bets, nil
}

func rowToEvent(row generated.Event) *domain.Event {
	event := &domain.Event{
		ID:        row.ID,
		Name:      row.Name,
		CreatorID: row.CreatorID,
		Status:    domain.MarketStatus(row.Status),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
	if row.WinningChoice.Valid {
		label := domain.ChoiceLabel(row.WinningChoice.String)
		event.WinningChoice = &label
	}

	return event
}

func rowsToChoices(rows []generated.EventChoice) []domain.Choice {
	choices := make([]domain.Choice, 0, len(rows))
	for _, row := range rows {
		choices = append(choices, domain.Choice{
			ID:          row.ID,
			EventID:     row.EventID,
			Label:       domain.ChoiceLabel(row.Label),
			Description: row.Description,
		})
	}

	return choices
}

// statusCodes never returns nil; a NULL array would match nothing.
func statusCodes(statuses []domain.MarketStatus) []int16 {
	codes := make([]int16, 0, len(statuses))
	for _, s := range statuses {
		codes = append(codes, int16(s))
	}

	return codes
}
