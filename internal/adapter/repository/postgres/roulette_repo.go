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

const fkRouletteBetsRoulette = "roulette_bets_roulette_id_fkey"

// RouletteRepository implements usecase.RouletteRepository.
type RouletteRepository struct {
	queries *generated.Queries
}

// NewRouletteRepository creates a new RouletteRepository.
func NewRouletteRepository(db generated.DBTX) *RouletteRepository {
	return &RouletteRepository{
		queries: generated.New(db),
	}
}

// Create inserts a round.
func (r *RouletteRepository) Create(ctx context.Context, tx usecase.Transaction, roulette *domain.Roulette) error {
	return queries(r.queries, tx).CreateRoulette(ctx, generated.CreateRouletteParams{
		ID:          roulette.ID,
		Description: roulette.Description,
		CreatorID:   roulette.CreatorID,
		Stake:       decimalToNumeric(roulette.Stake),
		Status:      int16(roulette.Status),
		CreatedAt:   timeToPgTimestamptz(roulette.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(roulette.UpdatedAt),
	})
}

// GetByID retrieves a round by ID.
func (r *RouletteRepository) GetByID(ctx context.Context, id string) (*domain.Roulette, error) {
	return rouletteOrNotFound(r.queries.GetRouletteByID(ctx, id))
}

// GetByIDForUpdate retrieves a round with a FOR UPDATE lock.
func (r *RouletteRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Roulette, error) {
	return rouletteOrNotFound(queries(r.queries, tx).GetRouletteByIDForUpdate(ctx, id))
}

// List returns rounds newest first. An empty status filter matches every round.
func (r *RouletteRepository) List(ctx context.Context, statuses []domain.MarketStatus, limit, offset int) ([]*domain.Roulette, error) {
	rows, err := r.queries.ListRoulettes(ctx, generated.ListRoulettesParams{
		Statuses: statusCodes(statuses),
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	roulettes := make([]*domain.Roulette, 0, len(rows))
	for _, row := range rows {
		roulettes = append(roulettes, rowToRoulette(row))
	}

	return roulettes, nil
}

// UpdateStatus moves a round to status, recording the drawn number when given.
func (r *RouletteRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.MarketStatus, result *int, updatedAt time.Time) error {
	var drawn pgtype.Int2
	if result != nil {
		drawn = pgtype.Int2{Int16: int16(*result), Valid: true}
	}

	n, err := queries(r.queries, tx).UpdateRouletteStatus(ctx, generated.UpdateRouletteStatusParams{
		ID:        id,
		Status:    int16(status),
		Result:    drawn,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRouletteNotFound
	}

	return nil
}

// CreateBet stores one stake on a color.
func (r *RouletteRepository) CreateBet(ctx context.Context, tx usecase.Transaction, bet *domain.RouletteBet) error {
	err := queries(r.queries, tx).CreateRouletteBet(ctx, generated.CreateRouletteBetParams{
		ID:         bet.ID,
		RouletteID: bet.RouletteID,
		AccountID:  bet.AccountID,
		Choice:     int16(bet.Choice),
		Amount:     decimalToNumeric(bet.Amount),
		CreatedAt:  timeToPgTimestamptz(bet.CreatedAt),
	})
	if constraint, ok := foreignKeyViolation(err); ok {
		if constraint == fkRouletteBetsRoulette {
			return domain.ErrRouletteNotFound
		}
		return domain.ErrAccountNotFound
	}

	return err
}

// ListBets lists the bets of a round in placement order.
func (r *RouletteRepository) ListBets(ctx context.Context, tx usecase.Transaction, rouletteID string) ([]*domain.RouletteBet, error) {
	rows, err := queries(r.queries, tx).ListRouletteBets(ctx, rouletteID)
	if err != nil {
		return nil, err
	}

	bets := make([]*domain.RouletteBet, 0, len(rows))
	for _, row := range rows {
		bets = append(bets, &domain.RouletteBet{
			ID:         row.ID,
			RouletteID: row.RouletteID,
			AccountID:  row.AccountID,
			Choice:     domain.Color(row.Choice),
			Amount:     numericToDecimal(row.Amount),
			CreatedAt:  row.CreatedAt.Time,
		})
	}

	return bets, nil
}

func rouletteOrNotFound(row generated.Roulette, err error) (*domain.Roulette, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRouletteNotFound
		}
		return nil, err
	}

	return rowToRoulette(row), nil
}

func rowToRoulette(row generated.Roulette) *domain.Roulette {
	roulette := &domain.Roulette{
		ID:          row.ID,
		Description: row.Description,
		CreatorID:   row.CreatorID,
		Stake:       numericToDecimal(row.Stake),
		Status:      domain.MarketStatus(row.Status),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
	if row.Result.Valid {
		n := int(row.Result.Int16)
		roulette.Result = &n
	}

	return roulette
}
