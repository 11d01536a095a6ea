package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/postgres/generated"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create inserts an account. A taken external id returns domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := queries(r.queries, tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:                   account.ID,
		ExternalID:           account.ExternalID,
		Username:             account.Username,
		GlobalName:           account.GlobalName,
		Avatar:               account.Avatar,
		JoinedAt:             optionalTime(account.JoinedAt),
		ReceivedInitialGrant: account.ReceivedInitialGrant,
		CreatedAt:            timeToPgTimestamptz(account.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return accountOrNotFound(r.queries.GetAccountByID(ctx, id))
}

// GetByExternalID retrieves an account by its chat identity.
func (r *AccountRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Account, error) {
	return accountOrNotFound(r.queries.GetAccountByExternalID(ctx, externalID))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return accountOrNotFound(queries(r.queries, tx).GetAccountByIDForUpdate(ctx, id))
}

// GetByExternalIDForUpdate retrieves an account by chat identity with a FOR UPDATE lock.
func (r *AccountRepository) GetByExternalIDForUpdate(ctx context.Context, tx usecase.Transaction, externalID string) (*domain.Account, error) {
	return accountOrNotFound(queries(r.queries, tx).GetAccountByExternalIDForUpdate(ctx, externalID))
}

// GetByIDsForUpdate locks multiple accounts in id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := queries(r.queries, tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListByExternalIDs returns the registered accounts among externalIDs.
func (r *AccountRepository) ListByExternalIDs(ctx context.Context, externalIDs []string) ([]*domain.Account, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	rows, err := r.queries.ListAccountsByExternalIDs(ctx, externalIDs)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// MarkInitialGranted flags the onboarding grant as received.
func (r *AccountRepository) MarkInitialGranted(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queries(r.queries, tx).MarkInitialGranted(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func accountOrNotFound(row generated.Account, err error) (*domain.Account, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:                   row.ID,
		ExternalID:           row.ExternalID,
		Username:             row.Username,
		GlobalName:           row.GlobalName,
		Avatar:               row.Avatar,
		JoinedAt:             pgTimePtr(row.JoinedAt),
		ReceivedInitialGrant: row.ReceivedInitialGrant,
		CreatedAt:            row.CreatedAt.Time,
	}
}
