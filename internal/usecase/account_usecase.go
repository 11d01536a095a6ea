package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/metrics"
)

// AccountUseCase handles registration and the minting grants.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledger      *ledger
	idGen       IDGenerator
	clock       Clock
	metrics     *metrics.Metrics
	initial     decimal.Decimal
	daily       decimal.Decimal
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	economy EconomyConfig,
	m *metrics.Metrics,
) *AccountUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledger:      newLedger(accountRepo, entryRepo, idGen, clock, m),
		idGen:       idGen,
		clock:       clock,
		metrics:     m,
		initial:     economy.InitialCoins,
		daily:       economy.DailyCoins,
	}
}

// RegisterInput represents input for registering an external identity.
type RegisterInput struct {
	JoinedAt   *time.Time
	ExternalID string
	Username   string
	GlobalName string
	Avatar     string
}

// Registration is the result of RegisterAndGrantInitial.
// InitialGrant is nil when the account had already received it.
type Registration struct {
	Account      *domain.Account
	InitialGrant *domain.Entry
	Created      bool
}

// RegisterAndGrantInitial creates the account on first sight and mints the
// initial grant exactly once. Repeated calls are no-ops.
func (uc *AccountUseCase) RegisterAndGrantInitial(ctx context.Context, input RegisterInput) (*Registration, error) {
	input.ExternalID = strings.TrimSpace(input.ExternalID)
	if input.ExternalID == "" {
		return nil, domain.ErrInvalidIdentity
	}

	reg, err := uc.register(ctx, input)
	if errors.Is(err, domain.ErrAccountExists) {
		// lost the insert race; the winner's row is visible now
		reg, err = uc.register(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	if reg.InitialGrant != nil && uc.metrics != nil {
		uc.metrics.GrantsIssued.WithLabelValues("initial").Inc()
	}
	return reg, nil
}

func (uc *AccountUseCase) register(ctx context.Context, input RegisterInput) (*Registration, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	reg := &Registration{}

	account, err := uc.accountRepo.GetByExternalIDForUpdate(txCtx, tx, input.ExternalID)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		account = &domain.Account{
			ID:         uc.idGen.Generate(),
			ExternalID: input.ExternalID,
			Username:   input.Username,
			GlobalName: input.GlobalName,
			Avatar:     input.Avatar,
			JoinedAt:   input.JoinedAt,
			CreatedAt:  uc.clock.Now().UTC(),
		}
		if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
			return nil, err
		}
		reg.Created = true
	case err != nil:
		return nil, err
	}

	if !account.ReceivedInitialGrant {
		entry, err := uc.ledger.append(txCtx, tx, entryInput{
			AccountID: account.ID,
			Amount:    uc.initial,
			Category:  domain.CategoryInitial,
		})
		if err != nil {
			return nil, err
		}
		if err := uc.accountRepo.MarkInitialGranted(txCtx, tx, account.ID); err != nil {
			return nil, err
		}
		account.ReceivedInitialGrant = true
		reg.InitialGrant = entry
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if reg.InitialGrant != nil {
		uc.ledger.observe(reg.InitialGrant)
	}
	reg.Account = account
	return reg, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountByExternalID retrieves an account by its chat identity.
func (uc *AccountUseCase) GetAccountByExternalID(ctx context.Context, externalID string) (*domain.Account, error) {
	return uc.accountRepo.GetByExternalID(ctx, externalID)
}

// GrantDaily mints the daily amount once per calendar day.
func (uc *AccountUseCase) GrantDaily(ctx context.Context, accountID string) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID); err != nil {
		return nil, err
	}

	since := startOfDay(uc.clock.Now())
	count, err := uc.entryRepo.CountByAccountCategorySince(txCtx, tx, accountID, domain.CategoryDaily, since)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrAlreadyGranted
	}

	entry, err := uc.ledger.append(txCtx, tx, entryInput{
		AccountID: accountID,
		Amount:    uc.daily,
		Category:  domain.CategoryDaily,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.observe(entry)
	if uc.metrics != nil {
		uc.metrics.GrantsIssued.WithLabelValues("daily").Inc()
	}
	return entry, nil
}
