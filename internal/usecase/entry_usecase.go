package usecase

import (
	"context"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

// EntryUseCase handles ledger read models.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
	}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account, newest first.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultHistoryLimit
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// GetEntriesByCorrelation lists every entry tied to a market or session.
func (uc *EntryUseCase) GetEntriesByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByCorrelation(ctx, correlationID)
}

// Leaderboard ranks accounts by derived balance.
func (uc *EntryUseCase) Leaderboard(ctx context.Context, limit int) ([]*domain.AccountBalance, error) {
	if limit <= 0 {
		limit = domain.DefaultLeaderboard
	}
	if limit > 100 {
		limit = 100
	}
	return uc.entryRepo.TopBalances(ctx, limit)
}
