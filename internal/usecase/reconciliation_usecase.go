package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when transfer entries do not cancel out.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: transfer entries do not sum to zero")
)

// ReconciliationUseCase audits currency conservation across the ledger.
type ReconciliationUseCase struct {
	entryRepo EntryRepository
	clock     Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(entryRepo EntryRepository, clock Clock) *ReconciliationUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReconciliationUseCase{
		entryRepo: entryRepo,
		clock:     clock,
	}
}

// ConservationReport aggregates the ledger by category.
type ConservationReport struct {
	CheckedAt   time.Time
	ByCategory  map[domain.Category]decimal.Decimal
	Minted      decimal.Decimal
	Circulating decimal.Decimal
	Consistent  bool
}

// CheckConservation sums every category. Minted currency comes only from mint
// categories; transfers must cancel out exactly.
func (uc *ReconciliationUseCase) CheckConservation(ctx context.Context) (*ConservationReport, error) {
	sums, err := uc.entryRepo.SumByCategory(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConservationReport{
		CheckedAt:   uc.clock.Now().UTC(),
		ByCategory:  sums,
		Minted:      decimal.Zero,
		Circulating: decimal.Zero,
		Consistent:  true,
	}

	for category, total := range sums {
		report.Circulating = report.Circulating.Add(total)
		if category.IsMint() {
			report.Minted = report.Minted.Add(total)
		}
	}

	if transfers, ok := sums[domain.CategoryTransfer]; ok && !transfers.IsZero() {
		report.Consistent = false
		return report, fmt.Errorf("%w: transfer total %s", ErrInconsistentLedger, transfers)
	}

	return report, nil
}
