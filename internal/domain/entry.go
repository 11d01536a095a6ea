package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies why an entry moved currency.
type Category string

const (
	CategoryInitial     Category = "Initial"
	CategoryDaily       Category = "Daily"
	CategoryAirplane    Category = "Airplane"
	CategoryTransfer    Category = "Transfer"
	CategoryTroll       Category = "Troll"
	CategoryEventBet    Category = "EventBet"
	CategoryRouletteBet Category = "RouletteBet"
	CategoryJokenpo     Category = "Jokenpo"
	CategoryRefund      Category = "Refund"
	CategoryMaster      Category = "Master"
	CategoryPicasso     Category = "Picasso"
)

var categories = map[Category]bool{
	CategoryInitial:     true,
	CategoryDaily:       true,
	CategoryAirplane:    true,
	CategoryTransfer:    true,
	CategoryTroll:       true,
	CategoryEventBet:    true,
	CategoryRouletteBet: true,
	CategoryJokenpo:     true,
	CategoryRefund:      true,
	CategoryMaster:      true,
	CategoryPicasso:     true,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return categories[c]
}

// IsMint reports whether entries of this category create currency.
func (c Category) IsMint() bool {
	switch c {
	case CategoryInitial, CategoryDaily, CategoryAirplane:
		return true
	}
	return false
}

// IsSpend reports whether entries of this category pay for a service.
func (c Category) IsSpend() bool {
	return c == CategoryMaster || c == CategoryPicasso
}

// Entry is an immutable, signed ledger movement.
type Entry struct {
	CreatedAt     time.Time
	Description   map[string]any
	ID            string
	AccountID     string
	CorrelationID string
	Category      Category
	Amount        decimal.Decimal
}

// IsDebit reports whether the entry removes currency from its account.
func (e *Entry) IsDebit() bool {
	return e.Amount.IsNegative()
}

// SumEntries folds entry amounts into a balance.
func SumEntries(entries []*Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
