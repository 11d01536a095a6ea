package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account maps an external chat identity to a ledger account.
// It carries no balance: balances are always folded from entries.
type Account struct {
	CreatedAt            time.Time
	JoinedAt             *time.Time
	ID                   string
	ExternalID           string
	Username             string
	GlobalName           string
	Avatar               string
	ReceivedInitialGrant bool
}

// OlderThan reports whether the account existed for longer than age at now.
func (a *Account) OlderThan(age time.Duration, now time.Time) bool {
	return now.Sub(a.CreatedAt) > age
}

// DisplayName prefers the global name over the username.
func (a *Account) DisplayName() string {
	if a.GlobalName != "" {
		return a.GlobalName
	}
	return a.Username
}

// AccountBalance is a derived balance row used for rankings.
type AccountBalance struct {
	AccountID  string
	ExternalID string
	Username   string
	Balance    decimal.Decimal
}
