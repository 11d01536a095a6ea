package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAccount_OlderThan(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	minAge := 15 * 24 * time.Hour
	account := &Account{CreatedAt: now.Add(-minAge)}

	if account.OlderThan(minAge, now) {
		t.Error("an account of exactly the minimum age is not older")
	}
	if !account.OlderThan(minAge, now.Add(time.Second)) {
		t.Error("expected account to be older one second later")
	}
	if !account.OlderThan(0, now) {
		t.Error("expected any past account to be older than zero")
	}
}

func TestAccount_DisplayName(t *testing.T) {
	if got := (&Account{Username: "ze", GlobalName: "Zé"}).DisplayName(); got != "Zé" {
		t.Errorf("expected global name, got %q", got)
	}
	if got := (&Account{Username: "ze"}).DisplayName(); got != "ze" {
		t.Errorf("expected username fallback, got %q", got)
	}
}

func TestCategory_Classification(t *testing.T) {
	tests := []struct {
		category Category
		mint     bool
		spend    bool
	}{
		{CategoryInitial, true, false},
		{CategoryDaily, true, false},
		{CategoryAirplane, true, false},
		{CategoryTransfer, false, false},
		{CategoryEventBet, false, false},
		{CategoryMaster, false, true},
		{CategoryPicasso, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if !tt.category.Valid() {
				t.Fatal("expected a known category")
			}
			if got := tt.category.IsMint(); got != tt.mint {
				t.Errorf("IsMint() = %v, want %v", got, tt.mint)
			}
			if got := tt.category.IsSpend(); got != tt.spend {
				t.Errorf("IsSpend() = %v, want %v", got, tt.spend)
			}
		})
	}

	if Category("Bogus").Valid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestSumEntries(t *testing.T) {
	entries := []*Entry{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(-30)},
		{Amount: decimal.RequireFromString("2.55")},
	}

	if got := SumEntries(entries); !got.Equal(decimal.RequireFromString("72.55")) {
		t.Errorf("expected 72.55, got %s", got)
	}
	if !SumEntries(nil).IsZero() {
		t.Error("expected empty ledger to sum to zero")
	}
	if !entries[1].IsDebit() || entries[0].IsDebit() {
		t.Error("debit detection is wrong")
	}
}
