package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		number  int
		want    Color
		wantErr error
	}{
		{number: 0, want: ColorGreen},
		{number: 4, want: ColorBlack},
		{number: 14, want: ColorBlack},
		{number: 1, want: ColorRed},
		{number: 13, want: ColorRed},
		{number: -1, wantErr: ErrInvalidNumber},
		{number: 15, wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		got, err := ColorOf(tt.number)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ColorOf(%d) error = %v, want %v", tt.number, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ColorOf(%d) = %s, %v; want %s", tt.number, got, err, tt.want)
		}
	}
}

func TestColorMultiplier(t *testing.T) {
	if !ColorGreen.Multiplier().Equal(decimal.NewFromInt(14)) {
		t.Errorf("green multiplier = %s", ColorGreen.Multiplier())
	}
	if !ColorBlack.Multiplier().Equal(decimal.NewFromInt(2)) {
		t.Errorf("black multiplier = %s", ColorBlack.Multiplier())
	}
	if !ColorRed.Multiplier().Equal(decimal.NewFromInt(2)) {
		t.Errorf("red multiplier = %s", ColorRed.Multiplier())
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" Black ")
	if err != nil || c != ColorBlack {
		t.Fatalf("ParseColor = %v, %v", c, err)
	}
	if _, err := ParseColor("blue"); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestRouletteValidateStake(t *testing.T) {
	r := &Roulette{Stake: decimal.NewFromInt(10)}

	if err := r.ValidateStake(decimal.NewFromInt(30)); err != nil {
		t.Errorf("multiple of stake rejected: %v", err)
	}
	if err := r.ValidateStake(decimal.NewFromInt(15)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for 15, got %v", err)
	}
	if err := r.ValidateStake(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for 0, got %v", err)
	}
}

func TestAggregateRouletteBets(t *testing.T) {
	bets := []*RouletteBet{
		{AccountID: "b", Choice: ColorRed, Amount: decimal.NewFromInt(10)},
		{AccountID: "a", Choice: ColorBlack, Amount: decimal.NewFromInt(10)},
		{AccountID: "a", Choice: ColorBlack, Amount: decimal.NewFromInt(20)},
		{AccountID: "a", Choice: ColorGreen, Amount: decimal.NewFromInt(10)},
	}

	got := AggregateRouletteBets(bets)
	if len(got) != 3 {
		t.Fatalf("expected 3 stakes, got %d", len(got))
	}

	want := []RouletteStake{
		{AccountID: "a", Choice: ColorGreen, Amount: decimal.NewFromInt(10)},
		{AccountID: "a", Choice: ColorBlack, Amount: decimal.NewFromInt(30)},
		{AccountID: "b", Choice: ColorRed, Amount: decimal.NewFromInt(10)},
	}
	for i := range want {
		if got[i].AccountID != want[i].AccountID || got[i].Choice != want[i].Choice || !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("stake %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
