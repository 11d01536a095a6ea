package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RouletteMaxNumber is the highest number on the wheel.
const RouletteMaxNumber = 14

// Color is a roulette bet choice. Values match the persisted codes.
type Color int

const (
	ColorGreen Color = 1
	ColorBlack Color = 2
	ColorRed   Color = 3
)

func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorBlack:
		return "black"
	case ColorRed:
		return "red"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// ParseColor accepts a color name.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "green":
		return ColorGreen, nil
	case "black":
		return ColorBlack, nil
	case "red":
		return ColorRed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// Multiplier is the fixed payout ratio of a color.
func (c Color) Multiplier() decimal.Decimal {
	if c == ColorGreen {
		return decimal.NewFromInt(14)
	}
	return decimal.NewFromInt(2)
}

// ColorOf maps a wheel number to its color.
func ColorOf(number int) (Color, error) {
	if number < 0 || number > RouletteMaxNumber {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNumber, number)
	}
	switch {
	case number == 0:
		return ColorGreen, nil
	case number%2 == 0:
		return ColorBlack, nil
	default:
		return ColorRed, nil
	}
}

// Roulette is one round of the color wheel.
type Roulette struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Result      *int
	ID          string
	Description string
	CreatorID   string
	Stake       decimal.Decimal
	Status      MarketStatus
}

// ValidateStake checks that amount is a positive multiple of the round's denomination.
func (r *Roulette) ValidateStake(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.Stake.IsPositive() && !amount.Mod(r.Stake).IsZero() {
		return fmt.Errorf("%w: must be a multiple of %s", ErrInvalidAmount, r.Stake)
	}
	return nil
}

// RouletteBet is one stake on a color. Accounts may bet repeatedly.
type RouletteBet struct {
	CreatedAt  time.Time
	ID         string
	RouletteID string
	AccountID  string
	Choice     Color
	Amount     decimal.Decimal
}

// RouletteStake is the aggregated stake of one account on one color.
type RouletteStake struct {
	AccountID string
	Choice    Color
	Amount    decimal.Decimal
}

// AggregateRouletteBets sums stakes by (account, color), ordered by account then color.
func AggregateRouletteBets(bets []*RouletteBet) []RouletteStake {
	type key struct {
		account string
		color   Color
	}

	sums := make(map[key]decimal.Decimal)
	for _, b := range bets {
		k := key{b.AccountID, b.Choice}
		sums[k] = sums[k].Add(b.Amount)
	}

	stakes := make([]RouletteStake, 0, len(sums))
	for k, amount := range sums {
		stakes = append(stakes, RouletteStake{AccountID: k.account, Choice: k.color, Amount: amount})
	}
	sort.Slice(stakes, func(i, j int) bool {
		if stakes[i].AccountID != stakes[j].AccountID {
			return stakes[i].AccountID < stakes[j].AccountID
		}
		return stakes[i].Choice < stakes[j].Choice
	})

	return stakes
}
