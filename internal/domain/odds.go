package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Rand is the subset of a seedable PRNG the payout math needs.
type Rand interface {
	IntN(n int) int
}

// Odds holds the live pari-mutuel ratio for both sides of an event.
type Odds struct {
	A decimal.Decimal
	B decimal.Decimal
}

// For returns the raw odds of one side.
func (o Odds) For(label ChoiceLabel) decimal.Decimal {
	if label == ChoiceA {
		return o.A
	}
	return o.B
}

// Multiplier is the odds of one side rounded to two places.
func (o Odds) Multiplier(label ChoiceLabel) decimal.Decimal {
	return o.For(label).Round(2)
}

// Smooth dampens a stake with log10(x + 1).
func Smooth(stake decimal.Decimal) float64 {
	f, _ := stake.Float64()
	return math.Log10(f + 1)
}

// ComputeOdds derives both sides' odds from the smoothed stake totals.
// A side with no smoothed volume gets odds of 1. Non-positive stakes are ignored.
func ComputeOdds(bets []*EventBet) Odds {
	var totalA, totalB float64
	for _, b := range bets {
		if !b.Amount.IsPositive() {
			continue
		}
		switch b.Choice {
		case ChoiceA:
			totalA += Smooth(b.Amount)
		case ChoiceB:
			totalB += Smooth(b.Amount)
		}
	}

	oddsA, oddsB := 1.0, 1.0
	if totalA != 0 {
		oddsA = totalB/totalA + 1
	}
	if totalB != 0 {
		oddsB = totalA/totalB + 1
	}

	return Odds{
		A: decimal.NewFromFloat(oddsA),
		B: decimal.NewFromFloat(oddsB),
	}
}

// LuckyBonus configures the extra roll applied to winning event bets.
// Bonuses are drawn uniformly in tenths between Min and Max.
type LuckyBonus struct {
	Chance float64
	Min    decimal.Decimal
	Max    decimal.Decimal
}

// Roll returns the bonus multiplier for one winning bet, or 1 when the roll misses.
func (l LuckyBonus) Roll(r Rand) decimal.Decimal {
	if r.IntN(100) >= int(math.Round(l.Chance*100)) {
		return decimal.NewFromInt(1)
	}

	lo := l.Min.Shift(1).IntPart()
	hi := l.Max.Shift(1).IntPart()
	if hi < lo {
		lo, hi = hi, lo
	}

	tenths := lo + int64(r.IntN(int(hi-lo+1)))
	return decimal.New(tenths, -1)
}

// EventPayout is round(stake * multiplier * bonus, 2).
func EventPayout(stake, multiplier, bonus decimal.Decimal) decimal.Decimal {
	return stake.Mul(multiplier).Mul(bonus).Round(2)
}
