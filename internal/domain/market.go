package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MarketKind is the closed set of wagering primitives.
type MarketKind string

const (
	MarketKindEvent    MarketKind = "event"
	MarketKindRoulette MarketKind = "roulette"
	MarketKindJokenpo  MarketKind = "jokenpo"
)

// ParseMarketKind converts a raw kind into a MarketKind.
func ParseMarketKind(s string) (MarketKind, error) {
	switch k := MarketKind(s); k {
	case MarketKindEvent, MarketKindRoulette, MarketKindJokenpo:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMarketKind, s)
}

// MarketStatus is shared by events and roulette rounds.
type MarketStatus int

// Numeric values match the persisted status codes.
const (
	MarketStatusOpen     MarketStatus = 1
	MarketStatusClosed   MarketStatus = 2
	MarketStatusCanceled MarketStatus = 3
	MarketStatusPaid     MarketStatus = 4
	MarketStatusDraw     MarketStatus = 5
)

func (s MarketStatus) String() string {
	switch s {
	case MarketStatusOpen:
		return "open"
	case MarketStatusClosed:
		return "closed"
	case MarketStatusCanceled:
		return "canceled"
	case MarketStatusPaid:
		return "paid"
	case MarketStatusDraw:
		return "draw"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseMarketStatus is the inverse of String.
func ParseMarketStatus(s string) (MarketStatus, error) {
	for _, st := range []MarketStatus{MarketStatusOpen, MarketStatusClosed, MarketStatusCanceled, MarketStatusPaid, MarketStatusDraw} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown market status %q", s)
}

// Terminal reports whether no further transition is possible.
func (s MarketStatus) Terminal() bool {
	return s == MarketStatusCanceled || s == MarketStatusPaid || s == MarketStatusDraw
}

// CanTransition enforces Open -> Closed -> {Paid, Draw}, with Canceled
// reachable from Open or Closed.
func (s MarketStatus) CanTransition(to MarketStatus) bool {
	switch s {
	case MarketStatusOpen:
		return to == MarketStatusClosed || to == MarketStatusCanceled
	case MarketStatusClosed:
		return to == MarketStatusPaid || to == MarketStatusDraw || to == MarketStatusCanceled
	}
	return false
}

// Transition validates a status change.
func (s MarketStatus) Transition(to MarketStatus) error {
	if !s.CanTransition(to) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidMarketState, s, to)
	}
	return nil
}

// Wager is the kind-agnostic bet request used by market dispatch.
// Choice holds "A"/"B" for events, a color for roulette and a move for jokenpo.
type Wager struct {
	MarketID  string
	AccountID string
	Choice    string
	Amount    decimal.Decimal
}

// Payout is one positive entry produced by a settlement.
type Payout struct {
	AccountID  string
	Stake      decimal.Decimal
	Amount     decimal.Decimal
	Multiplier decimal.Decimal
	Bonus      decimal.Decimal
}

// Settlement summarizes a finished market.
type Settlement struct {
	Kind     MarketKind
	MarketID string
	Status   MarketStatus
	Outcome  string
	Payouts  []Payout
}

// TotalPaid sums all payout amounts.
func (s *Settlement) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payouts {
		total = total.Add(p.Amount)
	}
	return total
}
