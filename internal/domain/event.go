package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChoiceLabel identifies one side of a binary event.
type ChoiceLabel string

const (
	ChoiceA ChoiceLabel = "A"
	ChoiceB ChoiceLabel = "B"
)

// ParseChoice accepts "a"/"A" and "b"/"B".
func ParseChoice(s string) (ChoiceLabel, error) {
	switch ChoiceLabel(strings.ToUpper(strings.TrimSpace(s))) {
	case ChoiceA:
		return ChoiceA, nil
	case ChoiceB:
		return ChoiceB, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// Other returns the opposite side.
func (c ChoiceLabel) Other() ChoiceLabel {
	if c == ChoiceA {
		return ChoiceB
	}
	return ChoiceA
}

// Choice is one side of an event with its free-text description.
type Choice struct {
	ID          string
	EventID     string
	Label       ChoiceLabel
	Description string
}

// Event is a binary prediction market.
type Event struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	WinningChoice *ChoiceLabel
	ID            string
	Name          string
	CreatorID     string
	Choices       []Choice
	Status        MarketStatus
}

// Choice returns the choice with the given label.
func (e *Event) Choice(label ChoiceLabel) (Choice, bool) {
	for _, c := range e.Choices {
		if c.Label == label {
			return c, true
		}
	}
	return Choice{}, false
}

// AcceptsBets reports whether new bets can be placed.
func (e *Event) AcceptsBets() bool {
	return e.Status == MarketStatusOpen
}

// EventBet is a single stake on one side of an event.
type EventBet struct {
	CreatedAt time.Time
	ID        string
	EventID   string
	AccountID string
	Choice    ChoiceLabel
	Amount    decimal.Decimal
}
