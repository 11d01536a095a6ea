package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// RegisterAccountRequest represents a chat member seen for the first time.
type RegisterAccountRequest struct {
	JoinedAt   *time.Time `json:"joined_at,omitempty"`
	ExternalID string     `json:"external_id"`
	Username   string     `json:"username"`
	GlobalName string     `json:"global_name"`
	Avatar     string     `json:"avatar"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterAccountRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		JoinedAt:   r.JoinedAt,
		ExternalID: r.ExternalID,
		Username:   r.Username,
		GlobalName: r.GlobalName,
		Avatar:     r.Avatar,
	}
}

// TransferRequest represents a member-to-member transfer.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
	}
}

// AirplaneRequest names the thrower and the channel members by external identity.
type AirplaneRequest struct {
	SenderExternalID  string   `json:"sender_external_id"`
	MemberExternalIDs []string `json:"member_external_ids"`
}

// ToUseCaseInput converts to use case input.
func (r *AirplaneRequest) ToUseCaseInput() usecase.DistributeInput {
	return usecase.DistributeInput{
		SenderExternalID:  r.SenderExternalID,
		MemberExternalIDs: r.MemberExternalIDs,
	}
}

// SpendMasterRequest represents a paid question.
type SpendMasterRequest struct {
	Question string          `json:"question"`
	Boost    decimal.Decimal `json:"boost"`
}

// ToUseCaseInput converts to use case input.
func (r *SpendMasterRequest) ToUseCaseInput(accountID string) usecase.MasterInput {
	return usecase.MasterInput{
		AccountID: accountID,
		Question:  r.Question,
		Boost:     r.Boost,
	}
}

// SpendPicassoRequest represents a paid image prompt.
type SpendPicassoRequest struct {
	Prompt string `json:"prompt"`
}

// ToUseCaseInput converts to use case input.
func (r *SpendPicassoRequest) ToUseCaseInput(accountID string) usecase.PicassoInput {
	return usecase.PicassoInput{
		AccountID: accountID,
		Prompt:    r.Prompt,
	}
}

// CreateEventRequest opens a binary event.
type CreateEventRequest struct {
	Name      string `json:"name"`
	ChoiceA   string `json:"choice_a"`
	ChoiceB   string `json:"choice_b"`
	CreatorID string `json:"creator_id"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEventRequest) ToUseCaseInput() usecase.CreateEventInput {
	return usecase.CreateEventInput{
		Name:      r.Name,
		ChoiceA:   r.ChoiceA,
		ChoiceB:   r.ChoiceB,
		CreatorID: r.CreatorID,
	}
}

// EventBetRequest stakes on one side of an event.
type EventBetRequest struct {
	AccountID string          `json:"account_id"`
	Choice    string          `json:"choice"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToUseCaseInput parses the choice label.
func (r *EventBetRequest) ToUseCaseInput(eventID string) (usecase.PlaceEventBetInput, error) {
	choice, err := domain.ParseChoice(r.Choice)
	if err != nil {
		return usecase.PlaceEventBetInput{}, err
	}
	return usecase.PlaceEventBetInput{
		EventID:   eventID,
		AccountID: r.AccountID,
		Choice:    choice,
		Amount:    r.Amount,
	}, nil
}

// SettleRequest carries a kind-specific outcome: A, B or draw for events,
// a wheel number for roulette rounds.
type SettleRequest struct {
	Outcome string `json:"outcome"`
}

// CreateRouletteRequest opens a round. A zero stake uses the default denomination.
type CreateRouletteRequest struct {
	Description string          `json:"description"`
	CreatorID   string          `json:"creator_id"`
	Stake       decimal.Decimal `json:"stake"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRouletteRequest) ToUseCaseInput() usecase.CreateRouletteInput {
	return usecase.CreateRouletteInput{
		Description: r.Description,
		CreatorID:   r.CreatorID,
		Stake:       r.Stake,
	}
}

// RouletteBetRequest stakes on a color.
type RouletteBetRequest struct {
	AccountID string          `json:"account_id"`
	Color     string          `json:"color"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToUseCaseInput parses the color.
func (r *RouletteBetRequest) ToUseCaseInput(rouletteID string) (usecase.PlaceRouletteBetInput, error) {
	color, err := domain.ParseColor(r.Color)
	if err != nil {
		return usecase.PlaceRouletteBetInput{}, err
	}
	return usecase.PlaceRouletteBetInput{
		RouletteID: rouletteID,
		AccountID:  r.AccountID,
		Choice:     color,
		Amount:     r.Amount,
	}, nil
}

// StartJokenpoRequest opens a jokenpo session.
type StartJokenpoRequest struct {
	CreatorID string `json:"creator_id"`
}

// MoveRequest submits a jokenpo move.
type MoveRequest struct {
	AccountID string `json:"account_id"`
	Move      string `json:"move"`
}

// ToUseCaseInput parses the move, accepting english aliases.
func (r *MoveRequest) ToUseCaseInput(sessionID string) (usecase.SubmitMoveInput, error) {
	move, err := domain.ParseMove(r.Move)
	if err != nil {
		return usecase.SubmitMoveInput{}, err
	}
	return usecase.SubmitMoveInput{
		SessionID: sessionID,
		AccountID: r.AccountID,
		Move:      move,
	}, nil
}

// WagerRequest is the kind-agnostic bet.
type WagerRequest struct {
	AccountID string          `json:"account_id"`
	Choice    string          `json:"choice"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToDomain converts to a domain wager.
func (r *WagerRequest) ToDomain(marketID string) domain.Wager {
	return domain.Wager{
		MarketID:  marketID,
		AccountID: r.AccountID,
		Choice:    r.Choice,
		Amount:    r.Amount,
	}
}
