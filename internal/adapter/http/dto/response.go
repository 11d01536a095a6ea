package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	CreatedAt            time.Time  `json:"created_at"`
	JoinedAt             *time.Time `json:"joined_at,omitempty"`
	ID                   string     `json:"id"`
	ExternalID           string     `json:"external_id"`
	Username             string     `json:"username"`
	GlobalName           string     `json:"global_name,omitempty"`
	DisplayName          string     `json:"display_name"`
	Avatar               string     `json:"avatar,omitempty"`
	ReceivedInitialGrant bool       `json:"received_initial_grant"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		ExternalID:           a.ExternalID,
		Username:             a.Username,
		GlobalName:           a.GlobalName,
		DisplayName:          a.DisplayName(),
		Avatar:               a.Avatar,
		JoinedAt:             a.JoinedAt,
		ReceivedInitialGrant: a.ReceivedInitialGrant,
		CreatedAt:            a.CreatedAt,
	}
}

// RegistrationResponse reports the account and the grant minted on first sight.
type RegistrationResponse struct {
	Account      *AccountResponse `json:"account"`
	InitialGrant *EntryResponse   `json:"initial_grant,omitempty"`
	Created      bool             `json:"created"`
}

// RegistrationFromUseCase converts a registration to response.
func RegistrationFromUseCase(r *usecase.Registration) *RegistrationResponse {
	resp := &RegistrationResponse{
		Account: AccountFromDomain(r.Account),
		Created: r.Created,
	}
	if r.InitialGrant != nil {
		resp.InitialGrant = EntryFromDomain(r.InitialGrant)
	}
	return resp
}

// BalanceResponse is the derived balance of an account.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	CreatedAt     time.Time       `json:"created_at"`
	Description   map[string]any  `json:"description,omitempty"`
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Category      domain.Category `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		CorrelationID: e.CorrelationID,
		Category:      e.Category,
		Amount:        e.Amount,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse is one page of an account history.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// TransferResponse holds the entries written by a transfer.
type TransferResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Trolled bool             `json:"trolled"`
}

// TransferFromUseCase converts a transfer result to response.
func TransferFromUseCase(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Entries: EntriesFromDomain(r.Entries),
		Trolled: r.Trolled,
	}
}

// AirplaneGrantResponse is one member who caught an airplane.
type AirplaneGrantResponse struct {
	AccountID   string          `json:"account_id"`
	ExternalID  string          `json:"external_id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// AirplaneResponse lists the airplane grants of one throw.
type AirplaneResponse struct {
	Grants []*AirplaneGrantResponse `json:"grants"`
	Total  decimal.Decimal          `json:"total"`
}

// AirplaneFromUseCase converts airplane grants to response.
func AirplaneFromUseCase(grants []usecase.AirplaneGrant) *AirplaneResponse {
	resp := &AirplaneResponse{
		Grants: make([]*AirplaneGrantResponse, 0, len(grants)),
		Total:  decimal.Zero,
	}
	for _, g := range grants {
		resp.Grants = append(resp.Grants, &AirplaneGrantResponse{
			AccountID:   g.Account.ID,
			ExternalID:  g.Account.ExternalID,
			DisplayName: g.Account.DisplayName(),
			Amount:      g.Entry.Amount,
		})
		resp.Total = resp.Total.Add(g.Entry.Amount)
	}
	return resp
}

// LeaderboardRow is one ranked account.
type LeaderboardRow struct {
	AccountID  string          `json:"account_id"`
	ExternalID string          `json:"external_id"`
	Username   string          `json:"username"`
	Balance    decimal.Decimal `json:"balance"`
	Rank       int             `json:"rank"`
}

// LeaderboardResponse ranks accounts by balance.
type LeaderboardResponse struct {
	Rows []*LeaderboardRow `json:"rows"`
}

// LeaderboardFromDomain converts ranked balances to response.
func LeaderboardFromDomain(rows []*domain.AccountBalance) *LeaderboardResponse {
	resp := &LeaderboardResponse{Rows: make([]*LeaderboardRow, len(rows))}
	for i, r := range rows {
		resp.Rows[i] = &LeaderboardRow{
			Rank:       i + 1,
			AccountID:  r.AccountID,
			ExternalID: r.ExternalID,
			Username:   r.Username,
			Balance:    r.Balance,
		}
	}
	return resp
}

// ConservationResponse reports the ledger audit.
type ConservationResponse struct {
	CheckedAt   time.Time                  `json:"checked_at"`
	ByCategory  map[string]decimal.Decimal `json:"by_category"`
	Minted      decimal.Decimal            `json:"minted"`
	Circulating decimal.Decimal            `json:"circulating"`
	Consistent  bool                       `json:"consistent"`
}

// ConservationFromUseCase converts a conservation report to response.
func ConservationFromUseCase(r *usecase.ConservationReport) *ConservationResponse {
	byCategory := make(map[string]decimal.Decimal, len(r.ByCategory))
	for c, sum := range r.ByCategory {
		byCategory[string(c)] = sum
	}
	return &ConservationResponse{
		CheckedAt:   r.CheckedAt,
		ByCategory:  byCategory,
		Minted:      r.Minted,
		Circulating: r.Circulating,
		Consistent:  r.Consistent,
	}
}

// ChoiceResponse is one side of an event.
type ChoiceResponse struct {
	Label       domain.ChoiceLabel `json:"label"`
	Description string             `json:"description"`
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	WinningChoice *domain.ChoiceLabel `json:"winning_choice,omitempty"`
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	CreatorID     string              `json:"creator_id"`
	Status        string              `json:"status"`
	Choices       []ChoiceResponse    `json:"choices"`
}

// EventFromDomain converts domain event to response.
func EventFromDomain(e *domain.Event) *EventResponse {
	resp := &EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		CreatorID:     e.CreatorID,
		Status:        e.Status.String(),
		WinningChoice: e.WinningChoice,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Choices:       make([]ChoiceResponse, 0, len(e.Choices)),
	}
	for _, c := range e.Choices {
		resp.Choices = append(resp.Choices, ChoiceResponse{Label: c.Label, Description: c.Description})
	}
	return resp
}

// EventsFromDomain converts domain events to responses.
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// EventBetResponse represents a placed event bet.
type EventBetResponse struct {
	CreatedAt time.Time          `json:"created_at"`
	ID        string             `json:"id"`
	EventID   string             `json:"event_id"`
	AccountID string             `json:"account_id"`
	Choice    domain.ChoiceLabel `json:"choice"`
	Amount    decimal.Decimal    `json:"amount"`
}

// EventBetFromDomain converts domain bet to response.
func EventBetFromDomain(b *domain.EventBet) *EventBetResponse {
	return &EventBetResponse{
		ID:        b.ID,
		EventID:   b.EventID,
		AccountID: b.AccountID,
		Choice:    b.Choice,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

// OddsResponse is the live multiplier of each side, rounded to two places.
type OddsResponse struct {
	EventID string          `json:"event_id"`
	A       decimal.Decimal `json:"a"`
	B       decimal.Decimal `json:"b"`
}

// OddsFromDomain converts odds to response.
func OddsFromDomain(eventID string, o domain.Odds) *OddsResponse {
	return &OddsResponse{
		EventID: eventID,
		A:       o.Multiplier(domain.ChoiceA),
		B:       o.Multiplier(domain.ChoiceB),
	}
}

// RouletteResponse represents a roulette round in API responses.
type RouletteResponse struct {
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Result      *int            `json:"result,omitempty"`
	ResultColor string          `json:"result_color,omitempty"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	CreatorID   string          `json:"creator_id"`
	Status      string          `json:"status"`
	Stake       decimal.Decimal `json:"stake"`
}

// RouletteFromDomain converts domain roulette to response.
func RouletteFromDomain(r *domain.Roulette) *RouletteResponse {
	resp := &RouletteResponse{
		ID:          r.ID,
		Description: r.Description,
		CreatorID:   r.CreatorID,
		Status:      r.Status.String(),
		Stake:       r.Stake,
		Result:      r.Result,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Result != nil {
		if color, err := domain.ColorOf(*r.Result); err == nil {
			resp.ResultColor = color.String()
		}
	}
	return resp
}

// RoulettesFromDomain converts domain roulettes to responses.
func RoulettesFromDomain(roulettes []*domain.Roulette) []*RouletteResponse {
	result := make([]*RouletteResponse, len(roulettes))
	for i, r := range roulettes {
		result[i] = RouletteFromDomain(r)
	}
	return result
}

// RouletteBetResponse represents a placed roulette bet.
type RouletteBetResponse struct {
	CreatedAt  time.Time       `json:"created_at"`
	ID         string          `json:"id"`
	RouletteID string          `json:"roulette_id"`
	AccountID  string          `json:"account_id"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
}

// RouletteBetFromDomain converts domain bet to response.
func RouletteBetFromDomain(b *domain.RouletteBet) *RouletteBetResponse {
	return &RouletteBetResponse{
		ID:         b.ID,
		RouletteID: b.RouletteID,
		AccountID:  b.AccountID,
		Color:      b.Choice.String(),
		Amount:     b.Amount,
		CreatedAt:  b.CreatedAt,
	}
}

// PayoutResponse is one credit produced by a settlement.
type PayoutResponse struct {
	AccountID  string          `json:"account_id"`
	Stake      decimal.Decimal `json:"stake"`
	Amount     decimal.Decimal `json:"amount"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// SettlementResponse summarizes a finished market.
type SettlementResponse struct {
	Kind      domain.MarketKind `json:"kind"`
	MarketID  string            `json:"market_id"`
	Status    string            `json:"status"`
	Outcome   string            `json:"outcome,omitempty"`
	Payouts   []*PayoutResponse `json:"payouts"`
	TotalPaid decimal.Decimal   `json:"total_paid"`
}

// SettlementFromDomain converts a settlement to response.
func SettlementFromDomain(s *domain.Settlement) *SettlementResponse {
	resp := &SettlementResponse{
		Kind:      s.Kind,
		MarketID:  s.MarketID,
		Status:    s.Status.String(),
		Outcome:   s.Outcome,
		Payouts:   make([]*PayoutResponse, 0, len(s.Payouts)),
		TotalPaid: s.TotalPaid(),
	}
	for _, p := range s.Payouts {
		resp.Payouts = append(resp.Payouts, &PayoutResponse{
			AccountID:  p.AccountID,
			Stake:      p.Stake,
			Amount:     p.Amount,
			Multiplier: p.Multiplier,
			Bonus:      p.Bonus,
		})
	}
	return resp
}

// JokenpoSessionResponse represents a live jokenpo session.
type JokenpoSessionResponse struct {
	CreatedAt time.Time       `json:"created_at"`
	ID        string          `json:"id"`
	CreatorID string          `json:"creator_id"`
	Phase     string          `json:"phase"`
	Players   []string        `json:"players"`
	Stake     decimal.Decimal `json:"stake"`
	Prize     decimal.Decimal `json:"prize"`
	Counter   int             `json:"counter"`
}

// JokenpoSessionFromDomain converts a session to response. Moves stay hidden
// until the session resolves.
func JokenpoSessionFromDomain(s *domain.JokenpoSession) *JokenpoSessionResponse {
	players := s.Players
	if players == nil {
		players = []string{}
	}
	return &JokenpoSessionResponse{
		ID:        s.ID,
		CreatorID: s.CreatorID,
		Phase:     string(s.Phase()),
		Players:   players,
		Stake:     s.Stake,
		Prize:     s.Prize,
		Counter:   s.Counter,
		CreatedAt: s.CreatedAt,
	}
}

// JokenpoPlayerResultResponse is one player's outcome.
type JokenpoPlayerResultResponse struct {
	AccountID string          `json:"account_id"`
	Move      domain.Move     `json:"move"`
	Outcome   domain.Outcome  `json:"outcome"`
	Payout    decimal.Decimal `json:"payout"`
}

// JokenpoResultResponse is the outcome of a resolved session.
type JokenpoResultResponse struct {
	ResolvedAt time.Time                      `json:"resolved_at"`
	SessionID  string                         `json:"session_id"`
	BotMove    domain.Move                    `json:"bot_move"`
	Players    []*JokenpoPlayerResultResponse `json:"players"`
}

// JokenpoResultFromDomain converts a jokenpo result to response.
func JokenpoResultFromDomain(r *domain.JokenpoResult) *JokenpoResultResponse {
	resp := &JokenpoResultResponse{
		ResolvedAt: r.ResolvedAt,
		SessionID:  r.SessionID,
		BotMove:    r.BotMove,
		Players:    make([]*JokenpoPlayerResultResponse, 0, len(r.Players)),
	}
	for _, p := range r.Players {
		resp.Players = append(resp.Players, &JokenpoPlayerResultResponse{
			AccountID: p.AccountID,
			Move:      p.Move,
			Outcome:   p.Outcome,
			Payout:    p.Payout,
		})
	}
	return resp
}

// WagerResponse echoes the normalized wager.
type WagerResponse struct {
	Kind      domain.MarketKind `json:"kind"`
	MarketID  string            `json:"market_id"`
	AccountID string            `json:"account_id"`
	Choice    string            `json:"choice"`
	Amount    decimal.Decimal   `json:"amount"`
}

// WagerFromDomain converts a wager to response.
func WagerFromDomain(kind domain.MarketKind, w *domain.Wager) *WagerResponse {
	return &WagerResponse{
		Kind:      kind,
		MarketID:  w.MarketID,
		AccountID: w.AccountID,
		Choice:    w.Choice,
		Amount:    w.Amount,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
