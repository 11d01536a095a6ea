package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID                   string             `json:"id"`
	ExternalID           string             `json:"external_id"`
	Username             string             `json:"username"`
	GlobalName           string             `json:"global_name"`
	Avatar               string             `json:"avatar"`
	JoinedAt             pgtype.Timestamptz `json:"joined_at"`
	ReceivedInitialGrant bool               `json:"received_initial_grant"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

type Entry struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Category      string             `json:"category"`
	CorrelationID string             `json:"correlation_id"`
	Description   []byte             `json:"description"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type Event struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CreatorID     string             `json:"creator_id"`
	Status        int16              `json:"status"`
	WinningChoice pgtype.Text        `json:"winning_choice"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type EventBet struct {
	ID        string             `json:"id"`
	EventID   string             `json:"event_id"`
	AccountID string             `json:"account_id"`
	Choice    string             `json:"choice"`
	Amount    pgtype.Numeric     `json:"amount"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type EventChoice struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type JokenpoGame struct {
	ID         string             `json:"id"`
	CreatorID  string             `json:"creator_id"`
	BotMove    pgtype.Text        `json:"bot_move"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	FinishedAt pgtype.Timestamptz `json:"finished_at"`
}

type JokenpoPlayer struct {
	GameID    string             `json:"game_id"`
	AccountID string             `json:"account_id"`
	Move      string             `json:"move"`
	Amount    pgtype.Numeric     `json:"amount"`
	Result    pgtype.Text        `json:"result"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Roulette struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	CreatorID   string             `json:"creator_id"`
	Stake       pgtype.Numeric     `json:"stake"`
	Status      int16              `json:"status"`
	Result      pgtype.Int2        `json:"result"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type RouletteBet struct {
	ID         string             `json:"id"`
	RouletteID string             `json:"roulette_id"`
	AccountID  string             `json:"account_id"`
	Choice     int16              `json:"choice"`
	Amount     pgtype.Numeric     `json:"amount"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}
