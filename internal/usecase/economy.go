package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

// EconomyConfig holds the tunable amounts and limits of the economy.
type EconomyConfig struct {
	InitialCoins decimal.Decimal
	DailyCoins   decimal.Decimal

	Lucky         domain.LuckyBonus
	EventMaxStake decimal.Decimal // zero disables the cap

	RouletteDefaultStake decimal.Decimal

	JokenpoCountdown   int
	JokenpoTick        time.Duration
	JokenpoStake       decimal.Decimal
	JokenpoPrize       decimal.Decimal
	JokenpoSnapshotTTL time.Duration

	TransferLimit         decimal.Decimal
	TransferMinAccountAge time.Duration

	MasterCost            decimal.Decimal
	MasterQuestionMaxSize int
	PicassoCost           decimal.Decimal
	PicassoPromptMaxSize  int

	Airplanes AirplaneConfig
}

// AirplaneConfig tunes the little airplanes giveaway.
type AirplaneConfig struct {
	DailyMaximum       decimal.Decimal
	Probability        float64
	BoostedProbability float64
	ValueMin           int
	ValueMax           int
	ValueBoosted       int
}

// DefaultEconomy mirrors the defaults of the environment configuration.
func DefaultEconomy() EconomyConfig {
	return EconomyConfig{
		InitialCoins: decimal.NewFromInt(100),
		DailyCoins:   decimal.NewFromInt(100),
		Lucky: domain.LuckyBonus{
			Chance: 0.3,
			Min:    decimal.RequireFromString("1.5"),
			Max:    decimal.RequireFromString("2.5"),
		},
		EventMaxStake:         decimal.Zero,
		RouletteDefaultStake:  decimal.NewFromInt(10),
		JokenpoCountdown:      30,
		JokenpoTick:           time.Second,
		JokenpoStake:          decimal.NewFromInt(200),
		JokenpoPrize:          decimal.NewFromInt(400),
		JokenpoSnapshotTTL:    120 * time.Second,
		TransferLimit:         decimal.NewFromInt(1000),
		TransferMinAccountAge: 15 * 24 * time.Hour,
		MasterCost:            decimal.NewFromInt(50),
		MasterQuestionMaxSize: 500,
		PicassoCost:           decimal.NewFromInt(100),
		PicassoPromptMaxSize:  1000,
		Airplanes: AirplaneConfig{
			DailyMaximum:       decimal.NewFromInt(1000),
			Probability:        0.5,
			BoostedProbability: 0.05,
			ValueMin:           1,
			ValueMax:           50,
			ValueBoosted:       200,
		},
	}
}
