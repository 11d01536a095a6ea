package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

func openRoulette(t *testing.T, uc *usecase.RouletteUseCase) *domain.Roulette {
	t.Helper()
	r, err := uc.Create(context.Background(), usecase.CreateRouletteInput{Description: "rodada da sexta", CreatorID: "acc-admin"})
	require.NoError(t, err)
	return r
}

func spinBet(t *testing.T, uc *usecase.RouletteUseCase, rouletteID, accountID string, color domain.Color, amount int64) {
	t.Helper()
	_, err := uc.PlaceBet(context.Background(), usecase.PlaceRouletteBetInput{
		RouletteID: rouletteID,
		AccountID:  accountID,
		Choice:     color,
		Amount:     dec(amount),
	})
	require.NoError(t, err)
}

func TestRouletteUseCase_Create(t *testing.T) {
	f := newFixture(t)
	uc := f.rouletteUseCase()

	r := openRoulette(t, uc)
	assert.True(t, r.Stake.Equal(dec(10)))
	assert.Equal(t, domain.MarketStatusOpen, r.Status)

	custom, err := uc.Create(context.Background(), usecase.CreateRouletteInput{Description: "alta", Stake: dec(50)})
	require.NoError(t, err)
	assert.True(t, custom.Stake.Equal(dec(50)))

	_, err = uc.Create(context.Background(), usecase.CreateRouletteInput{Description: ""})
	require.ErrorIs(t, err, domain.ErrEmptyMessage)

	_, err = uc.Create(context.Background(), usecase.CreateRouletteInput{Description: "negativa", Stake: dec(-10)})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	list, err := uc.List(context.Background(), usecase.ListMarketsInput{Statuses: []domain.MarketStatus{domain.MarketStatusOpen}})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRouletteUseCase_PlaceBet(t *testing.T) {
	f := newFixture(t)
	uc := f.rouletteUseCase()
	ctx := context.Background()
	acc := f.account(t, "u1", 100)
	r := openRoulette(t, uc)

	tests := []struct {
		name    string
		color   domain.Color
		amount  int64
		wantErr error
	}{
		{name: "unknown color", color: domain.Color(9), amount: 10, wantErr: domain.ErrInvalidChoice},
		{name: "zero amount", color: domain.ColorRed, amount: 0, wantErr: domain.ErrInvalidAmount},
		{name: "not a multiple", color: domain.ColorRed, amount: 15, wantErr: domain.ErrInvalidAmount},
		{name: "insufficient", color: domain.ColorRed, amount: 110, wantErr: domain.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.PlaceBet(ctx, usecase.PlaceRouletteBetInput{RouletteID: r.ID, AccountID: acc.ID, Choice: tt.color, Amount: dec(tt.amount)})
			require.ErrorIs(t, err, tt.wantErr)
			f.requireBalance(t, acc.ID, 100)
		})
	}

	// repeated bets are allowed
	spinBet(t, uc, r.ID, acc.ID, domain.ColorRed, 10)
	spinBet(t, uc, r.ID, acc.ID, domain.ColorRed, 20)
	f.requireBalance(t, acc.ID, 70)

	_, err := uc.Close(ctx, r.ID)
	require.NoError(t, err)
	_, err = uc.PlaceBet(ctx, usecase.PlaceRouletteBetInput{RouletteID: r.ID, AccountID: acc.ID, Choice: domain.ColorRed, Amount: dec(10)})
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)
}

func TestRouletteUseCase_Settle(t *testing.T) {
	f := newFixture(t)
	uc := f.rouletteUseCase()
	ctx := context.Background()
	alice := f.account(t, "alice", 100)
	bob := f.account(t, "bob", 100)
	r := openRoulette(t, uc)

	spinBet(t, uc, r.ID, alice.ID, domain.ColorBlack, 10)
	spinBet(t, uc, r.ID, alice.ID, domain.ColorBlack, 10)
	spinBet(t, uc, r.ID, bob.ID, domain.ColorRed, 10)

	_, err := uc.Settle(ctx, r.ID, 4)
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)

	_, err = uc.Close(ctx, r.ID)
	require.NoError(t, err)

	_, err = uc.Settle(ctx, r.ID, 15)
	require.ErrorIs(t, err, domain.ErrInvalidNumber)

	settlement, err := uc.Settle(ctx, r.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, "4", settlement.Outcome)
	require.Len(t, settlement.Payouts, 1)
	assert.Equal(t, alice.ID, settlement.Payouts[0].AccountID)
	assert.True(t, settlement.Payouts[0].Stake.Equal(dec(20)))
	assert.True(t, settlement.Payouts[0].Amount.Equal(dec(40)))

	f.requireBalance(t, alice.ID, 120)
	f.requireBalance(t, bob.ID, 90)

	stored, err := uc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MarketStatusPaid, stored.Status)
	require.NotNil(t, stored.Result)
	assert.Equal(t, 4, *stored.Result)

	_, err = uc.Settle(ctx, r.ID, 4)
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)
}

func TestRouletteUseCase_SpinGreen(t *testing.T) {
	f := newFixture(t)
	uc := f.rouletteUseCase()
	ctx := context.Background()
	acc := f.account(t, "u1", 100)
	r := openRoulette(t, uc)

	spinBet(t, uc, r.ID, acc.ID, domain.ColorGreen, 10)
	spinBet(t, uc, r.ID, acc.ID, domain.ColorRed, 10)
	_, err := uc.Close(ctx, r.ID)
	require.NoError(t, err)

	f.rand.push(0)
	settlement, err := uc.Spin(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", settlement.Outcome)
	assert.True(t, settlement.TotalPaid().Equal(dec(140)))
	f.requireBalance(t, acc.ID, 220)
}

func TestRouletteUseCase_Cancel(t *testing.T) {
	f := newFixture(t)
	uc := f.rouletteUseCase()
	ctx := context.Background()
	alice := f.account(t, "alice", 100)
	bob := f.account(t, "bob", 100)
	r := openRoulette(t, uc)

	spinBet(t, uc, r.ID, alice.ID, domain.ColorBlack, 30)
	spinBet(t, uc, r.ID, bob.ID, domain.ColorGreen, 50)

	settlement, err := uc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MarketStatusCanceled, settlement.Status)
	assert.Len(t, settlement.Payouts, 2)

	f.requireBalance(t, alice.ID, 100)
	f.requireBalance(t, bob.ID, 100)

	_, err = uc.Cancel(ctx, r.ID)
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)
}
