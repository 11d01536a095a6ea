package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase/mocks"
)

func openEvent(t *testing.T, uc *usecase.EventUseCase) *domain.Event {
	t.Helper()
	event, err := uc.Create(context.Background(), usecase.CreateEventInput{
		Name:      "Quem ganha o clássico?",
		ChoiceA:   "Flamengo",
		ChoiceB:   "Vasco",
		CreatorID: "acc-admin",
	})
	require.NoError(t, err)
	return event
}

func bet(t *testing.T, uc *usecase.EventUseCase, eventID, accountID string, choice domain.ChoiceLabel, amount int64) {
	t.Helper()
	_, err := uc.PlaceBet(context.Background(), usecase.PlaceEventBetInput{
		EventID:   eventID,
		AccountID: accountID,
		Choice:    choice,
		Amount:    dec(amount),
	})
	require.NoError(t, err)
}

func TestEventUseCase_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateEventInput
		wantErr error
	}{
		{name: "valid", input: usecase.CreateEventInput{Name: "Chove amanhã?", ChoiceA: "sim", ChoiceB: "não"}},
		{name: "empty name", input: usecase.CreateEventInput{Name: " ", ChoiceA: "sim", ChoiceB: "não"}, wantErr: domain.ErrInvalidEventName},
		{name: "long name", input: usecase.CreateEventInput{Name: strings.Repeat("x", 256), ChoiceA: "sim", ChoiceB: "não"}, wantErr: domain.ErrMessageTooLong},
		{name: "empty choice", input: usecase.CreateEventInput{Name: "Chove amanhã?", ChoiceA: "sim"}, wantErr: domain.ErrInvalidChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			event, err := f.eventUseCase(nil).Create(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.MarketStatusOpen, event.Status)
			require.Len(t, event.Choices, 2)

			stored, err := f.events.GetByID(context.Background(), event.ID)
			require.NoError(t, err)
			a, ok := stored.Choice(domain.ChoiceA)
			require.True(t, ok)
			assert.Equal(t, "sim", a.Description)
		})
	}
}

func TestEventUseCase_PlaceBet(t *testing.T) {
	f := newFixture(t)
	uc := f.eventUseCase(nil)
	ctx := context.Background()
	acc := f.account(t, "u1", 100)
	event := openEvent(t, uc)

	_, err := uc.PlaceBet(ctx, usecase.PlaceEventBetInput{EventID: event.ID, AccountID: acc.ID, Choice: "C", Amount: dec(10)})
	require.ErrorIs(t, err, domain.ErrInvalidChoice)

	_, err = uc.PlaceBet(ctx, usecase.PlaceEventBetInput{EventID: event.ID, AccountID: acc.ID, Choice: domain.ChoiceA, Amount: dec(0)})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.PlaceBet(ctx, usecase.PlaceEventBetInput{EventID: event.ID, AccountID: acc.ID, Choice: domain.ChoiceA, Amount: dec(101)})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = uc.PlaceBet(ctx, usecase.PlaceEventBetInput{EventID: "missing", AccountID: acc.ID, Choice: domain.ChoiceA, Amount: dec(10)})
	require.ErrorIs(t, err, domain.ErrEventNotFound)

	f.requireBalance(t, acc.ID, 100)

	bet(t, uc, event.ID, acc.ID, domain.ChoiceA, 60)
	f.requireBalance(t, acc.ID, 40)

	_, err = uc.PlaceBet(ctx, usecase.PlaceEventBetInput{EventID: event.ID, AccountID: acc.ID, Choice: domain.ChoiceB, Amount: dec(10)})
	require.ErrorIs(t, err, domain.ErrDuplicateBet)
	f.requireBalance(t, acc.ID, 40)
}

func TestEventUseCase_PlaceBetRespectsMaxStake(t *testing.T) {
	f := newFixture(t)
	f.economy.EventMaxStake = dec(50)
	uc := f.eventUseCase(nil)
	acc := f.account(t, "u1", 100)
	event := openEvent(t, uc)

	_, err := uc.PlaceBet(context.Background(), usecase.PlaceEventBetInput{EventID: event.ID, AccountID: acc.ID, Choice: domain.ChoiceA, Amount: dec(51)})
	require.ErrorIs(t, err, domain.ErrAmountTooLarge)
	bet(t, uc, event.ID, acc.ID, domain.ChoiceA, 50)
}

func TestEventUseCase_PlaceBetOnClosedEvent(t *testing.T) {
	f := newFixture(t)
	uc := f.eventUseCase(nil)
	acc := f.account(t, "u1", 100)
	event := openEvent(t, uc)

	closed, err := uc.Close(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MarketStatusClosed, closed.Status)

	_, err = uc.PlaceBet(context.Background(), usecase.PlaceEventBetInput{EventID: event.ID, AccountID: acc.ID, Choice: domain.ChoiceA, Amount: dec(10)})
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)
	f.requireBalance(t, acc.ID, 100)

	_, err = uc.Close(context.Background(), event.ID)
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)
}

func TestEventUseCase_ConcurrentBetsSameAccount(t *testing.T) {
	f := newFixture(t)
	uc := f.eventUseCase(nil)
	acc := f.account(t, "u1", 1000)
	event := openEvent(t, uc)

	const attempts = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PlaceBet(context.Background(), usecase.PlaceEventBetInput{
				EventID:   event.ID,
				AccountID: acc.ID,
				Choice:    domain.ChoiceA,
				Amount:    dec(10),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateBet):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
	f.requireBalance(t, acc.ID, 990)
}

func TestEventUseCase_Settle(t *testing.T) {
	f := newFixture(t)
	uc := f.eventUseCase(nil)
	ctx := context.Background()
	alice := f.account(t, "alice", 100)
	bob := f.account(t, "bob", 100)
	event := openEvent(t, uc)

	bet(t, uc, event.ID, alice.ID, domain.ChoiceA, 100)
	bet(t, uc, event.ID, bob.ID, domain.ChoiceB, 100)

	odds, err := uc.Odds(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, odds.Multiplier(domain.ChoiceA).Equal(dec(2)))

	// settling an open event is rejected
	_, err = uc.Settle(ctx, event.ID, domain.ChoiceA)
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)

	_, err = uc.Close(ctx, event.ID)
	require.NoError(t, err)

	f.rand.push(99) // lucky roll misses
	settlement, err := uc.Settle(ctx, event.ID, domain.ChoiceA)
	require.NoError(t, err)
	assert.Equal(t, domain.MarketStatusPaid, settlement.Status)
	assert.Equal(t, "A", settlement.Outcome)
	require.Len(t, settlement.Payouts, 1)
	assert.True(t, settlement.Payouts[0].Amount.Equal(dec(200)))

	f.requireBalance(t, alice.ID, 200)
	f.requireBalance(t, bob.ID, 0)

	stored, err := uc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MarketStatusPaid, stored.Status)
	require.NotNil(t, stored.WinningChoice)
	assert.Equal(t, domain.ChoiceA, *stored.WinningChoice)

	_, err = uc.Settle(ctx, event.ID, domain.ChoiceA)
	require.ErrorIs(t, err, domain.ErrInvalidMarketState)
	f.requireBalance(t, alice.ID, 200)
}

func TestEventUseCase_SettleLuckyRoll(t *testing.T) {
	f := newFixture(t)
	uc := f.eventUseCase(nil)
	ctx := context.Background()
	alice := f.account(t, "alice", 100)
	bob := f.account(t, "bob", 100)
	event := openEvent(t, uc)

	bet(t, uc, event.ID, alice.ID, domain.ChoiceA, 100)
	bet(t, uc, event.ID, bob.ID, domain.ChoiceB, 100)
	_, err := uc.Close(ctx, event.ID)
	require.NoError(t, err)

	// hit, then 15 + 5 tenths
	f.rand.push(0, 5)
	settlement, err := uc.Settle(ctx, event.ID, domain.ChoiceB)
	require.NoError(t, err)
	require.Len(t, settlement.Payouts, 1)
	assert.True(t, settlement.Payouts[0].Bonus.Equal(dec(2)))
	assert.True(t, settlement.Payouts[0].Amount.Equal(dec(400)))
	f.requireBalance(t, bob.ID, 400)
}

func TestEventUseCase_SettleDrawAndCancelRefund(t *testing.T) {
	for _, tc := range []struct {
		name   string
		close  bool
		settle func(*usecase.EventUseCase, string) (*domain.Settlement, error)
		status domain.MarketStatus
	}{
		{
			name:   "draw",
			close:  true,
			settle: func(uc *usecase.EventUseCase, id string) (*domain.Settlement, error) { return uc.SettleDraw(context.Background(), id) },
			status: domain.MarketStatusDraw,
		},
		{
			name:   "cancel open",
			settle: func(uc *usecase.EventUseCase, id string) (*domain.Settlement, error) { return uc.Cancel(context.Background(), id) },
			status: domain.MarketStatusCanceled,
		},
		{
			name:   "cancel closed",
			close:  true,
			settle: func(uc *usecase.EventUseCase, id string) (*domain.Settlement, error) { return uc.Cancel(context.Background(), id) },
			status: domain.MarketStatusCanceled,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			uc := f.eventUseCase(nil)
			alice := f.account(t, "alice", 100)
			bob := f.account(t, "bob", 100)
			event := openEvent(t, uc)

			bet(t, uc, event.ID, alice.ID, domain.ChoiceA, 70)
			bet(t, uc, event.ID, bob.ID, domain.ChoiceB, 30)
			if tc.close {
				_, err := uc.Close(context.Background(), event.ID)
				require.NoError(t, err)
			}

			settlement, err := tc.settle(uc, event.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.status, settlement.Status)
			assert.True(t, settlement.TotalPaid().Equal(dec(100)))

			f.requireBalance(t, alice.ID, 100)
			f.requireBalance(t, bob.ID, 100)

			entries, err := f.entries.ListByAccount(context.Background(), alice.ID, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, domain.CategoryRefund, entries[0].Category)
		})
	}
}

func TestEventUseCase_Presenter(t *testing.T) {
	ctrl := gomock.NewController(t)
	presenter := mocks.NewMockMarketPresenter(ctrl)

	f := newFixture(t)
	uc := f.eventUseCase(presenter)
	ctx := context.Background()
	acc := f.account(t, "u1", 100)
	event := openEvent(t, uc)

	presenter.EXPECT().OddsChanged(event.ID, gomock.Any()).Times(1)
	bet(t, uc, event.ID, acc.ID, domain.ChoiceA, 10)

	_, err := uc.Close(ctx, event.ID)
	require.NoError(t, err)

	presenter.EXPECT().MarketSettled(gomock.Any()).Do(func(s *domain.Settlement) {
		assert.Equal(t, event.ID, s.MarketID)
		assert.Equal(t, domain.MarketKindEvent, s.Kind)
	})
	f.rand.push(99)
	_, err = uc.Settle(ctx, event.ID, domain.ChoiceA)
	require.NoError(t, err)
}
