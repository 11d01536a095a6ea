package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerDeliversUntilCancelled(t *testing.T) {
	s := New(zerolog.Nop())

	var calls atomic.Int32
	s.Schedule("game", 5*time.Millisecond, func() { calls.Add(1) })
	require.True(t, s.Active("game"))

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	s.Cancel("game")
	assert.False(t, s.Active("game"))

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), after+1)
}

func TestTickerCancelFromCallback(t *testing.T) {
	s := New(zerolog.Nop())

	var calls atomic.Int32
	s.Schedule("game", 2*time.Millisecond, func() {
		if calls.Add(1) == 2 {
			s.Cancel("game")
		}
	})

	require.Eventually(t, func() bool { return !s.Active("game") }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTickerRescheduleReplacesLoop(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("game", 2*time.Millisecond, func() { first.Add(1) })
	s.Schedule("game", 2*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() >= 3 }, time.Second, time.Millisecond)
	assert.LessOrEqual(t, first.Load(), int32(1))
}

func TestTickerSurvivesPanics(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	var calls atomic.Int32
	s.Schedule("game", 2*time.Millisecond, func() {
		calls.Add(1)
		panic("boom")
	})

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestTickerCancelUnknownKey(t *testing.T) {
	s := New(zerolog.Nop())
	s.Cancel("missing")
	s.Stop()
	assert.False(t, s.Active("missing"))
}
