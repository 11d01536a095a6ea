// Package scheduler delivers periodic callbacks keyed by name.
package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Ticker runs one goroutine per key. It implements usecase.Scheduler.
type Ticker struct {
	logger zerolog.Logger
	jobs   map[string]*job
	mu     sync.Mutex
}

type job struct {
	stop chan struct{}
	once sync.Once
}

func (j *job) cancel() {
	j.once.Do(func() { close(j.stop) })
}

// New creates an idle Ticker.
func New(logger zerolog.Logger) *Ticker {
	return &Ticker{
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Schedule calls fn every interval until key is cancelled. Scheduling an
// existing key replaces its loop.
func (t *Ticker) Schedule(key string, interval time.Duration, fn func()) {
	j := &job{stop: make(chan struct{})}

	t.mu.Lock()
	if prev, ok := t.jobs[key]; ok {
		prev.cancel()
	}
	t.jobs[key] = j
	t.mu.Unlock()

	go t.run(key, j, interval, fn)
}

func (t *Ticker) run(key string, j *job, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			// a cancel racing the tick wins
			select {
			case <-j.stop:
				return
			default:
			}
			t.call(key, fn)
		}
	}
}

func (t *Ticker) call(key string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Str("key", key).Interface("panic", r).Msg("scheduled callback panicked")
		}
	}()
	fn()
}

// Cancel stops the loop of key. It is safe to call from inside the callback
// and for keys that were never scheduled.
func (t *Ticker) Cancel(key string) {
	t.mu.Lock()
	j, ok := t.jobs[key]
	delete(t.jobs, key)
	t.mu.Unlock()

	if ok {
		j.cancel()
	}
}

// Active reports whether key has a running loop.
func (t *Ticker) Active(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.jobs[key]
	return ok
}

// Stop cancels every loop.
func (t *Ticker) Stop() {
	t.mu.Lock()
	jobs := t.jobs
	t.jobs = make(map[string]*job)
	t.mu.Unlock()

	for _, j := range jobs {
		j.cancel()
	}
}
