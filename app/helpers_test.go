package app

import (
	"sync"
	"time"

	"levelup/adapters/storage"
	"levelup/domain/classify"
	"levelup/domain/core"
	"levelup/internal/api"
	"levelup/internal/config"
	"levelup/internal/logx"
)

// fakeClock is a settable time source for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Today() core.Date {
	return core.DateOf(c.Now())
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var testStart = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store *storage.MemoryStore
	repo  *StateRepository
	clock *fakeClock
	hub   *api.Hub
	cfg   config.TimerConfig
}

func newFixture() *fixture {
	store := storage.NewMemoryStore()
	return &fixture{
		store: store,
		repo:  NewStateRepository(store),
		clock: newFakeClock(testStart),
		hub:   api.NewHub(logx.NewDefaultLogger()),
		cfg: config.TimerConfig{
			DefaultFocusMinutes:  45,
			DefaultBreakMinutes:  10,
			RewardDivisor:        10,
			PromotionGateMinutes: 480,
		},
	}
}

func (f *fixture) timers() *TimerService {
	return NewTimerService(f.repo, f.clock, f.hub, nil, classify.New(nil), f.cfg, logx.NewDefaultLogger())
}

func (f *fixture) settlement() *SettlementService {
	return NewSettlementService(f.repo, f.clock, f.hub, nil, f.cfg, logx.NewDefaultLogger())
}
