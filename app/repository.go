package app

import (
	"context"
	"encoding/json"
	"sync"

	"levelup/domain/core"
	"levelup/domain/ledger"
	"levelup/domain/progression"
	"levelup/domain/timer"
	"levelup/internal/errors"
	"levelup/models"
	"levelup/ports"
)

// StateRepository is the typed access layer over the key-value store.
// Every durable document the services touch loads and saves through
// here, so the JSON shapes live in exactly one place.
//
// A failed store write does not lose the document: the value is kept in
// an in-memory overlay that later reads see, so the process stays
// consistent with itself even when persistence is degraded. The overlay
// entry is dropped once a subsequent write of the same key succeeds.
type StateRepository struct {
	store ports.Store

	// cycleMu serializes whole load-modify-save cycles across services.
	cycleMu sync.Mutex

	overlayMu sync.Mutex
	overlay   map[string][]byte
}

// NewStateRepository creates a repository over a store.
func NewStateRepository(store ports.Store) *StateRepository {
	return &StateRepository{
		store:   store,
		overlay: make(map[string][]byte),
	}
}

// Lock serializes a load-modify-save cycle. Every service mutation
// takes this lock so concurrent commits, settlement and imports never
// interleave their reads and writes.
func (r *StateRepository) Lock() { r.cycleMu.Lock() }

// Unlock releases the repository lock.
func (r *StateRepository) Unlock() { r.cycleMu.Unlock() }

func (r *StateRepository) load(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, ok := r.overlayGet(key)
	if !ok {
		var err error
		raw, ok, err = r.store.Get(ctx, key)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "corrupt document under %q", key)
	}
	return true, nil
}

func (r *StateRepository) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal document for %q", key)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		r.overlaySet(key, raw)
		return err
	}
	r.overlayDrop(key)
	return nil
}

func (r *StateRepository) overlayGet(key string) ([]byte, bool) {
	r.overlayMu.Lock()
	defer r.overlayMu.Unlock()
	raw, ok := r.overlay[key]
	return raw, ok
}

func (r *StateRepository) overlaySet(key string, raw []byte) {
	r.overlayMu.Lock()
	defer r.overlayMu.Unlock()
	r.overlay[key] = raw
}

func (r *StateRepository) overlayDrop(key string) {
	r.overlayMu.Lock()
	defer r.overlayMu.Unlock()
	delete(r.overlay, key)
}

// History loads the full ledger history, most recent day first. A
// missing document is an empty history, not an error.
func (r *StateRepository) History(ctx context.Context) (ledger.History, error) {
	var h ledger.History
	if _, err := r.load(ctx, ports.KeyHistory, &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = ledger.History{}
	}
	return h, nil
}

// SaveHistory persists the ledger history.
func (r *StateRepository) SaveHistory(ctx context.Context, h ledger.History) error {
	return r.save(ctx, ports.KeyHistory, h)
}

// Progression loads the running progression counters.
func (r *StateRepository) Progression(ctx context.Context) (*progression.State, error) {
	state := progression.NewState()
	if _, err := r.load(ctx, ports.KeyProgression, state); err != nil {
		return nil, err
	}
	if state.HeroPower == nil {
		state.HeroPower = make(map[string]int)
	}
	return state, nil
}

// SaveProgression persists the progression counters.
func (r *StateRepository) SaveProgression(ctx context.Context, s *progression.State) error {
	return r.save(ctx, ports.KeyProgression, s)
}

// TimerSnapshot loads the persisted session recovery image.
func (r *StateRepository) TimerSnapshot(ctx context.Context) (timer.Snapshot, bool, error) {
	var snap timer.Snapshot
	ok, err := r.load(ctx, ports.KeyTimerSnapshot, &snap)
	return snap, ok, err
}

// SaveTimerSnapshot persists the session recovery image.
func (r *StateRepository) SaveTimerSnapshot(ctx context.Context, snap timer.Snapshot) error {
	return r.save(ctx, ports.KeyTimerSnapshot, snap)
}

// ClearTimerSnapshot drops the recovery image after completion.
func (r *StateRepository) ClearTimerSnapshot(ctx context.Context) error {
	return r.store.Delete(ctx, ports.KeyTimerSnapshot)
}

// LastSettledDate reads the settlement idempotency marker.
func (r *StateRepository) LastSettledDate(ctx context.Context) (core.Date, error) {
	var d core.Date
	if _, err := r.load(ctx, ports.KeyLastSettledDate, &d); err != nil {
		return "", err
	}
	return d, nil
}

// SaveLastSettledDate writes the settlement idempotency marker.
func (r *StateRepository) SaveLastSettledDate(ctx context.Context, d core.Date) error {
	return r.save(ctx, ports.KeyLastSettledDate, d)
}

// LastReviewDate reads the daily AI review marker.
func (r *StateRepository) LastReviewDate(ctx context.Context) (core.Date, error) {
	var d core.Date
	if _, err := r.load(ctx, ports.KeyLastReviewDate, &d); err != nil {
		return "", err
	}
	return d, nil
}

// SaveLastReviewDate writes the daily AI review marker.
func (r *StateRepository) SaveLastReviewDate(ctx context.Context, d core.Date) error {
	return r.save(ctx, ports.KeyLastReviewDate, d)
}

// LearningProgress loads the per-subject progress board.
func (r *StateRepository) LearningProgress(ctx context.Context) (map[string]models.SubjectProgress, error) {
	board := map[string]models.SubjectProgress{}
	if _, err := r.load(ctx, ports.KeyLearningProgress, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// SaveLearningProgress persists the per-subject progress board.
func (r *StateRepository) SaveLearningProgress(ctx context.Context, board map[string]models.SubjectProgress) error {
	return r.save(ctx, ports.KeyLearningProgress, board)
}

// ChatHistory loads the persisted chat transcript.
func (r *StateRepository) ChatHistory(ctx context.Context) ([]models.ChatEntry, error) {
	var msgs []models.ChatEntry
	if _, err := r.load(ctx, ports.KeyChatHistory, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveChatHistory persists the chat transcript.
func (r *StateRepository) SaveChatHistory(ctx context.Context, msgs []models.ChatEntry) error {
	return r.save(ctx, ports.KeyChatHistory, msgs)
}

// UnreadCount loads the unread coach-message counter.
func (r *StateRepository) UnreadCount(ctx context.Context) (int, error) {
	var n int
	if _, err := r.load(ctx, ports.KeyChatUnread, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// SaveUnreadCount persists the unread coach-message counter.
func (r *StateRepository) SaveUnreadCount(ctx context.Context, n int) error {
	return r.save(ctx, ports.KeyChatUnread, n)
}

// Settings loads the mutable user settings document.
func (r *StateRepository) Settings(ctx context.Context) (models.Settings, bool, error) {
	var s models.Settings
	ok, err := r.load(ctx, ports.KeySettings, &s)
	return s, ok, err
}

// SaveSettings persists the user settings document.
func (r *StateRepository) SaveSettings(ctx context.Context, s models.Settings) error {
	return r.save(ctx, ports.KeySettings, s)
}

// ClearAll wipes every stored document. Only the explicit bulk-clear
// operation reaches this.
func (r *StateRepository) ClearAll(ctx context.Context) error {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := r.store.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
