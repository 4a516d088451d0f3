package ports

import "context"

// Store is the persistent key-value collaborator. Values are JSON
// documents. The contract the rest of the system leans on: a Set
// followed immediately by a Get on the same key returns the
// just-written value, and a single-key write is atomic.
type Store interface {
	// Get returns the raw JSON for a key, or ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key; used by bulk export and clear.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Keys used across the store. Collected here so backup/clear can reason
// about the full set.
const (
	KeyHistory          = "levelup_history"
	KeyTimerSnapshot    = "levelup_timer_state"
	KeyProgression      = "levelup_progression"
	KeyLastSettledDate  = "levelup_last_settled"
	KeyLearningProgress = "levelup_progress"
	KeyChatHistory      = "ai_chat_history"
	KeyChatUnread       = "ai_unread_messages"
	KeyLastReviewDate   = "last_ai_review_date"
	KeySettings         = "levelup_settings"
)
