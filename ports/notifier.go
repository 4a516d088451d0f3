package ports

import "context"

// Notifier dispatches user-facing notifications. Fire-and-forget: the
// core never consumes a result and delivery failures are swallowed by
// the adapter.
type Notifier interface {
	Notify(ctx context.Context, title, body string)
}
