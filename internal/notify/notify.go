// Package notify delivers cancellation alerts to the people running the
// tunnel. The engine only decides that a cancellation is notification
// worthy; this package carries it out.
package notify

import (
	"context"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
)

// Notifier delivers one cancellation alert. Implementations must be safe
// for concurrent use; delivery failures are reported, not retried.
type Notifier interface {
	CancellationAlert(ctx context.Context, c *engine.Cancellation) error
}
