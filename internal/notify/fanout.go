package notify

import (
	"context"
	"errors"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
)

// Fanout delivers one alert through every configured notifier. All sinks
// are attempted; errors are joined.
type Fanout struct {
	notifiers []Notifier
}

func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

func (f *Fanout) CancellationAlert(ctx context.Context, c *engine.Cancellation) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.CancellationAlert(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
