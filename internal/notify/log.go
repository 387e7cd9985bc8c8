package notify

import (
	"context"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
)

// LogNotifier writes cancellation alerts to the application log. It is
// the default sink when no mailer or broker is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) CancellationAlert(_ context.Context, c *engine.Cancellation) error {
	args := []any{
		"session_id", c.Session.ID,
		"session_type", c.Session.SessionType,
		"date", c.Session.Date,
		"time", c.Session.Time,
		"first_name", c.Booking.FirstName,
		"last_name", c.Booking.LastName,
		"spots_left", c.Session.SpotsLeft(),
	}
	if c.NextOnWaitlist != nil {
		args = append(args, "next_on_waitlist", c.NextOnWaitlist.Email)
	}
	n.log.Info("Cancellation alert", args...)
	return nil
}
