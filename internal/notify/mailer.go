package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
)

const sendTimeout = 10 * time.Second

// MailNotifier emails the host through MailerSend when a cancellation
// lands inside the notification window.
type MailNotifier struct {
	client *mailersend.Mailersend
	from   mailersend.From
	to     string
}

func NewMailNotifier(apiKey, fromName, fromEmail, toEmail string) (*MailNotifier, error) {
	if apiKey == "" || fromEmail == "" || toEmail == "" {
		return nil, fmt.Errorf("mail notifier requires an API key, a from address, and a recipient")
	}
	return &MailNotifier{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
		to:     toEmail,
	}, nil
}

func (n *MailNotifier) CancellationAlert(ctx context.Context, c *engine.Cancellation) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	subject := fmt.Sprintf("Cancellation: %s %s on %s %s",
		c.Booking.FirstName, c.Booking.LastName, c.Session.Date, c.Session.Time)

	var text strings.Builder
	fmt.Fprintf(&text, "%s %s cancelled their spot in the session on %s at %s.\n",
		c.Booking.FirstName, c.Booking.LastName, c.Session.Date, c.Session.Time)
	if c.Session.SessionType != "" {
		fmt.Fprintf(&text, "Session type: %s\n", c.Session.SessionType)
	}
	fmt.Fprintf(&text, "Spots now free: %d of %d\n", c.Session.SpotsLeft(), c.Session.Capacity)
	if c.NextOnWaitlist != nil {
		fmt.Fprintf(&text, "Next on the waitlist: %s %s <%s>\n",
			c.NextOnWaitlist.FirstName, c.NextOnWaitlist.LastName, c.NextOnWaitlist.Email)
	}

	msg := n.client.Email.NewMessage()
	msg.SetFrom(n.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: n.to}})
	msg.SetSubject(subject)
	msg.SetText(text.String())

	res, err := n.client.Email.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send cancellation alert: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cancellation alert rejected: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
