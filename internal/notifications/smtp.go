package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gomail/gomail"
)

// maxInflightSMTP caps concurrent SMTP sessions, including ones whose caller
// already gave up waiting.
const maxInflightSMTP = 4

type SMTPClient struct {
	from     string
	send     func(m ...*gomail.Message) error
	inflight chan struct{}
}

func NewSMTPClient(host string, port int, username, password string) *SMTPClient {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(username) == "" {
		return nil
	}
	return &SMTPClient{
		from:     username,
		send:     gomail.NewDialer(host, port, username, password).DialAndSend,
		inflight: make(chan struct{}, maxInflightSMTP),
	}
}

func (c *SMTPClient) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	// gomail has no context support; the session runs in its own goroutine and
	// the caller stops waiting once ctx is done. The slot is held until the
	// session really ends.
	select {
	case c.inflight <- struct{}{}:
	case <-ctx.Done():
		return "", fmt.Errorf("smtp send: %w", ctx.Err())
	}
	done := make(chan error, 1)
	go func() {
		defer func() { <-c.inflight }()
		done <- c.send(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp send failed: %w", err)
		}
		return "", nil
	case <-ctx.Done():
		return "", fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
