package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

var ErrMissingRecipient = errors.New("missing recipient email")

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrMissingRecipient
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("missing subject")
	}
	if strings.TrimSpace(m.HTML) == "" {
		return errors.New("missing html body")
	}
	return nil
}

// Mailer delivers one message and returns the provider message id when there is one.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// LogMailer stands in when no transport is configured so local setups still
// see setup links in the logs.
type LogMailer struct {
	Log *slog.Logger
}

func (l LogMailer) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	l.Log.Info("mail: transport disabled, message logged",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("html", msg.HTML),
	)
	return "", nil
}
