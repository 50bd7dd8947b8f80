package email

import (
	"context"
	"errors"

	"github.com/mailgun/mailgun-go/v4"
)

var (
	ErrEmptyEmail = errors.New("empty email not allowed")
)

const defaultSubject = "Reminder"

type SenderOpts struct {
	Domain string `json:"domain"`
	ApiKey string `json:"apiKey"`
	From   string `json:"from"`
}

// Sender delivers reminder emails through Mailgun.
type Sender struct {
	client mailgun.MailgunImpl
	from   string
}

func NewSender(ops *SenderOpts) *Sender {
	return &Sender{
		client: *mailgun.NewMailgun(ops.Domain, ops.ApiKey),
		from:   ops.From,
	}
}

// SendEmail sends one plain-text message and returns the provider message id.
func (s *Sender) SendEmail(ctx context.Context, address, body string) (string, error) {
	if address == "" || body == "" {
		return "", ErrEmptyEmail
	}

	m := s.client.NewMessage(s.from, defaultSubject, body, address)

	_, id, err := s.client.Send(ctx, m)
	if err != nil {
		return "", err
	}
	return id, nil
}
