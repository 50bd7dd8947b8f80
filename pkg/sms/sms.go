package sms

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers reminder texts through Twilio. The account SID and auth
// token come from the TWILIO_* environment variables the REST client reads
// itself.
type Sender struct {
	Client *twilio.RestClient
	From   string `validate:"e164"`
}

// SendSMS sends one message and returns the provider message id. The Twilio
// REST client carries its own HTTP timeout; ctx is accepted for interface
// symmetry with transports that honor it.
func (s *Sender) SendSMS(_ context.Context, number, body string) (string, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo(number)
	params.SetFrom(s.From)
	params.SetBody(body)

	resp, err := s.Client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}

	var sid string
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return sid, nil
}

// MustInitSender returns a Sender or panics if the sender number is invalid.
func MustInitSender(from string) *Sender {
	svc := &Sender{
		Client: twilio.NewRestClient(),
		From:   from,
	}
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(svc)

	if err != nil {

		for _, ve := range err.(validator.ValidationErrors) {
			fmt.Printf("%s validation: %s failed. value='%s', param='%s'\n", ve.Namespace(), ve.Tag(), ve.Value(), ve.Param())
		}
		panic("failed to setup messaging service")
	}

	return svc
}
