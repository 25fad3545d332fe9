package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioProvider sends SMS through the Twilio Messages API.
type TwilioProvider struct {
	client *twilio.RestClient
}

func NewTwilioProvider(accountSID, authToken string) *TwilioProvider {
	return &TwilioProvider{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

func (p *TwilioProvider) Name() string { return "twilio" }

func (p *TwilioProvider) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	resp, err := p.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("error creating twilio message: %w", err)
	}

	return receiptFromTwilio(resp), nil
}

func receiptFromTwilio(m *twilioApi.ApiV2010Message) *Receipt {
	r := &Receipt{
		SID:                 deref(m.Sid),
		Status:              deref(m.Status),
		AccountSID:          deref(m.AccountSid),
		APIVersion:          deref(m.ApiVersion),
		Direction:           deref(m.Direction),
		NumSegments:         deref(m.NumSegments),
		NumMedia:            deref(m.NumMedia),
		Price:               deref(m.Price),
		PriceUnit:           deref(m.PriceUnit),
		ErrorMessage:        deref(m.ErrorMessage),
		URI:                 deref(m.Uri),
		MessagingServiceSID: deref(m.MessagingServiceSid),
		DateCreated:         parseTwilioTime(deref(m.DateCreated)),
		DateUpdated:         parseTwilioTime(deref(m.DateUpdated)),
	}
	if m.ErrorCode != nil {
		r.ErrorCode = *m.ErrorCode
	}
	if sent := parseTwilioTime(deref(m.DateSent)); !sent.IsZero() {
		r.DateSent = &sent
	}
	return r
}

// Twilio reports dates in RFC 1123 form, e.g. "Sat, 19 Oct 2019 21:59:24 +0000".
func parseTwilioTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC1123Z, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
