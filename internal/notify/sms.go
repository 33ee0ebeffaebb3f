package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"venue-booking/pkg/utils"
)

// messageCreator is the slice of the Twilio API the sender uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender texts customers about decisions on their booking through Twilio.
type SMSSender struct {
	api   messageCreator
	from  string
	venue string
	log   *zap.Logger
}

func NewSMSSender(cfg utils.SMSConfig, venue string, log *zap.Logger) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &SMSSender{
		api:   client.Api,
		from:  cfg.FromNumber,
		venue: venue,
		log:   log.With(zap.String("sender", "sms")),
	}
}

func (s *SMSSender) Channel() string { return "sms" }

func (s *SMSSender) Accepts(msg Message) bool {
	return msg.Phone != "" && msg.Kind.CustomerFacing()
}

func (s *SMSSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := render(s.venue, msg)
	if err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Phone)
	params.SetFrom(s.from)
	params.SetBody(content.SMS)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("create twilio message: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		s.log.Debug("SMS accepted by twilio", zap.String("sid", *resp.Sid))
	}

	return nil
}
