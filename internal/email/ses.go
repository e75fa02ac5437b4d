package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/utils"
)

const charset = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender delivers messages through Amazon SES.
type SESSender struct {
	client sesAPI
	logger *zap.Logger
}

var _ Sender = (*SESSender)(nil)

// NewSESSender loads the default AWS credential chain for region.
func NewSESSender(ctx context.Context, region string, logger *zap.Logger) (*SESSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newSESSender(ses.NewFromConfig(cfg), region, logger), nil
}

func newSESSender(client sesAPI, region string, logger *zap.Logger) *SESSender {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SESSender{
		client: client,
		logger: logger.With(zap.String("transport", "ses"), zap.String("aws_region", region)),
	}
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	subject := utils.SingleLine(msg.Subject)
	log := s.logger.With(zap.String("to", msg.To), zap.String("subject", subject))

	if err := msg.validate(); err != nil {
		log.Error("sending email failed", zap.Error(err))
		return err
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		err = fmt.Errorf("ses send email: %w", err)
		log.Error("sending email failed", zap.Error(err))
		return err
	}

	var messageID string
	if out != nil {
		messageID = aws.ToString(out.MessageId)
	}
	log.Info("email sent", zap.String("message_id", messageID))
	return nil
}
