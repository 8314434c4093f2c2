package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"docpin/internal/shared/telemetry"
)

const mailSubject = "Your login code"

// Mailer delivers one-time passcodes.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the log instead of sending them. Dev only.
type LogMailer struct{}

func (LogMailer) SendOTP(_ context.Context, email, code string) error {
	telemetry.Info("otp.mail.logged", map[string]any{
		"email": email,
		"otp":   code,
	})
	return nil
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends codes through Amazon SES.
type SESMailer struct {
	client sesAPI
	from   string
}

// NewSESMailer loads the default AWS configuration for region.
func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("MAIL_FROM is required for SES")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) SendOTP(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Your login code is %s. It expires shortly; do not share it.", code)
	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{email}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(mailSubject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	fields := map[string]any{"email": email}
	if out != nil && out.MessageId != nil {
		fields["message_id"] = *out.MessageId
	}
	telemetry.Info("otp.mail.sent", fields)
	return nil
}
