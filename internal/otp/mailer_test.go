package otp

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailerBuildsMessage(t *testing.T) {
	api := &fakeSES{}
	m := &SESMailer{client: api, from: "login@docpin.test"}

	require.NoError(t, m.SendOTP(context.Background(), "ada@example.com", "12345"))
	require.NotNil(t, api.input)
	assert.Equal(t, "login@docpin.test", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"ada@example.com"}, api.input.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(api.input.Content.Simple.Body.Text.Data), "12345")
}

func TestSESMailerWrapsError(t *testing.T) {
	m := &SESMailer{client: &fakeSES{err: errors.New("throttled")}, from: "login@docpin.test"}
	err := m.SendOTP(context.Background(), "ada@example.com", "12345")
	assert.ErrorContains(t, err, "throttled")
}

func TestNewSESMailerRequiresFrom(t *testing.T) {
	_, err := NewSESMailer(context.Background(), "us-east-1", "")
	assert.Error(t, err)
}
