package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func TestNotifier_EmailGoesToMailer(t *testing.T) {
	mailer, sms := &mockMailer{}, &mockSMS{}
	mailer.On("SendEmail", "a@x.com", otpSubject, mock.MatchedBy(func(b string) bool {
		return strings.Contains(b, "123456") && strings.Contains(b, "5 minutes")
	})).Return(nil)

	err := NewNotifier(mailer, sms, 0).SendOTP(ctx, domain.EmailIdentifier("a@x.com"), "123456")

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifier_PhoneGoesToSMS(t *testing.T) {
	mailer, sms := &mockMailer{}, &mockSMS{}
	sms.On("SendSMS", mock.Anything, "+15550100", mock.AnythingOfType("string")).Return(nil)

	err := NewNotifier(mailer, sms, time.Minute).SendOTP(ctx, domain.PhoneIdentifier("+15550100"), "123456")

	assert.NoError(t, err)
	sms.AssertExpectations(t)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifier_RoutesByKindNotByShape(t *testing.T) {
	mailer, sms := &mockMailer{}, &mockSMS{}
	sms.On("SendSMS", mock.Anything, "ann@x.com", mock.Anything).Return(nil)

	err := NewNotifier(mailer, sms, 0).SendOTP(ctx, domain.PhoneIdentifier("ann@x.com"), "123456")

	assert.NoError(t, err)
	sms.AssertExpectations(t)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifier_QuotesConfiguredExpiry(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendEmail", "a@x.com", otpSubject, mock.MatchedBy(func(b string) bool {
		return strings.Contains(b, "It expires in 15 minutes.")
	})).Return(nil)

	err := NewNotifier(mailer, nil, 15*time.Minute).SendOTP(ctx, domain.EmailIdentifier("a@x.com"), "123456")

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestDescribeExpiry(t *testing.T) {
	assert.Equal(t, "1 minute", describeExpiry(time.Minute))
	assert.Equal(t, "10 minutes", describeExpiry(10*time.Minute))
	assert.Equal(t, "1m30s", describeExpiry(90*time.Second))
}

func TestNotifier_MissingChannelIsSkipped(t *testing.T) {
	assert.NoError(t, NewNotifier(nil, nil, 0).SendOTP(ctx, domain.PhoneIdentifier("+15550100"), "123456"))
	assert.NoError(t, NewNotifier(nil, nil, 0).SendOTP(ctx, domain.EmailIdentifier("a@x.com"), "123456"))
}

func TestNotifier_UnknownKind(t *testing.T) {
	err := NewNotifier(&mockMailer{}, &mockSMS{}, 0).SendOTP(ctx, domain.Identifier{Value: "a@x.com"}, "123456")

	assert.Error(t, err)
}

func TestNotifier_ChannelErrorPropagates(t *testing.T) {
	sms := &mockSMS{}
	sms.On("SendSMS", mock.Anything, "+15550100", mock.Anything).Return(errors.New("throttled"))

	err := NewNotifier(nil, sms, 0).SendOTP(ctx, domain.PhoneIdentifier("+15550100"), "123456")

	assert.ErrorContains(t, err, "throttled")
}
