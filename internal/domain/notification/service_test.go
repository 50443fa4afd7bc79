package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courier/internal/domain/notification"
	"courier/internal/domain/notification/mocks"
	"courier/internal/infra/template"
)

// --- helpers ---

type countingRecorder struct {
	channels   map[notification.Channel][]bool
	dispatches []bool
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{channels: map[notification.Channel][]bool{}}
}

func (r *countingRecorder) ObserveChannel(c notification.Channel, success bool) {
	r.channels[c] = append(r.channels[c], success)
}

func (r *countingRecorder) ObserveDispatch(success bool, _ time.Duration) {
	r.dispatches = append(r.dispatches, success)
}

type fixture struct {
	dispatcher *notification.Dispatcher
	email      *mocks.MockSender
	sms        *mocks.MockSender
	recorder   *countingRecorder
}

func newFixture(t *testing.T, settings notification.Settings) *fixture {
	t.Helper()
	f := &fixture{
		email:    mocks.NewMockSender(notification.ChannelEmail),
		sms:      mocks.NewMockSender(notification.ChannelSMS),
		recorder: newCountingRecorder(),
	}
	f.dispatcher = notification.NewDispatcher(settings, template.Default(),
		notification.WithSenders(f.email, f.sms),
		notification.WithRecorder(f.recorder),
	)
	t.Cleanup(func() {
		f.email.AssertExpectations(t)
		f.sms.AssertExpectations(t)
	})
	return f
}

func bothEnabled() notification.Settings {
	return notification.Settings{EmailEnabled: true, SMSEnabled: true}
}

func typ(t notification.ChannelType) *notification.ChannelType { return &t }

func ok(id string) notification.ChannelResult {
	return notification.ChannelResult{Success: true, Message: "sent", MessageID: id}
}

func (f *fixture) assertNoSends(t *testing.T) {
	t.Helper()
	f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- SendNotification ---

func TestSendNotification_UnknownTemplate(t *testing.T) {
	f := newFixture(t, bothEnabled())

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName:   "unknown-x",
		ToEmails:       []string{"a@x.com"},
		ToPhoneNumbers: []string{"+15550100"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"Template 'unknown-x' not found"}, resp.Errors)
	assert.Equal(t, "Failed to send notification", resp.Message)
	f.assertNoSends(t)
	assert.Equal(t, []bool{false}, f.recorder.dispatches)
}

func TestSendNotification_EmailOnlySuccess(t *testing.T) {
	f := newFixture(t, notification.Settings{EmailEnabled: true})
	params := map[string]string{"Name": "Ann"}
	f.email.On("Send", mock.Anything, "welcome", params, []string{"a@x.com"}).Return(ok("<id-1@courier>")).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "welcome",
		Parameters:   params,
		ToEmails:     []string{"a@x.com"},
		ChannelType:  typ(notification.TypeEmail),
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "Notification sent successfully", resp.Message)
	assert.Equal(t, "<id-1@courier>", resp.EmailMessageID)
	assert.Empty(t, resp.SMSMessageID)
	assert.NotNil(t, resp.Errors)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, []bool{true}, f.recorder.channels[notification.ChannelEmail])
}

func TestSendNotification_TemplateNameIsCaseInsensitive(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.sms.On("Send", mock.Anything, "WELCOME", mock.Anything, []string{"+15550100"}).Return(ok("SM1")).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName:   "WELCOME",
		ToPhoneNumbers: []string{"+15550100"},
	})

	require.True(t, resp.Success)
	assert.Equal(t, "SM1", resp.SMSMessageID)
}

func TestSendNotification_NoRecipients(t *testing.T) {
	f := newFixture(t, bothEnabled())

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "welcome",
		ChannelType:  typ(notification.TypeBoth),
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"No valid notification type or recipients specified"}, resp.Errors)
	f.assertNoSends(t)
}

func TestSendNotification_BothChannelsDisabled(t *testing.T) {
	f := newFixture(t, notification.Settings{})

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName:   "welcome",
		ToEmails:       []string{"a@x.com"},
		ToPhoneNumbers: []string{"+15550100"},
		ChannelType:    typ(notification.TypeBoth),
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"No valid notification type or recipients specified"}, resp.Errors)
	f.assertNoSends(t)
}

func TestSendNotification_EligibilityIsPerChannel(t *testing.T) {
	tests := []struct {
		name      string
		settings  notification.Settings
		req       notification.Request
		wantEmail bool
		wantSMS   bool
	}{
		{
			name:     "email type ignores phone numbers",
			settings: bothEnabled(),
			req: notification.Request{
				ToPhoneNumbers: []string{"+15550100"},
				ChannelType:    typ(notification.TypeEmail),
			},
		},
		{
			name:     "both type with empty emails sends sms only",
			settings: bothEnabled(),
			req: notification.Request{
				ToPhoneNumbers: []string{"+15550100"},
				ChannelType:    typ(notification.TypeBoth),
			},
			wantSMS: true,
		},
		{
			name:     "email disabled skips email even when requested",
			settings: notification.Settings{SMSEnabled: true},
			req: notification.Request{
				ToEmails:       []string{"a@x.com"},
				ToPhoneNumbers: []string{"+15550100"},
				ChannelType:    typ(notification.TypeBoth),
			},
			wantSMS: true,
		},
		{
			name:     "sms type ignores emails",
			settings: bothEnabled(),
			req: notification.Request{
				ToEmails:    []string{"a@x.com"},
				ChannelType: typ(notification.TypeSMS),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.settings)
			if tt.wantEmail {
				f.email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ok("e1")).Once()
			}
			if tt.wantSMS {
				f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ok("s1")).Once()
			}

			req := tt.req
			req.TemplateName = "welcome"
			resp := f.dispatcher.SendNotification(context.Background(), &req)

			if !tt.wantEmail && !tt.wantSMS {
				assert.Equal(t, []string{"No valid notification type or recipients specified"}, resp.Errors)
				f.assertNoSends(t)
				return
			}
			assert.True(t, resp.Success)
			if !tt.wantEmail {
				f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSendNotification_EmailPanicsSMSSucceeds(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic(errors.New("smtp connection refused")) }).
		Return(notification.ChannelResult{}).Once()
	f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ok("SM42")).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName:   "welcome",
		ToEmails:       []string{"a@x.com"},
		ToPhoneNumbers: []string{"+15550100"},
		ChannelType:    typ(notification.TypeBoth),
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"Email sending failed: smtp connection refused"}, resp.Errors)
	assert.Equal(t, "SM42", resp.SMSMessageID)
	assert.Empty(t, resp.EmailMessageID)
	assert.Equal(t, []bool{false}, f.recorder.channels[notification.ChannelEmail])
	assert.Equal(t, []bool{true}, f.recorder.channels[notification.ChannelSMS])
}

func TestSendNotification_CollectsErrorsFromBothChannelsInOrder(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notification.Failed("", "Failed to send email: auth failed")).Once()
	f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notification.Failed("", "Failed to send SMS to +1: bad number", "Failed to send SMS to +2: bad number")).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName:   "order-confirmation",
		ToEmails:       []string{"a@x.com"},
		ToPhoneNumbers: []string{"+1", "+2"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{
		"Failed to send email: auth failed",
		"Failed to send SMS to +1: bad number",
		"Failed to send SMS to +2: bad number",
	}, resp.Errors)
	assert.Empty(t, resp.EmailMessageID)
	assert.Empty(t, resp.SMSMessageID)
}

func TestSendNotification_ExistenceCheckSpansBothNamespaces(t *testing.T) {
	// "verification" only exists as an SMS template; an email-only request passes
	// the existence check and the failure comes from the email sender.
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, "verification", mock.Anything, mock.Anything).
		Return(notification.Failed("", "Failed to send email: Email template 'verification' not found")).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "verification",
		ToEmails:     []string{"a@x.com"},
		ChannelType:  typ(notification.TypeEmail),
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"Failed to send email: Email template 'verification' not found"}, resp.Errors)
}

func TestSendNotification_FailureWithoutErrorsIsReported(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notification.ChannelResult{Message: "nothing delivered"}).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "welcome",
		ToEmails:     []string{"a@x.com"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"Email sending failed: nothing delivered"}, resp.Errors)
}

func TestSendNotification_SuccessWithoutMessageIDIsFailure(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notification.ChannelResult{Success: true}).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "welcome",
		ToEmails:     []string{"a@x.com"},
	})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "Failed to send notification", resp.Message)
}

func TestSendNotification_MissingSender(t *testing.T) {
	d := notification.NewDispatcher(notification.Settings{EmailEnabled: true}, template.Default())

	resp := d.SendNotification(context.Background(), &notification.Request{
		TemplateName: "welcome",
		ToEmails:     []string{"a@x.com"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"Email sending failed: no sender configured"}, resp.Errors)
}

// --- single-channel entry points ---

func TestSendEmail_Disabled(t *testing.T) {
	f := newFixture(t, notification.Settings{SMSEnabled: true})

	resp := f.dispatcher.SendEmail(context.Background(), "welcome", nil, []string{"a@x.com"})

	assert.False(t, resp.Success)
	assert.Equal(t, "Email notifications are disabled", resp.Message)
	assert.Equal(t, []string{"Email notifications are disabled in configuration"}, resp.Errors)
	f.assertNoSends(t)
}

func TestSendSMS_Disabled(t *testing.T) {
	f := newFixture(t, notification.Settings{EmailEnabled: true})

	resp := f.dispatcher.SendSMS(context.Background(), "welcome", nil, []string{"+15550100"})

	assert.False(t, resp.Success)
	assert.Equal(t, "SMS notifications are disabled", resp.Message)
	assert.Equal(t, []string{"SMS notifications are disabled in configuration"}, resp.Errors)
	f.assertNoSends(t)
}

func TestSendEmail_SkipsTemplateExistenceCheck(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, "unknown-x", mock.Anything, []string{"a@x.com"}).
		Return(notification.Failed("", "Failed to send email: Email template 'unknown-x' not found")).Once()

	resp := f.dispatcher.SendEmail(context.Background(), "unknown-x", nil, []string{"a@x.com"})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"Failed to send email: Email template 'unknown-x' not found"}, resp.Errors)
}

func TestSendEmail_Success(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.email.On("Send", mock.Anything, "welcome", mock.Anything, []string{"a@x.com"}).
		Return(notification.ChannelResult{Success: true, Message: "Email sent successfully", MessageID: "<m1>"}).Once()

	resp := f.dispatcher.SendEmail(context.Background(), "welcome", map[string]string{"Name": "Ann"}, []string{"a@x.com"})

	assert.True(t, resp.Success)
	assert.Equal(t, "Email sent successfully", resp.Message)
	assert.Equal(t, "<m1>", resp.EmailMessageID)
	assert.Empty(t, resp.SMSMessageID)
}

func TestSendSMS_PartialSuccessKeepsErrors(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.sms.On("Send", mock.Anything, "verification", mock.Anything, []string{"+1", "+2"}).
		Return(notification.ChannelResult{
			Success:   true,
			Message:   "SMS sent successfully to 1 recipients",
			MessageID: "SM1",
			Errors:    []string{"Failed to send SMS to +2: invalid number"},
		}).Once()

	resp := f.dispatcher.SendSMS(context.Background(), "verification", nil, []string{"+1", "+2"})

	assert.True(t, resp.Success)
	assert.Equal(t, "SM1", resp.SMSMessageID)
	assert.Equal(t, []string{"Failed to send SMS to +2: invalid number"}, resp.Errors)
}

func TestSendNotification_PartialSMSSuccessDropsRecipientErrors(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.sms.On("Send", mock.Anything, "verification", mock.Anything, []string{"+1", "+2"}).
		Return(notification.ChannelResult{
			Success:   true,
			Message:   "SMS sent successfully to 1 recipients",
			MessageID: "SM1",
			Errors:    []string{"Failed to send SMS to +2: invalid number"},
		}).Once()

	resp := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName:   "verification",
		ToPhoneNumbers: []string{"+1", "+2"},
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "Notification sent successfully", resp.Message)
	assert.Equal(t, "SM1", resp.SMSMessageID)
	assert.NotNil(t, resp.Errors)
	assert.Empty(t, resp.Errors)
}

func TestSendNotification_EarlyExitsCarryFailureMessage(t *testing.T) {
	f := newFixture(t, bothEnabled())

	notFound := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "unknown-x",
		ToEmails:     []string{"a@x.com"},
	})
	noRecipients := f.dispatcher.SendNotification(context.Background(), &notification.Request{
		TemplateName: "welcome",
	})

	assert.Equal(t, "Failed to send notification", notFound.Message)
	assert.Equal(t, []string{"Template 'unknown-x' not found"}, notFound.Errors)
	assert.Equal(t, "Failed to send notification", noRecipients.Message)
	assert.Equal(t, []string{"No valid notification type or recipients specified"}, noRecipients.Errors)
}

func TestSendSMS_PanicIsConverted(t *testing.T) {
	f := newFixture(t, bothEnabled())
	f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("twilio client not initialised") }).
		Return(notification.ChannelResult{}).Once()

	resp := f.dispatcher.SendSMS(context.Background(), "welcome", nil, []string{"+1"})

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"SMS sending failed: twilio client not initialised"}, resp.Errors)
}
