package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"courier/internal/domain/notification"
)

// MockSender is a mock implementation of notification.Sender.
type MockSender struct {
	mock.Mock
	channel notification.Channel
}

// NewMockSender returns a MockSender bound to the given channel.
func NewMockSender(channel notification.Channel) *MockSender {
	return &MockSender{channel: channel}
}

//nolint:revive
func (m *MockSender) Send(ctx context.Context, templateName string, params map[string]string, recipients []string) notification.ChannelResult {
	args := m.Called(ctx, templateName, params, recipients)
	return args.Get(0).(notification.ChannelResult)
}

//nolint:revive
func (m *MockSender) Channel() notification.Channel {
	return m.channel
}
