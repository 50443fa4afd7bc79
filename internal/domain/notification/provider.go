package notification

import (
	"context"
	"time"
)

// Sender delivers a templated notification over one channel.
// Implementations live in infra/ (SMTP for email, Twilio for SMS).
// Send never returns transport failures as Go errors: they are reported in ChannelResult.Errors.
type Sender interface {
	Send(ctx context.Context, templateName string, params map[string]string, recipients []string) ChannelResult

	// Channel returns which delivery channel this sender handles.
	Channel() Channel
}

// TemplateSource resolves raw template bodies. Implementations live in infra/template/.
type TemplateSource interface {
	// Lookup returns the raw body for name in the channel's namespace, or a *common.NotFoundError.
	Lookup(channel Channel, name string) (string, error)

	// Exists reports whether name is present in any channel namespace.
	Exists(name string) bool

	// Names lists the template names registered for a channel.
	Names(channel Channel) []string
}

// Renderer substitutes parameters into a raw template body.
type Renderer interface {
	Render(template string, params map[string]string) string
}

// Recorder receives dispatch outcomes for metrics. Implementations live in internal/metrics.
type Recorder interface {
	ObserveChannel(channel Channel, success bool)
	ObserveDispatch(success bool, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveChannel(Channel, bool)         {}
func (nopRecorder) ObserveDispatch(bool, time.Duration) {}
