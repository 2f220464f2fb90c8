package mailer

import (
	"context"

	"github.com/goliatone/go-storefront"
)

// LogSender writes the action link to the logger instead of sending mail.
// Used in development.
type LogSender struct {
	logger storefront.Logger
}

func NewLogSender(logger storefront.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, m storefront.Mail) error {
	s.logger.Info("====== SENDING EMAIL NOTIFICATION =======",
		"to", m.To,
		"subject", m.Subject,
		"link", m.Link,
	)
	return nil
}
