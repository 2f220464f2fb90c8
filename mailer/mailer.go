// Package mailer delivers the storefront action emails (account
// activation, password reset) through SendGrid, Mailgun or the logger.
package mailer

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-storefront"
)

const (
	ProviderLog      = "log"
	ProviderSendGrid = "sendgrid"
	ProviderMailgun  = "mailgun"
)

// Config selects and configures the provider
type Config struct {
	Provider string
	Async    bool
	SendGrid SendGridConfig
	Mailgun  MailgunConfig
}

// New builds the configured provider, wrapped in Async when requested
func New(cfg Config, logger storefront.Logger) (storefront.Mailer, error) {
	var sender storefront.Mailer

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderLog:
		sender = NewLogSender(logger)
	case ProviderSendGrid:
		renderer, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		if sender, err = NewSendGridSender(cfg.SendGrid, renderer); err != nil {
			return nil, err
		}
	case ProviderMailgun:
		renderer, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		if sender, err = NewMailgunSender(cfg.Mailgun, renderer); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}

	if cfg.Async {
		return NewAsync(sender, logger), nil
	}
	return sender, nil
}
