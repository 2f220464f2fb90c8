package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/goliatone/go-storefront"
)

// MailgunConfig holds the configuration for Mailgun
type MailgunConfig struct {
	Key     string
	Domain  string
	From    string
	APIBase string
}

func (c MailgunConfig) Validate() error {
	if c.Key == "" || c.Domain == "" || c.From == "" {
		return errors.New("invalid Mailgun configuration")
	}
	return nil
}

// MailgunSender implements storefront.Mailer for Mailgun
type MailgunSender struct {
	config   MailgunConfig
	renderer *Renderer
	mg       *mailgun.MailgunImpl
}

func NewMailgunSender(cfg MailgunConfig, renderer *Renderer) (*MailgunSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.Key)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}

	return &MailgunSender{
		config:   cfg,
		renderer: renderer,
		mg:       mg,
	}, nil
}

func (s *MailgunSender) Send(ctx context.Context, m storefront.Mail) error {
	html, text, err := s.renderer.Render(m)
	if err != nil {
		return err
	}

	message := s.mg.NewMessage(s.config.From, m.Subject, text, m.To)
	message.SetHtml(html)

	if _, _, err := s.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	return nil
}
