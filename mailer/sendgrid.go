package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/goliatone/go-storefront"
)

// SendGridConfig holds the configuration for SendGrid
type SendGridConfig struct {
	Key      string
	From     string
	FromName string
}

func (c SendGridConfig) Validate() error {
	if c.Key == "" || c.From == "" {
		return errors.New("invalid SendGrid configuration")
	}
	return nil
}

// SendGridSender implements storefront.Mailer for SendGrid
type SendGridSender struct {
	config   SendGridConfig
	renderer *Renderer
	client   *sendgrid.Client
}

func NewSendGridSender(cfg SendGridConfig, renderer *Renderer) (*SendGridSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SendGridSender{
		config:   cfg,
		renderer: renderer,
		client:   sendgrid.NewSendClient(cfg.Key),
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, m storefront.Mail) error {
	html, text, err := s.renderer.Render(m)
	if err != nil {
		return err
	}

	from := mail.NewEmail(s.config.FromName, s.config.From)
	to := mail.NewEmail(m.RecipientName, m.To)
	message := mail.NewSingleEmail(from, m.Subject, to, text, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if response.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid send failed, status code: %d", response.StatusCode)
	}

	return nil
}
