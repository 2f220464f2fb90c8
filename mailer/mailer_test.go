package mailer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/mailer"
)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Info(format string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, format)
}
func (l *recordingLogger) Error(format string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, format)
}

type stubMailer struct {
	mu    sync.Mutex
	sent  []storefront.Mail
	err   error
	ctxOK []bool
}

func (s *stubMailer) Send(ctx context.Context, m storefront.Mail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	s.ctxOK = append(s.ctxOK, ctx.Err() == nil)
	return s.err
}

func actionMail() storefront.Mail {
	return storefront.Mail{
		To:            "jane@example.com",
		RecipientName: "Jane",
		Subject:       "Verify your email address",
		Link:          "http://localhost:3000/user/active-email/abc",
		CallToAction:  "Click to active your email",
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := mailer.NewRenderer()
	require.NoError(t, err)

	html, text, err := r.Render(actionMail())
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Jane,")
	assert.Contains(t, html, `href="http://localhost:3000/user/active-email/abc"`)
	assert.Contains(t, html, "Click to active your email")
	assert.Contains(t, html, "Verify your email address")

	assert.Contains(t, text, "Hi Jane,")
	assert.Contains(t, text, "http://localhost:3000/user/active-email/abc")
}

func TestAsync_DeliversWithDetachedContext(t *testing.T) {
	next := &stubMailer{}
	logger := &recordingLogger{}
	async := mailer.NewAsync(next, logger)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, async.Send(ctx, actionMail()))
	cancel()
	async.Wait()

	require.Len(t, next.sent, 1)
	assert.Equal(t, "jane@example.com", next.sent[0].To)
	assert.True(t, next.ctxOK[0])
}

func TestAsync_SwallowsDeliveryErrors(t *testing.T) {
	next := &stubMailer{err: errors.New("provider down")}
	logger := &recordingLogger{}
	async := mailer.NewAsync(next, logger).WithTimeout(time.Second)

	err := async.Send(context.Background(), actionMail())
	async.Wait()

	assert.NoError(t, err)
	assert.Equal(t, []string{"email delivery failed"}, logger.errors)
}

func TestLogSender(t *testing.T) {
	logger := &recordingLogger{}
	sender := mailer.NewLogSender(logger)

	require.NoError(t, sender.Send(context.Background(), actionMail()))
	assert.Len(t, logger.infos, 1)
}

func TestNew(t *testing.T) {
	logger := &recordingLogger{}

	t.Run("defaults to log", func(t *testing.T) {
		m, err := mailer.New(mailer.Config{}, logger)
		require.NoError(t, err)
		assert.IsType(t, &mailer.LogSender{}, m)
	})

	t.Run("async wrapper", func(t *testing.T) {
		m, err := mailer.New(mailer.Config{Provider: "log", Async: true}, logger)
		require.NoError(t, err)
		assert.IsType(t, &mailer.Async{}, m)
	})

	t.Run("sendgrid", func(t *testing.T) {
		m, err := mailer.New(mailer.Config{
			Provider: "sendgrid",
			SendGrid: mailer.SendGridConfig{Key: "SG.key", From: "shop@example.com"},
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &mailer.SendGridSender{}, m)
	})

	t.Run("mailgun requires domain", func(t *testing.T) {
		_, err := mailer.New(mailer.Config{
			Provider: "mailgun",
			Mailgun:  mailer.MailgunConfig{Key: "key", From: "shop@example.com"},
		}, logger)
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := mailer.New(mailer.Config{Provider: "pigeon"}, logger)
		assert.Error(t, err)
	})
}
