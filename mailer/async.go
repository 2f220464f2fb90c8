package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-storefront"
)

// DefaultSendTimeout bounds a single background delivery
const DefaultSendTimeout = 30 * time.Second

// Async delivers mail on a goroutine so requests never wait on the
// provider. Delivery errors are logged and never returned.
type Async struct {
	next    storefront.Mailer
	logger  storefront.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next storefront.Mailer, logger storefront.Logger) *Async {
	return &Async{
		next:    next,
		logger:  logger,
		timeout: DefaultSendTimeout,
	}
}

func (a *Async) WithTimeout(timeout time.Duration) *Async {
	if timeout > 0 {
		a.timeout = timeout
	}
	return a
}

func (a *Async) Send(ctx context.Context, m storefront.Mail) error {
	// the request context is cancelled as soon as the handler returns
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		if err := a.next.Send(ctx, m); err != nil {
			a.logger.Error("email delivery failed", "to", m.To, "subject", m.Subject, "error", err)
			return
		}
		a.logger.Debug("email delivered", "to", m.To, "subject", m.Subject)
	}()

	return nil
}

// Wait blocks until every pending delivery finished
func (a *Async) Wait() {
	a.wg.Wait()
}
