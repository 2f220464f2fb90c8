package storefront

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes that end up in issued tokens
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// Config holds storefront options
type Config interface {
	GetSigningKey() string
	GetRefreshSigningKey() string
	GetActivationSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetActivationTokenTTL() time.Duration
	GetResetTokenTTL() time.Duration
	GetClientURL() string
	GetGoogleLoginSecret() string
	GetContextKey() string
	GetAuthScheme() string
	GetTokenLookup() string
}

// Mail is a single action email: a greeting, a call to action and a link.
type Mail struct {
	To            string
	RecipientName string
	Subject       string
	Link          string
	CallToAction  string
}

// Mailer delivers action emails. Implementations live in the mailer package.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// OAuthClaims is the verified identity returned by an OAuthVerifier
type OAuthClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// OAuthVerifier validates a provider ID token and returns its identity claims
type OAuthVerifier interface {
	Verify(ctx context.Context, idToken string) (*OAuthClaims, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] STOREFRONT " + line(format, args...))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Print("[WRN] STOREFRONT " + line(format, args...))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] STOREFRONT " + line(format, args...))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] STOREFRONT " + line(format, args...))
}

// line renders a message followed by key/value pairs
func line(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(msg, "\n"))
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	b.WriteString("\n")
	return b.String()
}
