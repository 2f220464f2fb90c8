package storefront

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultFlowTimeout bounds every flow operation
const DefaultFlowTimeout = 10 * time.Second

// AuthFlow orchestrates registration, activation, login, password
// recovery and account management over the injected store, token
// service, mailer and OAuth verifier.
type AuthFlow struct {
	cfg     Config
	repo    RepositoryManager
	tokens  TokenService
	mailer  Mailer
	oauth   OAuthVerifier
	logger  Logger
	timeout time.Duration
}

// NewAuthFlow returns a flow controller. Mail is logged until a Mailer
// is configured with WithMailer.
func NewAuthFlow(cfg Config, repo RepositoryManager, tokens TokenService) *AuthFlow {
	return &AuthFlow{
		cfg:     cfg,
		repo:    repo,
		tokens:  tokens,
		mailer:  logMailer{logger: defLogger{}},
		logger:  defLogger{},
		timeout: DefaultFlowTimeout,
	}
}

func (f *AuthFlow) WithLogger(logger Logger) *AuthFlow {
	if logger != nil {
		f.logger = logger
		if lm, ok := f.mailer.(logMailer); ok {
			lm.logger = logger
			f.mailer = lm
		}
	}
	return f
}

func (f *AuthFlow) WithMailer(mailer Mailer) *AuthFlow {
	if mailer != nil {
		f.mailer = mailer
	}
	return f
}

// WithOAuthVerifier enables LoginWithGoogle
func (f *AuthFlow) WithOAuthVerifier(verifier OAuthVerifier) *AuthFlow {
	f.oauth = verifier
	return f
}

func (f *AuthFlow) WithTimeout(timeout time.Duration) *AuthFlow {
	if timeout > 0 {
		f.timeout = timeout
	}
	return f
}

func (f *AuthFlow) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return runWithTimeout(ctx, f.timeout, op, fn)
}

// runWithTimeout guards against a cancelled context and bounds fn with timeout
func runWithTimeout(ctx context.Context, timeout time.Duration, op string, fn func(ctx context.Context) error) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			fmt.Sprintf("context cancelled during %s", op),
		)
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return fn(ctx)
}

// sendMail never fails the caller, delivery errors are logged
func (f *AuthFlow) sendMail(ctx context.Context, mail Mail) {
	if err := f.mailer.Send(ctx, mail); err != nil {
		f.logger.Error("failed to send email", "to", mail.To, "subject", mail.Subject, "error", err)
	}
}

func (f *AuthFlow) activationLink(token string) string {
	return fmt.Sprintf("%s/user/active-email/%s", f.cfg.GetClientURL(), token)
}

func (f *AuthFlow) resetLink(token string) string {
	return fmt.Sprintf("%s/user/reset-password/%s", f.cfg.GetClientURL(), token)
}

// findUserByEmail maps store misses to ErrUserNotFound
func (f *AuthFlow) findUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := f.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to retrieve user")
	}
	return user, nil
}

// findUserByID maps store misses to ErrUserNotFound
func (f *AuthFlow) findUserByID(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}
	user, err := f.repo.Users().GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to retrieve user")
	}
	return user, nil
}

// emailTaken reports whether an account already uses email
func (f *AuthFlow) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := f.repo.Users().GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, internalError(err, "failed to check email availability")
}

func tokenInvalid(err error) error {
	return goerrors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
		WithTextCode(ErrTokenInvalid.TextCode).
		WithCode(ErrTokenInvalid.Code)
}

type logMailer struct {
	logger Logger
}

func (m logMailer) Send(_ context.Context, mail Mail) error {
	m.logger.Info("email notification", "to", mail.To, "subject", mail.Subject, "link", mail.Link)
	return nil
}
