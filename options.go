package storefront

import "time"

// Options is the plain struct implementation of Config. The config
// package fills it from files and environment.
type Options struct {
	SigningKey           string        `mapstructure:"signing_key"`
	RefreshSigningKey    string        `mapstructure:"refresh_signing_key"`
	ActivationSigningKey string        `mapstructure:"activation_signing_key"`
	Issuer               string        `mapstructure:"issuer"`
	Audience             []string      `mapstructure:"audience"`
	AccessTokenTTL       time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL      time.Duration `mapstructure:"refresh_token_ttl"`
	ActivationTokenTTL   time.Duration `mapstructure:"activation_token_ttl"`
	ResetTokenTTL        time.Duration `mapstructure:"reset_token_ttl"`
	ClientURL            string        `mapstructure:"client_url"`
	GoogleClientID       string        `mapstructure:"google_client_id"`
	GoogleLoginSecret    string        `mapstructure:"google_login_secret"`
	ContextKey           string        `mapstructure:"context_key"`
	AuthScheme           string        `mapstructure:"auth_scheme"`
	TokenLookup          string        `mapstructure:"token_lookup"`
}

var _ Config = Options{}

func (o Options) GetSigningKey() string                { return o.SigningKey }
func (o Options) GetRefreshSigningKey() string         { return o.RefreshSigningKey }
func (o Options) GetActivationSigningKey() string      { return o.ActivationSigningKey }
func (o Options) GetIssuer() string                    { return o.Issuer }
func (o Options) GetAudience() []string                { return o.Audience }
func (o Options) GetAccessTokenTTL() time.Duration     { return o.AccessTokenTTL }
func (o Options) GetRefreshTokenTTL() time.Duration    { return o.RefreshTokenTTL }
func (o Options) GetActivationTokenTTL() time.Duration { return o.ActivationTokenTTL }
func (o Options) GetResetTokenTTL() time.Duration      { return o.ResetTokenTTL }
func (o Options) GetClientURL() string                 { return o.ClientURL }
func (o Options) GetGoogleLoginSecret() string         { return o.GoogleLoginSecret }

func (o Options) GetContextKey() string {
	if o.ContextKey == "" {
		return "user"
	}
	return o.ContextKey
}

func (o Options) GetAuthScheme() string {
	if o.AuthScheme == "" {
		return "Bearer"
	}
	return o.AuthScheme
}

func (o Options) GetTokenLookup() string {
	if o.TokenLookup == "" {
		return "header:Authorization"
	}
	return o.TokenLookup
}
