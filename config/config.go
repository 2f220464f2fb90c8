// Package config loads storefront settings from an optional config file,
// a .env file and STOREFRONT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/logging"
	"github.com/goliatone/go-storefront/mailer"
)

const EnvPrefix = "STOREFRONT"

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Debug    bool
	Server   Server
	Database Database
	Mongo    Mongo
	Email    Email
	Google   Google
	Log      logging.Config
	Auth     storefront.Options
}

type Server struct {
	Host            string
	Port            int
	Prefix          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Database struct {
	Driver  string
	DSN     string
	Migrate bool
}

type Mongo struct {
	URI  string
	Name string
}

type Email struct {
	Provider       string
	Async          bool
	From           string
	FromName       string
	SendGridKey    string
	MailgunKey     string
	MailgunDomain  string
	MailgunAPIBase string
}

// Mailer converts the email settings into a mailer.Config
func (e Email) Mailer() mailer.Config {
	return mailer.Config{
		Provider: e.Provider,
		Async:    e.Async,
		SendGrid: mailer.SendGridConfig{
			Key:      e.SendGridKey,
			From:     e.From,
			FromName: e.FromName,
		},
		Mailgun: mailer.MailgunConfig{
			Key:     e.MailgunKey,
			Domain:  e.MailgunDomain,
			From:    e.From,
			APIBase: e.MailgunAPIBase,
		},
	}
}

type Google struct {
	ClientID string
	CertsURL string
}

// Load reads configuration. path may be empty, in which case only the
// environment and defaults are used.
func Load(path string) (*Config, error) {
	// a missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}

	if c.Google.ClientID != "" && c.Auth.GoogleLoginSecret == "" {
		return errors.New("auth.google_login_secret is required when google.client_id is set")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for sqlite")
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Name == "" {
			return errors.New("mongo.uri and mongo.name are required")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.prefix", "/api")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file:storefront.db?cache=shared")
	v.SetDefault("database.migrate", true)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.name", "storefront")

	v.SetDefault("email.provider", mailer.ProviderLog)
	v.SetDefault("email.async", true)
	v.SetDefault("email.from", "")
	v.SetDefault("email.from_name", "Storefront")
	v.SetDefault("email.sendgrid.key", "")
	v.SetDefault("email.mailgun.key", "")
	v.SetDefault("email.mailgun.domain", "")
	v.SetDefault("email.mailgun.api_base", "")

	v.SetDefault("google.client_id", "")
	v.SetDefault("google.certs_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.refresh_signing_key", "")
	v.SetDefault("auth.activation_signing_key", "")
	v.SetDefault("auth.issuer", "storefront")
	v.SetDefault("auth.audience", []string{})
	v.SetDefault("auth.access_token_ttl", storefront.DefaultAccessTokenTTL)
	v.SetDefault("auth.refresh_token_ttl", storefront.DefaultRefreshTokenTTL)
	v.SetDefault("auth.activation_token_ttl", storefront.DefaultActivationTokenTTL)
	v.SetDefault("auth.reset_token_ttl", storefront.DefaultResetTokenTTL)
	v.SetDefault("auth.client_url", "http://localhost:3000")
	v.SetDefault("auth.google_login_secret", "")
	v.SetDefault("auth.context_key", "user")
	v.SetDefault("auth.auth_scheme", "Bearer")
	v.SetDefault("auth.token_lookup", "header:Authorization")
}

// bindLegacyEnv accepts the unprefixed variable names older deployments use
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":                 "PORT",
		"auth.signing_key":            "ACCESS_TOKEN_SECRET",
		"auth.refresh_signing_key":    "REFRESH_TOKEN_SECRET",
		"auth.activation_signing_key": "ACTIVATION_TOKEN_SECRET",
		"auth.client_url":             "CLIENT_URL",
		"auth.google_login_secret":    "GOOGLE_LOGIN_SECRET",
		"google.client_id":            "GOOGLE_LOGIN_SERVICE_CLIENT_ID",
		"mongo.uri":                   "MONGODB_URL",
	}

	for key, legacy := range bindings {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Debug: v.GetBool("debug"),
		Server: Server{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			Prefix:          v.GetString("server.prefix"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: Database{
			Driver:  strings.ToLower(v.GetString("database.driver")),
			DSN:     v.GetString("database.dsn"),
			Migrate: v.GetBool("database.migrate"),
		},
		Mongo: Mongo{
			URI:  v.GetString("mongo.uri"),
			Name: v.GetString("mongo.name"),
		},
		Email: Email{
			Provider:       v.GetString("email.provider"),
			Async:          v.GetBool("email.async"),
			From:           v.GetString("email.from"),
			FromName:       v.GetString("email.from_name"),
			SendGridKey:    v.GetString("email.sendgrid.key"),
			MailgunKey:     v.GetString("email.mailgun.key"),
			MailgunDomain:  v.GetString("email.mailgun.domain"),
			MailgunAPIBase: v.GetString("email.mailgun.api_base"),
		},
		Google: Google{
			ClientID: v.GetString("google.client_id"),
			CertsURL: v.GetString("google.certs_url"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Auth: storefront.Options{
			SigningKey:           v.GetString("auth.signing_key"),
			RefreshSigningKey:    v.GetString("auth.refresh_signing_key"),
			ActivationSigningKey: v.GetString("auth.activation_signing_key"),
			Issuer:               v.GetString("auth.issuer"),
			Audience:             v.GetStringSlice("auth.audience"),
			AccessTokenTTL:       v.GetDuration("auth.access_token_ttl"),
			RefreshTokenTTL:      v.GetDuration("auth.refresh_token_ttl"),
			ActivationTokenTTL:   v.GetDuration("auth.activation_token_ttl"),
			ResetTokenTTL:        v.GetDuration("auth.reset_token_ttl"),
			ClientURL:            v.GetString("auth.client_url"),
			GoogleClientID:       v.GetString("google.client_id"),
			GoogleLoginSecret:    v.GetString("auth.google_login_secret"),
			ContextKey:           v.GetString("auth.context_key"),
			AuthScheme:           v.GetString("auth.auth_scheme"),
			TokenLookup:          v.GetString("auth.token_lookup"),
		},
	}
}
