package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/config"
	"github.com/goliatone/go-storefront/mailer"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT",
		"ACCESS_TOKEN_SECRET",
		"REFRESH_TOKEN_SECRET",
		"ACTIVATION_TOKEN_SECRET",
		"CLIENT_URL",
		"GOOGLE_LOGIN_SECRET",
		"GOOGLE_LOGIN_SERVICE_CLIENT_ID",
		"MONGODB_URL",
		"STOREFRONT_AUTH_SIGNING_KEY",
		"STOREFRONT_SERVER_PORT",
		"STOREFRONT_DATABASE_DRIVER",
		"STOREFRONT_GOOGLE_CLIENT_ID",
		"STOREFRONT_AUTH_GOOGLE_LOGIN_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_AUTH_SIGNING_KEY", "secret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Auth.SigningKey)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.Prefix)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ActivationTokenTTL)
	assert.Equal(t, "http://localhost:3000", cfg.Auth.ClientURL)
	assert.Equal(t, mailer.ProviderLog, cfg.Email.Provider)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("ACTIVATION_TOKEN_SECRET", "activation")
	t.Setenv("CLIENT_URL", "https://shop.example.com")
	t.Setenv("GOOGLE_LOGIN_SERVICE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_LOGIN_SECRET", "google-secret")
	t.Setenv("PORT", "8081")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "access", cfg.Auth.SigningKey)
	assert.Equal(t, "activation", cfg.Auth.ActivationSigningKey)
	assert.Equal(t, "https://shop.example.com", cfg.Auth.ClientURL)
	assert.Equal(t, "client-id", cfg.Google.ClientID)
	assert.Equal(t, "client-id", cfg.Auth.GoogleClientID)
	assert.Equal(t, "google-secret", cfg.Auth.GoogleLoginSecret)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9000
auth:
  signing_key: from-file
  refresh_token_ttl: 48h
email:
  provider: sendgrid
  from: shop@example.com
  sendgrid:
    key: SG.key
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("STOREFRONT_AUTH_SIGNING_KEY", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.SigningKey)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenTTL)

	mc := cfg.Email.Mailer()
	assert.Equal(t, "sendgrid", mc.Provider)
	assert.Equal(t, "SG.key", mc.SendGrid.Key)
	assert.Equal(t, "shop@example.com", mc.SendGrid.From)
}

func TestLoad_Validation(t *testing.T) {
	clearEnv(t)

	_, err := config.Load("")
	assert.Error(t, err)

	t.Setenv("STOREFRONT_AUTH_SIGNING_KEY", "secret")
	t.Setenv("STOREFRONT_DATABASE_DRIVER", "mongo")
	_, err = config.Load("")
	assert.Error(t, err)

	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "storefront", cfg.Mongo.Name)
}

func TestLoad_GoogleRequiresLoginSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("GOOGLE_LOGIN_SERVICE_CLIENT_ID", "client-id")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google_login_secret")

	t.Setenv("STOREFRONT_AUTH_GOOGLE_LOGIN_SECRET", "google-secret")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "google-secret", cfg.Auth.GoogleLoginSecret)
}

func TestLoad_NoGoogleNoLoginSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "access")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Google.ClientID)
	assert.Empty(t, cfg.Auth.GoogleLoginSecret)
}
