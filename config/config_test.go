package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cghall/salesforce-reporting/salesforce"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SF_USERNAME", "SF_PASSWORD", "SF_SECURITY_TOKEN", "SF_CLIENT_ID", "SF_CLIENT_SECRET",
		"SF_SANDBOX", "SF_API_VERSION", "SF_ANALYTICS_VERSION", "SF_AUTH_METHOD", "SF_TIMEOUT",
		"SF_RATE_LIMIT", "SF_MAX_CONCURRENT", "SERVER_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "v29.0", cfg.Salesforce.APIVersion)
	assert.Equal(t, "v31.0", cfg.Salesforce.AnalyticsVersion)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sfreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
salesforce:
  username: file@example.com
  password: file-pass
  sandbox: true
  timeout: 10s
  maxConcurrent: 2
server:
  addr: ":9000"
logLevel: debug
`), 0o600))

	t.Setenv("SF_USERNAME", "env@example.com")
	t.Setenv("SF_RATE_LIMIT", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	sf := cfg.Salesforce
	assert.Equal(t, "env@example.com", sf.Username)
	assert.Equal(t, "file-pass", sf.Password)
	assert.True(t, sf.Sandbox)
	assert.Equal(t, 10*time.Second, sf.Timeout)
	assert.Equal(t, 2, sf.MaxConcurrent)
	assert.Equal(t, 2.5, sf.RateLimit)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SF_SECURITY_TOKEN")
	t.Cleanup(func() { os.Unsetenv("SF_SECURITY_TOKEN") })

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SF_SECURITY_TOKEN=from-dotenv\n"), 0o600))

	cfg, err := Load("", envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Salesforce.SecurityToken)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SF_TIMEOUT", "soon")
	t.Setenv("SF_MAX_CONCURRENT", "many")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SF_TIMEOUT")
	assert.Contains(t, err.Error(), "SF_MAX_CONCURRENT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"auth method", func(c *Config) { c.Salesforce.AuthMethod = "saml" }, "AuthMethod"},
		{"api version", func(c *Config) { c.Salesforce.APIVersion = "29.0" }, "APIVersion"},
		{"timeout", func(c *Config) { c.Salesforce.Timeout = 0 }, "Timeout"},
		{"concurrency", func(c *Config) { c.Salesforce.MaxConcurrent = 0 }, "MaxConcurrent"},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "LogLevel"},
		{"oauth client", func(c *Config) { c.Salesforce.AuthMethod = "oauth" }, "ClientID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestAuthenticator(t *testing.T) {
	sf := Default().Salesforce
	_, err := sf.Authenticator()
	assert.ErrorIs(t, err, ErrMissingCredentials)

	sf.Username, sf.Password, sf.SecurityToken = "u", "p", "t"
	auth, err := sf.Authenticator()
	require.NoError(t, err)
	soap, ok := auth.(*salesforce.SOAPLogin)
	require.True(t, ok)
	assert.Equal(t, "v29.0", soap.APIVersion)

	sf.AuthMethod = "oauth"
	sf.ClientID = "cid"
	auth, err = sf.Authenticator()
	require.NoError(t, err)
	grant, ok := auth.(*salesforce.PasswordGrant)
	require.True(t, ok)
	assert.Equal(t, "cid", grant.ClientID)
}

func TestClientOptions(t *testing.T) {
	sf := Default().Salesforce
	assert.Len(t, sf.ClientOptions(), 3)

	c := salesforce.NewClient(nil, sf.ClientOptions()...)
	s := &salesforce.Session{InstanceURL: "https://x.salesforce.com"}
	assert.Contains(t, c.ReportURL(s, "1", true), "/v31.0/")
}
