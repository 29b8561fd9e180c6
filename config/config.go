// Package config loads runtime settings for the CLI and HTTP server.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML file,
// the process environment (optionally seeded from .env files).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cghall/salesforce-reporting/salesforce"
)

// ErrMissingCredentials is returned when a login is attempted without them.
var ErrMissingCredentials = errors.New("salesforce credentials are not configured")

// Config is the full runtime configuration.
type Config struct {
	Salesforce Salesforce `yaml:"salesforce"`
	Server     Server     `yaml:"server"`
	LogLevel   string     `yaml:"logLevel" validate:"oneof=debug info warn error"`
}

// Salesforce holds org credentials and client tuning.
type Salesforce struct {
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	SecurityToken    string        `yaml:"securityToken"`
	ClientID         string        `yaml:"clientId" validate:"required_if=AuthMethod oauth"`
	ClientSecret     string        `yaml:"clientSecret" validate:"required_if=AuthMethod oauth"`
	Sandbox          bool          `yaml:"sandbox"`
	APIVersion       string        `yaml:"apiVersion" validate:"required,startswith=v"`
	AnalyticsVersion string        `yaml:"analyticsVersion" validate:"required,startswith=v"`
	AuthMethod       string        `yaml:"authMethod" validate:"oneof=soap oauth"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	RateLimit        float64       `yaml:"rateLimit" validate:"gte=0"`
	MaxConcurrent    int           `yaml:"maxConcurrent" validate:"gte=1,lte=64"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Salesforce: Salesforce{
			APIVersion:       salesforce.DefaultAPIVersion,
			AnalyticsVersion: salesforce.DefaultAnalyticsVersion,
			AuthMethod:       "soap",
			Timeout:          30 * time.Second,
			RateLimit:        5,
			MaxConcurrent:    4,
		},
		Server:   Server{Addr: ":8080"},
		LogLevel: "info",
	}
}

var validate = validator.New()

// Load builds a Config. path names an optional YAML file ("" skips it);
// envFiles are .env files to seed the environment from. Missing .env files
// are ignored, variables already set in the process win.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// ============================================================================
// ENVIRONMENT
// ============================================================================

func applyEnv(cfg *Config) error {
	sf := &cfg.Salesforce
	envString("SF_USERNAME", &sf.Username)
	envString("SF_PASSWORD", &sf.Password)
	envString("SF_SECURITY_TOKEN", &sf.SecurityToken)
	envString("SF_CLIENT_ID", &sf.ClientID)
	envString("SF_CLIENT_SECRET", &sf.ClientSecret)
	envString("SF_API_VERSION", &sf.APIVersion)
	envString("SF_ANALYTICS_VERSION", &sf.AnalyticsVersion)
	envString("SF_AUTH_METHOD", &sf.AuthMethod)
	envString("SERVER_ADDR", &cfg.Server.Addr)
	envString("LOG_LEVEL", &cfg.LogLevel)

	sf.AuthMethod = strings.ToLower(sf.AuthMethod)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return errors.Join(
		envBool("SF_SANDBOX", &sf.Sandbox),
		envDuration("SF_TIMEOUT", &sf.Timeout),
		envFloat("SF_RATE_LIMIT", &sf.RateLimit),
		envInt("SF_MAX_CONCURRENT", &sf.MaxConcurrent),
	)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = i
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// ============================================================================
// CLIENT WIRING
// ============================================================================

// Authenticator returns the login flow selected by AuthMethod.
func (s Salesforce) Authenticator() (salesforce.Authenticator, error) {
	if s.Username == "" || s.Password == "" {
		return nil, ErrMissingCredentials
	}
	if s.AuthMethod == "oauth" {
		return &salesforce.PasswordGrant{
			ClientID:      s.ClientID,
			ClientSecret:  s.ClientSecret,
			Username:      s.Username,
			Password:      s.Password,
			SecurityToken: s.SecurityToken,
			Sandbox:       s.Sandbox,
		}, nil
	}
	return &salesforce.SOAPLogin{
		Username:      s.Username,
		Password:      s.Password,
		SecurityToken: s.SecurityToken,
		Sandbox:       s.Sandbox,
		APIVersion:    s.APIVersion,
	}, nil
}

// ClientOptions translates the tuning fields into client options.
func (s Salesforce) ClientOptions() []salesforce.Option {
	burst := int(s.RateLimit)
	if burst < 1 {
		burst = 1
	}
	return []salesforce.Option{
		salesforce.WithTimeout(s.Timeout),
		salesforce.WithRateLimit(s.RateLimit, burst),
		salesforce.WithAnalyticsVersion(s.AnalyticsVersion),
	}
}
