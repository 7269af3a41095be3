// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig               `yaml:"server"`
	Amazon     AmazonConfig               `yaml:"amazon"`
	Ebay       EbayConfig                 `yaml:"ebay"`
	RapidAPI   RapidAPIConfig             `yaml:"rapidapi"`
	RateLimits map[string]RateLimitConfig `yaml:"rate_limits"`
	HTTP       HTTPConfig                 `yaml:"http"`
	LLM        LLMConfig                  `yaml:"llm"`
	Alerts     AlertsConfig               `yaml:"alerts"`
	Tracing    TracingConfig              `yaml:"tracing"`
	Logging    LoggingConfig              `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// AmazonConfig defines Product Advertising API settings.
type AmazonConfig struct {
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	AssociateTag string `yaml:"associate_tag"`
	Region       string `yaml:"region"`
	Marketplace  string `yaml:"marketplace"` // e.g. www.amazon.com
	Endpoint     string `yaml:"endpoint"`
}

// Enabled reports whether any PA-API credential is set.
func (a *AmazonConfig) Enabled() bool {
	return a.AccessKey != "" || a.SecretKey != "" || a.AssociateTag != ""
}

// EbayConfig defines eBay Finding API settings.
type EbayConfig struct {
	AppID      string `yaml:"app_id"`
	AuthToken  string `yaml:"auth_token"`
	SiteID     string `yaml:"site_id"`
	FindingURL string `yaml:"finding_url"`
}

// Enabled reports whether the eBay client should be built.
func (e *EbayConfig) Enabled() bool {
	return e.AppID != ""
}

// RapidAPIConfig defines RapidAPI Real-Time Amazon Data settings.
type RapidAPIConfig struct {
	APIKey  string `yaml:"api_key"`
	APIHost string `yaml:"api_host"`
	BaseURL string `yaml:"base_url"` // default: https://<api_host>
	Country string `yaml:"country"`
}

// Enabled reports whether the RapidAPI client should be built.
func (r *RapidAPIConfig) Enabled() bool {
	return r.APIKey != ""
}

// RateLimitConfig overrides a provider's token bucket.
type RateLimitConfig struct {
	Capacity   float64 `yaml:"capacity"`
	RefillRate float64 `yaml:"refill_rate"` // tokens per second
}

// HTTPConfig defines outbound HTTP settings shared by all providers.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

// RetryConfig defines retry-with-backoff for transient provider failures.
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"` // 1 disables retries
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

// LLMConfig defines evaluation model settings.
type LLMConfig struct {
	Backend     string        `yaml:"backend"` // openai_responses
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	WebSearch   *bool         `yaml:"web_search"` // default: true
	Timeout     time.Duration `yaml:"timeout"`
}

// WebSearchEnabled reports whether the web_search tool is offered.
func (l *LLMConfig) WebSearchEnabled() bool {
	return l.WebSearch == nil || *l.WebSearch
}

// AlertsConfig defines bargain alert delivery.
type AlertsConfig struct {
	DiscordWebhookURL string        `yaml:"discord_webhook_url"`
	MinUndervaluation float64       `yaml:"min_undervaluation"` // percent
	MinConfidence     int           `yaml:"min_confidence"`
	Timeout           time.Duration `yaml:"timeout"`
}

// Enabled reports whether alerts are delivered anywhere.
func (a *AlertsConfig) Enabled() bool {
	return a.DiscordWebhookURL != ""
}

// TracingConfig defines OpenTelemetry export settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // OTLP/gRPC host:port
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for YAML already in memory.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyAmazonDefaults(&cfg.Amazon)
	applyEbayDefaults(&cfg.Ebay)
	applyRapidAPIDefaults(&cfg.RapidAPI)
	applyHTTPDefaults(&cfg.HTTP)
	applyLLMDefaults(&cfg.LLM)
	applyAlertsDefaults(&cfg.Alerts)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 150 * time.Second // evaluations can run long
	}
}

func applyAmazonDefaults(a *AmazonConfig) {
	if a.Region == "" {
		a.Region = "us-east-1"
	}
	if a.Marketplace == "" {
		a.Marketplace = "www.amazon.com"
	}
	if a.Endpoint == "" {
		a.Endpoint = "https://webservices.amazon.com"
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.SiteID == "" {
		e.SiteID = "EBAY-US"
	}
	if e.FindingURL == "" {
		e.FindingURL = "https://svcs.ebay.com/services/search/FindingService/v1"
	}
}

func applyRapidAPIDefaults(r *RapidAPIConfig) {
	if r.APIHost == "" {
		r.APIHost = "real-time-amazon-data.p.rapidapi.com"
	}
	if r.Country == "" {
		r.Country = "US"
	}
}

func applyHTTPDefaults(h *HTTPConfig) {
	if h.Timeout == 0 {
		h.Timeout = 30 * time.Second
	}
	if h.Retry.MaxAttempts == 0 {
		h.Retry.MaxAttempts = 1
	}
	if h.Retry.InitialInterval == 0 {
		h.Retry.InitialInterval = 200 * time.Millisecond
	}
	if h.Retry.MaxInterval == 0 {
		h.Retry.MaxInterval = 2 * time.Second
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Backend == "" {
		l.Backend = "openai_responses"
	}
	if l.Endpoint == "" {
		l.Endpoint = "https://api.openai.com"
	}
	if l.Model == "" {
		l.Model = "gpt-4o"
	}
	if l.Temperature == 0 {
		l.Temperature = 0.2
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 1024
	}
	if l.Timeout == 0 {
		l.Timeout = 120 * time.Second
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.MinUndervaluation == 0 {
		a.MinUndervaluation = 20
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 60
	}
	if a.Timeout == 0 {
		a.Timeout = 10 * time.Second
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "bargain-finder"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

var knownProviders = []string{"amazon", "amazon-rapidapi", "ebay"}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Amazon.Enabled() {
		if cfg.Amazon.AccessKey == "" {
			errs = append(errs, errors.New("amazon.access_key is required when amazon is configured"))
		}
		if cfg.Amazon.SecretKey == "" {
			errs = append(errs, errors.New("amazon.secret_key is required when amazon is configured"))
		}
		if cfg.Amazon.AssociateTag == "" {
			errs = append(errs, errors.New("amazon.associate_tag is required when amazon is configured"))
		}
	}

	if !cfg.Amazon.Enabled() && !cfg.RapidAPI.Enabled() && !cfg.Ebay.Enabled() {
		errs = append(errs, errors.New(
			"at least one marketplace must be configured (amazon, rapidapi or ebay)",
		))
	}

	for name, rl := range cfg.RateLimits {
		if !slices.Contains(knownProviders, name) {
			errs = append(errs, fmt.Errorf(
				"rate_limits.%s: unknown provider (must be one of: amazon, amazon-rapidapi, ebay)", name,
			))
			continue
		}
		if rl.Capacity <= 0 || rl.RefillRate <= 0 {
			errs = append(errs, fmt.Errorf(
				"rate_limits.%s: capacity and refill_rate must be > 0", name,
			))
		}
	}

	if cfg.HTTP.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf(
			"http.retry.max_attempts must be >= 1 (got %d)", cfg.HTTP.Retry.MaxAttempts,
		))
	}

	if cfg.LLM.Backend != "openai_responses" {
		errs = append(errs, fmt.Errorf(
			"llm.backend must be one of: openai_responses (got %q)", cfg.LLM.Backend,
		))
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf(
			"llm.temperature must be between 0 and 2 (got %v)", cfg.LLM.Temperature,
		))
	}

	if cfg.Alerts.MinUndervaluation < 0 || cfg.Alerts.MinUndervaluation > 100 {
		errs = append(errs, fmt.Errorf(
			"alerts.min_undervaluation must be between 0 and 100 (got %v)", cfg.Alerts.MinUndervaluation,
		))
	}
	if cfg.Alerts.MinConfidence < 0 || cfg.Alerts.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf(
			"alerts.min_confidence must be between 0 and 100 (got %d)", cfg.Alerts.MinConfidence,
		))
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf(
			"tracing.sample_ratio must be between 0 and 1 (got %v)", cfg.Tracing.SampleRatio,
		))
	}

	return errors.Join(errs...)
}
