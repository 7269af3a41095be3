package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
rapidapi:
  api_key: rk-123
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.True(t, cfg.RapidAPI.Enabled())
				assert.False(t, cfg.Amazon.Enabled())
				assert.False(t, cfg.Ebay.Enabled())
				assert.Equal(t, "rk-123", cfg.RapidAPI.APIKey)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
ebay:
  app_id: my-app
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 150*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "us-east-1", cfg.Amazon.Region)
				assert.Equal(t, "www.amazon.com", cfg.Amazon.Marketplace)
				assert.Equal(t, "https://webservices.amazon.com", cfg.Amazon.Endpoint)
				assert.Equal(t, "EBAY-US", cfg.Ebay.SiteID)
				assert.Equal(t, "https://svcs.ebay.com/services/search/FindingService/v1", cfg.Ebay.FindingURL)
				assert.Equal(t, "real-time-amazon-data.p.rapidapi.com", cfg.RapidAPI.APIHost)
				assert.Equal(t, "US", cfg.RapidAPI.Country)
				assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
				assert.Equal(t, 1, cfg.HTTP.Retry.MaxAttempts)
				assert.Equal(t, 200*time.Millisecond, cfg.HTTP.Retry.InitialInterval)
				assert.Equal(t, 2*time.Second, cfg.HTTP.Retry.MaxInterval)
				assert.Equal(t, "openai_responses", cfg.LLM.Backend)
				assert.Equal(t, "https://api.openai.com", cfg.LLM.Endpoint)
				assert.Equal(t, "gpt-4o", cfg.LLM.Model)
				assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
				assert.Equal(t, 1024, cfg.LLM.MaxTokens)
				assert.True(t, cfg.LLM.WebSearchEnabled())
				assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
				assert.False(t, cfg.Alerts.Enabled())
				assert.InDelta(t, 20.0, cfg.Alerts.MinUndervaluation, 1e-9)
				assert.Equal(t, 60, cfg.Alerts.MinConfidence)
				assert.Equal(t, 10*time.Second, cfg.Alerts.Timeout)
				assert.False(t, cfg.Tracing.Enabled)
				assert.Equal(t, "localhost:4317", cfg.Tracing.Endpoint)
				assert.Equal(t, "bargain-finder", cfg.Tracing.ServiceName)
				assert.InDelta(t, 1.0, cfg.Tracing.SampleRatio, 1e-9)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
amazon:
  access_key: "${TEST_PAAPI_ACCESS}"
  secret_key: "${TEST_PAAPI_SECRET}"
  associate_tag: bargains-20
`,
			envVars: map[string]string{
				"TEST_PAAPI_ACCESS": "AKIDEXAMPLE",
				"TEST_PAAPI_SECRET": "s3cret",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "AKIDEXAMPLE", cfg.Amazon.AccessKey)
				assert.Equal(t, "s3cret", cfg.Amazon.SecretKey)
				assert.True(t, cfg.Amazon.Enabled())
			},
		},
		{
			name:    "no marketplace configured",
			yaml:    `logging: {level: debug}`,
			wantErr: "at least one marketplace must be configured",
		},
		{
			name: "partial amazon credentials",
			yaml: `
amazon:
  access_key: AKIDEXAMPLE
`,
			wantErr: "amazon.secret_key is required when amazon is configured",
		},
		{
			name: "partial amazon credentials reports every missing field",
			yaml: `
amazon:
  access_key: AKIDEXAMPLE
`,
			wantErr: "amazon.associate_tag is required when amazon is configured",
		},
		{
			name: "unknown rate limit provider",
			yaml: `
ebay: {app_id: x}
rate_limits:
  walmart: {capacity: 1, refill_rate: 1}
`,
			wantErr: "rate_limits.walmart: unknown provider",
		},
		{
			name: "zero rate limit",
			yaml: `
ebay: {app_id: x}
rate_limits:
  ebay: {capacity: 0, refill_rate: 1}
`,
			wantErr: "rate_limits.ebay: capacity and refill_rate must be > 0",
		},
		{
			name: "negative retry attempts",
			yaml: `
ebay: {app_id: x}
http:
  retry: {max_attempts: -1}
`,
			wantErr: "http.retry.max_attempts must be >= 1 (got -1)",
		},
		{
			name: "invalid llm backend",
			yaml: `
ebay: {app_id: x}
llm:
  backend: ollama
`,
			wantErr: `llm.backend must be one of: openai_responses (got "ollama")`,
		},
		{
			name: "temperature out of range",
			yaml: `
ebay: {app_id: x}
llm:
  temperature: 3
`,
			wantErr: "llm.temperature must be between 0 and 2 (got 3)",
		},
		{
			name: "sample ratio out of range",
			yaml: `
ebay: {app_id: x}
tracing:
  sample_ratio: 1.5
`,
			wantErr: "tracing.sample_ratio must be between 0 and 1 (got 1.5)",
		},
		{
			name: "alert confidence out of range",
			yaml: `
ebay: {app_id: x}
alerts:
  min_confidence: 101
`,
			wantErr: "alerts.min_confidence must be between 0 and 100 (got 101)",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
amazon:
  access_key: AKIDEXAMPLE
  secret_key: secret
  associate_tag: bargains-21
  region: eu-west-1
  marketplace: www.amazon.co.uk
  endpoint: https://webservices.amazon.co.uk
ebay:
  app_id: my-app-id
  auth_token: tok
  site_id: EBAY-GB
rapidapi:
  api_key: rk
  country: GB
rate_limits:
  ebay: {capacity: 2, refill_rate: 0.5}
http:
  timeout: 10s
  retry:
    max_attempts: 3
    initial_interval: 100ms
    max_interval: 1s
llm:
  model: gpt-4.1
  temperature: 0.1
  max_tokens: 2048
  web_search: false
  timeout: 90s
alerts:
  discord_webhook_url: https://discord.example/webhook
  min_undervaluation: 35
  min_confidence: 75
tracing:
  enabled: true
  endpoint: otel-collector:4317
  insecure: true
  sample_ratio: 0.25
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "eu-west-1", cfg.Amazon.Region)
				assert.Equal(t, "www.amazon.co.uk", cfg.Amazon.Marketplace)
				assert.Equal(t, "https://webservices.amazon.co.uk", cfg.Amazon.Endpoint)
				assert.Equal(t, "EBAY-GB", cfg.Ebay.SiteID)
				assert.Equal(t, "GB", cfg.RapidAPI.Country)
				assert.Equal(t, RateLimitConfig{Capacity: 2, RefillRate: 0.5}, cfg.RateLimits["ebay"])
				assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
				assert.Equal(t, 3, cfg.HTTP.Retry.MaxAttempts)
				assert.Equal(t, 100*time.Millisecond, cfg.HTTP.Retry.InitialInterval)
				assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
				assert.Equal(t, 2048, cfg.LLM.MaxTokens)
				assert.False(t, cfg.LLM.WebSearchEnabled())
				assert.True(t, cfg.Alerts.Enabled())
				assert.InDelta(t, 35.0, cfg.Alerts.MinUndervaluation, 1e-9)
				assert.Equal(t, 75, cfg.Alerts.MinConfidence)
				assert.True(t, cfg.Tracing.Enabled)
				assert.True(t, cfg.Tracing.Insecure)
				assert.Equal(t, "otel-collector:4317", cfg.Tracing.Endpoint)
				assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 1e-9)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestEnabled(t *testing.T) {
	t.Parallel()

	assert.True(t, (&AmazonConfig{AssociateTag: "x"}).Enabled())
	assert.False(t, (&AmazonConfig{Region: "us-east-1"}).Enabled())
	assert.True(t, (&EbayConfig{AppID: "x"}).Enabled())
	assert.False(t, (&EbayConfig{SiteID: "EBAY-US"}).Enabled())
	assert.False(t, (&RapidAPIConfig{APIHost: "h"}).Enabled())
}
