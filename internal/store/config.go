package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"indian-hedge-fund/internal/retry"
)

type LLMConfig struct {
	Provider    string        `yaml:"provider" validate:"oneof=GEMINI CLAUDE OPENAI NOOP"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens" validate:"gte=0"`
	Temperature float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	// Sources are tried in order; the first that knows a ticker wins.
	Sources           []string      `yaml:"sources" validate:"required,min=1,dive,oneof=yahoo screener static"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	CacheDir          string        `yaml:"cache_dir"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`
	Timeout           time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" validate:"gte=1"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// StaticHolding seeds the holdings provider in DRY_RUN mode.
type StaticHolding struct {
	Symbol       string  `yaml:"symbol" validate:"required"`
	Exchange     string  `yaml:"exchange"`
	Quantity     int     `yaml:"quantity" validate:"gt=0"`
	AveragePrice float64 `yaml:"average_price" validate:"gte=0"`
	LastPrice    float64 `yaml:"last_price" validate:"gte=0"`
}

type Config struct {
	Mode     string   `yaml:"mode" validate:"oneof=DRY_RUN LIVE"`
	Exchange string   `yaml:"exchange" validate:"oneof=NSE BSE"`
	Analysts []string `yaml:"analysts" validate:"required,min=1,dive,required"`
	Workers  struct {
		Graham  int `yaml:"graham" validate:"gte=1"`
		Buffett int `yaml:"buffett" validate:"gte=1"`
	} `yaml:"workers"`
	LLM     LLMConfig     `yaml:"llm"`
	Metrics MetricsConfig `yaml:"metrics"`
	Retry   RetryConfig   `yaml:"retry"`
	Report  struct {
		Format string `yaml:"format" validate:"oneof=terminal markdown html json"`
		Output string `yaml:"output"`
	} `yaml:"report"`
	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days" validate:"gte=0"`
	} `yaml:"journal"`
	StaticHoldings []StaticHolding `yaml:"static_holdings" validate:"dive"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "LIVE"
	}
	c.Mode = strings.ToUpper(c.Mode)
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	c.Exchange = strings.ToUpper(c.Exchange)
	if len(c.Analysts) == 0 {
		c.Analysts = []string{"warren_buffett", "ben_graham"}
	}
	if c.Workers.Graham == 0 {
		c.Workers.Graham = 32
	}
	if c.Workers.Buffett == 0 {
		c.Workers.Buffett = 2
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "GEMINI"
	}
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if len(c.Metrics.Sources) == 0 {
		c.Metrics.Sources = []string{"yahoo", "screener"}
	}
	if c.Metrics.CacheTTL == 0 {
		c.Metrics.CacheTTL = 6 * time.Hour
	}
	if c.Metrics.CacheDir == "" {
		c.Metrics.CacheDir = ".cache/metrics"
	}
	if c.Metrics.RequestsPerSecond == 0 {
		c.Metrics.RequestsPerSecond = 2
	}
	if c.Metrics.Timeout == 0 {
		c.Metrics.Timeout = 15 * time.Second
	}

	def := retry.DefaultLLMPolicy()
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = def.MaxAttempts
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = def.InitialBackoff
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = def.MaxBackoff
	}

	if c.Report.Format == "" {
		c.Report.Format = "terminal"
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "journal"
	}
	if c.Journal.RetentionDays == 0 {
		c.Journal.RetentionDays = 7
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "CLAUDE":
		return "claude-sonnet-4-20250514"
	case "OPENAI":
		return "gpt-4o-mini"
	default:
		return "gemini-2.0-flash"
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Retry.MaxBackoff < c.Retry.InitialBackoff {
		return fmt.Errorf("retry.max_backoff (%s) must not be below retry.initial_backoff (%s)", c.Retry.MaxBackoff, c.Retry.InitialBackoff)
	}
	if c.Mode == "DRY_RUN" && len(c.StaticHoldings) == 0 {
		return errors.New("static_holdings cannot be empty in DRY_RUN mode")
	}
	return nil
}

// RetryPolicy is the narrative retry policy described by the config.
func (c *Config) RetryPolicy() retry.Policy {
	p := retry.DefaultLLMPolicy()
	p.MaxAttempts = c.Retry.MaxAttempts
	p.InitialBackoff = c.Retry.InitialBackoff
	p.MaxBackoff = c.Retry.MaxBackoff
	return p
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
