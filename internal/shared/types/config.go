package types

import (
	"fmt"
	"strings"
	"time"
)

// Report modes.
const (
	ModeText  = "text"
	ModeChart = "chart"
)

// Config represents the application configuration that can be loaded from a file
// and overridden by environment variables and flags.
type Config struct {
	TopicARN       string   `json:"topic_arn" yaml:"topic_arn" toml:"topic_arn"`
	Mode           string   `json:"mode" yaml:"mode" toml:"mode"`
	CostThreshold  float64  `json:"cost_threshold" yaml:"cost_threshold" toml:"cost_threshold"`
	PastMonths     int      `json:"past_months" yaml:"past_months" toml:"past_months"`
	ChartDays      int      `json:"chart_days" yaml:"chart_days" toml:"chart_days"`
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	Region         string   `json:"region" yaml:"region" toml:"region"`
	Profile        string   `json:"profile" yaml:"profile" toml:"profile"`
	IncludeBudgets bool     `json:"include_budgets" yaml:"include_budgets" toml:"include_budgets"`
	Subject        string   `json:"subject" yaml:"subject" toml:"subject"`
	Title          string   `json:"title" yaml:"title" toml:"title"`
}

// DefaultConfig retorna a configuração com os valores padrão.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeText,
		CostThreshold:  0.01,
		PastMonths:     1,
		ChartDays:      7,
		RequestTimeout: Duration(30 * time.Second),
		Subject:        "AWS Cost Report",
		Title:          "AWS Cost Notification",
	}
}

// Validate checks the configuration. The topic is only required when the run
// is going to publish.
func (c Config) Validate(requireTopic bool) error {
	if requireTopic && strings.TrimSpace(c.TopicARN) == "" {
		return fmt.Errorf("%w: SNS_TOPIC_ARN is not set", ErrConfig)
	}
	if c.Mode != ModeText && c.Mode != ModeChart {
		return fmt.Errorf("%w: unknown mode %q", ErrConfig, c.Mode)
	}
	if c.CostThreshold < 0 {
		return fmt.Errorf("%w: cost_threshold must not be negative", ErrConfig)
	}
	if c.PastMonths < 1 {
		return fmt.Errorf("%w: past_months must be at least 1", ErrConfig)
	}
	if c.ChartDays < 1 {
		return fmt.Errorf("%w: chart_days must be at least 1", ErrConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrConfig)
	}
	return nil
}

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler, used by the JSON, YAML
// and TOML decoders alike.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalTOML accepts a TOML string such as "30s".
func (d *Duration) UnmarshalTOML(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("duration must be a string, got %T", v)
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
