// config/config.go
package config

import (
	"fmt"
	"os"

	"auto_lend_go_1/position"

	"gopkg.in/yaml.v2"
)

// HealthConfig holds the fixed per-operation deltas applied to the health
// factor.
type HealthConfig struct {
	BorrowDebit uint64 `yaml:"borrow_debit"`
	RepayCredit uint64 `yaml:"repay_credit"`
}

// AutomationConfig holds the automated-restore thresholds applied at startup.
type AutomationConfig struct {
	TriggerHealthFactor uint64 `yaml:"trigger_health_factor"`
	TargetHealthFactor  uint64 `yaml:"target_health_factor"`
}

// DCAConfig holds the recurring-purchase plan applied at startup.
type DCAConfig struct {
	IntervalSeconds uint64 `yaml:"interval_seconds"`
	Asset           string `yaml:"asset"`
	Amount          uint64 `yaml:"amount"`
}

// PriceTradingConfig holds the price-conditional purchase applied at startup.
type PriceTradingConfig struct {
	TargetPrice uint64 `yaml:"target_price"`
	Asset       string `yaml:"asset"`
	Amount      uint64 `yaml:"amount"`
}

// LogConfig holds the configuration for logging.
type LogConfig struct {
	LogLevel   string `yaml:"log_level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// NormalConfig holds all general, non-feature-specific configuration.
type NormalConfig struct {
	HTTPTimeoutSeconds       int    `yaml:"http_timeout_seconds"`
	MonitorIntervalSeconds   int    `yaml:"monitor_interval_seconds"`
	HeartbeatIntervalMinutes int    `yaml:"heartbeat_interval_minutes"`
	MetricsListenAddr        string `yaml:"metrics_listen_addr"`
	LogDirectory             string `yaml:"log_directory"`
	StateDirectory           string `yaml:"state_directory"`
}

// FeatureConfig is a generic container for a single feature's configuration.
// Config stays an interface{} so each named feature can carry its own shape.
type FeatureConfig struct {
	Name    string      `yaml:"name"`
	Enabled bool        `yaml:"enabled"`
	Config  interface{} `yaml:"config"`
}

// Config is the top-level configuration structure.
type Config struct {
	Symbol        string              `yaml:"symbol"`
	UseSimulation bool                `yaml:"use_simulation"`
	Health        *HealthConfig       `yaml:"health"`
	Automation    *AutomationConfig   `yaml:"-"`
	DCA           *DCAConfig          `yaml:"-"`
	PriceTrading  *PriceTradingConfig `yaml:"-"`
	Normal        *NormalConfig       `yaml:"normal_config"`
	Logs          *LogConfig          `yaml:"logs"`

	// Set when the corresponding entry in the features list is enabled.
	AutomationEnabled   bool `yaml:"-"`
	DCAEnabled          bool `yaml:"-"`
	PriceTradingEnabled bool `yaml:"-"`
}

// NewConfig creates a Config with safe defaults. Feature thresholds have no
// defaults on purpose; enabled features must spell out their parameters.
func NewConfig() *Config {
	return &Config{
		UseSimulation: true,
		Health: &HealthConfig{
			BorrowDebit: 10,
			RepayCredit: 10,
		},
		Automation:   &AutomationConfig{},
		DCA:          &DCAConfig{},
		PriceTrading: &PriceTradingConfig{},
		Logs:         &LogConfig{},
		Normal:       &NormalConfig{},
	}
}

// LoadConfig loads configuration from a given path, applies defaults, and
// validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s; the manager cannot run without one", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A temporary struct to unmarshal the raw feature configs.
	var rawCfg struct {
		Symbol        string          `yaml:"symbol"`
		UseSimulation *bool           `yaml:"use_simulation"`
		Health        *HealthConfig   `yaml:"health"`
		Logs          *LogConfig      `yaml:"logs"`
		Normal        *NormalConfig   `yaml:"normal_config"`
		Features      []FeatureConfig `yaml:"features"`
	}

	if err := yaml.Unmarshal(data, &rawCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if rawCfg.Symbol != "" {
		cfg.Symbol = rawCfg.Symbol
	}
	if rawCfg.UseSimulation != nil {
		cfg.UseSimulation = *rawCfg.UseSimulation
	}
	if rawCfg.Health != nil {
		cfg.Health = rawCfg.Health
	}
	if rawCfg.Normal != nil {
		cfg.Normal = rawCfg.Normal
	}
	if rawCfg.Logs != nil {
		cfg.Logs = rawCfg.Logs
	}

	// Unmarshal specific feature configs based on their 'name'.
	for _, f := range rawCfg.Features {
		if !f.Enabled {
			continue
		}

		configBytes, err := yaml.Marshal(f.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to re-marshal feature config '%s': %w", f.Name, err)
		}

		switch f.Name {
		case "automation":
			if err := yaml.Unmarshal(configBytes, cfg.Automation); err != nil {
				return nil, fmt.Errorf("failed to unmarshal automation config: %w", err)
			}
			cfg.AutomationEnabled = true
		case "dca":
			if err := yaml.Unmarshal(configBytes, cfg.DCA); err != nil {
				return nil, fmt.Errorf("failed to unmarshal dca config: %w", err)
			}
			cfg.DCAEnabled = true
		case "price_trading":
			if err := yaml.Unmarshal(configBytes, cfg.PriceTrading); err != nil {
				return nil, fmt.Errorf("failed to unmarshal price_trading config: %w", err)
			}
			cfg.PriceTradingEnabled = true
		default:
			return nil, fmt.Errorf("unknown feature '%s' in config.yaml", f.Name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the logical consistency and completeness of the entire
// configuration.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("critical config missing: 'symbol' must be explicitly specified in config.yaml")
	}

	if c.Health == nil {
		return fmt.Errorf("critical config missing: 'health' configuration block must be provided in config.yaml")
	}
	if c.Health.BorrowDebit == 0 {
		return fmt.Errorf("config error: 'health.borrow_debit' must be positive")
	}
	if c.Health.RepayCredit == 0 {
		return fmt.Errorf("config error: 'health.repay_credit' must be positive")
	}

	if c.Normal == nil {
		return fmt.Errorf("critical config missing: 'normal_config' configuration block must be provided in config.yaml")
	}
	if c.Normal.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("critical config missing: 'normal_config.http_timeout_seconds' must be positive")
	}
	if c.Normal.MonitorIntervalSeconds <= 0 {
		return fmt.Errorf("critical config missing: 'normal_config.monitor_interval_seconds' must be positive")
	}
	if c.Normal.HeartbeatIntervalMinutes <= 0 {
		return fmt.Errorf("critical config missing: 'normal_config.heartbeat_interval_minutes' must be positive")
	}
	if c.Normal.LogDirectory == "" {
		return fmt.Errorf("critical config missing: 'normal_config.log_directory' must be specified (e.g., 'logs')")
	}
	if c.Normal.StateDirectory == "" {
		return fmt.Errorf("critical config missing: 'normal_config.state_directory' must be specified (e.g., 'state')")
	}

	if c.Logs == nil {
		return fmt.Errorf("critical config missing: 'logs' configuration block must be provided in config.yaml")
	}
	if c.Logs.LogLevel == "" {
		return fmt.Errorf("critical config missing: 'logs.log_level' must be specified (e.g., 'info', 'debug')")
	}
	if c.Logs.MaxSizeMB <= 0 {
		return fmt.Errorf("critical config missing: 'logs.max_size_mb' must be positive")
	}
	if c.Logs.MaxBackups <= 0 {
		return fmt.Errorf("critical config missing: 'logs.max_backups' must be positive")
	}
	if c.Logs.MaxAgeDays <= 0 {
		return fmt.Errorf("critical config missing: 'logs.max_age_days' must be positive")
	}

	// Feature validation reuses the same predicates the engines run, so a
	// config that passes here cannot fail engine validation at startup.
	if c.AutomationEnabled {
		if err := position.ValidateAutomationParams(c.Automation.TriggerHealthFactor, c.Automation.TargetHealthFactor); err != nil {
			return fmt.Errorf("config error: automation: %w", err)
		}
	}
	if c.DCAEnabled {
		if err := position.ValidateScheduleParams(c.DCA.IntervalSeconds, c.DCA.Amount); err != nil {
			return fmt.Errorf("config error: dca: %w", err)
		}
		if _, err := position.ParseAsset(c.DCA.Asset); err != nil {
			return fmt.Errorf("config error: dca: %w", err)
		}
	}
	if c.PriceTradingEnabled {
		if err := position.ValidatePriceParams(c.PriceTrading.TargetPrice, c.PriceTrading.Amount); err != nil {
			return fmt.Errorf("config error: price_trading: %w", err)
		}
		if _, err := position.ParseAsset(c.PriceTrading.Asset); err != nil {
			return fmt.Errorf("config error: price_trading: %w", err)
		}
	}

	return nil
}

// EnvConfig carries the values read from the process environment rather than
// config.yaml.
type EnvConfig struct {
	PriceFeedBaseURL string
}

func LoadEnvConfig() *EnvConfig {
	return &EnvConfig{
		PriceFeedBaseURL: os.Getenv("PRICE_FEED_BASE_URL"),
	}
}
