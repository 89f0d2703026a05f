package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const baseBlocks = `
health:
  borrow_debit: 10
  repay_credit: 10
normal_config:
  http_timeout_seconds: 10
  monitor_interval_seconds: 5
  heartbeat_interval_minutes: 5
  metrics_listen_addr: ":9090"
  log_directory: logs
  state_directory: state
logs:
  log_level: info
  max_size_mb: 10
  max_backups: 3
  max_age_days: 7
  compress: true
`

func TestLoadConfig(t *testing.T) {
	asset := strings.Repeat("ab", 32)
	path := writeConfig(t, `
symbol: SOLUSDT
use_simulation: true
`+baseBlocks+`
features:
  - name: automation
    enabled: true
    config:
      trigger_health_factor: 50
      target_health_factor: 80
  - name: dca
    enabled: false
    config:
      interval_seconds: 3600
      asset: `+asset+`
      amount: 5
  - name: price_trading
    enabled: true
    config:
      target_price: 100
      asset: `+asset+`
      amount: 10
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "SOLUSDT", cfg.Symbol)
	require.True(t, cfg.UseSimulation)
	require.Equal(t, uint64(10), cfg.Health.BorrowDebit)
	require.Equal(t, uint64(10), cfg.Health.RepayCredit)

	require.True(t, cfg.AutomationEnabled)
	require.Equal(t, uint64(50), cfg.Automation.TriggerHealthFactor)
	require.Equal(t, uint64(80), cfg.Automation.TargetHealthFactor)

	require.False(t, cfg.DCAEnabled, "disabled features stay disabled")

	require.True(t, cfg.PriceTradingEnabled)
	require.Equal(t, uint64(100), cfg.PriceTrading.TargetPrice)
	require.Equal(t, asset, cfg.PriceTrading.Asset)
	require.Equal(t, uint64(10), cfg.PriceTrading.Amount)

	require.Equal(t, ":9090", cfg.Normal.MetricsListenAddr)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
symbol: SOLUSDT
`+baseBlocks)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.UseSimulation, "simulation is the default mode")
	require.False(t, cfg.AutomationEnabled)
	require.False(t, cfg.DCAEnabled)
	require.False(t, cfg.PriceTradingEnabled)
}

func TestLoadConfigRejectsBadAutomationOrdering(t *testing.T) {
	path := writeConfig(t, `
symbol: SOLUSDT
`+baseBlocks+`
features:
  - name: automation
    enabled: true
    config:
      trigger_health_factor: 80
      target_health_factor: 50
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "automation")
}

func TestLoadConfigRejectsUnknownFeature(t *testing.T) {
	path := writeConfig(t, `
symbol: SOLUSDT
`+baseBlocks+`
features:
  - name: margin_farming
    enabled: true
    config: {}
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "margin_farming")
}

func TestLoadConfigRejectsBadAsset(t *testing.T) {
	path := writeConfig(t, `
symbol: SOLUSDT
`+baseBlocks+`
features:
  - name: dca
    enabled: true
    config:
      interval_seconds: 3600
      asset: not-hex
      amount: 5
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateMissingSymbol(t *testing.T) {
	path := writeConfig(t, baseBlocks)
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "symbol")
}
