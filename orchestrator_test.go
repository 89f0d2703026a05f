package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"auto_lend_go_1/config"
	"auto_lend_go_1/logs"
	"auto_lend_go_1/position"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "orchestrator-test")
	if err != nil {
		os.Exit(1)
	}
	logCfg := &config.LogConfig{LogLevel: "error", MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
	if err := logs.Init(logCfg, filepath.Join(dir, "test.log")); err != nil {
		os.Exit(1)
	}
	code := m.Run()
	logs.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func testConfig() *config.Config {
	return &config.Config{
		Symbol:        "SOLUSDT",
		UseSimulation: true,
		Health:        &config.HealthConfig{BorrowDebit: 10, RepayCredit: 10},
		Automation:    &config.AutomationConfig{},
		DCA:           &config.DCAConfig{},
		PriceTrading:  &config.PriceTradingConfig{},
		Logs:          &config.LogConfig{LogLevel: "error", MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
		Normal: &config.NormalConfig{
			HTTPTimeoutSeconds:       5,
			MonitorIntervalSeconds:   1,
			HeartbeatIntervalMinutes: 1,
			LogDirectory:             "logs",
			StateDirectory:           "state",
		},
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "positions.json")
	o, err := NewOrchestrator(testConfig(), &config.EnvConfig{}, statePath)
	require.NoError(t, err)
	return o
}

func TestInitializeDefaults(t *testing.T) {
	o := newTestOrchestrator(t)

	st, err := o.Position()
	require.NoError(t, err)
	require.Equal(t, position.InitialHealthFactor, st.HealthFactor)
	require.False(t, st.AutomationEnabled)
}

// initialize -> health 100; one borrow with no automation -> 90, no trigger.
func TestBorrowWithoutAutomationConfigured(t *testing.T) {
	o := newTestOrchestrator(t)

	fired, err := o.Borrow()
	require.NoError(t, err)
	require.False(t, fired)

	st, err := o.Position()
	require.NoError(t, err)
	require.Equal(t, uint64(90), st.HealthFactor)
}

// set_automation(50, 80), borrow down to the trigger, next borrow restores
// to the target within the same operation.
func TestBorrowUntilAutomationFires(t *testing.T) {
	o := newTestOrchestrator(t)
	require.NoError(t, o.SetAutomation(50, 80))

	fired := false
	borrows := 0
	for !fired {
		var err error
		fired, err = o.Borrow()
		require.NoError(t, err)
		borrows++
		require.Less(t, borrows, 20, "automation never fired")
	}

	// 100 -> 50 in five debits of 10; the fifth hits the trigger exactly.
	require.Equal(t, 5, borrows)

	st, err := o.Position()
	require.NoError(t, err)
	require.Equal(t, uint64(80), st.HealthFactor)
}

func TestSetAutomationRejectsBadOrdering(t *testing.T) {
	o := newTestOrchestrator(t)

	err := o.SetAutomation(80, 50)
	require.ErrorIs(t, err, position.ErrInvalidHealthFactors)

	st, err := o.Position()
	require.NoError(t, err)
	require.False(t, st.AutomationEnabled)
}

func TestAutoRepayCommand(t *testing.T) {
	o := newTestOrchestrator(t)

	require.ErrorIs(t, o.AutoRepay(), position.ErrAutomationNotEnabled)

	require.NoError(t, o.SetAutomation(50, 80))
	require.ErrorIs(t, o.AutoRepay(), position.ErrNoTriggerNeeded)
}

func TestRepayCreditsHealth(t *testing.T) {
	o := newTestOrchestrator(t)

	require.NoError(t, o.Repay())
	st, err := o.Position()
	require.NoError(t, err)
	require.Equal(t, uint64(110), st.HealthFactor)
}

func TestPriceTradeFlow(t *testing.T) {
	o := newTestOrchestrator(t)
	asset := strings.Repeat("ab", 32)

	_, err := o.ExecutePriceTrade(90)
	require.ErrorIs(t, err, position.ErrPriceTradingNotEnabled)

	require.NoError(t, o.SetPriceTrading(100, asset, 10))

	_, err = o.ExecutePriceTrade(150)
	require.ErrorIs(t, err, position.ErrPriceNotMet)

	p, err := o.ExecutePriceTrade(90)
	require.NoError(t, err)
	require.Equal(t, asset, p.Asset.String())
	require.Equal(t, uint64(10), p.Amount)

	require.Equal(t, uint64(10), o.ledger.TotalPurchased(position.FeaturePriceTrading))
}

func TestSetDCARejectsZeroInterval(t *testing.T) {
	o := newTestOrchestrator(t)
	asset := strings.Repeat("cd", 32)

	err := o.SetDCA(0, asset, 5)
	require.ErrorIs(t, err, position.ErrInvalidInterval)

	st, err := o.Position()
	require.NoError(t, err)
	require.False(t, st.DCAEnabled)
}

func TestMockBuy(t *testing.T) {
	o := newTestOrchestrator(t)
	asset := strings.Repeat("cd", 32)
	other := strings.Repeat("ef", 32)

	_, err := o.MockBuy(position.FeatureSchedule, asset, 5)
	require.ErrorIs(t, err, position.ErrScheduleNotEnabled)

	require.NoError(t, o.SetDCA(3600, asset, 5))

	_, err = o.MockBuy(position.FeatureSchedule, other, 5)
	require.ErrorIs(t, err, position.ErrAssetMismatch)

	p, err := o.MockBuy(position.FeatureSchedule, asset, 5)
	require.NoError(t, err)
	require.Equal(t, uint64(5), p.Amount)
}

func TestConfiguredFeaturesApplyAtStartup(t *testing.T) {
	cfg := testConfig()
	cfg.AutomationEnabled = true
	cfg.Automation = &config.AutomationConfig{TriggerHealthFactor: 50, TargetHealthFactor: 80}
	cfg.PriceTradingEnabled = true
	cfg.PriceTrading = &config.PriceTradingConfig{TargetPrice: 100, Asset: strings.Repeat("ab", 32), Amount: 10}

	o, err := NewOrchestrator(cfg, &config.EnvConfig{}, filepath.Join(t.TempDir(), "positions.json"))
	require.NoError(t, err)

	st, err := o.Position()
	require.NoError(t, err)
	require.True(t, st.AutomationEnabled)
	require.Equal(t, uint64(50), st.TriggerHealthFactor)
	require.True(t, st.PriceTradingEnabled)
	require.Equal(t, uint64(100), st.TargetPrice)
}

func TestStateSurvivesRestart(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "positions.json")

	o, err := NewOrchestrator(testConfig(), &config.EnvConfig{}, statePath)
	require.NoError(t, err)
	_, err = o.Borrow()
	require.NoError(t, err)
	firstID := o.accountID

	o2, err := NewOrchestrator(testConfig(), &config.EnvConfig{}, statePath)
	require.NoError(t, err)
	require.Equal(t, firstID, o2.accountID, "restart resumes the persisted account")

	st, err := o2.Position()
	require.NoError(t, err)
	require.Equal(t, uint64(90), st.HealthFactor)
}

func TestLiveModeRequiresFeedURL(t *testing.T) {
	cfg := testConfig()
	cfg.UseSimulation = false

	_, err := NewOrchestrator(cfg, &config.EnvConfig{}, filepath.Join(t.TempDir(), "positions.json"))
	require.Error(t, err)
}
