// orchestrator.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"auto_lend_go_1/config"
	"auto_lend_go_1/exchange"
	"auto_lend_go_1/executor"
	"auto_lend_go_1/health"
	"auto_lend_go_1/logs"
	"auto_lend_go_1/metrics"
	"auto_lend_go_1/monitor"
	"auto_lend_go_1/position"
	"auto_lend_go_1/pricetrigger"
	"auto_lend_go_1/schedule"
	"auto_lend_go_1/state"

	"github.com/google/uuid"
)

// Orchestrator wires the engines, state manager, and collaborators together
// and exposes one method per externally invokable operation. All state flows
// through StateManager.Update, never through direct field writes.
type Orchestrator struct {
	client          exchange.Client
	stateManager    state.StateManagerInterface
	healthManager   *health.Manager
	scheduleManager *schedule.Manager
	priceManager    *pricetrigger.Manager
	ledger          *executor.Ledger
	exec            executor.Executor
	accountID       uuid.UUID
	cfg             *config.Config
	metricsServer   *http.Server
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewOrchestrator(cfg *config.Config, envCfg *config.EnvConfig, stateFilePath string) (*Orchestrator, error) {
	var client exchange.Client
	if cfg.UseSimulation {
		mockClient := exchange.NewMockClient(20, 40)
		mockClient.SetBasePrice(cfg.Symbol, 100)
		client = mockClient
		logs.Warnf("<<<<<<<<<< WARNING: Running in simulation mode >>>>>>>>>>")
	} else {
		if envCfg.PriceFeedBaseURL == "" {
			return nil, fmt.Errorf("PRICE_FEED_BASE_URL must be set when use_simulation is false")
		}
		client = exchange.NewFeedClient(envCfg.PriceFeedBaseURL, cfg.Normal.HTTPTimeoutSeconds)
	}

	stateManager, err := state.NewStateManager(stateFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	logs.Infof("State manager initialized, state will be persisted to: %s", stateFilePath)

	// Reuse the persisted account when one exists; otherwise initialize a
	// fresh one with the default health factor.
	var accountID uuid.UUID
	if existing := stateManager.Accounts(); len(existing) > 0 {
		accountID = existing[0]
		logs.Infof("Resuming existing account %s", accountID)
	} else {
		accountID = uuid.New()
		if _, err := stateManager.Initialize(accountID); err != nil {
			return nil, fmt.Errorf("failed to initialize account: %w", err)
		}
		logs.Infof("Initialized new account %s with health_factor=%d", accountID, position.InitialHealthFactor)
	}

	ledger := executor.NewLedger()
	exec := executor.NewMockExecutor(ledger)

	o := &Orchestrator{
		client:          client,
		stateManager:    stateManager,
		healthManager:   health.NewManager(cfg.Health.BorrowDebit, cfg.Health.RepayCredit),
		scheduleManager: schedule.NewManager(),
		priceManager:    pricetrigger.NewManager(exec),
		ledger:          ledger,
		exec:            exec,
		accountID:       accountID,
		cfg:             cfg,
		stopChan:        make(chan struct{}),
	}

	if err := o.applyConfiguredFeatures(); err != nil {
		return nil, err
	}

	return o, nil
}

// applyConfiguredFeatures pushes the enabled feature sections from
// config.yaml through the same operations an external caller would use.
func (o *Orchestrator) applyConfiguredFeatures() error {
	if o.cfg.AutomationEnabled {
		a := o.cfg.Automation
		if err := o.SetAutomation(a.TriggerHealthFactor, a.TargetHealthFactor); err != nil {
			return fmt.Errorf("failed to apply automation config: %w", err)
		}
		logs.Infof("Automation configured: trigger=%d target=%d", a.TriggerHealthFactor, a.TargetHealthFactor)
	}
	if o.cfg.DCAEnabled {
		d := o.cfg.DCA
		if err := o.SetDCA(d.IntervalSeconds, d.Asset, d.Amount); err != nil {
			return fmt.Errorf("failed to apply dca config: %w", err)
		}
		logs.Infof("Schedule configured: interval=%ds amount=%d", d.IntervalSeconds, d.Amount)
	}
	if o.cfg.PriceTradingEnabled {
		p := o.cfg.PriceTrading
		if err := o.SetPriceTrading(p.TargetPrice, p.Asset, p.Amount); err != nil {
			return fmt.Errorf("failed to apply price_trading config: %w", err)
		}
		logs.Infof("Price trading configured: target_price=%d amount=%d", p.TargetPrice, p.Amount)
	}
	return nil
}

// Start launches the metrics listener and the monitor loop.
func (o *Orchestrator) Start() {
	if addr := o.cfg.Normal.MetricsListenAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		o.metricsServer = &http.Server{Addr: addr, Handler: mux}
		go func() {
			logs.Infof("Serving /metrics on %s", addr)
			if err := o.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logs.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		monitor.Start(o.client, o.stateManager, o.accountID, o.scheduleManager, o.priceManager, o.exec, o.cfg, o.stopChan)
	}()
	logs.Info("Orchestrator started.")
}

// Stop shuts everything down and waits for the monitor to exit.
func (o *Orchestrator) Stop() {
	close(o.stopChan)
	if o.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.metricsServer.Shutdown(ctx); err != nil {
			logs.Errorf("Metrics server shutdown failed: %v", err)
		}
	}
	o.wg.Wait()
	logs.Info("Orchestrator stopped.")
}

// --- Operation surface ---
// One method per external action. Each loads the state, validates, mutates,
// and commits atomically via the state manager.

func (o *Orchestrator) SetAutomation(trigger, target uint64) error {
	err := o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		return o.healthManager.SetAutomation(st, trigger, target)
	})
	metrics.IncOperation("set_automation", err)
	return err
}

// Borrow debits the health factor and reports whether the automated restore
// fired as a side effect.
func (o *Orchestrator) Borrow() (fired bool, err error) {
	err = o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		fired = o.healthManager.Borrow(st)
		return nil
	})
	metrics.IncOperation("borrow", err)
	if err == nil && fired {
		metrics.IncAutomationTrigger()
		logs.Infof("[Orchestrator] Borrow tripped automation, health restored to target")
	}
	o.reportHealth()
	return fired, err
}

func (o *Orchestrator) Repay() error {
	err := o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		o.healthManager.Repay(st)
		return nil
	})
	metrics.IncOperation("repay", err)
	o.reportHealth()
	return err
}

func (o *Orchestrator) AutoRepay() error {
	err := o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		return o.healthManager.AutoRepay(st)
	})
	metrics.IncOperation("auto_repay", err)
	if err == nil {
		metrics.IncAutomationTrigger()
	}
	o.reportHealth()
	return err
}

func (o *Orchestrator) SetDCA(intervalSeconds uint64, assetHex string, amount uint64) error {
	asset, err := position.ParseAsset(assetHex)
	if err != nil {
		metrics.IncOperation("set_dca", err)
		return err
	}
	err = o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		return o.scheduleManager.SetSchedule(st, intervalSeconds, asset, amount)
	})
	metrics.IncOperation("set_dca", err)
	return err
}

func (o *Orchestrator) SetPriceTrading(targetPrice uint64, assetHex string, amount uint64) error {
	asset, err := position.ParseAsset(assetHex)
	if err != nil {
		metrics.IncOperation("set_price_trading", err)
		return err
	}
	err = o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		return o.priceManager.SetPriceTrigger(st, targetPrice, asset, amount)
	})
	metrics.IncOperation("set_price_trading", err)
	return err
}

func (o *Orchestrator) ExecutePriceTrade(currentPrice uint64) (*executor.Purchase, error) {
	var purchase *executor.Purchase
	err := o.stateManager.Update(o.accountID, func(st *position.PositionState) error {
		p, err := o.priceManager.ExecutePriceTrade(st, currentPrice)
		purchase = p
		return err
	})
	metrics.IncOperation("execute_price_trade", err)
	if err == nil {
		metrics.IncPurchase(string(position.FeaturePriceTrading))
	}
	return purchase, err
}

// MockBuy is the manual one-shot purchase confirmation.
func (o *Orchestrator) MockBuy(feature position.Feature, assetHex string, amount uint64) (*executor.Purchase, error) {
	asset, err := position.ParseAsset(assetHex)
	if err != nil {
		metrics.IncOperation("mock_buy", err)
		return nil, err
	}
	st, err := o.stateManager.Get(o.accountID)
	if err != nil {
		metrics.IncOperation("mock_buy", err)
		return nil, err
	}
	purchase, err := o.exec.Confirm(&st, feature, asset, amount, 0)
	metrics.IncOperation("mock_buy", err)
	if err == nil {
		metrics.IncPurchase(string(feature))
	}
	return purchase, err
}

// Position returns a copy of the account's current record.
func (o *Orchestrator) Position() (position.PositionState, error) {
	return o.stateManager.Get(o.accountID)
}

func (o *Orchestrator) reportHealth() {
	if st, err := o.stateManager.Get(o.accountID); err == nil {
		metrics.SetHealthFactor(st.HealthFactor)
	}
}
