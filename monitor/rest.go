// monitor/rest.go
package monitor

import (
	"context"
	"errors"
	"time"

	"auto_lend_go_1/config"
	"auto_lend_go_1/exchange"
	"auto_lend_go_1/executor"
	"auto_lend_go_1/logs"
	"auto_lend_go_1/metrics"
	"auto_lend_go_1/position"
	"auto_lend_go_1/pricetrigger"
	"auto_lend_go_1/schedule"
	"auto_lend_go_1/state"

	"github.com/google/uuid"
)

// Start runs the external driver loop for one account: it polls the price
// feed, hands the polled price to the price-trigger engine, and plays the
// clock role for the recurring-purchase schedule. The engines never fire on
// their own; everything below is an explicit synchronous invocation.
func Start(
	client exchange.Client,
	stateManager state.StateManagerInterface,
	accountID uuid.UUID,
	scheduleManager *schedule.Manager,
	priceManager *pricetrigger.Manager,
	exec executor.Executor,
	cfg *config.Config,
	stopChan <-chan struct{},
) {
	ticker := time.NewTicker(time.Duration(cfg.Normal.MonitorIntervalSeconds) * time.Second)
	defer ticker.Stop()

	lastHeartbeat := time.Now()
	heartbeatInterval := time.Duration(cfg.Normal.HeartbeatIntervalMinutes) * time.Minute

	var lastScheduleRun time.Time
	// The price trigger is a one-shot intent. Firing never touches the
	// configuration fields, so the driver itself stops re-checking after a
	// confirmed purchase until the process is restarted or reconfigured.
	priceFired := false

	for {
		select {
		case <-stopChan:
			logs.Info("Monitor received stop signal, exiting.")
			return
		case <-ticker.C:
			currentPrice, err := client.GetPrice(cfg.Symbol)
			if err != nil {
				logs.Errorf("[Monitor] Failed to get price: %v", err)
				continue
			}
			metrics.SetFeedPrice(currentPrice)

			if !priceFired {
				priceFired = checkPriceTrigger(client, stateManager, accountID, priceManager, currentPrice, cfg.Symbol)
			}
			lastScheduleRun = checkSchedule(stateManager, accountID, scheduleManager, exec, currentPrice, lastScheduleRun)

			if time.Since(lastHeartbeat) >= heartbeatInterval {
				if st, err := stateManager.Get(accountID); err == nil {
					logs.Infof("[Monitor] Heartbeat: health_factor=%d price=%d", st.HealthFactor, currentPrice)
					metrics.SetHealthFactor(st.HealthFactor)
				}
				lastHeartbeat = time.Now()
			}
		}
	}
}

// checkPriceTrigger feeds one polled price to the price-trigger engine and
// reports whether the purchase fired. "Not configured" and "price not met"
// are the normal idle outcomes and stay at debug level.
func checkPriceTrigger(
	client exchange.Client,
	stateManager state.StateManagerInterface,
	accountID uuid.UUID,
	priceManager *pricetrigger.Manager,
	currentPrice uint64,
	symbol string,
) bool {
	var purchase *executor.Purchase
	err := stateManager.Update(accountID, func(st *position.PositionState) error {
		p, err := priceManager.ExecutePriceTrade(st, currentPrice)
		purchase = p
		return err
	})
	switch {
	case err == nil:
		logs.Infof("[Monitor] Price trigger fired: bought %d of %s at price %d", purchase.Amount, purchase.Asset, currentPrice)
		metrics.IncPurchase(string(position.FeaturePriceTrading))
		// Hand the confirmed purchase to the downstream trade collaborator.
		if fill, buyErr := client.Buy(context.Background(), symbol, purchase.Amount); buyErr != nil {
			logs.Warnf("[Monitor] Downstream buy not executed: %v", buyErr)
		} else {
			logs.Infof("[Monitor] Downstream buy filled: order=%s price=%d", fill.OrderID, fill.Price)
		}
		return true
	case errors.Is(err, position.ErrPriceNotMet), errors.Is(err, position.ErrPriceTradingNotEnabled):
		logs.Debugf("[Monitor] Price trigger idle at price %d: %v", currentPrice, err)
	default:
		logs.Errorf("[Monitor] Price trigger check failed: %v", err)
	}
	return false
}

// checkSchedule fires the recurring purchase when its interval has elapsed.
// The monitor is the external clock here; the engine only reports Due.
func checkSchedule(
	stateManager state.StateManagerInterface,
	accountID uuid.UUID,
	scheduleManager *schedule.Manager,
	exec executor.Executor,
	currentPrice uint64,
	lastRun time.Time,
) time.Time {
	st, err := stateManager.Get(accountID)
	if err != nil {
		logs.Errorf("[Monitor] Failed to load state for schedule check: %v", err)
		return lastRun
	}

	now := time.Now()
	if !scheduleManager.Due(&st, lastRun, now) {
		return lastRun
	}

	purchase, err := exec.Confirm(&st, position.FeatureSchedule, st.ScheduledAsset, st.ScheduledAmount, currentPrice)
	if err != nil {
		logs.Errorf("[Monitor] Scheduled purchase failed: %v", err)
		return lastRun
	}

	logs.Infof("[Monitor] Scheduled purchase confirmed: %d of %s", purchase.Amount, purchase.Asset)
	metrics.IncPurchase(string(position.FeatureSchedule))
	return now
}
