// pricetrigger/manager.go
package pricetrigger

import (
	"auto_lend_go_1/executor"
	"auto_lend_go_1/position"
)

// Manager configures the price-conditional one-shot purchase and evaluates a
// supplied price against the configured target. The price is trusted as
// given; staleness and signature checks belong to the price-feed provider.
type Manager struct {
	exec executor.Executor
}

func NewManager(exec executor.Executor) *Manager {
	return &Manager{exec: exec}
}

// SetPriceTrigger validates and writes the price-trigger configuration in
// one step. Validation failures leave an existing configuration untouched.
func (m *Manager) SetPriceTrigger(st *position.PositionState, targetPrice uint64, asset position.Asset, amount uint64) error {
	if err := position.ValidatePriceParams(targetPrice, amount); err != nil {
		return err
	}
	st.TargetPrice = targetPrice
	st.PricedAsset = asset
	st.PricedAmount = amount
	st.PriceTradingEnabled = true
	return nil
}

// ExecutePriceTrade fires the configured purchase when currentPrice is at or
// below the target. The executor re-checks the asset match, so a mismatch
// fails even after the price condition is satisfied.
func (m *Manager) ExecutePriceTrade(st *position.PositionState, currentPrice uint64) (*executor.Purchase, error) {
	if err := position.ValidateFeatureEnabled(st.PriceTradingEnabled, position.FeaturePriceTrading); err != nil {
		return nil, err
	}
	if currentPrice > st.TargetPrice {
		return nil, position.ErrPriceNotMet
	}
	return m.exec.Confirm(st, position.FeaturePriceTrading, st.PricedAsset, st.PricedAmount, currentPrice)
}
