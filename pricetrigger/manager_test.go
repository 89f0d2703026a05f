package pricetrigger

import (
	"testing"

	"auto_lend_go_1/executor"
	"auto_lend_go_1/position"

	"github.com/stretchr/testify/require"
)

func testAsset(b byte) position.Asset {
	var a position.Asset
	for i := range a {
		a[i] = b
	}
	return a
}

func TestSetPriceTrigger(t *testing.T) {
	m := NewManager(executor.NewMockExecutor(executor.NewLedger()))

	t.Run("valid config enables price trading", func(t *testing.T) {
		st := position.NewPositionState(position.InitialHealthFactor)
		asset := testAsset(0x22)

		require.NoError(t, m.SetPriceTrigger(st, 100, asset, 10))
		require.True(t, st.PriceTradingEnabled)
		require.Equal(t, uint64(100), st.TargetPrice)
		require.Equal(t, asset, st.PricedAsset)
		require.Equal(t, uint64(10), st.PricedAmount)
	})

	t.Run("zero price is rejected without mutation", func(t *testing.T) {
		st := position.NewPositionState(position.InitialHealthFactor)

		err := m.SetPriceTrigger(st, 0, testAsset(0x22), 10)
		require.ErrorIs(t, err, position.ErrInvalidPrice)
		require.False(t, st.PriceTradingEnabled)
		require.Zero(t, st.TargetPrice)
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		st := position.NewPositionState(position.InitialHealthFactor)

		err := m.SetPriceTrigger(st, 100, testAsset(0x22), 0)
		require.ErrorIs(t, err, position.ErrInvalidAmount)
		require.False(t, st.PriceTradingEnabled)
	})
}

func TestExecutePriceTrade(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		m := NewManager(executor.NewMockExecutor(executor.NewLedger()))
		st := position.NewPositionState(position.InitialHealthFactor)

		_, err := m.ExecutePriceTrade(st, 90)
		require.ErrorIs(t, err, position.ErrPriceTradingNotEnabled)
	})

	t.Run("price above target does not fire", func(t *testing.T) {
		ledger := executor.NewLedger()
		m := NewManager(executor.NewMockExecutor(ledger))
		st := position.NewPositionState(position.InitialHealthFactor)
		require.NoError(t, m.SetPriceTrigger(st, 100, testAsset(0x22), 10))

		_, err := m.ExecutePriceTrade(st, 150)
		require.ErrorIs(t, err, position.ErrPriceNotMet)
		require.Zero(t, ledger.Count())
	})

	t.Run("price at or below target fires with configured asset and amount", func(t *testing.T) {
		ledger := executor.NewLedger()
		m := NewManager(executor.NewMockExecutor(ledger))
		st := position.NewPositionState(position.InitialHealthFactor)
		asset := testAsset(0x22)
		require.NoError(t, m.SetPriceTrigger(st, 100, asset, 10))

		p, err := m.ExecutePriceTrade(st, 90)
		require.NoError(t, err)
		require.Equal(t, asset, p.Asset)
		require.Equal(t, uint64(10), p.Amount)
		require.Equal(t, uint64(90), p.Price)

		// Exactly at the target also fires: the condition uses <=.
		p, err = m.ExecutePriceTrade(st, 100)
		require.NoError(t, err)
		require.Equal(t, uint64(100), p.Price)

		require.Equal(t, 2, ledger.Count())
	})

	// Even with the price condition satisfied, the confirmation step still
	// rejects an asset that no longer matches the configuration.
	t.Run("asset mismatch inside confirmation", func(t *testing.T) {
		ledger := executor.NewLedger()
		exec := executor.NewMockExecutor(ledger)
		m := NewManager(exec)
		st := position.NewPositionState(position.InitialHealthFactor)
		require.NoError(t, m.SetPriceTrigger(st, 100, testAsset(0x22), 10))

		_, err := exec.Confirm(st, position.FeaturePriceTrading, testAsset(0x33), 10, 90)
		require.ErrorIs(t, err, position.ErrAssetMismatch)
		require.Zero(t, ledger.Count())
	})
}
