// executor/executor.go
package executor

import (
	"fmt"
	"time"

	"auto_lend_go_1/position"

	"github.com/google/uuid"
)

// Ensure MockExecutor implements Executor.
var _ Executor = (*MockExecutor)(nil)

// Executor is the purchase boundary the schedule and price-trigger paths
// fire into. Implementations confirm that a requested purchase matches the
// account's configuration; real asset movement belongs to an external
// transfer service behind this interface.
type Executor interface {
	// Confirm checks that the feature backing the purchase is enabled and
	// that asset matches the configured asset for that feature, then records
	// the confirmed purchase. No transfer is performed.
	Confirm(st *position.PositionState, feature position.Feature, asset position.Asset, amount, price uint64) (*Purchase, error)
}

// Purchase is one confirmed mock purchase.
type Purchase struct {
	ID      uuid.UUID        `json:"id"`
	Feature position.Feature `json:"feature"`
	Asset   position.Asset   `json:"asset"`
	Amount  uint64           `json:"amount"`
	// Price is the price supplied by the caller at confirmation time; zero
	// when the path has no price (manual and schedule purchases).
	Price uint64    `json:"price"`
	Time  time.Time `json:"time"`
}

// MockExecutor is the confirmation-only stand-in for a real trade service.
type MockExecutor struct {
	ledger *Ledger
}

func NewMockExecutor(ledger *Ledger) *MockExecutor {
	return &MockExecutor{ledger: ledger}
}

func (e *MockExecutor) Confirm(st *position.PositionState, feature position.Feature, asset position.Asset, amount, price uint64) (*Purchase, error) {
	switch feature {
	case position.FeatureSchedule:
		if err := position.ValidateFeatureEnabled(st.DCAEnabled, feature); err != nil {
			return nil, err
		}
		if asset != st.ScheduledAsset {
			return nil, fmt.Errorf("%w: want %s got %s", position.ErrAssetMismatch, st.ScheduledAsset, asset)
		}
	case position.FeaturePriceTrading:
		if err := position.ValidateFeatureEnabled(st.PriceTradingEnabled, feature); err != nil {
			return nil, err
		}
		if asset != st.PricedAsset {
			return nil, fmt.Errorf("%w: want %s got %s", position.ErrAssetMismatch, st.PricedAsset, asset)
		}
	default:
		return nil, fmt.Errorf("executor: feature %q has no purchase configuration", feature)
	}

	p := &Purchase{
		ID:      uuid.New(),
		Feature: feature,
		Asset:   asset,
		Amount:  amount,
		Price:   price,
		Time:    time.Now().UTC(),
	}
	if e.ledger != nil {
		e.ledger.Record(*p)
	}
	return p, nil
}
