// position/types.go
package position

import (
	"encoding/hex"
	"fmt"
)

// InitialHealthFactor is the health metric every account starts with.
const InitialHealthFactor uint64 = 100

// Asset is an opaque 32-byte asset identifier. The manager never interprets
// it; it only checks equality between a configured asset and a requested one.
type Asset [32]byte

// ParseAsset decodes a 64-character hex string into an Asset.
func ParseAsset(s string) (Asset, error) {
	var a Asset
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid asset id %q: %w", s, err)
	}
	if len(raw) != len(a) {
		return a, fmt.Errorf("invalid asset id %q: want %d bytes, got %d", s, len(a), len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

func (a Asset) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the asset id is the all-zero placeholder.
func (a Asset) IsZero() bool {
	return a == Asset{}
}

// MarshalText implements encoding.TextMarshaler so assets persist as hex
// strings instead of JSON byte arrays.
func (a Asset) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Asset) UnmarshalText(text []byte) error {
	parsed, err := ParseAsset(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Feature names one of the three configurable automation features. It is
// used to select the right not-enabled error when a precondition fails.
type Feature string

const (
	FeatureAutomation   Feature = "automation"
	FeatureSchedule     Feature = "dca"
	FeaturePriceTrading Feature = "price_trading"
)

// PositionState is the per-account record the whole system revolves around.
// It is created once by the state manager and mutated only through the
// health, schedule, and pricetrigger managers.
type PositionState struct {
	// HealthFactor is the current risk metric; higher is safer.
	HealthFactor uint64 `json:"health_factor"`
	// TriggerHealthFactor is the level at or below which automation fires.
	TriggerHealthFactor uint64 `json:"trigger_health_factor"`
	// TargetHealthFactor is the level automation restores to.
	TargetHealthFactor uint64 `json:"target_health_factor"`
	AutomationEnabled  bool   `json:"automation_enabled"`

	// DCAInterval is the recurring-purchase interval in seconds.
	DCAInterval     uint64 `json:"dca_interval"`
	DCAEnabled      bool   `json:"dca_enabled"`
	ScheduledAsset  Asset  `json:"scheduled_asset"`
	ScheduledAmount uint64 `json:"scheduled_amount"`

	// TargetPrice is the price at or below which the one-shot purchase fires.
	TargetPrice         uint64 `json:"target_price"`
	PriceTradingEnabled bool   `json:"price_trading_enabled"`
	PricedAsset         Asset  `json:"priced_asset"`
	PricedAmount        uint64 `json:"priced_amount"`
}

// NewPositionState returns the freshly initialized record: the given health
// factor, all features disabled, everything else zero.
func NewPositionState(initialHealth uint64) *PositionState {
	return &PositionState{HealthFactor: initialHealth}
}
