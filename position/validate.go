// position/validate.go
package position

import "fmt"

// The validators below are pure predicates. They run before any mutation is
// applied, so a failure always leaves the state exactly as it was.

// ValidateAutomationParams checks the threshold ordering for automation:
// the restore target must sit strictly above the trigger level, otherwise
// every restore would immediately re-arm the trigger.
func ValidateAutomationParams(trigger, target uint64) error {
	if target <= trigger {
		return fmt.Errorf("%w: trigger=%d target=%d", ErrInvalidHealthFactors, trigger, target)
	}
	return nil
}

// ValidateScheduleParams checks a recurring-purchase configuration.
func ValidateScheduleParams(interval, amount uint64) error {
	if interval == 0 {
		return ErrInvalidInterval
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidatePriceParams checks a price-conditional purchase configuration.
func ValidatePriceParams(price, amount uint64) error {
	if price == 0 {
		return ErrInvalidPrice
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateFeatureEnabled maps a disabled feature flag to its distinct error.
func ValidateFeatureEnabled(enabled bool, feature Feature) error {
	if enabled {
		return nil
	}
	switch feature {
	case FeatureAutomation:
		return ErrAutomationNotEnabled
	case FeatureSchedule:
		return ErrScheduleNotEnabled
	case FeaturePriceTrading:
		return ErrPriceTradingNotEnabled
	default:
		return fmt.Errorf("position: unknown feature %q", feature)
	}
}
