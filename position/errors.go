// position/errors.go
package position

import "errors"

// Every failing precondition maps to exactly one of these values. Callers
// match them with errors.Is; no error is ever swallowed or retried.
var (
	ErrInvalidHealthFactors   = errors.New("position: target health factor must exceed trigger health factor")
	ErrInvalidInterval        = errors.New("position: interval must be positive")
	ErrInvalidAmount          = errors.New("position: amount must be positive")
	ErrInvalidPrice           = errors.New("position: price must be positive")
	ErrAutomationNotEnabled   = errors.New("position: automation not enabled")
	ErrScheduleNotEnabled     = errors.New("position: schedule not enabled")
	ErrPriceTradingNotEnabled = errors.New("position: price trading not enabled")
	ErrNoTriggerNeeded        = errors.New("position: health factor above trigger threshold")
	ErrPriceNotMet            = errors.New("position: current price above target price")
	ErrAssetMismatch          = errors.New("position: asset does not match configured asset")
	ErrAlreadyInitialized     = errors.New("position: account already initialized")
	ErrNotInitialized         = errors.New("position: account not initialized")
)
