// schedule/manager.go
package schedule

import (
	"time"

	"auto_lend_go_1/position"
)

// Manager configures the recurring-purchase plan. It never fires on a timer
// itself; an external clock driver (the monitor loop here) asks Due and then
// invokes the purchase executor.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetSchedule validates and writes the recurring-purchase configuration in
// one step. On a validation failure no field is touched, so a previously
// configured schedule survives a bad update intact.
func (m *Manager) SetSchedule(st *position.PositionState, interval uint64, asset position.Asset, amount uint64) error {
	if err := position.ValidateScheduleParams(interval, amount); err != nil {
		return err
	}
	st.DCAInterval = interval
	st.ScheduledAsset = asset
	st.ScheduledAmount = amount
	st.DCAEnabled = true
	return nil
}

// Due reports whether the configured interval has elapsed since lastRun. A
// zero lastRun means the schedule has never fired and is due immediately.
func (m *Manager) Due(st *position.PositionState, lastRun, now time.Time) bool {
	if !st.DCAEnabled {
		return false
	}
	if lastRun.IsZero() {
		return true
	}
	return now.Sub(lastRun) >= time.Duration(st.DCAInterval)*time.Second
}
