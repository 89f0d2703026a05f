// health/manager.go
package health

import (
	"auto_lend_go_1/position"
	"auto_lend_go_1/utils"
)

// Manager applies borrow/repay deltas to the health factor and owns the
// automation trigger. It mutates the record handed to it and nothing else;
// atomicity comes from running inside a state-manager Update.
type Manager struct {
	borrowDebit uint64
	repayCredit uint64
}

// NewManager creates a health manager with the configured per-operation
// debit and credit amounts.
func NewManager(borrowDebit, repayCredit uint64) *Manager {
	return &Manager{
		borrowDebit: borrowDebit,
		repayCredit: repayCredit,
	}
}

// SetAutomation configures the automated restore: fire at or below trigger,
// restore to target. The ordering check runs before any field is written.
func (m *Manager) SetAutomation(st *position.PositionState, trigger, target uint64) error {
	if err := position.ValidateAutomationParams(trigger, target); err != nil {
		return err
	}
	st.TriggerHealthFactor = trigger
	st.TargetHealthFactor = target
	st.AutomationEnabled = true
	return nil
}

// Borrow debits the health factor (saturating at zero) and then re-runs the
// canonical automation check, so a borrow that drops the account to the
// trigger threshold is restored within the same operation. It reports
// whether the trigger fired.
func (m *Manager) Borrow(st *position.PositionState) bool {
	st.HealthFactor = utils.SaturatingSub(st.HealthFactor, m.borrowDebit)
	return m.EvaluateAutomation(st)
}

// Repay credits the health factor. The addition saturates at the uint64
// ceiling so repay stays infallible.
func (m *Manager) Repay(st *position.PositionState) {
	st.HealthFactor = utils.SaturatingAdd(st.HealthFactor, m.repayCredit)
}

// EvaluateAutomation is the one canonical trigger predicate and restore
// mutation. Both Borrow and AutoRepay go through it, so the condition cannot
// drift between call sites. The condition uses <=, so hitting the trigger
// exactly fires. When the condition is false nothing is mutated.
func (m *Manager) EvaluateAutomation(st *position.PositionState) bool {
	if !st.AutomationEnabled || st.TriggerHealthFactor == 0 || st.HealthFactor > st.TriggerHealthFactor {
		return false
	}
	st.HealthFactor = st.TargetHealthFactor
	return true
}

// AutoRepay is the explicit trigger command. It fails with a distinct error
// for each unmet precondition instead of silently not firing, then performs
// the same restore as the implicit borrow-side check.
func (m *Manager) AutoRepay(st *position.PositionState) error {
	if err := position.ValidateFeatureEnabled(st.AutomationEnabled, position.FeatureAutomation); err != nil {
		return err
	}
	if st.HealthFactor > st.TriggerHealthFactor {
		return position.ErrNoTriggerNeeded
	}
	// A zero trigger means automation is unarmed; the canonical predicate
	// refuses to fire and the explicit command reports the same outcome.
	if !m.EvaluateAutomation(st) {
		return position.ErrNoTriggerNeeded
	}
	return nil
}
