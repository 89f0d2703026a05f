// state/state.go
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"auto_lend_go_1/position"

	"github.com/google/uuid"
)

// --- 1. Interface ---

// StateManagerInterface defines all capabilities of the state manager for
// upper-level modules (orchestrator, monitor, engines) to call. The
// interface decouples them from the file-backed implementation, which stands
// in for the host storage layer.
type StateManagerInterface interface {
	// Initialize creates the position record for an account with the default
	// health factor and all features disabled. Creating twice fails.
	Initialize(accountID uuid.UUID) (position.PositionState, error)
	// Get returns a copy of the account's position record.
	Get(accountID uuid.UUID) (position.PositionState, error)
	// Update runs fn against a copy of the account's record and commits the
	// copy only if fn returns nil. A failing fn leaves no partial mutation,
	// matching the all-or-nothing transaction the host would provide.
	Update(accountID uuid.UUID, fn func(*position.PositionState) error) error
	// Accounts lists every initialized account id.
	Accounts() []uuid.UUID
}

// --- 2. Persisted shape ---

// book is the top-level structure persisted to the state file.
type book struct {
	Positions map[string]*position.PositionState `json:"positions"`
}

// --- 3. File-backed implementation ---

// StateManager is the concrete file implementation of StateManagerInterface.
type StateManager struct {
	mu       sync.RWMutex
	filePath string
	state    *book
}

// NewStateManager loads existing state from filePath, or creates a fresh
// empty state file if none exists yet.
func NewStateManager(filePath string) (*StateManager, error) {
	sm := &StateManager{
		filePath: filePath,
		state:    &book{Positions: make(map[string]*position.PositionState)},
	}

	if err := sm.load(); err != nil {
		if os.IsNotExist(err) {
			// Create the file up front so later saves cannot surprise us.
			if err := sm.save(); err != nil {
				return nil, fmt.Errorf("failed to create initial empty state file: %w", err)
			}
			return sm, nil
		}
		return nil, fmt.Errorf("failed to load initial state: %w", err)
	}
	if sm.state.Positions == nil {
		sm.state.Positions = make(map[string]*position.PositionState)
	}

	return sm, nil
}

// save writes the state atomically via a temp file rename. Callers hold the lock.
func (sm *StateManager) save() error {
	data, err := json.MarshalIndent(sm.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state for saving: %w", err)
	}

	tmpFilePath := sm.filePath + ".tmp"
	if err := os.WriteFile(tmpFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to temporary state file: %w", err)
	}

	return os.Rename(tmpFilePath, sm.filePath)
}

func (sm *StateManager) load() error {
	data, err := os.ReadFile(sm.filePath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil // empty file is valid, keep the default empty state
	}
	return json.Unmarshal(data, sm.state)
}

// --- 4. Interface methods ---

func (sm *StateManager) Initialize(accountID uuid.UUID) (position.PositionState, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	key := accountID.String()
	if _, ok := sm.state.Positions[key]; ok {
		return position.PositionState{}, position.ErrAlreadyInitialized
	}

	st := position.NewPositionState(position.InitialHealthFactor)
	sm.state.Positions[key] = st
	if err := sm.save(); err != nil {
		delete(sm.state.Positions, key)
		return position.PositionState{}, err
	}
	return *st, nil
}

func (sm *StateManager) Get(accountID uuid.UUID) (position.PositionState, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	st, ok := sm.state.Positions[accountID.String()]
	if !ok {
		return position.PositionState{}, position.ErrNotInitialized
	}
	// Return a copy so callers cannot mutate around the engines.
	return *st, nil
}

func (sm *StateManager) Update(accountID uuid.UUID, fn func(*position.PositionState) error) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	key := accountID.String()
	st, ok := sm.state.Positions[key]
	if !ok {
		return position.ErrNotInitialized
	}

	// Mutate a copy; commit only on success so validation failures leave the
	// record untouched. A failed save rolls the map back too, so callers can
	// trust that an Update error means nothing committed, in memory or on
	// disk.
	working := *st
	if err := fn(&working); err != nil {
		return err
	}
	sm.state.Positions[key] = &working
	if err := sm.save(); err != nil {
		sm.state.Positions[key] = st
		return err
	}
	return nil
}

func (sm *StateManager) Accounts() []uuid.UUID {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(sm.state.Positions))
	for key := range sm.state.Positions {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
