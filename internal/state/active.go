package state

import (
	"sync"
	"time"

	"dynotest/internal/codec"
	"dynotest/internal/models"
)

// ActiveTest is a snapshot of who currently holds the rig and with
// what configuration, shown on the live dashboard.
type ActiveTest struct {
	User      models.UserSession `json:"user"`
	Config    *codec.MotorConfig `json:"config,omitempty"`
	StartedAt time.Time          `json:"started_at"`
}

// ActiveSession is the single shared "rig is in use" slot. It is owned
// by the composition root and passed into handlers; the critical
// sections are read-copy-modify-store and never span I/O.
type ActiveSession struct {
	mu     sync.RWMutex
	active *ActiveTest
}

func NewActiveSession() *ActiveSession {
	return &ActiveSession{}
}

// Set replaces the slot; pass nil to clear it.
func (a *ActiveSession) Set(active *ActiveTest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = active
}

// SetConfig attaches config to the slot if userID currently holds it.
// The holder check and the write share the critical section so the
// config can never land on a different holder.
func (a *ActiveSession) SetConfig(userID int64, config *codec.MotorConfig) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == nil || a.active.User.ID != userID {
		return false
	}
	a.active.Config = config
	return true
}

// Get returns a copy of the slot, or nil when the rig is idle.
func (a *ActiveSession) Get() *ActiveTest {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.active == nil {
		return nil
	}
	snapshot := *a.active
	return &snapshot
}

// Clear empties the slot if user holds it and returns the session
// duration, for the usage-history row written at logout.
func (a *ActiveSession) Clear(userID int64) (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == nil || a.active.User.ID != userID {
		return 0, false
	}
	duration := time.Since(a.active.StartedAt)
	a.active = nil
	return duration, true
}
