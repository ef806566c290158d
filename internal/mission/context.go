package mission

import (
	"sync"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Context holds the mission loaded for the current replay session.
type Context struct {
	mu      sync.RWMutex
	mission *core.Mission
	// Fallback records that the real source failed and the built-in
	// sample mission is playing instead.
	fallback bool
}

// NewContext creates a Context with no mission loaded.
func NewContext() *Context {
	return &Context{}
}

// Get returns the current mission, or nil when none is loaded.
func (mc *Context) Get() *core.Mission {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.mission
}

// Set installs the loaded mission.
func (mc *Context) Set(m *core.Mission, fallback bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.mission = m
	mc.fallback = fallback
}

// IsFallback reports whether the sample mission is in use.
func (mc *Context) IsFallback() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.fallback
}
