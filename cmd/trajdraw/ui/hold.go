package ui

import (
	"sync"
	"time"
)

// HoldDetector infers key-release from silence. Terminals only deliver
// presses, repeating them while a key is held, so a key counts as held
// until no press has arrived for the release window. Each press resets
// the window like a debounce.
type HoldDetector[K comparable] struct {
	mu       sync.Mutex
	window   time.Duration
	key      K
	held     bool
	lastSeen time.Time
}

// NewHoldDetector creates a detector with the given release window.
func NewHoldDetector[K comparable](window time.Duration) *HoldDetector[K] {
	return &HoldDetector[K]{window: window}
}

// Press records a press of k at now. A different key replaces the held one.
func (h *HoldDetector[K]) Press(k K, now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = k
	h.held = true
	h.lastSeen = now
}

// Held returns the key still held at now. It reports a release once,
// the first time the window has elapsed.
func (h *HoldDetector[K]) Held(now time.Time) (k K, held bool, released bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.held {
		return k, false, false
	}
	if now.Sub(h.lastSeen) > h.window {
		h.held = false
		return h.key, false, true
	}
	return h.key, true, false
}

// Release forgets the held key immediately.
func (h *HoldDetector[K]) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero K
	h.key = zero
	h.held = false
}

// SetWindow changes the release window, e.g. after a config reload.
func (h *HoldDetector[K]) SetWindow(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.window = d
}

// Window returns the release window.
func (h *HoldDetector[K]) Window() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.window
}
