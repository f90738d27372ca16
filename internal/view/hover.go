package view

import "sync"

// Hover is the single hovered-listing slot shared by the list and map
// renderings. It is safe for concurrent use.
type Hover struct {
	mu sync.RWMutex
	id string
}

// Set marks id as hovered. An empty id clears the slot.
func (h *Hover) Set(id string) {
	h.mu.Lock()
	h.id = id
	h.mu.Unlock()
}

// Clear empties the slot.
func (h *Hover) Clear() {
	h.Set("")
}

// Reset empties the slot after the listing collection changes.
func (h *Hover) Reset() {
	h.Clear()
}

// Current returns the hovered id, if any.
func (h *Hover) Current() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.id, h.id != ""
}

// CurrentIn returns the hovered id only if exists reports it is still part
// of the visible result set.
func (h *Hover) CurrentIn(exists func(id string) bool) (string, bool) {
	id, ok := h.Current()
	if !ok || !exists(id) {
		return "", false
	}
	return id, true
}
