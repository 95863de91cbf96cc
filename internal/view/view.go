// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package view holds the lifecycle and message state shared by every mounted view.

A view is mounted, used, then unmounted. Each mount opens a new epoch; work
started under an older epoch is stale and its results are ignored, so a slow
response can never write into a view that was already torn down or remounted.
*/
package view

import (
	"sync"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
)

// Lifecycle tracks the mount epoch, the loading flag and the error message of a view.
type Lifecycle struct {
	mu       sync.RWMutex
	mounted  bool
	epoch    uint64
	inflight int
	message  string
}

// Mount opens a new epoch and clears the previous message.
func (lifecycle *Lifecycle) Mount() uint64 {
	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()

	lifecycle.mounted = true
	lifecycle.epoch++
	lifecycle.message = ""
	return lifecycle.epoch
}

// Unmount ends the current epoch. It is idempotent.
func (lifecycle *Lifecycle) Unmount() {
	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()

	if lifecycle.mounted {
		lifecycle.mounted = false
		lifecycle.epoch++
	}
	lifecycle.inflight = 0
}

// Epoch returns the current epoch and whether the view is mounted.
func (lifecycle *Lifecycle) Epoch() (uint64, bool) {
	lifecycle.mu.RLock()
	defer lifecycle.mu.RUnlock()
	return lifecycle.epoch, lifecycle.mounted
}

// Mounted reports whether the view is mounted.
func (lifecycle *Lifecycle) Mounted() bool {
	_, mounted := lifecycle.Epoch()
	return mounted
}

// Current reports whether epoch is still the live one.
func (lifecycle *Lifecycle) Current(epoch uint64) bool {
	lifecycle.mu.RLock()
	defer lifecycle.mu.RUnlock()
	return lifecycle.mounted && lifecycle.epoch == epoch
}

/*
Begin marks the start of an operation under epoch.

Returns:
  - func(): Call when the operation returns; it clears the loading flag
*/
func (lifecycle *Lifecycle) Begin(epoch uint64) func() {
	lifecycle.mu.Lock()
	if lifecycle.epoch == epoch {
		lifecycle.inflight++
	}
	lifecycle.mu.Unlock()

	return func() {
		lifecycle.mu.Lock()
		defer lifecycle.mu.Unlock()
		if lifecycle.epoch == epoch && lifecycle.inflight > 0 {
			lifecycle.inflight--
		}
	}
}

// Loading reports whether an operation is outstanding.
func (lifecycle *Lifecycle) Loading() bool {
	lifecycle.mu.RLock()
	defer lifecycle.mu.RUnlock()
	return lifecycle.inflight > 0
}

/*
Fail records err as the view's message when epoch is current and returns the
error as an [*apperr.AppError] for the caller to render.
*/
func (lifecycle *Lifecycle) Fail(epoch uint64, err error) *apperr.AppError {
	ae := apperr.From(err)

	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()

	if lifecycle.mounted && lifecycle.epoch == epoch {
		lifecycle.message = ae.Message
	}
	return ae
}

// Clear drops the message when epoch is current.
func (lifecycle *Lifecycle) Clear(epoch uint64) {
	lifecycle.mu.Lock()
	defer lifecycle.mu.Unlock()

	if lifecycle.epoch == epoch {
		lifecycle.message = ""
	}
}

// Error returns the message set by the last failed operation.
func (lifecycle *Lifecycle) Error() string {
	lifecycle.mu.RLock()
	defer lifecycle.mu.RUnlock()
	return lifecycle.message
}

// State is the rendered summary of a view.
type State[E any] struct {
	Mounted bool   `json:"mounted"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Items   []E    `json:"items"`
}

// Render combines the lifecycle flags with a snapshot of the items.
func Render[E any](lifecycle *Lifecycle, items []E) State[E] {
	if items == nil {
		items = []E{}
	}

	lifecycle.mu.RLock()
	defer lifecycle.mu.RUnlock()

	return State[E]{
		Mounted: lifecycle.mounted,
		Loading: lifecycle.inflight > 0,
		Error:   lifecycle.message,
		Items:   items,
	}
}
