// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate

import (
	"context"
	"maps"
	"sync"
)

// Memory is a process-local [Storage]. Its contents die with the process.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Load implements [Storage].
func (memory *Memory) Load(_ context.Context, keys ...string) (map[string]string, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	found := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := memory.entries[key]; ok {
			found[key] = value
		}
	}
	return found, nil
}

// Save implements [Storage].
func (memory *Memory) Save(_ context.Context, entries map[string]string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	maps.Copy(memory.entries, entries)
	return nil
}

// Delete implements [Storage].
func (memory *Memory) Delete(_ context.Context, keys ...string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, key := range keys {
		delete(memory.entries, key)
	}
	return nil
}

// Ping implements [Storage].
func (memory *Memory) Ping(context.Context) error { return nil }

// Close implements [Storage].
func (memory *Memory) Close() error { return nil }

// Snapshot returns a copy of every stored entry.
func (memory *Memory) Snapshot() map[string]string {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	return maps.Clone(memory.entries)
}
