// Package store persists the single "the user had an active wallet session
// last time" flag that drives silent reconnection across runs.
package store

import "sync"

// FlagStore is the persisted-flag contract consumed by the session
// controller. Get reports whether the flag is set; a missing key is false,
// not an error.
type FlagStore interface {
	Get() (bool, error)
	Set() error
	Clear() error
	Close() error
}

// Memory is an in-process FlagStore for tests and for hosts that opt out of
// persistence.
type Memory struct {
	mu  sync.Mutex
	set bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set, nil
}

func (m *Memory) Set() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = false
	return nil
}

func (m *Memory) Close() error {
	return nil
}
