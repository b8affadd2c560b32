package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
	"github.com/anthropics/tg-awaybot/internal/biz/repo"
)

// StateManager owns the single authoritative copy of the mutable bot state.
// All mutations, from chat commands and from the HTTP control plane alike,
// go through Mutate; dispatch evaluations run under Evaluate so a message
// observes a consistent view of all four aggregates. One lock is enough at
// this throughput.
type StateManager struct {
	mu        sync.Mutex
	state     *domain.State
	store     repo.StateRepo
	startTime time.Time
}

// NewStateManager hydrates the state from the store.
// A load failure is logged and the bot starts from empty defaults.
func NewStateManager(ctx context.Context, store repo.StateRepo) *StateManager {
	state, err := store.Load(ctx)
	if err != nil {
		log.Printf("[State] Load failed, starting fresh: %v", err)
		state = nil
	}
	if state == nil {
		state = domain.NewState()
	}
	return &StateManager{
		state:     state,
		store:     store,
		startTime: time.Now(),
	}
}

// StartTime returns the process start time, used for uptime reporting
func (m *StateManager) StartTime() time.Time {
	return m.startTime
}

// Snapshot returns a deep copy of the current state
func (m *StateManager) Snapshot() *domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Mutate applies fn to the state under the lock and persists the result.
// When fn returns an error nothing is persisted and the error is returned.
// A persistence failure is logged; the in-memory state stays authoritative
// and the next mutation writes the full record again.
func (m *StateManager) Mutate(ctx context.Context, fn func(s *domain.State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := fn(m.state); err != nil {
		return err
	}
	m.persistLocked(ctx)
	return nil
}

// Evaluate runs fn with the live state under the lock. fn reports whether
// it changed the state; a change is persisted before the lock is released.
func (m *StateManager) Evaluate(ctx context.Context, fn func(s *domain.State) (changed bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn(m.state) {
		m.persistLocked(ctx)
	}
}

func (m *StateManager) persistLocked(ctx context.Context) {
	if err := m.store.Save(ctx, m.state); err != nil {
		log.Printf("[State] Save failed (state kept in memory): %v", err)
	}
}
