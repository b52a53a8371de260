// Package netmon observes connectivity transitions. Handlers are notified
// on edges only (offline->online and online->offline), never on steady
// state, so the sync coordinator is triggered exactly once per reconnect.
package netmon

import (
	"log"
	"sync"
	"time"
)

// ProbeFunc reports current connectivity; nil means reachable.
type ProbeFunc func() error

// Monitor polls a connectivity probe and notifies subscribers on edge
// changes.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu      sync.Mutex
	online  bool
	nextID  int
	subs    map[int]func(online bool)
	stopped chan struct{}
	once    sync.Once
}

// New creates a monitor, initializing the online state from the probe's
// current result.
func New(probe ProbeFunc, interval time.Duration) *Monitor {
	m := &Monitor{
		probe:    probe,
		interval: interval,
		subs:     make(map[int]func(bool)),
		stopped:  make(chan struct{}),
	}
	m.online = probe() == nil
	return m
}

// Online returns the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnTransition registers a handler for connectivity edges. The returned
// function unsubscribes it.
func (m *Monitor) OnTransition(handler func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = handler
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Check probes once, fires transition handlers if the state flipped, and
// returns the new state.
func (m *Monitor) Check() bool {
	online := m.probe() == nil

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	var handlers []func(bool)
	if changed {
		handlers = make([]func(bool), 0, len(m.subs))
		for _, h := range m.subs {
			handlers = append(handlers, h)
		}
	}
	m.mu.Unlock()

	if changed {
		log.Printf("Connectivity changed: online=%v", online)
		for _, h := range handlers {
			h(online)
		}
	}
	return online
}

// Start polls the probe on the configured interval until Stop is called.
func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Check()
			case <-m.stopped:
				return
			}
		}
	}()
}

// Stop ends the polling loop. Safe to call more than once.
func (m *Monitor) Stop() {
	m.once.Do(func() {
		close(m.stopped)
	})
}
