package netmon_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openfra/fieldsync/internal/netmon"
)

// flakyProbe is a probe whose result can be flipped from the test
type flakyProbe struct {
	mu  sync.Mutex
	err error
}

func (p *flakyProbe) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *flakyProbe) probe() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func TestInitialStateFromProbe(t *testing.T) {
	up := &flakyProbe{}
	if !netmon.New(up.probe, time.Hour).Online() {
		t.Error("Expected online when probe succeeds at startup")
	}

	down := &flakyProbe{err: errors.New("no route")}
	if netmon.New(down.probe, time.Hour).Online() {
		t.Error("Expected offline when probe fails at startup")
	}
}

func TestTransitionsFireOnEdgesOnly(t *testing.T) {
	probe := &flakyProbe{err: errors.New("offline")}
	monitor := netmon.New(probe.probe, time.Hour)

	var mu sync.Mutex
	var events []bool
	monitor.OnTransition(func(online bool) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, online)
	})

	// Still offline: no edge
	monitor.Check()
	// Reconnect: one offline->online edge
	probe.set(nil)
	monitor.Check()
	// Still online: no edge
	monitor.Check()
	// Disconnect: one online->offline edge
	probe.set(errors.New("offline"))
	monitor.Check()

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("Expected exactly 2 transition events, got %d", len(events))
	}
	if events[0] != true || events[1] != false {
		t.Errorf("Expected [true false], got %v", events)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	probe := &flakyProbe{err: errors.New("offline")}
	monitor := netmon.New(probe.probe, time.Hour)

	count := 0
	unsubscribe := monitor.OnTransition(func(online bool) {
		count++
	})
	unsubscribe()

	probe.set(nil)
	monitor.Check()

	if count != 0 {
		t.Errorf("Expected no notifications after unsubscribe, got %d", count)
	}
	if !monitor.Online() {
		t.Error("Expected state to update even without subscribers")
	}
}
