// Package status tracks the application state and pushes every change to
// registered observers.
package status

import (
	"fmt"
	"sync"

	"dicto/log"
)

// State is the application state. Exactly one value is live at a time,
// mutated only through Hub.Set.
type State int

const (
	NotStarted State = iota
	Idle
	Recording
	Processing
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Processing:
		return "processing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Observer receives state changes. Anything exposing Update qualifies;
// implement Teardowner as well to get a shutdown hook.
type Observer interface {
	Update(State) error
}

// Teardowner is the optional cleanup side of an Observer.
type Teardowner interface {
	Teardown() error
}

// Hub broadcasts State to observers in registration order. A failing
// observer is logged and skipped; it never blocks the others and never
// rolls back the state change.
type Hub struct {
	mu        sync.Mutex
	state     State
	observers []Observer
}

func NewHub() *Hub {
	return &Hub{state: NotStarted}
}

// Register adds an observer and immediately pushes the current state to it,
// so late joiners don't sit on a stale default.
func (h *Hub) Register(o Observer) {
	h.mu.Lock()
	h.observers = append(h.observers, o)
	state := h.state
	h.mu.Unlock()
	notify(o, state)
}

// Set updates the state and notifies every observer.
func (h *Hub) Set(state State) {
	h.mu.Lock()
	h.state = state
	observers := make([]Observer, len(h.observers))
	copy(observers, h.observers)
	h.mu.Unlock()

	for _, o := range observers {
		notify(o, state)
	}
}

// Current returns the held state.
func (h *Hub) Current() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Shutdown runs each observer's teardown hook, isolating failures the same
// way Set does.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	observers := make([]Observer, len(h.observers))
	copy(observers, h.observers)
	h.mu.Unlock()

	for _, o := range observers {
		td, ok := o.(Teardowner)
		if !ok {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Warnf("observer teardown panic: %v", r)
				}
			}()
			if err := td.Teardown(); err != nil {
				log.Warnf("observer teardown: %v", err)
			}
		}()
	}
}

func notify(o Observer, state State) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("observer panic on %s: %v", state, r)
		}
	}()
	if err := o.Update(state); err != nil {
		log.Warnf("observer update on %s: %v", state, err)
	}
}
