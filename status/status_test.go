package status

import (
	"errors"
	"testing"
)

type recordingObserver struct {
	states []State
	err    error
	panics bool

	tornDown    bool
	teardownErr error
}

func (o *recordingObserver) Update(s State) error {
	o.states = append(o.states, s)
	if o.panics {
		panic("observer blew up")
	}
	return o.err
}

func (o *recordingObserver) Teardown() error {
	o.tornDown = true
	return o.teardownErr
}

func TestRegisterPushesCurrentState(t *testing.T) {
	hub := NewHub()
	a := &recordingObserver{}
	hub.Register(a)

	if len(a.states) != 1 || a.states[0] != NotStarted {
		t.Fatalf("initial push = %v, want [not_started]", a.states)
	}

	hub.Set(Processing)
	b := &recordingObserver{}
	hub.Register(b)
	if len(b.states) != 1 || b.states[0] != Processing {
		t.Errorf("late joiner got %v, want [processing]", b.states)
	}
}

func TestSetNotifiesInRegistrationOrder(t *testing.T) {
	hub := NewHub()
	var order []string
	hub.Register(observerFunc(func(State) error { order = append(order, "a"); return nil }))
	hub.Register(observerFunc(func(State) error { order = append(order, "b"); return nil }))
	order = nil

	hub.Set(Idle)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("notification order = %v", order)
	}
}

func TestFailingObserverDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	bad := &recordingObserver{err: errors.New("disk full")}
	good := &recordingObserver{}
	hub.Register(bad)
	hub.Register(good)

	for _, s := range []State{Idle, Recording, Processing, Idle} {
		hub.Set(s)
	}

	// The failing observer is skipped, never removed: both see every change.
	want := []State{NotStarted, Idle, Recording, Processing, Idle}
	for name, o := range map[string]*recordingObserver{"bad": bad, "good": good} {
		if len(o.states) != len(want) {
			t.Fatalf("%s observer saw %v, want %v", name, o.states, want)
		}
		for i := range want {
			if o.states[i] != want[i] {
				t.Errorf("%s observer state[%d] = %v, want %v", name, i, o.states[i], want[i])
			}
		}
	}
	if hub.Current() != Idle {
		t.Errorf("Current() = %v, want idle", hub.Current())
	}
}

func TestPanickingObserverIsContained(t *testing.T) {
	hub := NewHub()
	bad := &recordingObserver{panics: true}
	good := &recordingObserver{}
	hub.Register(bad)
	hub.Register(good)

	hub.Set(Recording)
	if got := good.states[len(good.states)-1]; got != Recording {
		t.Errorf("good observer last state = %v, want recording", got)
	}
	if hub.Current() != Recording {
		t.Errorf("panic rolled back state: %v", hub.Current())
	}
}

func TestShutdownIsolatesTeardownFailures(t *testing.T) {
	hub := NewHub()
	bad := &recordingObserver{teardownErr: errors.New("unlink failed")}
	good := &recordingObserver{}
	plain := observerFunc(func(State) error { return nil })
	hub.Register(bad)
	hub.Register(plain)
	hub.Register(good)

	hub.Shutdown()
	if !bad.tornDown || !good.tornDown {
		t.Errorf("teardown ran: bad=%v good=%v, want both", bad.tornDown, good.tornDown)
	}
}

type observerFunc func(State) error

func (f observerFunc) Update(s State) error { return f(s) }

func TestStateString(t *testing.T) {
	cases := map[State]string{
		NotStarted: "not_started",
		Idle:       "idle",
		Recording:  "recording",
		Processing: "processing",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
