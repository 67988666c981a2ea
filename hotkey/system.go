package hotkey

import (
	"runtime"
	"sync"

	hook "github.com/robotn/gohook"
)

// Raw keycodes for modifier keys, per platform. Linux rawcodes are X11
// keysyms, Windows rawcodes are virtual-key codes, darwin rawcodes come
// from the Carbon event tap.
var modifierNames = map[string]map[uint16]string{
	"linux": {
		65507: "left ctrl", 65508: "right ctrl",
		65513: "left alt", 65514: "right alt",
		65505: "left shift", 65506: "right shift",
		65515: "left super", 65516: "right super",
	},
	"windows": {
		162: "left ctrl", 163: "right ctrl",
		164: "left alt", 165: "right alt",
		160: "left shift", 161: "right shift",
		91: "left super", 92: "right super",
	},
	"darwin": {
		59: "left ctrl", 62: "right ctrl",
		58: "left alt", 61: "right alt",
		56: "left shift", 60: "right shift",
		55: "left super", 54: "right super",
	},
}

// SystemHook adapts the global gohook keyboard tap to the Hook contract,
// forwarding only modifier edges.
type SystemHook struct {
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

func NewSystem() *SystemHook {
	return &SystemHook{
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

func (h *SystemHook) Start() (<-chan Event, error) {
	names := modifierNames[runtime.GOOS]
	if names == nil {
		names = modifierNames["linux"]
	}

	raw := hook.Start()
	go func() {
		defer close(h.events)
		for {
			select {
			case <-h.done:
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				name, isModifier := names[ev.Rawcode]
				if !isModifier {
					continue
				}
				switch ev.Kind {
				case hook.KeyDown, hook.KeyHold:
					h.forward(Event{Key: name, Down: true})
				case hook.KeyUp:
					h.forward(Event{Key: name, Down: false})
				}
			}
		}
	}()
	return h.events, nil
}

func (h *SystemHook) forward(ev Event) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

func (h *SystemHook) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		hook.End()
	})
}
