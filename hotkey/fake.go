package hotkey

type FakeHook struct {
	events chan Event
}

func NewFake() *FakeHook {
	return &FakeHook{events: make(chan Event, 16)}
}

func (f *FakeHook) Start() (<-chan Event, error) { return f.events, nil }

func (f *FakeHook) Stop() { close(f.events) }

func (f *FakeHook) Press(key string)   { f.events <- Event{Key: key, Down: true} }
func (f *FakeHook) Release(key string) { f.events <- Event{Key: key, Down: false} }
