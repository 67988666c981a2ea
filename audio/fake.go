package audio

import (
	"sync"
	"time"
)

// FakeChunk scripts one Read result from a FakeStream.
type FakeChunk struct {
	Samples    []float32
	Overflowed bool
	Err        error
}

// FakeStream replays scripted chunks with a configurable pacing interval.
// Once the script runs out it keeps producing silence chunks of the
// requested size, like an open microphone, until closed.
type FakeStream struct {
	interval time.Duration

	mu     sync.Mutex
	script []FakeChunk
	reads  int

	closed    chan struct{}
	closeOnce sync.Once
}

func NewFakeStream(interval time.Duration, script ...FakeChunk) *FakeStream {
	return &FakeStream{
		interval: interval,
		script:   script,
		closed:   make(chan struct{}),
	}
}

// Silence builds a zero-valued chunk of n frames.
func Silence(n int) FakeChunk {
	return FakeChunk{Samples: make([]float32, n)}
}

// Reads reports how many Read calls the stream has served.
func (f *FakeStream) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *FakeStream) Read(n int) ([]float32, bool, error) {
	if f.interval > 0 {
		select {
		case <-time.After(f.interval):
		case <-f.closed:
			return nil, false, ErrClosed
		}
	} else {
		select {
		case <-f.closed:
			return nil, false, ErrClosed
		default:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.script) > 0 {
		chunk := f.script[0]
		f.script = f.script[1:]
		if chunk.Err != nil {
			return nil, false, chunk.Err
		}
		return chunk.Samples, chunk.Overflowed, nil
	}
	return make([]float32, n), false, nil
}

func (f *FakeStream) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// FakeContext hands out FakeStreams, one per OpenStream call.
type FakeContext struct {
	New func() *FakeStream

	mu     sync.Mutex
	opened []*FakeStream
}

func (c *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (c *FakeContext) OpenStream(_ *DeviceInfo, _ Config) (Stream, error) {
	s := c.New()
	c.mu.Lock()
	c.opened = append(c.opened, s)
	c.mu.Unlock()
	return s, nil
}

func (c *FakeContext) Close() {}

// Opened returns every stream handed out so far.
func (c *FakeContext) Opened() []*FakeStream {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*FakeStream, len(c.opened))
	copy(out, c.opened)
	return out
}
