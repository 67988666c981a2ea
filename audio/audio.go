// Package audio provides microphone capture as a pull-based stream of mono
// float32 samples.
package audio

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Read once a stream has been closed and drained.
var ErrClosed = errors.New("audio: stream closed")

type Config struct {
	SampleRate int
	Channels   int
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	// OpenStream starts capturing from the device (nil means system
	// default). The caller owns the stream and must Close it.
	OpenStream(device *DeviceInfo, config Config) (Stream, error)
	Close()
}

type Stream interface {
	// Read blocks until n frames are available, returning the chunk and
	// whether the backend dropped audio since the previous read. A chunk
	// read around an overflow is degraded, not dropped.
	Read(n int) ([]float32, bool, error)
	Close() error
}

// pullBuffer adapts a callback-push backend to the pull Read contract.
// The backend pushes blocks; a single reader pulls fixed-size chunks.
// When the reader falls behind, blocks are dropped and the overflow flag
// is raised for the next read.
type pullBuffer struct {
	ch        chan []float32
	overflow  atomic.Bool
	closed    chan struct{}
	closeOnce sync.Once
	pending   []float32
}

func newPullBuffer() *pullBuffer {
	return &pullBuffer{
		ch:     make(chan []float32, 64),
		closed: make(chan struct{}),
	}
}

func (b *pullBuffer) push(samples []float32) {
	select {
	case b.ch <- samples:
	default:
		b.overflow.Store(true)
	}
}

func (b *pullBuffer) read(n int) ([]float32, bool, error) {
	out := make([]float32, 0, n)
	for len(out) < n {
		if len(b.pending) > 0 {
			take := n - len(out)
			if take > len(b.pending) {
				take = len(b.pending)
			}
			out = append(out, b.pending[:take]...)
			b.pending = b.pending[take:]
			continue
		}
		select {
		case block := <-b.ch:
			b.pending = block
		case <-b.closed:
			// Drain blocks queued before the close.
			select {
			case block := <-b.ch:
				b.pending = block
				continue
			default:
			}
			if len(out) > 0 {
				return out, b.overflow.Swap(false), nil
			}
			return nil, false, ErrClosed
		}
	}
	return out, b.overflow.Swap(false), nil
}

func (b *pullBuffer) close() {
	b.closeOnce.Do(func() { close(b.closed) })
}
