package main

import (
	"sync"
	"sync/atomic"
	"time"

	"dicto/audio"
	"dicto/log"
)

// chunkInterval is how much audio one Read pulls: 100ms worth of samples.
const chunkInterval = 10

type stopCause int

const (
	causeNone stopCause = iota
	causeStopped
	causeMaxDuration
	causeError
)

func (c stopCause) String() string {
	switch c {
	case causeStopped:
		return "stopped"
	case causeMaxDuration:
		return "max_duration"
	case causeError:
		return "error"
	default:
		return "none"
	}
}

// captureSession accumulates audio chunks on its own worker goroutine until
// stopped, the duration ceiling hits, or the stream fails. The worker is
// the buffer's only writer until Done closes; after that ownership passes
// to whoever joins.
type captureSession struct {
	stream     audio.Stream
	sampleRate int
	maxDur     time.Duration

	running atomic.Bool
	started time.Time
	done    chan struct{}

	mu        sync.Mutex
	chunks    [][]float32
	overflows int
	cause     stopCause
}

func newCaptureSession(stream audio.Stream, sampleRate int, maxDur time.Duration) *captureSession {
	return &captureSession{
		stream:     stream,
		sampleRate: sampleRate,
		maxDur:     maxDur,
		done:       make(chan struct{}),
	}
}

func (s *captureSession) Start() {
	s.started = time.Now()
	s.running.Store(true)
	go s.loop()
}

func (s *captureSession) loop() {
	defer close(s.done)
	frames := s.sampleRate / chunkInterval

	for s.running.Load() {
		// The ceiling is checked before each pull so an expired session
		// never asks the device for more audio.
		if time.Since(s.started) >= s.maxDur {
			log.Infof("maximum recording duration reached (%s)", s.maxDur)
			s.finish(causeMaxDuration)
			return
		}

		chunk, overflowed, err := s.stream.Read(frames)
		if err != nil {
			// A degraded partial capture is treated as no capture.
			log.Errorf("recording error: %v", err)
			s.mu.Lock()
			s.chunks = nil
			s.mu.Unlock()
			s.finish(causeError)
			return
		}

		s.mu.Lock()
		if overflowed {
			s.overflows++
		}
		if len(chunk) > 0 {
			s.chunks = append(s.chunks, chunk)
		}
		s.mu.Unlock()
	}
	s.finish(causeStopped)
}

func (s *captureSession) finish(c stopCause) {
	s.running.Store(false)
	s.mu.Lock()
	if s.cause == causeNone {
		s.cause = c
	}
	s.mu.Unlock()
}

// Stop requests a cooperative stop. Idempotent, safe from any goroutine;
// the loop notices at its next iteration boundary, so stopping completes
// within about one chunk interval.
func (s *captureSession) Stop() {
	s.running.Store(false)
}

// Done closes when the worker has exited.
func (s *captureSession) Done() <-chan struct{} {
	return s.done
}

func (s *captureSession) Cause() stopCause {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

func (s *captureSession) Overflows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflows
}

// FinalBuffer concatenates everything captured so far. Empty is a valid,
// non-error outcome.
func (s *captureSession) FinalBuffer() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, c := range s.chunks {
		total += len(c)
	}
	buf := make([]float32, 0, total)
	for _, c := range s.chunks {
		buf = append(buf, c...)
	}
	return buf
}
