package main

import (
	"errors"
	"testing"
	"time"

	"dicto/audio"
)

func waitDone(t *testing.T, s *captureSession) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("capture worker never finished")
	}
}

func waitReads(t *testing.T, stream *audio.FakeStream, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for stream.Reads() < n {
		if time.Now().After(deadline) {
			t.Fatalf("stream served %d reads, wanted at least %d", stream.Reads(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSessionAccumulatesChunks(t *testing.T) {
	stream := audio.NewFakeStream(time.Millisecond,
		audio.FakeChunk{Samples: []float32{0.1, 0.2}},
		audio.FakeChunk{Samples: []float32{0.3}},
		audio.FakeChunk{Samples: []float32{0.4, 0.5}},
	)
	sess := newCaptureSession(stream, 44100, time.Minute)
	sess.Start()
	waitReads(t, stream, 3)
	sess.Stop()
	waitDone(t, sess)

	if sess.Cause() != causeStopped {
		t.Errorf("Cause = %s, want stopped", sess.Cause())
	}
	buf := sess.FinalBuffer()
	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	if len(buf) < len(want) {
		t.Fatalf("buffer has %d samples, want at least %d", len(buf), len(want))
	}
	for i, w := range want {
		if buf[i] != w {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], w)
		}
	}
	// Anything past the script is microphone silence.
	for i := len(want); i < len(buf); i++ {
		if buf[i] != 0 {
			t.Errorf("buf[%d] = %v, want silence", i, buf[i])
			break
		}
	}
}

func TestSessionStopIsIdempotent(t *testing.T) {
	stream := audio.NewFakeStream(time.Millisecond)
	sess := newCaptureSession(stream, 44100, time.Minute)
	sess.Start()
	waitReads(t, stream, 1)

	sess.Stop()
	sess.Stop()
	sess.Stop()
	waitDone(t, sess)

	if sess.Cause() != causeStopped {
		t.Errorf("Cause = %s, want stopped", sess.Cause())
	}
}

func TestSessionMaxDurationStopsBeforePull(t *testing.T) {
	stream := audio.NewFakeStream(time.Millisecond)
	sess := newCaptureSession(stream, 44100, time.Nanosecond)
	sess.Start()
	waitDone(t, sess)

	if sess.Cause() != causeMaxDuration {
		t.Errorf("Cause = %s, want max_duration", sess.Cause())
	}
	// The ceiling fires before the pull, so the expired session never
	// touched the device.
	if stream.Reads() != 0 {
		t.Errorf("stream served %d reads after expiry", stream.Reads())
	}
	if len(sess.FinalBuffer()) != 0 {
		t.Errorf("buffer should be empty, got %d samples", len(sess.FinalBuffer()))
	}
}

func TestSessionMaxDurationKeepsCapturedAudio(t *testing.T) {
	stream := audio.NewFakeStream(2*time.Millisecond,
		audio.FakeChunk{Samples: []float32{0.9}},
	)
	sess := newCaptureSession(stream, 44100, 20*time.Millisecond)
	sess.Start()
	waitDone(t, sess)

	if sess.Cause() != causeMaxDuration {
		t.Errorf("Cause = %s, want max_duration", sess.Cause())
	}
	buf := sess.FinalBuffer()
	if len(buf) == 0 || buf[0] != 0.9 {
		t.Errorf("captured audio lost on expiry: %d samples", len(buf))
	}
}

func TestSessionErrorDiscardsBuffer(t *testing.T) {
	stream := audio.NewFakeStream(time.Millisecond,
		audio.FakeChunk{Samples: []float32{0.1, 0.2}},
		audio.FakeChunk{Err: errors.New("device unplugged")},
	)
	sess := newCaptureSession(stream, 44100, time.Minute)
	sess.Start()
	waitDone(t, sess)

	if sess.Cause() != causeError {
		t.Errorf("Cause = %s, want error", sess.Cause())
	}
	// A degraded partial capture is treated as no capture.
	if n := len(sess.FinalBuffer()); n != 0 {
		t.Errorf("buffer should be discarded, got %d samples", n)
	}
}

func TestSessionCountsOverflows(t *testing.T) {
	stream := audio.NewFakeStream(time.Millisecond,
		audio.FakeChunk{Samples: []float32{0.1}, Overflowed: true},
		audio.FakeChunk{Samples: []float32{0.2}},
		audio.FakeChunk{Samples: []float32{0.3}, Overflowed: true},
	)
	sess := newCaptureSession(stream, 44100, time.Minute)
	sess.Start()
	waitReads(t, stream, 3)
	sess.Stop()
	waitDone(t, sess)

	if sess.Overflows() != 2 {
		t.Errorf("Overflows = %d, want 2", sess.Overflows())
	}
	// Overflowed chunks are counted, not dropped.
	buf := sess.FinalBuffer()
	if len(buf) < 3 || buf[0] != 0.1 || buf[1] != 0.2 || buf[2] != 0.3 {
		t.Errorf("overflowed chunks missing from buffer: %v", buf[:min(3, len(buf))])
	}
}

func TestStopCauseString(t *testing.T) {
	cases := map[stopCause]string{
		causeNone:        "none",
		causeStopped:     "stopped",
		causeMaxDuration: "max_duration",
		causeError:       "error",
	}
	for c, want := range cases {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(c), c.String(), want)
		}
	}
}
