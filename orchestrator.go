package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dicto/audio"
	"dicto/config"
	"dicto/encoder"
	"dicto/hotkey"
	"dicto/journal"
	"dicto/log"
	"dicto/provider"
	"dicto/status"
	"dicto/vocab"
)

const defaultJoinTimeout = 2 * time.Second

// collaborators are everything the orchestrator drives but does not own
// the logic of. All injectable for tests.
type collaborators struct {
	hub        *status.Hub
	openStream func() (audio.Stream, error)
	provider   provider.Provider
	enc        encoder.Encoder
	table      vocab.Table
	deliver    func(text string) error
}

// orchestrator is the state machine. It reacts to hotkey edges, owns at
// most one captureSession, and runs the post-capture pipeline. Every state
// mutation happens on the run goroutine; the capture worker is the only
// other concurrent actor.
type orchestrator struct {
	cfg config.Config
	collaborators

	modifiers [2]string
	modDown   [2]bool

	// joinTimeout bounds how long finishSession waits for the capture
	// worker before proceeding with the partial buffer.
	joinTimeout time.Duration

	sess   *captureSession
	stream audio.Stream
}

func newOrchestrator(cfg config.Config, c collaborators) *orchestrator {
	return &orchestrator{
		cfg:           cfg,
		collaborators: c,
		modifiers:     cfg.Modifiers,
		joinTimeout:   defaultJoinTimeout,
	}
}

// run consumes hotkey edges until the channel closes. Selecting on the
// session's Done channel is what lets a max-duration self-stop advance the
// state machine without operator action.
func (o *orchestrator) run(events <-chan hotkey.Event) {
	o.hub.Set(status.Idle)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			o.handleKey(ev)
		case <-o.sessionDone():
			o.finishSession()
		}
	}
}

// sessionDone returns nil (never ready) when no session is active.
func (o *orchestrator) sessionDone() <-chan struct{} {
	if o.sess == nil {
		return nil
	}
	return o.sess.Done()
}

// normalizeModifier folds left/right variants into the plain name.
func normalizeModifier(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.TrimPrefix(key, "left ")
	key = strings.TrimPrefix(key, "right ")
	return key
}

func (o *orchestrator) handleKey(ev hotkey.Event) {
	name := normalizeModifier(ev.Key)
	idx := -1
	switch name {
	case o.modifiers[0]:
		idx = 0
	case o.modifiers[1]:
		idx = 1
	default:
		return
	}

	if ev.Down {
		o.modDown[idx] = true
		// Recording starts only from idle with both modifiers held.
		if o.modDown[0] && o.modDown[1] && o.sess == nil && o.hub.Current() == status.Idle {
			o.startRecording()
		}
	} else {
		o.modDown[idx] = false
		// Releasing either key ends the hold.
		if o.sess != nil && o.hub.Current() == status.Recording {
			o.finishSession()
		}
	}
}

func (o *orchestrator) startRecording() {
	stream, err := o.openStream()
	if err != nil {
		log.Errorf("failed to open capture stream: %v", err)
		return
	}
	o.stream = stream
	o.sess = newCaptureSession(stream, o.cfg.SampleRate, maxDuration(o.cfg))
	o.sess.Start()
	o.hub.Set(status.Recording)
	log.Info("recording started")
}

// finishSession stops the active session, runs the pipeline, and returns
// to idle. Reached from a hotkey release or from the session stopping
// itself (duration ceiling, capture error).
func (o *orchestrator) finishSession() {
	sess := o.sess
	if sess == nil {
		return
	}
	o.hub.Set(status.Processing)
	sess.Stop()

	// Bounded join: if the worker is wedged mid-read, proceed with
	// whatever buffer already exists instead of blocking the loop.
	select {
	case <-sess.Done():
	case <-time.After(o.joinTimeout):
		log.Warn("capture worker slow to stop, using partial buffer")
	}

	o.process(sess)

	if o.stream != nil {
		o.stream.Close()
		o.stream = nil
	}
	o.sess = nil
	o.hub.Set(status.Idle)
}

// process runs the post-capture pipeline. Every exit path cleans up the
// temp artifact, and nothing escapes into the event loop, panics included.
func (o *orchestrator) process(sess *captureSession) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("processing failure contained: %v", r)
		}
	}()

	start := time.Now()
	if n := sess.Overflows(); n > 0 {
		log.Warnf("audio buffer overflow on %d chunks", n)
	}

	buf := sess.FinalBuffer()
	if len(buf) == 0 {
		log.Warn("no audio data recorded")
		return
	}

	// Duration comes from the sample count, not wall clock.
	duration := float64(len(buf)) / float64(o.cfg.SampleRate)
	if duration < o.cfg.MinRecordingSeconds {
		log.Warnf("recording too short (%.2fs), minimum is %.1fs, skipping transcription",
			duration, o.cfg.MinRecordingSeconds)
		return
	}

	path := o.tempPath()
	if err := o.enc.Encode(path, buf, o.cfg.SampleRate); err != nil {
		log.Errorf("failed to save audio: %v", err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warnf("failed to delete temp file: %v", err)
		}
	}()

	out := o.provider.Transcribe(context.Background(), path)
	outcome := out.Category.String()
	defer func() {
		log.SessionSummary(duration, sess.Overflows(), o.provider.Name(), outcome,
			float64(time.Since(start).Milliseconds()))
	}()

	if !out.HasText() {
		log.Errorf("transcription failed: %s (%s)", out.Category, out.Detail)
		return
	}

	text := o.table.Correct(out.Text)
	log.Infof("transcription: %s", text)

	if err := o.deliver(text); err != nil {
		log.Warnf("text copied but paste failed: %v", err)
	}
	if err := journal.Append(o.cfg.RecordingsFile, text); err != nil {
		log.Warnf("failed to save transcription: %v", err)
	}
}

func (o *orchestrator) tempPath() string {
	now := time.Now()
	stamp := fmt.Sprintf("%s_%06d", now.Format("20060102_150405"), now.Nanosecond()/1000)
	return filepath.Join(o.cfg.TempDir, o.cfg.TempFilePrefix+stamp+"."+o.enc.Ext())
}

func maxDuration(cfg config.Config) time.Duration {
	return time.Duration(cfg.MaxRecordingMinutes * float64(time.Minute))
}
