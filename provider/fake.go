package provider

import (
	"context"
	"sync"
)

// Fake is a scriptable provider that records every call, for tests that
// need to count invocations or simulate failures.
type Fake struct {
	mu       sync.Mutex
	outcome  Outcome
	calls    int
	lastPath string
}

func NewFake(outcome Outcome) *Fake {
	return &Fake{outcome: outcome}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Transcribe(_ context.Context, audioPath string) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPath = audioPath
	return f.outcome
}

func (f *Fake) Cleanup() {}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}
