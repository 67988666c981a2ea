// Package hotkey delivers discrete key-down/key-up edges for modifier keys
// from the OS keyboard hook.
package hotkey

// Event is one key edge. Key carries the side-specific name ("left ctrl",
// "right alt", ...); folding sides together is the consumer's job.
type Event struct {
	Key  string
	Down bool
}

type Hook interface {
	// Start installs the hook and returns the event channel. The channel
	// closes when the hook stops.
	Start() (<-chan Event, error)
	Stop()
}
