package status

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// block is the i3bar protocol JSON object a wrapper script injects into the
// i3status stream.
type block struct {
	FullText string `json:"full_text"`
	Color    string `json:"color"`
	Name     string `json:"name"`
	Instance string `json:"instance"`
}

// I3Bar writes the current state to a file as an i3bar JSON block so a
// status-bar wrapper can display it.
type I3Bar struct {
	path string
}

func NewI3Bar(path string) (*I3Bar, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	b := &I3Bar{path: path}
	if err := b.Update(NotStarted); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *I3Bar) Update(state State) error {
	var text, color string
	switch state {
	case Recording:
		text, color = "● Recording...", "#ff0000"
	case Processing:
		text, color = "◌ Processing...", "#ffa500"
	case Idle:
		text, color = "‖ Idle", "#888888"
	case NotStarted:
		text, color = "○ Not Started", "#666666"
	default:
		text, color = "", "#ffffff"
	}

	data, err := json.Marshal(block{
		FullText: text,
		Color:    color,
		Name:     "dicto",
		Instance: "dicto",
	})
	if err != nil {
		return err
	}
	return os.WriteFile(b.path, data, 0644)
}

// Teardown removes the status file so the bar stops showing a dead entry.
func (b *I3Bar) Teardown() error {
	err := os.Remove(b.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
