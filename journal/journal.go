// Package journal persists successful transcriptions to an append-only JSON
// array file.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Entry struct {
	Timestamp     string `json:"timestamp"`
	Transcription string `json:"transcription"`
}

// EnsureFile initializes the journal with an empty array if it is absent.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte("[]"), 0644)
}

// Append adds one entry, stamped now, using read-modify-write so the file
// stays a single well-formed JSON array.
func Append(path, text string) error {
	entries, err := Read(path)
	if err != nil {
		return err
	}

	entries = append(entries, Entry{
		Timestamp:     time.Now().Format(time.RFC3339),
		Transcription: text,
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read loads all entries; an absent file reads as empty.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("journal parse: %w", err)
	}
	return entries, nil
}
