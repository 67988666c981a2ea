// Package clipboard puts transcribed text on the system clipboard.
package clipboard

import cb "github.com/atotto/clipboard"

// Copy replaces the clipboard contents with text, ready for the paste
// keystroke that follows it.
func Copy(text string) error {
	return cb.WriteAll(text)
}
