package status

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	recordingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	processingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	idleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Console prints state transitions as styled one-liners. It replaces a
// richer UI: one line per transition, nothing interactive.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Update(state State) error {
	var line string
	switch state {
	case Recording:
		line = recordingStyle.Render("● recording (release hotkey to stop)")
	case Processing:
		line = processingStyle.Render("◌ processing...")
	case Idle:
		line = idleStyle.Render("‖ idle")
	default:
		return nil
	}
	_, err := fmt.Fprintln(c.out, line)
	return err
}
