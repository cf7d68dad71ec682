package monitor

import (
	"fmt"
	"io"
	"os"
)

// CLIMonitor implements the Monitor interface, providing a direct
// terminal-based visualization of the conversation, including any
// captured chain-of-thought content.
type CLIMonitor struct {
	writer io.Writer // The output destination, typically os.Stdout.
}

// NewCLIMonitor creates a new CLI monitor
func NewCLIMonitor() *CLIMonitor {
	return &CLIMonitor{
		writer: os.Stdout,
	}
}

// Start starts the CLI monitor
func (m *CLIMonitor) Start() error {
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	fmt.Fprintln(m.writer, "💬 CLI Monitor Active - Conversation and thoughts will appear here")
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	return nil
}

// Stop stops the CLI monitor
func (m *CLIMonitor) Stop() error {
	return nil
}

// OnMessage receives and displays a monitoring message
func (m *CLIMonitor) OnMessage(msg MonitorMessage) {
	timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")

	switch msg.MessageType {
	case TypeThought:
		// Thoughts rendered entirely in gray to separate them from answers
		fmt.Fprintf(m.writer, "\033[90m[%s] [THINKING] %s\033[0m\n", timestamp, msg.Content)
	case TypeAssistant:
		fmt.Fprintf(m.writer, "\033[90m[%s]\033[0m [AI] %s\n", timestamp, msg.Content)
	default:
		fmt.Fprintf(m.writer, "\033[90m[%s]\033[0m [%s] %s\n", timestamp, msg.Username, msg.Content)
	}
}
