package tui

import (
	"slices"
	"strings"
	"time"
)

// maxLogEntries bounds the log pane's memory.
const maxLogEntries = 500

type logLevel int

const (
	logInfo logLevel = iota
	logError
)

type logEntry struct {
	at    time.Time
	level logLevel
	text  string
}

// logPane lists notifications, newest last. Errors are drawn in red.
type logPane struct {
	entries []logEntry
	now     func() time.Time
}

func newLogPane() logPane {
	return logPane{now: time.Now}
}

func (l *logPane) append(level logLevel, text string) {
	l.entries = append(l.entries, logEntry{at: l.now(), level: level, text: text})
	if len(l.entries) > maxLogEntries {
		l.entries = slices.Clone(l.entries[len(l.entries)-maxLogEntries:])
	}
}

func (l *logPane) info(text string) {
	l.append(logInfo, text)
}

func (l *logPane) error(text string) {
	l.append(logError, text)
}

func (l *logPane) errorCount() int {
	n := 0
	for _, e := range l.entries {
		if e.level == logError {
			n++
		}
	}
	return n
}

// View renders the last height entries.
func (l *logPane) View(width, height int) string {
	if len(l.entries) == 0 {
		return mutedStyle.Render("No messages.")
	}

	start := 0
	if height > 0 && len(l.entries) > height {
		start = len(l.entries) - height
	}

	lines := make([]string, 0, len(l.entries)-start)
	for _, e := range l.entries[start:] {
		stamp := mutedStyle.Render(e.at.Format(time.TimeOnly))
		// engine messages may span lines; the pane shows one line each
		text := truncate(strings.ReplaceAll(e.text, "\n", " "), width-len(time.TimeOnly)-1)
		if e.level == logError {
			text = errorStyle.Render(text)
		}
		lines = append(lines, stamp+" "+text)
	}
	return strings.Join(lines, "\n")
}
