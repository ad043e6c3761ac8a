package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/leapview/internal/session"
)

// Run starts the UI and blocks until the user quits or ctx is cancelled.
// A catalog failure while running a statement ends the UI and is returned.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	m := New(ctx, sess, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
