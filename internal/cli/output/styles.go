package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Key       lipgloss.Style
	TableName lipgloss.Style
	Column    lipgloss.Style
	Type      lipgloss.Style
}

// NewStyles builds the styles for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6")),
		SubHeader: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		Key:       r.NewStyle().Foreground(lipgloss.Color("#CBD5E1")).Bold(true),
		TableName: r.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true),
		Column:    r.NewStyle().Foreground(lipgloss.Color("#F8FAFC")),
		Type:      r.NewStyle().Foreground(lipgloss.Color("#BD93F9")),
	}
}
