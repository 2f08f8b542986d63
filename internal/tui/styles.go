package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/grocery/internal/toast"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

var toastColors = map[toast.Kind]lipgloss.Color{
	toast.Success: lipgloss.Color("42"),
	toast.Error:   lipgloss.Color("9"),
	toast.Info:    lipgloss.Color("12"),
	toast.Warning: lipgloss.Color("214"),
}

// toastStyle frames one toast; entering and hiding toasts render faint.
func toastStyle(k toast.Kind, phase toast.Phase) lipgloss.Style {
	c, ok := toastColors[k]
	if !ok {
		c = toastColors[toast.Info]
	}
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 1)
	if phase != toast.Visible {
		st = st.Faint(true)
	}
	return st
}

func toastIconStyle(k toast.Kind) lipgloss.Style {
	c, ok := toastColors[k]
	if !ok {
		c = toastColors[toast.Info]
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
