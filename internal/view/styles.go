package view

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	scoreHighStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	scoreMediumStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	scoreNeutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	symbolStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	symbolWlStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")) // orange for watched
	callStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	putStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	colHeaderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	tagStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	emptyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	sparkStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statusUpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusDownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	highlightBG       = lipgloss.Color("236") // dark grey background for the selected row
)

// hlStyle returns a copy of s with the highlight background applied when hl
// is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

// scoreStyle maps a severity bucket to its style.
func scoreStyle(s Severity) lipgloss.Style {
	switch s {
	case SeverityHigh:
		return scoreHighStyle
	case SeverityMedium:
		return scoreMediumStyle
	default:
		return scoreNeutralStyle
	}
}

// optStyle colors the CALL/PUT label.
func optStyle(label string) lipgloss.Style {
	if label == "PUT" {
		return putStyle
	}
	return callStyle
}

// statusStyle colors a monitor status by whether it still reads healthy.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "Strong", "Monitor":
		return statusUpStyle
	case "High Risk", "Exit Zone":
		return statusDownStyle
	default:
		return dimStyle
	}
}

// Notice renders the non-populated panel states in their own styles so
// loading, error, and empty are never mistaken for one another.
func Notice(state PanelState) string {
	switch state {
	case PanelError:
		return errorStyle.Render("  " + state.Notice())
	case PanelEmpty:
		return emptyStyle.Render("  " + state.Notice())
	default:
		return dimStyle.Render("  " + state.Notice())
	}
}
