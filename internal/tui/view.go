package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = m.renderError()
	case m.currentScene == SceneHome:
		content = m.renderHome()
	case m.currentScene == SceneStandard:
		content = m.standard.View()
	case m.currentScene == SceneAdvanced:
		content = m.advanced.View()
	case m.currentScene == SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4 // title (2) + status (1) + padding (1)
	if contentHeight < 1 {
		contentHeight = 1
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render(fmt.Sprintf("TaxGo - %d Tax Estimator", m.calcEngine.Rules.Year))
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(m.currentScene.String()))
}

func (m Model) renderStatusBar() string {
	return tuistyles.StatusBarStyle.Width(m.width).Render(m.help.View(m.keys))
}

func (m Model) renderError() string {
	return tuistyles.ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
}

func (m Model) renderHome() string {
	descriptions := map[Scene]string{
		SceneStandard: "HSA, credits and Traditional vs. Roth for a household",
		SceneAdvanced: "Loss harvesting, charitable and deferral strategies with state tax",
		SceneHelp:     "Keyboard shortcuts",
	}

	var b strings.Builder
	b.WriteString("Choose a planner:\n\n")
	for i, s := range homeEntries {
		line := fmt.Sprintf("%-20s %s", s.String(), descriptions[s])
		if i == m.homeCursor {
			b.WriteString(tuistyles.SelectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHelp() string {
	helpText := `KEYBOARD SHORTCUTS

Global:
  1        Standard planner
  2        Advanced strategy
  ?        This help
  esc      Back
  q        Quit

Planner screens:
  ↑/↓ k/j  Select a slider
  ←/→ h/l  Adjust the selected slider (+/- also work)
  m        Toggle filing status (Single / Married Filing Jointly)
  e        Toggle HSA eligibility (standard)
  tab      Next state (advanced; shift+tab for previous)

Figures recalculate on every change. State tax is estimated on taxable
ordinary income plus long-term gains.`

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.BorderStyle.Render(helpText),
		"",
		m.help.View(m.keys),
	)
}
