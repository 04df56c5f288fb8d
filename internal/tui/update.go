package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
)

// homeEntries are the scenes reachable from the home menu, in order
var homeEntries = []Scene{SceneStandard, SceneAdvanced, SceneHelp}

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.standard.SetSize(msg.Width, msg.Height)
		m.advanced.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		m.help.ShowAll = m.currentScene == SceneHelp
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tuimsg.PlanRequestedMsg:
		return m, planCmd(m.calcEngine, msg)

	case tuimsg.PlanCompleteMsg:
		m.standard.SetPlan(msg)
		return m, nil

	case tuimsg.CompareRequestedMsg:
		return m, compareCmd(m.calcEngine, msg)

	case tuimsg.CompareCompleteMsg:
		m.advanced.SetResult(msg)
		return m, nil
	}

	return m, nil
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}

// handleKeyPress processes global shortcuts, then hands the key to the
// current scene.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Standard):
		return m, navigate(SceneStandard)
	case key.Matches(msg, m.keys.Advanced):
		return m, navigate(SceneAdvanced)
	case key.Matches(msg, m.keys.Help):
		return m, navigate(SceneHelp)
	case key.Matches(msg, m.keys.Back):
		if m.currentScene == SceneHome {
			return m, nil
		}
		if m.currentScene == SceneHelp && m.previousScene != SceneHelp {
			return m, navigate(m.previousScene)
		}
		return m, navigate(SceneHome)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates keys to the current scene's model
func (m Model) updateCurrentScene(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.homeCursor > 0 {
				m.homeCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.homeCursor < len(homeEntries)-1 {
				m.homeCursor++
			}
		case key.Matches(msg, m.keys.Select):
			cmd = navigate(homeEntries[m.homeCursor])
		}
	case SceneStandard:
		m.standard, cmd = m.standard.Update(msg)
	case SceneAdvanced:
		m.advanced, cmd = m.advanced.Update(msg)
	}
	return m, cmd
}
