// Package scenes implements the standard and advanced TUI screens
package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/tui/components"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

// sliderKeys are the bindings shared by every slider form
var sliderKeys = struct {
	Up, Down, Left, Right, Status key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
	Left:   key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/-", "decrease")),
	Right:  key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/+", "increase")),
	Status: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "filing status")),
}

// sliderForm is an ordered list of sliders with one focused entry
type sliderForm struct {
	sliders []*components.ParameterSlider
	focused int
}

func newSliderForm(sliders ...*components.ParameterSlider) sliderForm {
	f := sliderForm{sliders: sliders}
	if len(sliders) > 0 {
		sliders[0].SetFocused(true)
	}
	return f
}

func (f *sliderForm) focus(i int) {
	if i < 0 || i >= len(f.sliders) {
		return
	}
	f.sliders[f.focused].SetFocused(false)
	f.focused = i
	f.sliders[i].SetFocused(true)
}

// handle applies navigation and adjustment keys. changed reports whether
// a value moved, which is when callers recalculate.
func (f *sliderForm) handle(msg tea.KeyMsg) (handled, changed bool) {
	if len(f.sliders) == 0 {
		return false, false
	}
	s := f.sliders[f.focused]
	before := s.Value

	switch {
	case key.Matches(msg, sliderKeys.Up):
		f.focus(f.focused - 1)
	case key.Matches(msg, sliderKeys.Down):
		f.focus(f.focused + 1)
	case key.Matches(msg, sliderKeys.Left):
		s.Decrement()
	case key.Matches(msg, sliderKeys.Right):
		s.Increment()
	default:
		return false, false
	}
	return true, s.Value != before
}

func (f *sliderForm) view() string {
	lines := make([]string, len(f.sliders))
	for i, s := range f.sliders {
		lines[i] = s.RenderCompact()
	}
	return strings.Join(lines, "\n")
}

func sectionTitle(title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(title)
}

func mutedLine(s string) string {
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(s)
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
