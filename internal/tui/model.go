package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/rgehrsitz/taxgo/internal/tui/scenes"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
)

// keyMap holds the global bindings. It implements help.KeyMap for the
// status bar.
type keyMap struct {
	Standard key.Binding
	Advanced key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Standard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "standard")),
		Advanced: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "advanced")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Standard, k.Advanced, k.Help, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Standard, k.Advanced, k.Up, k.Down, k.Select},
		{k.Help, k.Back, k.Quit},
	}
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	calcEngine *calculation.CalculationEngine

	keys       keyMap
	help       help.Model
	homeCursor int

	standard *scenes.StandardModel
	advanced *scenes.AdvancedModel

	err error
}

// NewModel creates the application model. scenario seeds both scenes and
// may be nil. The advanced scene starts from the same effective profile as
// `taxgo compare`, with itemized and trading sections folded in.
func NewModel(engine *calculation.CalculationEngine, scenario *domain.Scenario) Model {
	seed := domain.Scenario{State: "texas"}
	if scenario != nil {
		seed = *scenario
	}
	plannerSeed, _ := seed.PlannerInput()
	if seed.Planner == nil {
		plannerSeed.FilingStatus = seed.Profile.FilingStatus
	}
	seed.Profile, _ = engine.ScenarioProfile(seed)

	return Model{
		currentScene: SceneHome,
		calcEngine:   engine,
		keys:         defaultKeyMap(),
		help:         help.New(),
		width:        100,
		height:       30,
		standard:     scenes.NewStandardModel(plannerSeed),
		advanced:     scenes.NewAdvancedModel(seed, engine.Rules.StateKeys(), compare.MaxDeferral(engine.Rules)),
	}
}

// Init runs the first calculation for both scenes
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.standard.Request(), m.requestCompare())
}

func (m Model) requestCompare() tea.Cmd {
	req := m.advanced.Request()
	return func() tea.Msg { return req }
}

// planCmd runs the planner off the update loop
func planCmd(engine *calculation.CalculationEngine, req tuimsg.PlanRequestedMsg) tea.Cmd {
	return func() tea.Msg {
		plan, err := planner.NewPlanner(engine).Plan(context.Background(), req.Input)
		return tuimsg.PlanCompleteMsg{Seq: req.Seq, Plan: plan, Err: err}
	}
}

// compareCmd runs the comparison and the state estimate on both the
// baseline and optimized bases.
func compareCmd(engine *calculation.CalculationEngine, req tuimsg.CompareRequestedMsg) tea.Cmd {
	return func() tea.Msg {
		cs, err := compare.NewCompareEngine(engine).Compare(context.Background(), req.Profile, req.Elections)
		if err != nil {
			return tuimsg.CompareCompleteMsg{Seq: req.Seq, Err: err}
		}
		if req.State == "" {
			return tuimsg.CompareCompleteMsg{Seq: req.Seq, Result: cs}
		}

		rate := decimal.NewFromFloat(req.CustomStateRate)
		status := req.Profile.FilingStatus
		base, err := engine.StateEstimate(calculation.StateTaxBase(cs.BaselineProfile, cs.Baseline), status, req.State, rate)
		if err != nil {
			return tuimsg.CompareCompleteMsg{Seq: req.Seq, Err: err}
		}
		opt, err := engine.StateEstimate(calculation.StateTaxBase(cs.OptimizedProfile, cs.Optimized), status, req.State, rate)
		if err != nil {
			return tuimsg.CompareCompleteMsg{Seq: req.Seq, Err: err}
		}
		return tuimsg.CompareCompleteMsg{Seq: req.Seq, Result: cs, BaselineState: base, OptimizedState: opt}
	}
}
